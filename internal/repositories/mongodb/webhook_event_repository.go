package mongodb

import (
	"context"
	"time"

	"github.com/picquest/rewards-backend/internal/models"
	"github.com/picquest/rewards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure WebhookEventRepository implements the interface
var _ repositories.WebhookEventRepository = (*WebhookEventRepository)(nil)

// WebhookEventRepository handles MongoDB operations for the webhook audit
// log. Records are write-once; redeliveries append new records.
type WebhookEventRepository struct {
	collection *mongo.Collection
}

// NewWebhookEventRepository creates a new WebhookEventRepository
func NewWebhookEventRepository(db *mongo.Database) *WebhookEventRepository {
	return &WebhookEventRepository{
		collection: db.Collection("webhook_events"),
	}
}

// Create inserts a new audit record
func (r *WebhookEventRepository) Create(ctx context.Context, event *models.WebhookEvent) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// FindBySubmissionID finds all recorded deliveries for a submission, newest first
func (r *WebhookEventRepository) FindBySubmissionID(ctx context.Context, submissionID string) ([]*models.WebhookEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"submissionId": submissionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.WebhookEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.WebhookEvent{}
	}
	return events, nil
}
