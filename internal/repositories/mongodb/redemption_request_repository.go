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

// Compile-time check to ensure RedemptionRequestRepository implements the interface
var _ repositories.RedemptionRequestRepository = (*RedemptionRequestRepository)(nil)

// RedemptionRequestRepository handles MongoDB operations for RedemptionRequest
type RedemptionRequestRepository struct {
	collection *mongo.Collection
}

// NewRedemptionRequestRepository creates a new RedemptionRequestRepository
func NewRedemptionRequestRepository(db *mongo.Database) *RedemptionRequestRepository {
	return &RedemptionRequestRepository{
		collection: db.Collection("redemption_requests"),
	}
}

// Create inserts a new redemption request
func (r *RedemptionRequestRepository) Create(ctx context.Context, req *models.RedemptionRequest) error {
	req.ID = primitive.NewObjectID()
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, req)
	return err
}

// FindByID finds a redemption request by ID
func (r *RedemptionRequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.RedemptionRequest, error) {
	var req models.RedemptionRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &req, nil
}

// FindByUserID finds a user's redemption requests, newest first
func (r *RedemptionRequestRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.RedemptionRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []*models.RedemptionRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*models.RedemptionRequest{}
	}
	return requests, nil
}

// UpdateStatus sets the back-office status and optional payout reference.
// The filter excludes requests already in the target status, so the status
// check and the write are one storage operation: concurrent identical
// updates match exactly once. Returns the request as it was before the
// update; mongo.ErrNoDocuments means the request is missing or another call
// already applied this status.
func (r *RedemptionRequestRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RedemptionStatus, payoutRef string) (*models.RedemptionRequest, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$ne": status},
	}
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}
	if payoutRef != "" {
		set["payoutRef"] = payoutRef
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var before models.RedemptionRequest
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&before)
	if err != nil {
		return nil, err
	}
	return &before, nil
}
