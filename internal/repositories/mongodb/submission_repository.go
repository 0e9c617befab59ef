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

// Compile-time check to ensure SubmissionRepository implements the interface
var _ repositories.SubmissionRepository = (*SubmissionRepository)(nil)

// SubmissionRepository handles MongoDB operations for Submission
type SubmissionRepository struct {
	collection *mongo.Collection
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{
		collection: db.Collection("submissions"),
	}
}

// Create inserts a new submission
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	submission.ID = primitive.NewObjectID()
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, submission)
	return err
}

// FindByID finds a submission by ID
func (r *SubmissionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Submission, error) {
	var submission models.Submission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&submission)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &submission, nil
}

// FindByUserID finds the most recent submissions for a user
func (r *SubmissionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.Submission, error) {
	return r.find(ctx, bson.M{"userId": userID}, limit)
}

// FindRecent finds the most recent submissions across all users
func (r *SubmissionRepository) FindRecent(ctx context.Context, limit int) ([]*models.Submission, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *SubmissionRepository) find(ctx context.Context, filter bson.M, limit int) ([]*models.Submission, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var submissions []*models.Submission
	if err = cursor.All(ctx, &submissions); err != nil {
		return nil, err
	}
	if submissions == nil {
		submissions = []*models.Submission{}
	}
	return submissions, nil
}

// TransitionStatus atomically moves a submission into the verdict's status,
// but only while its current status is one of allowedFrom. Two concurrent
// deliveries of the same verdict race on this filter; exactly one matches.
// Returns whether this call won the transition.
func (r *SubmissionRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, allowedFrom []models.SubmissionStatus, verdict models.Verdict) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": allowedFrom},
	}
	set := bson.M{
		"status":        verdict.Status,
		"pointsAwarded": verdict.PointsAwarded,
		"updatedAt":     time.Now(),
	}
	if verdict.Notes != "" {
		set["reviewerNotes"] = verdict.Notes
	}
	if verdict.WorkflowID != "" {
		set["n8nWorkflowId"] = verdict.WorkflowID
	}
	if verdict.RunID != "" {
		set["n8nRunId"] = verdict.RunID
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// UpdateReviewMeta overwrites reviewer notes and correlation ids without
// touching the status. Used for duplicate verdict redeliveries.
func (r *SubmissionRepository) UpdateReviewMeta(ctx context.Context, id primitive.ObjectID, notes, workflowID, runID string) error {
	set := bson.M{"updatedAt": time.Now()}
	if notes != "" {
		set["reviewerNotes"] = notes
	}
	if workflowID != "" {
		set["n8nWorkflowId"] = workflowID
	}
	if runID != "" {
		set["n8nRunId"] = runID
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetCorrelation persists the workflow correlation ids returned by the
// reviewer's dispatch acknowledgement
func (r *SubmissionRepository) SetCorrelation(ctx context.Context, id primitive.ObjectID, workflowID, runID string) error {
	set := bson.M{"updatedAt": time.Now()}
	if workflowID != "" {
		set["n8nWorkflowId"] = workflowID
	}
	if runID != "" {
		set["n8nRunId"] = runID
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}
