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

// Compile-time check to ensure BankDetailsRepository implements the interface
var _ repositories.BankDetailsRepository = (*BankDetailsRepository)(nil)

// BankDetailsRepository handles MongoDB operations for BankDetails
type BankDetailsRepository struct {
	collection *mongo.Collection
}

// NewBankDetailsRepository creates a new BankDetailsRepository
func NewBankDetailsRepository(db *mongo.Database) *BankDetailsRepository {
	return &BankDetailsRepository{
		collection: db.Collection("bank_details"),
	}
}

// FindByUserID finds the payout destination for a user
func (r *BankDetailsRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.BankDetails, error) {
	var details models.BankDetails
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&details)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &details, nil
}

// Upsert creates or replaces the payout destination for a user. There is at
// most one record per user, keyed on userId.
func (r *BankDetailsRepository) Upsert(ctx context.Context, details *models.BankDetails) error {
	filter := bson.M{"userId": details.UserID}
	set := bson.M{
		"accountHolder": details.AccountHolder,
		"ifsc":          details.IFSC,
		"upiId":         details.UPIID,
		"updatedAt":     time.Now(),
	}
	if details.AccountNumber != "" {
		set["accountNumber"] = details.AccountNumber
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"userId": details.UserID},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}
