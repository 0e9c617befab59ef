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

// Compile-time check to ensure WalletRepository implements the interface
var _ repositories.WalletRepository = (*WalletRepository)(nil)

// WalletRepository handles MongoDB operations for Wallet. All balance
// mutations are single-document conditional updates keyed on userId, which is
// what makes concurrent credits and debits safe without in-process locks.
type WalletRepository struct {
	collection *mongo.Collection
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(db *mongo.Database) *WalletRepository {
	return &WalletRepository{
		collection: db.Collection("wallets"),
	}
}

// FindByUserID finds a wallet by its owning user
func (r *WalletRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&wallet)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &wallet, nil
}

// EnsureExists upserts a zero-balance wallet for the user and returns it.
// An existing wallet is left untouched.
func (r *WalletRepository) EnsureExists(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	filter := bson.M{"userId": userID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"userId":        userID,
			"pointsBalance": 0,
			"createdAt":     time.Now(),
		},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var wallet models.Wallet
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&wallet)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// CreditAtomic increments the balance by amount in a single upsert. The
// wallet is created at balance 0 first if absent, so the returned balance is
// exactly amount for a fresh wallet.
func (r *WalletRepository) CreditAtomic(ctx context.Context, userID primitive.ObjectID, amount int) (*models.Wallet, error) {
	filter := bson.M{"userId": userID}
	update := bson.M{
		"$inc": bson.M{"pointsBalance": amount},
		"$set": bson.M{"updatedAt": time.Now()},
		"$setOnInsert": bson.M{
			"userId":    userID,
			"createdAt": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var wallet models.Wallet
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&wallet)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// DebitAtomic decrements the balance by amount. The filter carries the
// sufficient-balance guard, so the check and the decrement are one storage
// operation: two concurrent debits cannot both pass against a stale read.
// Returns mongo.ErrNoDocuments when the wallet is missing or short.
func (r *WalletRepository) DebitAtomic(ctx context.Context, userID primitive.ObjectID, amount int) (*models.Wallet, error) {
	filter := bson.M{
		"userId":        userID,
		"pointsBalance": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"pointsBalance": -amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var wallet models.Wallet
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&wallet)
	if err != nil {
		return nil, err // mongo.ErrNoDocuments means the balance guard failed
	}
	return &wallet, nil
}
