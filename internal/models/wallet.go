package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wallet holds the points balance for a user. One wallet per user, created
// lazily with balance 0. The balance is never mutated directly; every change
// goes through the ledger service which pairs it with a WalletTransaction.
type Wallet struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	PointsBalance int                `bson:"pointsBalance" json:"pointsBalance"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
