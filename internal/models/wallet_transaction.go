package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WalletTransaction is an immutable ledger entry. Entries are append-only;
// the sum of all deltas for a wallet equals that wallet's current balance.
type WalletTransaction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	WalletID    primitive.ObjectID `bson:"walletId" json:"walletId"`
	DeltaPoints int                `bson:"deltaPoints" json:"deltaPoints"`
	Reason      string             `bson:"reason" json:"reason"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
