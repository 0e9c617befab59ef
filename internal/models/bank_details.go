package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BankDetails holds a user's payout destination. One record per user.
// AccountNumber is stored AES-GCM encrypted and only ever returned masked.
type BankDetails struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	AccountHolder string             `bson:"accountHolder,omitempty" json:"accountHolder,omitempty"`
	AccountNumber string             `bson:"accountNumber,omitempty" json:"-"`
	IFSC          string             `bson:"ifsc,omitempty" json:"ifsc,omitempty"`
	UPIID         string             `bson:"upiId,omitempty" json:"upiId,omitempty"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
