package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RedemptionStatus is the back-office processing state of a redemption request.
type RedemptionStatus string

const (
	RedemptionPending  RedemptionStatus = "PENDING"
	RedemptionApproved RedemptionStatus = "APPROVED"
	RedemptionRejected RedemptionStatus = "REJECTED"
	RedemptionPaid     RedemptionStatus = "PAID"
)

// IsValid reports whether s is one of the known redemption states.
func (s RedemptionStatus) IsValid() bool {
	switch s {
	case RedemptionPending, RedemptionApproved, RedemptionRejected, RedemptionPaid:
		return true
	}
	return false
}

// RedemptionMethod is the payout channel requested by the user.
type RedemptionMethod string

const (
	RedemptionMethodBank RedemptionMethod = "BANK"
	RedemptionMethodUPI  RedemptionMethod = "UPI"
)

// IsValid reports whether m is a supported payout method.
func (m RedemptionMethod) IsValid() bool {
	return m == RedemptionMethodBank || m == RedemptionMethodUPI
}

// RedemptionRequest records a user's request to cash out points. The points
// are debited from the wallet before the request is recorded, so a PENDING
// request always corresponds to an already-applied ledger debit.
type RedemptionRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Points    int                `bson:"points" json:"points"`
	Status    RedemptionStatus   `bson:"status" json:"status"`
	Method    RedemptionMethod   `bson:"method" json:"method"`
	PayoutRef string             `bson:"payoutRef,omitempty" json:"payoutRef,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
