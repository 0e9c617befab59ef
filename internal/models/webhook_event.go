package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WebhookEvent is a write-once audit record of an inbound reviewer callback.
// Every verified delivery is recorded, including redeliveries that end up as
// no-ops on the ledger, so the raw payload history can be replayed.
type WebhookEvent struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SubmissionID string             `bson:"submissionId" json:"submissionId"`
	Payload      string             `bson:"payload" json:"payload"`
	Source       string             `bson:"source" json:"source"`
	Signature    string             `bson:"signature,omitempty" json:"signature,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
