package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionStatus is the review lifecycle state of a submission.
type SubmissionStatus string

const (
	SubmissionPending    SubmissionStatus = "PENDING"
	SubmissionProcessing SubmissionStatus = "PROCESSING"
	SubmissionAccepted   SubmissionStatus = "ACCEPTED"
	SubmissionRejected   SubmissionStatus = "REJECTED"
)

// IsTerminal reports whether no further transitions are expected from s.
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionAccepted || s == SubmissionRejected
}

// IsValid reports whether s is one of the known lifecycle states.
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionPending, SubmissionProcessing, SubmissionAccepted, SubmissionRejected:
		return true
	}
	return false
}

// Submission is one user-authored artifact review unit: an image plus a
// question/answer pair sent to the external reviewer for scoring.
// PointsAwarded stays 0 unless the submission is ACCEPTED.
type Submission struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID             primitive.ObjectID `bson:"userId" json:"userId"`
	ArtifactURL        string             `bson:"artifactUrl" json:"artifactUrl"`
	Question           string             `bson:"question" json:"question"`
	Answer             string             `bson:"answer" json:"answer"`
	EnglishQuestion    string             `bson:"englishQuestion,omitempty" json:"englishQuestion,omitempty"`
	EnglishAnswer      string             `bson:"englishAnswer,omitempty" json:"englishAnswer,omitempty"`
	Status             SubmissionStatus   `bson:"status" json:"status"`
	PointsAwarded      int                `bson:"pointsAwarded" json:"pointsAwarded"`
	WorkflowID         string             `bson:"n8nWorkflowId,omitempty" json:"n8nWorkflowId,omitempty"`
	RunID              string             `bson:"n8nRunId,omitempty" json:"n8nRunId,omitempty"`
	ReviewerNotes      string             `bson:"reviewerNotes,omitempty" json:"reviewerNotes,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Verdict is the external reviewer's decision for a submission.
type Verdict struct {
	Status        SubmissionStatus
	PointsAwarded int
	Notes         string
	WorkflowID    string
	RunID         string
}
