package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/picquest/rewards-backend/internal/models"
	"github.com/picquest/rewards-backend/internal/repositories"
	"github.com/picquest/rewards-backend/internal/validation"
	"github.com/picquest/rewards-backend/pkg/metrics"
	"github.com/picquest/rewards-backend/pkg/n8n"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure ReviewServiceImpl implements ReviewService
var _ ReviewService = (*ReviewServiceImpl)(nil)

// webhookSource tags audit records written by this callback path.
const webhookSource = "n8n"

// VerdictPayload is the schema of the reviewer's callback body.
type VerdictPayload struct {
	SubmissionID  string                  `json:"submissionId" validate:"required"`
	Status        models.SubmissionStatus `json:"status" validate:"required,oneof=PENDING PROCESSING ACCEPTED REJECTED"`
	PointsAwarded int                     `json:"pointsAwarded" validate:"gte=0"`
	Notes         string                  `json:"notes"`
	WorkflowID    string                  `json:"workflowId"`
	RunID         string                  `json:"n8nRunId"`
}

// ReviewServiceImpl bridges the external review workflow: it dispatches
// submissions outbound and reconciles the asynchronous verdict callback.
type ReviewServiceImpl struct {
	submissions     SubmissionService
	webhookRepo     repositories.WebhookEventRepository
	reviewer        n8n.Dispatcher
	submissionRepo  repositories.SubmissionRepository
	webhookSecret   string
	dispatchTimeout time.Duration
}

// NewReviewService creates a new ReviewServiceImpl
func NewReviewService(submissions SubmissionService, submissionRepo repositories.SubmissionRepository, webhookRepo repositories.WebhookEventRepository, reviewer n8n.Dispatcher, webhookSecret string, dispatchTimeout time.Duration) *ReviewServiceImpl {
	if dispatchTimeout <= 0 {
		dispatchTimeout = 15 * time.Second
	}
	return &ReviewServiceImpl{
		submissions:     submissions,
		submissionRepo:  submissionRepo,
		webhookRepo:     webhookRepo,
		reviewer:        reviewer,
		webhookSecret:   webhookSecret,
		dispatchTimeout: dispatchTimeout,
	}
}

// DispatchAsync sends the submission to the reviewer on a background
// goroutine with a bounded timeout. The caller never waits. A transport
// failure routes the submission to REJECTED through ApplyVerdict, the same
// conditional-update path the webhook uses, and is not retried.
func (s *ReviewServiceImpl) DispatchAsync(submission *models.Submission, expertise string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
		defer cancel()
		s.dispatch(ctx, submission, expertise)
	}()
}

func (s *ReviewServiceImpl) dispatch(ctx context.Context, submission *models.Submission, expertise string) {
	ack, err := s.reviewer.Dispatch(ctx, &n8n.DispatchRequest{
		SubmissionID:    submission.ID.Hex(),
		ArtifactURL:     submission.ArtifactURL,
		Question:        submission.Question,
		Answer:          submission.Answer,
		EnglishQuestion: submission.EnglishQuestion,
		EnglishAnswer:   submission.EnglishAnswer,
		UserID:          submission.UserID.Hex(),
		Expertise:       expertise,
	})
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrDependency, err)
		metrics.DispatchFailures.Inc()
		slog.Error("reviewer dispatch failed, rejecting submission",
			"submissionId", submission.ID.Hex(), "error", err)

		note := fmt.Sprintf("Automatic rejection: dispatch to reviewer failed: %v", err)
		if _, vErr := s.submissions.ApplyVerdict(ctx, submission.ID, models.Verdict{
			Status: models.SubmissionRejected,
			Notes:  note,
		}); vErr != nil {
			slog.Error("dispatch-failure fallback rejection failed",
				"submissionId", submission.ID.Hex(), "error", vErr)
		}
		return
	}

	if ack != nil && (ack.WorkflowID != "" || ack.RunID != "") {
		if err := s.submissionRepo.SetCorrelation(ctx, submission.ID, ack.WorkflowID, ack.RunID); err != nil {
			slog.Error("failed to persist workflow correlation ids",
				"submissionId", submission.ID.Hex(), "error", err)
		}
	}

	// The reviewer has the submission; mark it PROCESSING unless a verdict
	// already landed.
	if _, err := s.submissions.ApplyVerdict(ctx, submission.ID, models.Verdict{Status: models.SubmissionProcessing}); err != nil {
		slog.Error("failed to mark submission processing", "submissionId", submission.ID.Hex(), "error", err)
	}
	slog.Info("submission dispatched to reviewer", "submissionId", submission.ID.Hex())
}

// ReceiveVerdict handles the reviewer's signed callback. Signature
// verification happens over the raw body before anything else; only then is
// the payload parsed, the delivery recorded for audit, and the verdict
// applied. The audit record is written even when the verdict later turns out
// to be a duplicate or a conflict.
func (s *ReviewServiceImpl) ReceiveVerdict(ctx context.Context, rawBody []byte, signature string) (*models.Submission, error) {
	if err := s.verifySignature(rawBody, signature); err != nil {
		metrics.WebhookDeliveries.WithLabelValues("unauthorized").Inc()
		return nil, err
	}

	payload, verr := validation.ParseJSON[VerdictPayload](rawBody)
	if verr != nil {
		metrics.WebhookDeliveries.WithLabelValues("invalid").Inc()
		return nil, verr
	}

	submissionID, err := primitive.ObjectIDFromHex(payload.SubmissionID)
	if err != nil {
		metrics.WebhookDeliveries.WithLabelValues("invalid").Inc()
		return nil, &validation.Error{Fields: []validation.FieldError{{Field: "submissionId", Message: "must be a valid object id"}}}
	}

	event := &models.WebhookEvent{
		SubmissionID: payload.SubmissionID,
		Payload:      string(rawBody),
		Source:       webhookSource,
		Signature:    signature,
	}
	if err := s.webhookRepo.Create(ctx, event); err != nil {
		// Audit is mandatory; refusing here keeps replayability intact and
		// lets the reviewer redeliver.
		return nil, fmt.Errorf("failed to record webhook event: %w", err)
	}

	submission, err := s.submissions.ApplyVerdict(ctx, submissionID, models.Verdict{
		Status:        payload.Status,
		PointsAwarded: payload.PointsAwarded,
		Notes:         payload.Notes,
		WorkflowID:    payload.WorkflowID,
		RunID:         payload.RunID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrVerdictConflict):
			metrics.WebhookDeliveries.WithLabelValues("conflict").Inc()
		case errors.Is(err, ErrNotFound):
			metrics.WebhookDeliveries.WithLabelValues("invalid").Inc()
		}
		return nil, err
	}

	metrics.WebhookDeliveries.WithLabelValues("applied").Inc()
	return submission, nil
}

// verifySignature checks the hex HMAC-SHA256 of the raw body against the
// shared secret. An unconfigured secret fails closed.
func (s *ReviewServiceImpl) verifySignature(rawBody []byte, signature string) error {
	if s.webhookSecret == "" {
		slog.Warn("webhook secret is not configured, rejecting delivery")
		return ErrAuthentication
	}
	if signature == "" {
		return ErrAuthentication
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrAuthentication
	}
	return nil
}
