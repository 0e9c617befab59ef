package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/picquest/rewards-backend/internal/models"
	"github.com/picquest/rewards-backend/internal/repositories"
	"github.com/picquest/rewards-backend/internal/validation"
	"github.com/picquest/rewards-backend/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure SubmissionServiceImpl implements SubmissionService
var _ SubmissionService = (*SubmissionServiceImpl)(nil)

// SubmissionServiceImpl governs submission status transitions and the side
// effects each transition triggers. Every path into a terminal state, the
// webhook verdict and the dispatch-failure fallback alike, goes through
// ApplyVerdict so the at-most-once crediting guard is a single code path.
type SubmissionServiceImpl struct {
	submissionRepo repositories.SubmissionRepository
	walletRepo     repositories.WalletRepository
	ledger         LedgerService
	dispatcher     ReviewDispatcher
}

// NewSubmissionService creates a new SubmissionServiceImpl. The dispatcher
// is attached afterwards via SetDispatcher because the review service in
// turn needs this service for its verdict fallback.
func NewSubmissionService(submissionRepo repositories.SubmissionRepository, walletRepo repositories.WalletRepository, ledger LedgerService) *SubmissionServiceImpl {
	return &SubmissionServiceImpl{
		submissionRepo: submissionRepo,
		walletRepo:     walletRepo,
		ledger:         ledger,
	}
}

// SetDispatcher attaches the review dispatcher used after Create. A nil
// dispatcher leaves new submissions at PENDING, matching an unconfigured
// reviewer.
func (s *SubmissionServiceImpl) SetDispatcher(d ReviewDispatcher) {
	s.dispatcher = d
}

// Create validates the input, persists the submission at PENDING, makes sure
// the user's wallet exists, and hands the submission to the reviewer without
// waiting for it. A dispatch failure never rolls the submission back; the
// dispatcher's fallback moves it to REJECTED instead.
func (s *SubmissionServiceImpl) Create(ctx context.Context, user *models.User, input *CreateSubmissionInput) (*models.Submission, error) {
	if verr := validation.Struct(input); verr != nil {
		return nil, verr
	}

	submission := &models.Submission{
		UserID:          user.ID,
		ArtifactURL:     input.ArtifactURL,
		Question:        input.Question,
		Answer:          input.Answer,
		EnglishQuestion: input.EnglishQuestion,
		EnglishAnswer:   input.EnglishAnswer,
		Status:          models.SubmissionPending,
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	if _, err := s.walletRepo.EnsureExists(ctx, user.ID); err != nil {
		// The submission stands; the wallet will be upserted again on first credit.
		slog.Error("failed to ensure wallet for user", "userId", user.ID.Hex(), "error", err)
	}

	metrics.SubmissionsCreated.Inc()
	slog.Info("submission created", "submissionId", submission.ID.Hex(), "userId", user.ID.Hex())

	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(submission, user.Profile.Expertise)
	} else {
		slog.Warn("no review dispatcher configured, submission stays PENDING", "submissionId", submission.ID.Hex())
	}

	return submission, nil
}

// ApplyVerdict transitions a submission according to the reviewer's verdict.
// Transitions into a terminal state are guarded by an atomic conditional
// update on (id, current status); only the call that wins that update may
// credit the ledger, which is what makes redelivered verdicts at-most-once
// on the wallet. A duplicate of the recorded terminal status overwrites the
// reviewer notes and correlation ids and nothing else. A verdict whose
// terminal status conflicts with the recorded one is refused.
func (s *SubmissionServiceImpl) ApplyVerdict(ctx context.Context, id primitive.ObjectID, verdict models.Verdict) (*models.Submission, error) {
	if !verdict.Status.IsValid() {
		return nil, &validation.Error{Fields: []validation.FieldError{{Field: "status", Message: "unknown status"}}}
	}
	if verdict.PointsAwarded < 0 {
		return nil, &validation.Error{Fields: []validation.FieldError{{Field: "pointsAwarded", Message: "must be at least 0"}}}
	}
	// Points stay 0 unless the submission is accepted.
	if verdict.Status != models.SubmissionAccepted {
		verdict.PointsAwarded = 0
	}

	submission, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("submission %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}

	switch verdict.Status {
	case models.SubmissionAccepted, models.SubmissionRejected:
		if err := s.applyTerminal(ctx, submission, verdict); err != nil {
			return nil, err
		}
	case models.SubmissionProcessing:
		// Only meaningful from PENDING; anything later wins over it.
		if _, err := s.submissionRepo.TransitionStatus(ctx, id, []models.SubmissionStatus{models.SubmissionPending}, verdict); err != nil {
			return nil, fmt.Errorf("failed to mark submission processing: %w", err)
		}
	case models.SubmissionPending:
		// No transition to make; carry the reviewer metadata only.
		if err := s.submissionRepo.UpdateReviewMeta(ctx, id, verdict.Notes, verdict.WorkflowID, verdict.RunID); err != nil {
			return nil, fmt.Errorf("failed to update review metadata: %w", err)
		}
	}

	updated, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload submission: %w", err)
	}
	return updated, nil
}

// applyTerminal performs the guarded transition into ACCEPTED or REJECTED
// and, on a won transition into ACCEPTED with points, credits the wallet.
func (s *SubmissionServiceImpl) applyTerminal(ctx context.Context, submission *models.Submission, verdict models.Verdict) error {
	allowedFrom := []models.SubmissionStatus{models.SubmissionPending, models.SubmissionProcessing}
	won, err := s.submissionRepo.TransitionStatus(ctx, submission.ID, allowedFrom, verdict)
	if err != nil {
		return fmt.Errorf("failed to transition submission: %w", err)
	}

	if !won {
		// Already terminal. Re-read in case a concurrent delivery got there
		// between our load and the conditional update.
		current, err := s.submissionRepo.FindByID(ctx, submission.ID)
		if err != nil {
			return fmt.Errorf("failed to reload submission: %w", err)
		}
		if current.Status != verdict.Status {
			return fmt.Errorf("submission %s is %s: %w", submission.ID.Hex(), current.Status, ErrVerdictConflict)
		}
		// Duplicate redelivery: metadata only, never the ledger.
		slog.Info("duplicate verdict redelivery", "submissionId", submission.ID.Hex(), "status", verdict.Status)
		return s.submissionRepo.UpdateReviewMeta(ctx, submission.ID, verdict.Notes, verdict.WorkflowID, verdict.RunID)
	}

	slog.Info("submission transitioned",
		"submissionId", submission.ID.Hex(), "from", submission.Status, "to", verdict.Status, "points", verdict.PointsAwarded)

	if verdict.Status == models.SubmissionAccepted && verdict.PointsAwarded > 0 {
		reason := fmt.Sprintf("Submission %s accepted", submission.ID.Hex())
		if _, err := s.ledger.Credit(ctx, submission.UserID, verdict.PointsAwarded, reason); err != nil {
			// Put the submission back where it was so a redelivery retries
			// the whole transition instead of landing on the duplicate
			// branch with the credit missing.
			revert := models.Verdict{Status: submission.Status}
			if won, rbErr := s.submissionRepo.TransitionStatus(ctx, submission.ID, []models.SubmissionStatus{verdict.Status}, revert); rbErr != nil || !won {
				slog.Error("credit failed and status rollback failed",
					"submissionId", submission.ID.Hex(), "status", verdict.Status, "error", rbErr)
			}
			return fmt.Errorf("failed to credit accepted submission: %w", err)
		}
	}
	return nil
}

// GetByID loads a single submission
func (s *SubmissionServiceImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Submission, error) {
	submission, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("submission %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, err
	}
	return submission, nil
}

// ListForUser lists a user's most recent submissions
func (s *SubmissionServiceImpl) ListForUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.Submission, error) {
	return s.submissionRepo.FindByUserID(ctx, userID, limit)
}

// ListRecent lists the most recent submissions across all users
func (s *SubmissionServiceImpl) ListRecent(ctx context.Context, limit int) ([]*models.Submission, error) {
	return s.submissionRepo.FindRecent(ctx, limit)
}
