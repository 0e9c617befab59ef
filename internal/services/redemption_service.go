package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/picquest/rewards-backend/internal/models"
	"github.com/picquest/rewards-backend/internal/repositories"
	"github.com/picquest/rewards-backend/internal/validation"
	"github.com/picquest/rewards-backend/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure RedemptionServiceImpl implements RedemptionService
var _ RedemptionService = (*RedemptionServiceImpl)(nil)

const redemptionReason = "Redemption request"

// RedemptionServiceImpl debits the ledger first and records the redemption
// request second, so a request that exists always has its points already
// taken out of the wallet.
type RedemptionServiceImpl struct {
	redemptionRepo repositories.RedemptionRequestRepository
	ledger         LedgerService
}

// NewRedemptionService creates a new RedemptionServiceImpl
func NewRedemptionService(redemptionRepo repositories.RedemptionRequestRepository, ledger LedgerService) *RedemptionServiceImpl {
	return &RedemptionServiceImpl{
		redemptionRepo: redemptionRepo,
		ledger:         ledger,
	}
}

// Request debits points from the user's wallet and records a PENDING
// redemption request. The debit comes first: losing the balance race to a
// concurrent debit means no request record is ever written. If recording
// fails after the debit, the points are credited back so neither half
// survives alone.
func (s *RedemptionServiceImpl) Request(ctx context.Context, userID primitive.ObjectID, method models.RedemptionMethod, points int) (*models.RedemptionRequest, error) {
	if !method.IsValid() {
		return nil, &validation.Error{Fields: []validation.FieldError{{Field: "method", Message: "must be one of BANK UPI"}}}
	}
	if points <= 0 {
		return nil, &validation.Error{Fields: []validation.FieldError{{Field: "points", Message: "must be a positive number"}}}
	}

	if _, err := s.ledger.Debit(ctx, userID, points, redemptionReason); err != nil {
		return nil, err
	}

	req := &models.RedemptionRequest{
		UserID: userID,
		Points: points,
		Status: models.RedemptionPending,
		Method: method,
	}
	if err := s.redemptionRepo.Create(ctx, req); err != nil {
		if _, refundErr := s.ledger.Credit(ctx, userID, points, "Redemption reversal"); refundErr != nil {
			slog.Error("redemption record failed and refund failed",
				"userId", userID.Hex(), "points", points, "error", refundErr)
		}
		return nil, fmt.Errorf("failed to record redemption request: %w", err)
	}

	metrics.RedemptionRequests.Inc()
	slog.Info("redemption requested", "userId", userID.Hex(), "points", points, "method", method)
	return req, nil
}

// ListForUser returns the user's redemption requests, newest first
func (s *RedemptionServiceImpl) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]*models.RedemptionRequest, error) {
	return s.redemptionRepo.FindByUserID(ctx, userID)
}

// UpdateStatus progresses a request through back-office payout handling.
// Moving to REJECTED refunds the debited points; moving to PAID stamps a
// payout reference if the operator did not supply one.
func (s *RedemptionServiceImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RedemptionStatus, payoutRef string) (*models.RedemptionRequest, error) {
	if !status.IsValid() || status == models.RedemptionPending {
		return nil, &validation.Error{Fields: []validation.FieldError{{Field: "status", Message: "must be one of APPROVED REJECTED PAID"}}}
	}

	if status == models.RedemptionPaid && payoutRef == "" {
		payoutRef = uuid.NewString()
	}

	// The repository update matches only while the request is not already
	// in the target status; concurrent identical updates race on that
	// filter and exactly one wins.
	before, err := s.redemptionRepo.UpdateStatus(ctx, id, status, payoutRef)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Missing, or another call already applied this status.
			current, findErr := s.redemptionRepo.FindByID(ctx, id)
			if findErr != nil {
				return nil, fmt.Errorf("redemption request %s: %w", id.Hex(), ErrNotFound)
			}
			return current, nil
		}
		return nil, fmt.Errorf("failed to update redemption status: %w", err)
	}

	// Only the update winner refunds, and the filter guarantees the request
	// was not REJECTED before this call, so the refund happens exactly once.
	if status == models.RedemptionRejected {
		reason := fmt.Sprintf("Redemption %s rejected", id.Hex())
		if _, err := s.ledger.Credit(ctx, before.UserID, before.Points, reason); err != nil {
			return nil, fmt.Errorf("failed to refund rejected redemption: %w", err)
		}
	}

	updated, err := s.redemptionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload redemption request: %w", err)
	}

	slog.Info("redemption status updated", "redemptionId", id.Hex(), "status", status)
	return updated, nil
}
