package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/picquest/rewards-backend/internal/models"
	"github.com/picquest/rewards-backend/internal/repositories"
	"github.com/picquest/rewards-backend/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure LedgerServiceImpl implements LedgerService
var _ LedgerService = (*LedgerServiceImpl)(nil)

// LedgerServiceImpl mutates wallet balances through the repository's atomic
// conditional updates and pairs every balance change with a ledger entry.
type LedgerServiceImpl struct {
	walletRepo repositories.WalletRepository
	txRepo     repositories.WalletTransactionRepository
}

// NewLedgerService creates a new LedgerServiceImpl
func NewLedgerService(walletRepo repositories.WalletRepository, txRepo repositories.WalletTransactionRepository) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
	}
}

// Credit increments the user's wallet by amount, creating the wallet at
// balance 0 first if absent, and appends the matching ledger entry.
func (s *LedgerServiceImpl) Credit(ctx context.Context, userID primitive.ObjectID, amount int, reason string) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit of %d: %w", amount, ErrInvalidAmount)
	}

	wallet, err := s.walletRepo.CreditAtomic(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}

	if err := s.appendEntry(ctx, wallet.ID, amount, reason); err != nil {
		// Roll the balance back so the ledger and the wallet stay in step.
		if _, rbErr := s.walletRepo.DebitAtomic(ctx, userID, amount); rbErr != nil {
			slog.Error("ledger entry failed and credit rollback failed",
				"userId", userID.Hex(), "amount", amount, "error", rbErr)
		}
		return nil, err
	}

	metrics.LedgerEntries.WithLabelValues("credit").Inc()
	slog.Info("wallet credited", "userId", userID.Hex(), "amount", amount, "balance", wallet.PointsBalance, "reason", reason)
	return wallet, nil
}

// Debit decrements the user's wallet by amount. The sufficient-balance check
// and the decrement are a single storage operation; losing the race to a
// concurrent debit surfaces as ErrInsufficientFunds with no state change.
func (s *LedgerServiceImpl) Debit(ctx context.Context, userID primitive.ObjectID, amount int, reason string) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("debit of %d: %w", amount, ErrInvalidAmount)
	}

	wallet, err := s.walletRepo.DebitAtomic(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to debit wallet: %w", err)
	}

	if err := s.appendEntry(ctx, wallet.ID, -amount, reason); err != nil {
		if _, rbErr := s.walletRepo.CreditAtomic(ctx, userID, amount); rbErr != nil {
			slog.Error("ledger entry failed and debit rollback failed",
				"userId", userID.Hex(), "amount", amount, "error", rbErr)
		}
		return nil, err
	}

	metrics.LedgerEntries.WithLabelValues("debit").Inc()
	slog.Info("wallet debited", "userId", userID.Hex(), "amount", amount, "balance", wallet.PointsBalance, "reason", reason)
	return wallet, nil
}

func (s *LedgerServiceImpl) appendEntry(ctx context.Context, walletID primitive.ObjectID, delta int, reason string) error {
	tx := &models.WalletTransaction{
		WalletID:    walletID,
		DeltaPoints: delta,
		Reason:      reason,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}
