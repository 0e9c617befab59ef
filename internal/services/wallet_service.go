package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/picquest/rewards-backend/internal/models"
	"github.com/picquest/rewards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure WalletServiceImpl implements WalletService
var _ WalletService = (*WalletServiceImpl)(nil)

// transactionPageSize caps how many ledger entries the overview carries.
const transactionPageSize = 50

// WalletServiceImpl reads wallet state for display
type WalletServiceImpl struct {
	walletRepo repositories.WalletRepository
	txRepo     repositories.WalletTransactionRepository
}

// NewWalletService creates a new WalletServiceImpl
func NewWalletService(walletRepo repositories.WalletRepository, txRepo repositories.WalletTransactionRepository) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
	}
}

// GetOverview returns the user's balance and latest ledger entries. A user
// without a wallet yet reads as balance 0 with no history.
func (s *WalletServiceImpl) GetOverview(ctx context.Context, userID primitive.ObjectID) (*WalletOverview, error) {
	wallet, err := s.walletRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &WalletOverview{Balance: 0, Transactions: []*models.WalletTransaction{}}, nil
		}
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	transactions, err := s.txRepo.FindByWalletID(ctx, wallet.ID, transactionPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	return &WalletOverview{
		Balance:      wallet.PointsBalance,
		Transactions: transactions,
	}, nil
}
