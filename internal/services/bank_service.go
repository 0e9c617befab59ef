package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/picquest/rewards-backend/internal/models"
	"github.com/picquest/rewards-backend/internal/repositories"
	"github.com/picquest/rewards-backend/internal/validation"
	"github.com/picquest/rewards-backend/pkg/pii"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure BankServiceImpl implements BankService
var _ BankService = (*BankServiceImpl)(nil)

// BankServiceImpl stores payout destinations with the account number
// encrypted at rest. Reads only ever return a masked account number.
type BankServiceImpl struct {
	bankRepo repositories.BankDetailsRepository
	cipher   *pii.Cipher
}

// NewBankService creates a new BankServiceImpl
func NewBankService(bankRepo repositories.BankDetailsRepository, cipher *pii.Cipher) *BankServiceImpl {
	return &BankServiceImpl{
		bankRepo: bankRepo,
		cipher:   cipher,
	}
}

// Get returns the masked payout destination; a user without one gets an
// empty view, not an error.
func (s *BankServiceImpl) Get(ctx context.Context, userID primitive.ObjectID) (*BankDetailsView, error) {
	details, err := s.bankRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &BankDetailsView{}, nil
		}
		return nil, fmt.Errorf("failed to load bank details: %w", err)
	}

	view := &BankDetailsView{
		AccountHolder: details.AccountHolder,
		IFSC:          details.IFSC,
		UPIID:         details.UPIID,
	}
	if details.AccountNumber != "" {
		view.AccountNumberMasked = s.cipher.MaskAccount(details.AccountNumber)
	}
	return view, nil
}

// Update validates and upserts the payout destination, encrypting the
// account number before it is stored.
func (s *BankServiceImpl) Update(ctx context.Context, userID primitive.ObjectID, input *UpdateBankDetailsInput) error {
	if verr := validation.Struct(input); verr != nil {
		return verr
	}

	details := &models.BankDetails{
		UserID:        userID,
		AccountHolder: input.AccountHolder,
		IFSC:          input.IFSC,
		UPIID:         input.UPIID,
	}
	if input.AccountNumber != "" {
		encrypted, err := s.cipher.Encrypt(input.AccountNumber)
		if err != nil {
			return fmt.Errorf("failed to encrypt account number: %w", err)
		}
		details.AccountNumber = encrypted
	}

	if err := s.bankRepo.Upsert(ctx, details); err != nil {
		return fmt.Errorf("failed to store bank details: %w", err)
	}
	return nil
}
