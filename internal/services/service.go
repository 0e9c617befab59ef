package services

import (
	"context"

	"github.com/picquest/rewards-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerService is the single authority for wallet balance mutation. Every
// successful credit or debit appends exactly one WalletTransaction in the
// same logical operation.
type LedgerService interface {
	Credit(ctx context.Context, userID primitive.ObjectID, amount int, reason string) (*models.Wallet, error)
	Debit(ctx context.Context, userID primitive.ObjectID, amount int, reason string) (*models.Wallet, error)
}

// CreateSubmissionInput is the validated form body for a new submission.
type CreateSubmissionInput struct {
	ArtifactURL     string `json:"artifactUrl" validate:"required"`
	Question        string `json:"question" validate:"required,min=8,max=280"`
	Answer          string `json:"answer" validate:"required,min=1,max=1000"`
	EnglishQuestion string `json:"englishQuestion,omitempty" validate:"omitempty,max=280"`
	EnglishAnswer   string `json:"englishAnswer,omitempty" validate:"omitempty,max=1000"`
}

// SubmissionService governs the submission lifecycle state machine.
type SubmissionService interface {
	Create(ctx context.Context, user *models.User, input *CreateSubmissionInput) (*models.Submission, error)
	ApplyVerdict(ctx context.Context, id primitive.ObjectID, verdict models.Verdict) (*models.Submission, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Submission, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.Submission, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Submission, error)
}

// ReviewDispatcher sends a freshly created submission to the external
// reviewer without blocking the caller.
type ReviewDispatcher interface {
	DispatchAsync(submission *models.Submission, expertise string)
}

// ReviewService bridges the external reviewer: outbound dispatch and the
// inbound signed verdict callback.
type ReviewService interface {
	ReviewDispatcher
	ReceiveVerdict(ctx context.Context, rawBody []byte, signature string) (*models.Submission, error)
}

// RedemptionService debits the ledger and records redemption requests.
type RedemptionService interface {
	Request(ctx context.Context, userID primitive.ObjectID, method models.RedemptionMethod, points int) (*models.RedemptionRequest, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]*models.RedemptionRequest, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RedemptionStatus, payoutRef string) (*models.RedemptionRequest, error)
}

// WalletOverview is a user's balance plus their latest ledger entries.
type WalletOverview struct {
	Balance      int                         `json:"balance"`
	Transactions []*models.WalletTransaction `json:"transactions"`
}

// WalletService reads wallet state for display. It never mutates balances.
type WalletService interface {
	GetOverview(ctx context.Context, userID primitive.ObjectID) (*WalletOverview, error)
}

// UserService handles identity-anchored user records.
type UserService interface {
	FindOrCreate(ctx context.Context, email, name, image string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateExpertise(ctx context.Context, userID primitive.ObjectID, expertise, bio string) (*models.User, error)
}

// BankDetailsView is the masked read model of a payout destination.
type BankDetailsView struct {
	AccountHolder       string `json:"accountHolder,omitempty"`
	AccountNumberMasked string `json:"accountNumberMasked,omitempty"`
	IFSC                string `json:"ifsc,omitempty"`
	UPIID               string `json:"upiId,omitempty"`
}

// UpdateBankDetailsInput is the validated form body for payout destinations.
type UpdateBankDetailsInput struct {
	AccountHolder string `json:"accountHolder,omitempty" validate:"omitempty,min=2"`
	AccountNumber string `json:"accountNumber,omitempty" validate:"omitempty,min=6,max=20"`
	IFSC          string `json:"ifsc,omitempty" validate:"omitempty,ifsc"`
	UPIID         string `json:"upiId,omitempty" validate:"omitempty,upi"`
}

// BankService stores and masks payout destinations.
type BankService interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*BankDetailsView, error)
	Update(ctx context.Context, userID primitive.ObjectID, input *UpdateBankDetailsInput) error
}

// AuthService authenticates back-office operators.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
}
