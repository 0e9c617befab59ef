package repositories

import (
	"context"

	"github.com/picquest/rewards-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, expertise, bio string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// SubmissionRepository defines the interface for submission data operations.
// TransitionStatus is the atomic conditional update guarding the state
// machine: the update matches only while the submission is in one of the
// allowedFrom states, so concurrent identical verdicts race to transition
// exactly once and the loser observes matched == false.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Submission, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.Submission, error)
	FindRecent(ctx context.Context, limit int) ([]*models.Submission, error)
	TransitionStatus(ctx context.Context, id primitive.ObjectID, allowedFrom []models.SubmissionStatus, verdict models.Verdict) (bool, error)
	UpdateReviewMeta(ctx context.Context, id primitive.ObjectID, notes, workflowID, runID string) error
	SetCorrelation(ctx context.Context, id primitive.ObjectID, workflowID, runID string) error
}

// WalletRepository defines the interface for wallet data operations.
// CreditAtomic and DebitAtomic are single-document conditional updates; the
// balance check in DebitAtomic and the decrement are one storage operation,
// never a separate read followed by a write.
type WalletRepository interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error)
	// EnsureExists upserts a zero-balance wallet for the user and returns it.
	EnsureExists(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error)
	// CreditAtomic increments the balance by amount, creating the wallet at
	// balance 0 first if absent, and returns the post-update wallet.
	CreditAtomic(ctx context.Context, userID primitive.ObjectID, amount int) (*models.Wallet, error)
	// DebitAtomic decrements the balance by amount only if the current
	// balance covers it. Returns mongo.ErrNoDocuments when the guard fails.
	DebitAtomic(ctx context.Context, userID primitive.ObjectID, amount int) (*models.Wallet, error)
}

// WalletTransactionRepository defines the interface for ledger entries.
// Entries are append-only; there are no update or delete operations.
type WalletTransactionRepository interface {
	Create(ctx context.Context, tx *models.WalletTransaction) error
	FindByWalletID(ctx context.Context, walletID primitive.ObjectID, limit int) ([]*models.WalletTransaction, error)
}

// RedemptionRequestRepository defines the interface for redemption requests.
// UpdateStatus is an atomic conditional update: it matches only while the
// request is not already in the target status and returns the request as it
// was BEFORE the update. Concurrent identical updates race on the filter and
// exactly one wins; the losers get mongo.ErrNoDocuments.
type RedemptionRequestRepository interface {
	Create(ctx context.Context, req *models.RedemptionRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.RedemptionRequest, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.RedemptionRequest, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RedemptionStatus, payoutRef string) (*models.RedemptionRequest, error)
}

// BankDetailsRepository defines the interface for payout destination records
type BankDetailsRepository interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.BankDetails, error)
	Upsert(ctx context.Context, details *models.BankDetails) error
}

// WebhookEventRepository defines the interface for the webhook audit log.
// Records are write-once.
type WebhookEventRepository interface {
	Create(ctx context.Context, event *models.WebhookEvent) error
	FindBySubmissionID(ctx context.Context, submissionID string) ([]*models.WebhookEvent, error)
}

// AdminUserRepository defines the interface for back-office operator accounts
type AdminUserRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}
