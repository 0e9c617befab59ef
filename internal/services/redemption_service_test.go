package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/picquest/rewards-backend/internal/models"
	"github.com/picquest/rewards-backend/internal/validation"
)

type redemptionFixture struct {
	svc        *RedemptionServiceImpl
	ledger     *LedgerServiceImpl
	repo       *fakeRedemptionRepo
	walletRepo *fakeWalletRepo
	txRepo     *fakeTxRepo
}

func newRedemptionFixture() *redemptionFixture {
	repo := newFakeRedemptionRepo()
	walletRepo := newFakeWalletRepo()
	txRepo := &fakeTxRepo{}
	ledger := NewLedgerService(walletRepo, txRepo)
	return &redemptionFixture{
		svc:        NewRedemptionService(repo, ledger),
		ledger:     ledger,
		repo:       repo,
		walletRepo: walletRepo,
		txRepo:     txRepo,
	}
}

func (f *redemptionFixture) seedBalance(t *testing.T, userID primitive.ObjectID, points int) {
	t.Helper()
	_, err := f.ledger.Credit(context.Background(), userID, points, "seed")
	require.NoError(t, err)
}

func TestRedemptionRequestDebitsThenRecords(t *testing.T) {
	f := newRedemptionFixture()
	userID := primitive.NewObjectID()
	f.seedBalance(t, userID, 100)

	req, err := f.svc.Request(context.Background(), userID, models.RedemptionMethodUPI, 60)
	require.NoError(t, err)
	require.Equal(t, models.RedemptionPending, req.Status)
	require.Equal(t, 60, req.Points)
	require.Equal(t, models.RedemptionMethodUPI, req.Method)

	wallet, err := f.walletRepo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 40, wallet.PointsBalance)
	require.Equal(t, 40, f.txRepo.sumFor(wallet.ID))
}

func TestRedemptionRequestInsufficientBalance(t *testing.T) {
	f := newRedemptionFixture()
	userID := primitive.NewObjectID()
	f.seedBalance(t, userID, 30)

	_, err := f.svc.Request(context.Background(), userID, models.RedemptionMethodBank, 50)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// No request record exists for a failed debit.
	requests, err := f.repo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, requests)

	wallet, err := f.walletRepo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 30, wallet.PointsBalance)
}

func TestRedemptionRequestValidatesInput(t *testing.T) {
	f := newRedemptionFixture()
	userID := primitive.NewObjectID()

	var verr *validation.Error
	_, err := f.svc.Request(context.Background(), userID, "CHEQUE", 10)
	require.ErrorAs(t, err, &verr)

	_, err = f.svc.Request(context.Background(), userID, models.RedemptionMethodUPI, 0)
	require.ErrorAs(t, err, &verr)

	_, err = f.svc.Request(context.Background(), userID, models.RedemptionMethodUPI, -10)
	require.ErrorAs(t, err, &verr)
}

func TestRedemptionRequestRefundsWhenRecordFails(t *testing.T) {
	f := newRedemptionFixture()
	userID := primitive.NewObjectID()
	f.seedBalance(t, userID, 100)
	f.repo.failCreate = errors.New("write failed")

	_, err := f.svc.Request(context.Background(), userID, models.RedemptionMethodBank, 60)
	require.Error(t, err)

	// The compensating credit restored the balance.
	wallet, err := f.walletRepo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 100, wallet.PointsBalance)
	require.Equal(t, 100, f.txRepo.sumFor(wallet.ID))
}

func TestConcurrentRedemptionsNeverOverdraw(t *testing.T) {
	f := newRedemptionFixture()
	userID := primitive.NewObjectID()
	f.seedBalance(t, userID, 100)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.Request(context.Background(), userID, models.RedemptionMethodUPI, 60)
		}()
	}
	wg.Wait()

	// 100 points cover exactly one 60-point redemption.
	requests, err := f.repo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, requests, 1)

	wallet, err := f.walletRepo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 40, wallet.PointsBalance)
}

func TestRedemptionUpdateStatusPaidStampsPayoutRef(t *testing.T) {
	f := newRedemptionFixture()
	userID := primitive.NewObjectID()
	f.seedBalance(t, userID, 100)
	req, err := f.svc.Request(context.Background(), userID, models.RedemptionMethodBank, 50)
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(context.Background(), req.ID, models.RedemptionPaid, "")
	require.NoError(t, err)
	require.Equal(t, models.RedemptionPaid, updated.Status)
	require.NotEmpty(t, updated.PayoutRef)

	// An operator-supplied reference is kept as-is.
	req2, err := f.svc.Request(context.Background(), userID, models.RedemptionMethodBank, 20)
	require.NoError(t, err)
	updated2, err := f.svc.UpdateStatus(context.Background(), req2.ID, models.RedemptionPaid, "UTR-12345")
	require.NoError(t, err)
	require.Equal(t, "UTR-12345", updated2.PayoutRef)
}

func TestRedemptionUpdateStatusRejectedRefundsOnce(t *testing.T) {
	f := newRedemptionFixture()
	userID := primitive.NewObjectID()
	f.seedBalance(t, userID, 100)
	req, err := f.svc.Request(context.Background(), userID, models.RedemptionMethodUPI, 60)
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(context.Background(), req.ID, models.RedemptionRejected, "")
	require.NoError(t, err)
	require.Equal(t, models.RedemptionRejected, updated.Status)

	wallet, err := f.walletRepo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 100, wallet.PointsBalance)

	// Repeating the rejection refunds nothing more.
	_, err = f.svc.UpdateStatus(context.Background(), req.ID, models.RedemptionRejected, "")
	require.NoError(t, err)
	wallet, err = f.walletRepo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 100, wallet.PointsBalance)
	require.Equal(t, 100, f.txRepo.sumFor(wallet.ID))
}

func TestRedemptionUpdateStatusValidation(t *testing.T) {
	f := newRedemptionFixture()

	var verr *validation.Error
	_, err := f.svc.UpdateStatus(context.Background(), primitive.NewObjectID(), models.RedemptionPending, "")
	require.ErrorAs(t, err, &verr)

	_, err = f.svc.UpdateStatus(context.Background(), primitive.NewObjectID(), "SHIPPED", "")
	require.ErrorAs(t, err, &verr)

	_, err = f.svc.UpdateStatus(context.Background(), primitive.NewObjectID(), models.RedemptionApproved, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentRejectionsRefundOnce(t *testing.T) {
	f := newRedemptionFixture()
	userID := primitive.NewObjectID()
	f.seedBalance(t, userID, 100)
	req, err := f.svc.Request(context.Background(), userID, models.RedemptionMethodUPI, 60)
	require.NoError(t, err)

	const callers = 10
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.UpdateStatus(context.Background(), req.ID, models.RedemptionRejected, "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)
	for err := range results {
		require.NoError(t, err)
	}

	// Exactly one rejection won the conditional update and refunded; the
	// points debited at request time come back once, never minted.
	wallet, err := f.walletRepo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 100, wallet.PointsBalance)
	require.Equal(t, 100, f.txRepo.sumFor(wallet.ID))

	stored, err := f.repo.FindByID(context.Background(), req.ID)
	require.NoError(t, err)
	require.Equal(t, models.RedemptionRejected, stored.Status)
}
