package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/picquest/rewards-backend/internal/models"
	"github.com/picquest/rewards-backend/internal/repositories"
	"github.com/picquest/rewards-backend/pkg/n8n"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	_ repositories.WalletRepository            = (*fakeWalletRepo)(nil)
	_ repositories.WalletTransactionRepository = (*fakeTxRepo)(nil)
	_ repositories.SubmissionRepository        = (*fakeSubmissionRepo)(nil)
	_ repositories.RedemptionRequestRepository = (*fakeRedemptionRepo)(nil)
	_ repositories.WebhookEventRepository      = (*fakeWebhookRepo)(nil)
	_ repositories.UserRepository              = (*fakeUserRepo)(nil)
	_ repositories.BankDetailsRepository       = (*fakeBankRepo)(nil)
	_ n8n.Dispatcher                           = (*fakeReviewer)(nil)
	_ ReviewDispatcher                         = (*recordingDispatcher)(nil)
)

// In-memory repositories mirroring the conditional-update semantics of the
// mongodb implementations, so the service tests exercise the same race
// behavior without a live database.

type fakeWalletRepo struct {
	mu         sync.Mutex
	wallets    map[primitive.ObjectID]*models.Wallet // keyed by userID
	failCredit error
	failDebit  error
	failEnsure error
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: map[primitive.ObjectID]*models.Wallet{}}
}

func (r *fakeWalletRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWalletRepo) EnsureExists(ctx context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	if r.failEnsure != nil {
		return nil, r.failEnsure
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureLocked(userID), nil
}

func (r *fakeWalletRepo) ensureLocked(userID primitive.ObjectID) *models.Wallet {
	w, ok := r.wallets[userID]
	if !ok {
		w = &models.Wallet{ID: primitive.NewObjectID(), UserID: userID, CreatedAt: time.Now()}
		r.wallets[userID] = w
	}
	cp := *w
	return &cp
}

func (r *fakeWalletRepo) CreditAtomic(ctx context.Context, userID primitive.ObjectID, amount int) (*models.Wallet, error) {
	if r.failCredit != nil {
		return nil, r.failCredit
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLocked(userID)
	w := r.wallets[userID]
	w.PointsBalance += amount
	w.UpdatedAt = time.Now()
	cp := *w
	return &cp, nil
}

func (r *fakeWalletRepo) DebitAtomic(ctx context.Context, userID primitive.ObjectID, amount int) (*models.Wallet, error) {
	if r.failDebit != nil {
		return nil, r.failDebit
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok || w.PointsBalance < amount {
		return nil, mongo.ErrNoDocuments
	}
	w.PointsBalance -= amount
	w.UpdatedAt = time.Now()
	cp := *w
	return &cp, nil
}

type fakeTxRepo struct {
	mu         sync.Mutex
	entries    []*models.WalletTransaction
	failCreate error
}

func (r *fakeTxRepo) Create(ctx context.Context, tx *models.WalletTransaction) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tx.ID = primitive.NewObjectID()
	tx.CreatedAt = time.Now()
	cp := *tx
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeTxRepo) FindByWalletID(ctx context.Context, walletID primitive.ObjectID, limit int) ([]*models.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.WalletTransaction
	for _, e := range r.entries {
		if e.WalletID == walletID {
			cp := *e
			out = append(out, &cp)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// sumFor returns the ledger total for a wallet, the invariant checked
// against the balance after every scenario.
func (r *fakeTxRepo) sumFor(walletID primitive.ObjectID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, e := range r.entries {
		if e.WalletID == walletID {
			sum += e.DeltaPoints
		}
	}
	return sum
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[primitive.ObjectID]*models.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: map[primitive.ObjectID]*models.Submission{}}
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	submission.ID = primitive.NewObjectID()
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = submission.CreatedAt
	cp := *submission
	r.submissions[submission.ID] = &cp
	return nil
}

func (r *fakeSubmissionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.submissions[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSubmissionRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Submission
	for _, s := range r.submissions {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) FindRecent(ctx context.Context, limit int) ([]*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Submission
	for _, s := range r.submissions {
		cp := *s
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) TransitionStatus(ctx context.Context, id primitive.ObjectID, allowedFrom []models.SubmissionStatus, verdict models.Verdict) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.submissions[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, from := range allowedFrom {
		if s.Status == from {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	s.Status = verdict.Status
	s.PointsAwarded = verdict.PointsAwarded
	if verdict.Notes != "" {
		s.ReviewerNotes = verdict.Notes
	}
	if verdict.WorkflowID != "" {
		s.WorkflowID = verdict.WorkflowID
	}
	if verdict.RunID != "" {
		s.RunID = verdict.RunID
	}
	s.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeSubmissionRepo) UpdateReviewMeta(ctx context.Context, id primitive.ObjectID, notes, workflowID, runID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.submissions[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if notes != "" {
		s.ReviewerNotes = notes
	}
	if workflowID != "" {
		s.WorkflowID = workflowID
	}
	if runID != "" {
		s.RunID = runID
	}
	s.UpdatedAt = time.Now()
	return nil
}

func (r *fakeSubmissionRepo) SetCorrelation(ctx context.Context, id primitive.ObjectID, workflowID, runID string) error {
	return r.UpdateReviewMeta(ctx, id, "", workflowID, runID)
}

type fakeRedemptionRepo struct {
	mu         sync.Mutex
	requests   map[primitive.ObjectID]*models.RedemptionRequest
	failCreate error
}

func newFakeRedemptionRepo() *fakeRedemptionRepo {
	return &fakeRedemptionRepo{requests: map[primitive.ObjectID]*models.RedemptionRequest{}}
}

func (r *fakeRedemptionRepo) Create(ctx context.Context, req *models.RedemptionRequest) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = primitive.NewObjectID()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeRedemptionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.RedemptionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *req
	return &cp, nil
}

func (r *fakeRedemptionRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.RedemptionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.RedemptionRequest
	for _, req := range r.requests {
		if req.UserID == userID {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

// UpdateStatus mirrors the conditional update of the mongodb implementation:
// it matches only while the request is not already in the target status and
// returns the pre-update request.
func (r *fakeRedemptionRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RedemptionStatus, payoutRef string) (*models.RedemptionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Status == status {
		return nil, mongo.ErrNoDocuments
	}
	before := *req
	req.Status = status
	if payoutRef != "" {
		req.PayoutRef = payoutRef
	}
	req.UpdatedAt = time.Now()
	return &before, nil
}

type fakeWebhookRepo struct {
	mu         sync.Mutex
	events     []*models.WebhookEvent
	failCreate error
}

func (r *fakeWebhookRepo) Create(ctx context.Context, event *models.WebhookEvent) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	cp := *event
	r.events = append(r.events, &cp)
	return nil
}

func (r *fakeWebhookRepo) FindBySubmissionID(ctx context.Context, submissionID string) ([]*models.WebhookEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.WebhookEvent
	for _, e := range r.events {
		if e.SubmissionID == submissionID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeWebhookRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by email
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return errors.New("duplicate key error")
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, expertise, bio string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u.Profile.Expertise = expertise
			u.Profile.Bio = bio
			u.UpdatedAt = time.Now()
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeBankRepo struct {
	mu      sync.Mutex
	details map[primitive.ObjectID]*models.BankDetails // keyed by userID
}

func newFakeBankRepo() *fakeBankRepo {
	return &fakeBankRepo{details: map[primitive.ObjectID]*models.BankDetails{}}
}

func (r *fakeBankRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.BankDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.details[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *d
	return &cp, nil
}

func (r *fakeBankRepo) Upsert(ctx context.Context, details *models.BankDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *details
	if existing, ok := r.details[details.UserID]; ok {
		cp.ID = existing.ID
	} else {
		cp.ID = primitive.NewObjectID()
	}
	cp.UpdatedAt = time.Now()
	r.details[details.UserID] = &cp
	return nil
}

// fakeReviewer stands in for the workflow engine client.
type fakeReviewer struct {
	mu       sync.Mutex
	requests []*n8n.DispatchRequest
	ack      *n8n.DispatchAck
	err      error
}

func (f *fakeReviewer) Dispatch(ctx context.Context, req *n8n.DispatchRequest) (*n8n.DispatchAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *req
	f.requests = append(f.requests, &cp)
	if f.err != nil {
		return nil, f.err
	}
	if f.ack != nil {
		ack := *f.ack
		return &ack, nil
	}
	return &n8n.DispatchAck{}, nil
}

func (f *fakeReviewer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// recordingDispatcher captures DispatchAsync calls from the submission
// service without doing anything.
type recordingDispatcher struct {
	mu        sync.Mutex
	dispatched []*models.Submission
	expertise  []string
}

func (d *recordingDispatcher) DispatchAsync(submission *models.Submission, expertise string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dispatched = append(d.dispatched, submission)
	d.expertise = append(d.expertise, expertise)
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.dispatched)
}
