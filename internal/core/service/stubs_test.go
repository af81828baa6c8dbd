package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/userservice/user-service/internal/core/domain"
	"github.com/userservice/user-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*domain.Account
	updates int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[int64]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	clone := cloneAccount(a)
	clone.ID = r.nextID
	r.byID[clone.ID] = clone
	return cloneAccount(clone), nil
}

// put stores a fixture with a fixed id.
func (r *stubAccountRepo) put(a *domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = cloneAccount(a)
	if a.ID > r.nextID {
		r.nextID = a.ID
	}
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *stubAccountRepo) Update(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return nil, domain.ErrAccountNotFound
	}
	r.updates++
	r.byID[a.ID] = cloneAccount(a)
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubAccountRepo) List(_ context.Context, f ports.ListAccountsFilter) ([]*domain.Account, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.Account
	for _, a := range r.byID {
		if f.Username != "" && !strings.Contains(strings.ToLower(a.Username), strings.ToLower(f.Username)) {
			continue
		}
		if f.Email != "" && !strings.Contains(strings.ToLower(a.Email), strings.ToLower(f.Email)) {
			continue
		}
		if f.Active != nil && a.Active != *f.Active {
			continue
		}
		if f.Role != nil && a.Role != *f.Role {
			continue
		}
		matched = append(matched, cloneAccount(a))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	skip := f.Page * f.Size
	if skip > len(matched) {
		return []*domain.Account{}, total, nil
	}
	end := skip + f.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

// ---------------------------------------------------------------------------
// Hasher, wallet, ledger and provisioner stubs
// ---------------------------------------------------------------------------

type stubHasher struct{}

func (stubHasher) Hash(raw string) (string, error) { return "hashed:" + raw, nil }

func (stubHasher) Verify(raw, hash string) bool { return hash == "hashed:"+raw }

type walletCall struct {
	Action domain.CascadeAction
	UserID int64
	Token  string
}

type stubWallet struct {
	mu      sync.Mutex
	calls   []walletCall
	err     error
	delay   time.Duration
	wallets []domain.Wallet
}

func (w *stubWallet) do(ctx context.Context, action domain.CascadeAction, userID int64, token string) error {
	w.mu.Lock()
	w.calls = append(w.calls, walletCall{Action: action, UserID: userID, Token: token})
	w.mu.Unlock()

	if w.delay > 0 {
		select {
		case <-time.After(w.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return w.err
}

func (w *stubWallet) Blacklist(ctx context.Context, userID int64, token string) error {
	return w.do(ctx, domain.CascadeBlacklist, userID, token)
}

func (w *stubWallet) Unblock(ctx context.Context, userID int64, token string) error {
	return w.do(ctx, domain.CascadeUnblock, userID, token)
}

func (w *stubWallet) DeleteWallets(ctx context.Context, userID int64, token string) error {
	return w.do(ctx, domain.CascadeDelete, userID, token)
}

func (w *stubWallet) ListWallets(ctx context.Context, userID int64, token string) ([]domain.Wallet, error) {
	return w.wallets, w.err
}

func (w *stubWallet) ProvisionWallet(ctx context.Context, userID int64, _ string) error {
	return w.do(ctx, domain.CascadeProvision, userID, "")
}

func (w *stubWallet) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.calls)
}

type stubLedger struct {
	mu       sync.Mutex
	failures map[string]domain.CascadeFailure
}

func newStubLedger() *stubLedger {
	return &stubLedger{failures: make(map[string]domain.CascadeFailure)}
}

func ledgerKey(userID int64, action domain.CascadeAction) string {
	return fmt.Sprintf("%d:%s", userID, action)
}

func (l *stubLedger) Record(_ context.Context, f domain.CascadeFailure) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[ledgerKey(f.UserID, f.Action)] = f
	return nil
}

func (l *stubLedger) Resolve(_ context.Context, userID int64, action domain.CascadeAction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, ledgerKey(userID, action))
	return nil
}

func (l *stubLedger) List(_ context.Context) ([]domain.CascadeFailure, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.CascadeFailure, 0, len(l.failures))
	for _, f := range l.failures {
		out = append(out, f)
	}
	return out, nil
}

type stubProvisioner struct {
	reqs []ports.ProvisionRequest
}

func (p *stubProvisioner) Enqueue(req ports.ProvisionRequest) bool {
	p.reqs = append(p.reqs, req)
	return true
}
