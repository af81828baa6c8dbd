package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/userservice/user-service/internal/core/domain"
	"github.com/userservice/user-service/internal/core/ports"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func newAccountFixture() (*AccountService, *stubAccountRepo, *stubWallet, *stubLedger) {
	repo := newStubAccountRepo()
	wallet := &stubWallet{}
	ledger := newStubLedger()
	cascade := NewCascadeOrchestrator(wallet, ledger, time.Second, zerolog.Nop())
	return NewAccountService(repo, stubHasher{}, cascade, zerolog.Nop()), repo, wallet, ledger
}

func seedAccount(repo *stubAccountRepo, id int64, email string, active bool) {
	repo.put(&domain.Account{
		ID:           id,
		Username:     "user",
		Email:        email,
		PasswordHash: "hashed:Password123",
		Age:          30,
		Role:         domain.RoleUser,
		Active:       active,
		CreatedAt:    time.Now().Add(-time.Duration(id) * time.Minute),
	})
}

func TestAccountService_Create_Defaults(t *testing.T) {
	svc, _, _, _ := newAccountFixture()

	acc, err := svc.Create(context.Background(), ports.CreateAccountInput{
		Username: "John", Email: "john@x.com", Password: "Password123", Age: 25,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if acc.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
	if acc.Role != domain.RoleUser || !acc.Active {
		t.Fatalf("expected USER/active, got %s/%v", acc.Role, acc.Active)
	}
	if acc.PasswordHash != "hashed:Password123" {
		t.Fatalf("expected password to be hashed, got %q", acc.PasswordHash)
	}
	if acc.CreatedAt.IsZero() {
		t.Fatalf("expected creation timestamp")
	}
}

func TestAccountService_Create_NormalizesRole(t *testing.T) {
	svc, _, _, _ := newAccountFixture()

	acc, err := svc.Create(context.Background(), ports.CreateAccountInput{
		Username: "Ann", Email: "ann@x.com", Password: "Password123", Age: 30, Role: " admin",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if acc.Role != domain.RoleAdmin {
		t.Fatalf("expected role %q, got %q", domain.RoleAdmin, acc.Role)
	}

	stored, err := svc.Get(context.Background(), acc.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if stored.Role != domain.RoleAdmin {
		t.Fatalf("expected stored role %q, got %q", domain.RoleAdmin, stored.Role)
	}
}

func TestAccountService_Create_Conflict(t *testing.T) {
	svc, _, _, _ := newAccountFixture()
	in := ports.CreateAccountInput{Username: "John", Email: "john@x.com", Password: "Password123", Age: 25}

	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAccountService_Create_Validation(t *testing.T) {
	svc, _, _, _ := newAccountFixture()

	cases := []ports.CreateAccountInput{
		{Username: "", Email: "a@x.com", Password: "Password123", Age: 25},
		{Username: "Jo", Email: "not-an-email", Password: "Password123", Age: 25},
		{Username: "Jo", Email: "a@x.com", Password: "abc", Age: 25},
		{Username: "Jo", Email: "a@x.com", Password: "Password123", Age: 17},
		{Username: "Jo", Email: "a@x.com", Password: "Password123", Age: 25, Role: "ROOT"},
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestAccountService_Get_NotFound(t *testing.T) {
	svc, _, _, _ := newAccountFixture()
	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_Patch(t *testing.T) {
	svc, repo, _, _ := newAccountFixture()
	seedAccount(repo, 1, "john@x.com", true)

	updated, err := svc.Patch(context.Background(), 1, ports.AccountPatch{
		Username: strPtr("Johnny"),
		Password: strPtr("NewPassword1"),
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if updated.Username != "Johnny" {
		t.Fatalf("expected username change, got %q", updated.Username)
	}
	if updated.PasswordHash != "hashed:NewPassword1" {
		t.Fatalf("expected password re-hash, got %q", updated.PasswordHash)
	}
	if updated.Age != 30 || updated.Email != "john@x.com" {
		t.Fatalf("expected untouched fields to stay, got %+v", updated)
	}

	if _, err := svc.Patch(context.Background(), 1, ports.AccountPatch{Age: intPtr(12)}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for age, got %v", err)
	}
	if _, err := svc.Patch(context.Background(), 99, ports.AccountPatch{Age: intPtr(40)}); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_UpdateByAdmin_Email(t *testing.T) {
	svc, repo, _, _ := newAccountFixture()
	seedAccount(repo, 1, "john@x.com", true)
	seedAccount(repo, 2, "jane@x.com", true)

	if _, err := svc.UpdateByAdmin(context.Background(), 1, ports.AdminAccountUpdate{Email: strPtr("jane@x.com")}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	updated, err := svc.UpdateByAdmin(context.Background(), 1, ports.AdminAccountUpdate{
		Email: strPtr("johnny@x.com"),
		Age:   intPtr(44),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Email != "johnny@x.com" || updated.Age != 44 {
		t.Fatalf("unexpected account: %+v", updated)
	}

	if _, err := svc.UpdateByAdmin(context.Background(), 99, ports.AdminAccountUpdate{}); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_SetActive_Idempotent(t *testing.T) {
	svc, repo, wallet, _ := newAccountFixture()
	seedAccount(repo, 7, "u7@x.com", true)

	first, err := svc.Blacklist(context.Background(), 7, "tok")
	if err != nil {
		t.Fatalf("first blacklist: %v", err)
	}
	if !first.Changed || first.Cascade == nil || !first.Cascade.OK() {
		t.Fatalf("expected changed with ok cascade, got %+v", first)
	}

	second, err := svc.Blacklist(context.Background(), 7, "tok")
	if err != nil {
		t.Fatalf("second blacklist: %v", err)
	}
	if second.Changed || second.Cascade != nil {
		t.Fatalf("expected no-op on second call, got %+v", second)
	}

	if wallet.callCount() != 1 {
		t.Fatalf("expected exactly one cascade call, got %d", wallet.callCount())
	}
	if repo.updates != 1 {
		t.Fatalf("expected exactly one state transition, got %d", repo.updates)
	}
	if wallet.calls[0].UserID != 7 || wallet.calls[0].Token != "tok" || wallet.calls[0].Action != domain.CascadeBlacklist {
		t.Fatalf("unexpected cascade call: %+v", wallet.calls[0])
	}
}

func TestAccountService_Blacklist_RemoteFailureKeepsLocalState(t *testing.T) {
	svc, repo, wallet, ledger := newAccountFixture()
	wallet.err = errors.New("wallet service timeout")
	seedAccount(repo, 7, "u7@x.com", true)

	res, err := svc.Blacklist(context.Background(), 7, "tok")
	if err != nil {
		t.Fatalf("blacklist should succeed locally: %v", err)
	}
	if res.Cascade == nil || res.Cascade.Status != domain.OutcomeRemoteFailure {
		t.Fatalf("expected remote failure outcome, got %+v", res.Cascade)
	}

	stored, _ := repo.FindByID(context.Background(), 7)
	if stored.Active {
		t.Fatalf("expected local state to stay inactive after remote failure")
	}

	failures, _ := ledger.List(context.Background())
	if len(failures) != 1 || failures[0].UserID != 7 || failures[0].Action != domain.CascadeBlacklist {
		t.Fatalf("expected one recorded failure, got %+v", failures)
	}
}

func TestAccountService_Unblock(t *testing.T) {
	svc, repo, wallet, _ := newAccountFixture()
	seedAccount(repo, 3, "u3@x.com", false)

	res, err := svc.Unblock(context.Background(), 3, "tok")
	if err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if !res.Account.Active || !res.Changed {
		t.Fatalf("expected account to be active, got %+v", res.Account)
	}
	if wallet.callCount() != 1 || wallet.calls[0].Action != domain.CascadeUnblock {
		t.Fatalf("expected one unblock cascade, got %+v", wallet.calls)
	}

	if _, err := svc.Unblock(context.Background(), 404, "tok"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if wallet.callCount() != 1 {
		t.Fatalf("expected no cascade for missing account")
	}
}

func TestAccountService_DeleteByAdmin(t *testing.T) {
	svc, repo, wallet, _ := newAccountFixture()
	seedAccount(repo, 5, "u5@x.com", true)

	res, err := svc.DeleteByAdmin(context.Background(), 5, "tok")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if res.Cascade == nil || res.Cascade.Action != domain.CascadeDelete {
		t.Fatalf("expected delete cascade, got %+v", res.Cascade)
	}
	if _, err := repo.FindByID(context.Background(), 5); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected account to be removed")
	}
	if wallet.callCount() != 1 {
		t.Fatalf("expected one cascade call, got %d", wallet.callCount())
	}

	if _, err := svc.DeleteByAdmin(context.Background(), 5, "tok"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound on second delete, got %v", err)
	}
	if wallet.callCount() != 1 {
		t.Fatalf("expected no cascade for missing account")
	}
}

func TestAccountService_Delete_NoCascade(t *testing.T) {
	svc, repo, wallet, _ := newAccountFixture()
	seedAccount(repo, 5, "u5@x.com", true)

	if err := svc.Delete(context.Background(), 5); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if wallet.callCount() != 0 {
		t.Fatalf("self-service delete must not cascade")
	}
}

func TestAccountService_List(t *testing.T) {
	svc, repo, _, _ := newAccountFixture()
	seedAccount(repo, 1, "alice@x.com", true)
	seedAccount(repo, 2, "bob@x.com", false)
	seedAccount(repo, 3, "carol@x.com", true)

	res, err := svc.List(context.Background(), ports.ListAccountsInput{Active: boolPtr(true), Size: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 2 || res.TotalPages != 2 || len(res.Items) != 1 {
		t.Fatalf("unexpected page: total=%d pages=%d items=%d", res.Total, res.TotalPages, len(res.Items))
	}
	// newest first: id 1 was created most recently
	if res.Items[0].ID != 1 {
		t.Fatalf("expected newest account first, got %d", res.Items[0].ID)
	}

	if _, err := svc.List(context.Background(), ports.ListAccountsInput{Role: "ROOT"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for role, got %v", err)
	}

	res, _ = svc.List(context.Background(), ports.ListAccountsInput{Size: 1000})
	if res.Size != maxPageSize {
		t.Fatalf("expected size cap %d, got %d", maxPageSize, res.Size)
	}
}
