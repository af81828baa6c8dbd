package handler

import (
	"context"

	"github.com/userservice/user-service/internal/core/domain"
	"github.com/userservice/user-service/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

// stubAccountService embeds the interface so tests only override what they use.
type stubAccountService struct {
	ports.AccountService
	getFn         func(ctx context.Context, id int64) (*domain.Account, error)
	patchFn       func(ctx context.Context, id int64, p ports.AccountPatch) (*domain.Account, error)
	listFn        func(ctx context.Context, in ports.ListAccountsInput) (*ports.ListAccountsResult, error)
	createFn      func(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error)
	blacklistFn   func(ctx context.Context, id int64, token string) (*ports.AdminActionResult, error)
	deleteAdminFn func(ctx context.Context, id int64, token string) (*ports.AdminActionResult, error)
}

func (s *stubAccountService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountService) Patch(ctx context.Context, id int64, p ports.AccountPatch) (*domain.Account, error) {
	return s.patchFn(ctx, id, p)
}

func (s *stubAccountService) List(ctx context.Context, in ports.ListAccountsInput) (*ports.ListAccountsResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubAccountService) Create(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, in)
}

func (s *stubAccountService) Blacklist(ctx context.Context, id int64, token string) (*ports.AdminActionResult, error) {
	return s.blacklistFn(ctx, id, token)
}

func (s *stubAccountService) DeleteByAdmin(ctx context.Context, id int64, token string) (*ports.AdminActionResult, error) {
	return s.deleteAdminFn(ctx, id, token)
}

type stubWallets struct {
	ports.WalletClient
	wallets []domain.Wallet
	err     error
	token   string
}

func (s *stubWallets) ListWallets(_ context.Context, _ int64, token string) ([]domain.Wallet, error) {
	s.token = token
	return s.wallets, s.err
}

type stubLedger struct {
	ports.CascadeLedger
	failures []domain.CascadeFailure
}

func (s *stubLedger) List(context.Context) ([]domain.CascadeFailure, error) {
	return s.failures, nil
}
