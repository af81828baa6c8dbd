package ports

import (
	"context"

	"github.com/userservice/user-service/internal/core/domain"
)

// WalletClient is the remote wallet capability. Every error it returns wraps
// domain.ErrWalletUnavailable.
type WalletClient interface {
	Blacklist(ctx context.Context, userID int64, token string) error
	Unblock(ctx context.Context, userID int64, token string) error
	DeleteWallets(ctx context.Context, userID int64, token string) error
	ListWallets(ctx context.Context, userID int64, token string) ([]domain.Wallet, error)
	ProvisionWallet(ctx context.Context, userID int64, username string) error
}

// CascadeOrchestrator propagates a committed local transition to the wallet
// service. It never returns an error: failures are reported in the outcome.
type CascadeOrchestrator interface {
	Propagate(ctx context.Context, userID int64, action domain.CascadeAction, callerToken string) domain.CascadeOutcome
}

// CascadeLedger keeps unresolved propagation failures.
type CascadeLedger interface {
	Record(ctx context.Context, failure domain.CascadeFailure) error
	Resolve(ctx context.Context, userID int64, action domain.CascadeAction) error
	List(ctx context.Context) ([]domain.CascadeFailure, error)
}

// ProvisionRequest asks the wallet service to open a wallet for a new account.
type ProvisionRequest struct {
	UserID   int64
	Username string
}

// WalletProvisioner enqueues provisioning work; it must not block the caller.
type WalletProvisioner interface {
	Enqueue(req ProvisionRequest) bool
}
