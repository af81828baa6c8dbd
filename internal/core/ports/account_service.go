package ports

import (
	"context"

	"github.com/userservice/user-service/internal/core/domain"
)

// CreateAccountInput carries the data needed to create an account. An empty
// Role defaults to USER.
type CreateAccountInput struct {
	Username string
	Email    string
	Password string
	Age      int
	Role     domain.Role
}

// AccountPatch is the self-service partial update. Nil fields are left untouched.
type AccountPatch struct {
	Username *string
	Password *string
	Age      *int
}

// AdminAccountUpdate is the admin partial update; unlike AccountPatch it may
// change the email.
type AdminAccountUpdate struct {
	Username *string
	Email    *string
	Password *string
	Age      *int
}

// ListAccountsInput carries the raw listing parameters.
type ListAccountsInput struct {
	Username string
	Email    string
	Active   *bool
	Role     string
	Page     int
	Size     int
}

// ListAccountsResult is one page of the admin listing.
type ListAccountsResult struct {
	Items      []*domain.Account
	Total      int64
	Page       int
	Size       int
	TotalPages int
}

// AdminActionResult reports the local transition and, when one was attempted,
// the outcome of propagating it to the wallet service.
type AdminActionResult struct {
	Account *domain.Account
	// Changed is false when the account was already in the requested state.
	Changed bool
	Cascade *domain.CascadeOutcome
}

// AccountService owns every state transition on the local account record.
type AccountService interface {
	Create(ctx context.Context, input CreateAccountInput) (*domain.Account, error)
	Get(ctx context.Context, id int64) (*domain.Account, error)
	List(ctx context.Context, input ListAccountsInput) (*ListAccountsResult, error)
	Patch(ctx context.Context, id int64, patch AccountPatch) (*domain.Account, error)
	UpdateByAdmin(ctx context.Context, id int64, update AdminAccountUpdate) (*domain.Account, error)
	Delete(ctx context.Context, id int64) error
	DeleteByAdmin(ctx context.Context, id int64, callerToken string) (*AdminActionResult, error)
	SetActive(ctx context.Context, id int64, active bool) (*domain.Account, bool, error)
	Blacklist(ctx context.Context, id int64, callerToken string) (*AdminActionResult, error)
	Unblock(ctx context.Context, id int64, callerToken string) (*AdminActionResult, error)
}
