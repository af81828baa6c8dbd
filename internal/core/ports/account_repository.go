package ports

import (
	"context"

	"github.com/userservice/user-service/internal/core/domain"
)

// ListAccountsFilter carries the query parameters for the admin listing.
type ListAccountsFilter struct {
	Username string       // optional: case-insensitive substring
	Email    string       // optional: case-insensitive substring
	Active   *bool        // optional
	Role     *domain.Role // optional
	Page     int          // 0-based
	Size     int
}

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// Create assigns a new id and stores the account. Returns domain.ErrEmailTaken
	// when the email is already registered.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update replaces the stored record. Returns domain.ErrAccountNotFound when
	// the id no longer exists.
	Update(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Delete(ctx context.Context, id int64) error
	// List returns a page of accounts, newest first, and the total match count.
	List(ctx context.Context, filter ListAccountsFilter) ([]*domain.Account, int64, error)
}
