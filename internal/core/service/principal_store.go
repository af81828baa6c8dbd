package service

import (
	"context"

	"github.com/userservice/user-service/internal/core/domain"
	"github.com/userservice/user-service/internal/core/ports"
)

// PrincipalStore resolves authentication identities from the account repository.
type PrincipalStore struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
}

func NewPrincipalStore(repo ports.AccountRepository, hasher ports.PasswordHasher) *PrincipalStore {
	return &PrincipalStore{repo: repo, hasher: hasher}
}

// FindAuthIdentity returns domain.ErrAccountNotFound when no account has email.
func (s *PrincipalStore) FindAuthIdentity(ctx context.Context, email string) (*domain.AuthIdentity, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return account.Identity(), nil
}

func (s *PrincipalStore) VerifyPassword(raw, hash string) bool {
	if raw == "" || hash == "" {
		return false
	}
	return s.hasher.Verify(raw, hash)
}
