package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/userservice/user-service/internal/core/domain"
	"github.com/userservice/user-service/internal/core/ports"
	"github.com/userservice/user-service/internal/pkg/metrics"
)

// AuthService implements registration and login.
type AuthService struct {
	accounts    ports.AccountService
	store       ports.PrincipalStore
	codec       ports.TokenCodec
	provisioner ports.WalletProvisioner
	now         func() time.Time
	log         zerolog.Logger
}

// NewAuthService wires the use cases. provisioner may be nil, in which case no
// wallet is requested for new accounts.
func NewAuthService(
	accounts ports.AccountService,
	store ports.PrincipalStore,
	codec ports.TokenCodec,
	provisioner ports.WalletProvisioner,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		accounts:    accounts,
		store:       store,
		codec:       codec,
		provisioner: provisioner,
		now:         time.Now,
		log:         log,
	}
}

// Register creates a USER account and schedules its wallet.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	account, err := s.accounts.Create(ctx, ports.CreateAccountInput{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		Age:      in.Age,
		Role:     domain.RoleUser,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			s.log.Warn().Str("email", in.Email).Msg("registration failed: email already registered")
		}
		return nil, err
	}

	metrics.AccountsRegisteredTotal.Inc()
	s.log.Info().Int64("user_id", account.ID).Str("email", account.Email).Msg("user registered")

	if s.provisioner != nil {
		s.provisioner.Enqueue(ports.ProvisionRequest{UserID: account.ID, Username: account.Username})
	}
	return account, nil
}

// Login verifies credentials and issues a token. Inactive accounts are refused
// before the password is checked, so no token is ever issued for them.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.store.FindAuthIdentity(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			metrics.LoginsTotal.WithLabelValues("unknown_email").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !identity.Active {
		metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		s.log.Warn().Int64("user_id", identity.UserID).Msg("login refused: account inactive")
		return nil, domain.ErrAccountInactive
	}

	if !s.store.VerifyPassword(password, identity.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Encode(identity.Email, identity.UserID, identity.Role, s.now())
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Int64("user_id", identity.UserID).Str("role", identity.Role.String()).Msg("user logged in")

	return &ports.LoginResult{Token: token, Role: identity.Role, UserID: identity.UserID}, nil
}
