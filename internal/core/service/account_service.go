package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/userservice/user-service/internal/core/domain"
	"github.com/userservice/user-service/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AccountService implements every state transition on the local account
// record. Admin transitions that affect wallets are committed locally first
// and only then handed to the cascade orchestrator.
type AccountService struct {
	repo     ports.AccountRepository
	hasher   ports.PasswordHasher
	cascade  ports.CascadeOrchestrator
	validate *validator.Validate
	now      func() time.Time
	log      zerolog.Logger
}

func NewAccountService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	cascade ports.CascadeOrchestrator,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		repo:     repo,
		hasher:   hasher,
		cascade:  cascade,
		validate: validator.New(),
		now:      time.Now,
		log:      log,
	}
}

func (s *AccountService) Create(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
	if err := s.checkUsername(in.Username, 2); err != nil {
		return nil, err
	}
	if err := s.checkEmail(in.Email); err != nil {
		return nil, err
	}
	if len(in.Password) < 6 || len(in.Password) > 72 {
		return nil, domain.ValidationErrorf("password must be between 6 and 72 characters")
	}
	if err := checkAge(in.Age); err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if in.Role != "" {
		parsed, err := domain.ParseRole(string(in.Role))
		if err != nil {
			return nil, domain.ValidationErrorf("role must be one of USER, ADMIN")
		}
		role = parsed
	}

	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Age:          in.Age,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("role", created.Role.String()).Msg("account created")
	return created, nil
}

func (s *AccountService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AccountService) List(ctx context.Context, in ports.ListAccountsInput) (*ports.ListAccountsResult, error) {
	page := in.Page
	if page < 0 {
		page = 0
	}
	size := in.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	filter := ports.ListAccountsFilter{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Active:   in.Active,
		Page:     page,
		Size:     size,
	}
	if strings.TrimSpace(in.Role) != "" {
		role, err := domain.ParseRole(in.Role)
		if err != nil {
			return nil, domain.ValidationErrorf("role must be one of USER, ADMIN")
		}
		filter.Role = &role
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &ports.ListAccountsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}, nil
}

// Patch applies the self-service partial update. Blank strings are ignored
// like nil ones.
func (s *AccountService) Patch(ctx context.Context, id int64, p ports.AccountPatch) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Username != nil && strings.TrimSpace(*p.Username) != "" {
		if err := s.checkUsername(*p.Username, 3); err != nil {
			return nil, err
		}
		account.Username = *p.Username
	}
	if p.Password != nil && *p.Password != "" {
		if err := s.rehash(account, *p.Password); err != nil {
			return nil, err
		}
	}
	if p.Age != nil {
		if err := checkAge(*p.Age); err != nil {
			return nil, err
		}
		account.Age = *p.Age
	}

	account.UpdatedAt = s.now().UTC()
	updated, err := s.repo.Update(ctx, account)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", id).Msg("account patched")
	return updated, nil
}

// UpdateByAdmin is Patch plus email changes. A new email must not belong to
// another account.
func (s *AccountService) UpdateByAdmin(ctx context.Context, id int64, u ports.AdminAccountUpdate) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.Username != nil && strings.TrimSpace(*u.Username) != "" {
		if err := s.checkUsername(*u.Username, 2); err != nil {
			return nil, err
		}
		account.Username = *u.Username
	}
	if u.Email != nil && *u.Email != account.Email {
		if err := s.checkEmail(*u.Email); err != nil {
			return nil, err
		}
		exists, err := s.repo.ExistsByEmail(ctx, *u.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrEmailTaken
		}
		account.Email = *u.Email
	}
	if u.Password != nil && *u.Password != "" {
		if err := s.rehash(account, *u.Password); err != nil {
			return nil, err
		}
	}
	if u.Age != nil {
		if err := checkAge(*u.Age); err != nil {
			return nil, err
		}
		account.Age = *u.Age
	}

	account.UpdatedAt = s.now().UTC()
	updated, err := s.repo.Update(ctx, account)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", id).Msg("admin updated account")
	return updated, nil
}

// Delete removes the local record only.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", id).Msg("account deleted")
	return nil
}

// DeleteByAdmin removes the local record and then asks the wallet service to
// delete the user's wallets.
func (s *AccountService) DeleteByAdmin(ctx context.Context, id int64, callerToken string) (*ports.AdminActionResult, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.log.Warn().Int64("user_id", id).Msg("admin deleted account")

	outcome := s.cascade.Propagate(ctx, id, domain.CascadeDelete, callerToken)
	return &ports.AdminActionResult{Account: account, Changed: true, Cascade: &outcome}, nil
}

// SetActive moves the account to the requested active state. It reports
// changed=false and performs no write when the account is already there.
func (s *AccountService) SetActive(ctx context.Context, id int64, active bool) (*domain.Account, bool, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if account.Active == active {
		return account, false, nil
	}

	account.Active = active
	account.UpdatedAt = s.now().UTC()
	updated, err := s.repo.Update(ctx, account)
	if err != nil {
		return nil, false, err
	}
	s.log.Info().Int64("user_id", id).Bool("active", active).Msg("account active flag changed")
	return updated, true, nil
}

func (s *AccountService) Blacklist(ctx context.Context, id int64, callerToken string) (*ports.AdminActionResult, error) {
	return s.transition(ctx, id, false, domain.CascadeBlacklist, callerToken)
}

func (s *AccountService) Unblock(ctx context.Context, id int64, callerToken string) (*ports.AdminActionResult, error) {
	return s.transition(ctx, id, true, domain.CascadeUnblock, callerToken)
}

func (s *AccountService) transition(ctx context.Context, id int64, active bool, action domain.CascadeAction, callerToken string) (*ports.AdminActionResult, error) {
	account, changed, err := s.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}

	result := &ports.AdminActionResult{Account: account, Changed: changed}
	if !changed {
		s.log.Debug().Int64("user_id", id).Str("action", string(action)).Msg("no-op transition, cascade skipped")
		return result, nil
	}

	outcome := s.cascade.Propagate(ctx, id, action, callerToken)
	result.Cascade = &outcome
	return result, nil
}

func (s *AccountService) rehash(account *domain.Account, password string) error {
	if len(password) < 8 || len(password) > 20 {
		return domain.ValidationErrorf("password must be between 8 and 20 characters")
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	return nil
}

func (s *AccountService) checkUsername(username string, minLen int) error {
	n := len([]rune(strings.TrimSpace(username)))
	if n == 0 {
		return domain.ValidationErrorf("username is required")
	}
	if n < minLen || n > 50 {
		return domain.ValidationErrorf("username must be between %d and 50 characters", minLen)
	}
	return nil
}

func (s *AccountService) checkEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return domain.ValidationErrorf("email is required")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return domain.ValidationErrorf("email must be a valid email")
		}
		return err
	}
	return nil
}

func checkAge(age int) error {
	if age < 18 {
		return domain.ValidationErrorf("age must be at least 18")
	}
	if age > 100 {
		return domain.ValidationErrorf("age cannot exceed 100")
	}
	return nil
}
