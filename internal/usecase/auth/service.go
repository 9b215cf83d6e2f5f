package auth

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

const minPasswordLength = 8

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}

type Service struct {
	store repository.Store
	cost  int
	now   func() time.Time
}

func NewService(store repository.Store) *Service {
	return &Service{store: store, cost: bcrypt.DefaultCost, now: time.Now}
}

// NewServiceWithCost lets tests trade hash strength for speed.
func NewServiceWithCost(store repository.Store, cost int) *Service {
	s := NewService(store)
	s.cost = cost
	return s
}

// Register creates the login account and an empty profile in one transaction,
// so every account can be matched and can take part in exchanges.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.Account, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return user.Account{}, ErrInvalidInput
	}
	if !isValidPassword(in.Password) {
		return user.Account{}, ErrInvalidInput
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return user.Account{}, ErrInternal
	}

	now := s.now().UTC()
	acc := user.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Accounts().Create(ctx, acc); err != nil {
			return err
		}
		_, err := tx.Users().Patch(ctx, acc.ID, user.ProfilePatch{
			Name:              &name,
			TeachingSkills:    &[]string{},
			LearningInterests: &[]string{},
		})
		return err
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			return user.Account{}, ErrEmailAlreadyRegistered
		}
		return user.Account{}, ErrInternal
	}

	return sanitizeAccount(acc), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.Account, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.Account{}, ErrInvalidCredentials
	}

	acc, err := s.store.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Account{}, ErrInvalidCredentials
		}
		return user.Account{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(in.Password)); err != nil {
		return user.Account{}, ErrInvalidCredentials
	}

	return sanitizeAccount(acc), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidPassword(pw string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(pw)) >= minPasswordLength
}

func sanitizeAccount(a user.Account) user.Account {
	a.PasswordHash = ""
	return a
}
