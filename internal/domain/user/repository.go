package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("email already registered")
)

type AccountRepository interface {
	Create(ctx context.Context, a Account) error
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
}

type ProfileRepository interface {
	Get(ctx context.Context, id uuid.UUID) (Profile, error)
	// ListAll returns every profile in the store's natural order.
	ListAll(ctx context.Context) ([]Profile, error)
	// Patch merges fields into the profile, creating it when absent.
	Patch(ctx context.Context, id uuid.UUID, patch ProfilePatch) (Profile, error)
	// AdjustTimeBalance adds delta to the balance and counts one more
	// completed exchange. Only exchange completion calls it.
	AdjustTimeBalance(ctx context.Context, id uuid.UUID, delta int) error
}
