package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"skill-swap/internal/domain/matching"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/infrastructure/metrics"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

type MatchingUsecase interface {
	FindMatches(ctx context.Context, requesterID uuid.UUID) ([]matching.Result, error)
}

type Matching struct {
	store   repository.Store
	metrics *metrics.Metrics
	logger  *log.Logger
}

func NewMatchingUsecase(store repository.Store, m *metrics.Metrics, logger *log.Logger) *Matching {
	return &Matching{store: store, metrics: m, logger: logger}
}

// FindMatches rescans the whole profile population on every call. Results are
// never cached so profile edits show up immediately.
func (u *Matching) FindMatches(ctx context.Context, requesterID uuid.UUID) ([]matching.Result, error) {
	op := fmt.Sprintf("find matches for %s", requesterID)

	requester, err := retryRead(ctx, func(ctx context.Context) (user.Profile, error) {
		return u.store.Users().Get(ctx, requesterID)
	})
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, fmt.Errorf("%s: user %w", op, ErrNotFound)
		}
		return nil, dataAccess(op, err)
	}
	if len(requester.LearningInterests) == 0 {
		return []matching.Result{}, nil
	}

	population, err := retryRead(ctx, u.store.Users().ListAll)
	if err != nil {
		return nil, dataAccess(op, err)
	}

	out := matching.FindMatches(requester, population)
	u.metrics.MatchesComputed(len(out))
	if u.logger != nil {
		u.logger.Printf("[Matching] computed | requester=%s candidates=%d matches=%d", requesterID, len(population)-1, len(out))
	}
	return out, nil
}
