package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"skill-swap/internal/domain/exchange"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/infrastructure/metrics"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const completionLockTTL = 30 * time.Second

type CreateExchangeInput struct {
	TeacherID     uuid.UUID
	StudentID     uuid.UUID
	Skill         string
	DurationHours int
}

type ExchangeDetails struct {
	Exchange exchange.Exchange
	Teacher  user.Profile
	Student  user.Profile
}

type ExchangeUsecase interface {
	CreateExchange(ctx context.Context, in CreateExchangeInput) (uuid.UUID, error)
	ScheduleExchange(ctx context.Context, actorID, exchangeID uuid.UUID, when string) (exchange.Exchange, error)
	CompleteExchange(ctx context.Context, actorID, exchangeID uuid.UUID) (exchange.Exchange, error)
	CancelExchange(ctx context.Context, actorID, exchangeID uuid.UUID) (exchange.Exchange, error)

	GetExchange(ctx context.Context, exchangeID uuid.UUID) (exchange.Exchange, error)
	GetExchangeDetails(ctx context.Context, actorID, exchangeID uuid.UUID) (ExchangeDetails, error)
	GetUserExchanges(ctx context.Context, userID uuid.UUID) ([]exchange.Exchange, error)
	GetUpcomingSessions(ctx context.Context, userID uuid.UUID) ([]exchange.Exchange, error)
}

type lockCache interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	DeleteIfValue(ctx context.Context, key string, value string) (bool, error)
}

type Exchange struct {
	store   repository.Store
	locks   lockCache
	events  EventPublisher
	metrics *metrics.Metrics
	logger  *log.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

func NewExchangeUsecase(store repository.Store, locks lockCache, events EventPublisher, m *metrics.Metrics, logger *log.Logger) *Exchange {
	return &Exchange{
		store:   store,
		locks:   locks,
		events:  events,
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.New,
	}
}

func (u *Exchange) CreateExchange(ctx context.Context, in CreateExchangeInput) (uuid.UUID, error) {
	const op = "create exchange"

	ex, err := exchange.New(u.newID(), in.TeacherID, in.StudentID, in.Skill, in.DurationHours, u.now())
	if err != nil {
		return uuid.Nil, invalid(op, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, party := range []struct {
		role string
		id   uuid.UUID
	}{{"teacher", ex.TeacherID}, {"student", ex.StudentID}} {
		g.Go(func() error {
			_, err := retryRead(gctx, func(ctx context.Context) (user.Profile, error) {
				return u.store.Users().Get(ctx, party.id)
			})
			if err != nil {
				if errors.Is(err, user.ErrNotFound) {
					return fmt.Errorf("%s: %s %s %w", op, party.role, party.id, ErrNotFound)
				}
				return dataAccess(op, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return uuid.Nil, err
	}

	if err := u.store.Exchanges().Create(ctx, ex); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return uuid.Nil, fmt.Errorf("%s: party %w", op, ErrNotFound)
		}
		return uuid.Nil, dataAccess(op, err)
	}

	u.metrics.ExchangeCreated()
	u.logf("[Exchange] created | id=%s teacher=%s student=%s skill=%q credits=%d", ex.ID, ex.TeacherID, ex.StudentID, ex.Skill, ex.Credits)
	u.publish(in.StudentID, ex)
	return ex.ID, nil
}

// ScheduleExchange sets the session time of a pending exchange. when must be
// an RFC 3339 timestamp. Re-scheduling is rejected.
func (u *Exchange) ScheduleExchange(ctx context.Context, actorID, exchangeID uuid.UUID, when string) (exchange.Exchange, error) {
	op := fmt.Sprintf("schedule exchange %s", exchangeID)

	at, err := exchange.ParseScheduleTime(when)
	if err != nil {
		return exchange.Exchange{}, invalid(op, err)
	}

	updated, err := u.transition(ctx, op, actorID, exchangeID, exchange.StatusScheduled, &at)
	if err != nil {
		return exchange.Exchange{}, err
	}
	u.logf("[Exchange] scheduled | id=%s actor=%s at=%s", exchangeID, actorID, at.Format(time.RFC3339))
	return updated, nil
}

func (u *Exchange) CancelExchange(ctx context.Context, actorID, exchangeID uuid.UUID) (exchange.Exchange, error) {
	op := fmt.Sprintf("cancel exchange %s", exchangeID)

	updated, err := u.transition(ctx, op, actorID, exchangeID, exchange.StatusCancelled, nil)
	if err != nil {
		return exchange.Exchange{}, err
	}
	u.logf("[Exchange] cancelled | id=%s actor=%s", exchangeID, actorID)
	return updated, nil
}

// transition is the single-record path shared by schedule and cancel: a
// compare-and-set on the status that was read, so a concurrent change makes
// the later caller fail instead of overwriting.
func (u *Exchange) transition(ctx context.Context, op string, actorID, exchangeID uuid.UUID, to exchange.Status, scheduledFor *time.Time) (exchange.Exchange, error) {
	current, err := u.getForActor(ctx, op, actorID, exchangeID)
	if err != nil {
		return exchange.Exchange{}, err
	}
	if !exchange.CanTransition(current.Status, to) {
		return exchange.Exchange{}, fmt.Errorf("%s: %w: status is %s", op, ErrInvalidStateTransition, current.Status)
	}

	updated, err := u.store.Exchanges().UpdateStatusIfCurrent(ctx, exchange.Transition{
		ID:           exchangeID,
		From:         current.Status,
		To:           to,
		At:           u.now(),
		ScheduledFor: scheduledFor,
	})
	if err != nil {
		switch {
		case errors.Is(err, exchange.ErrStatusChanged):
			return exchange.Exchange{}, fmt.Errorf("%s: %w: status changed concurrently", op, ErrInvalidStateTransition)
		case errors.Is(err, exchange.ErrNotFound):
			return exchange.Exchange{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			return exchange.Exchange{}, dataAccess(op, err)
		}
	}

	u.metrics.ExchangeTransition(string(to))
	u.publish(actorID, updated)
	return updated, nil
}

// CompleteExchange marks a scheduled exchange completed and moves its credits
// from the student to the teacher. The status change and both balance updates
// commit together or not at all.
func (u *Exchange) CompleteExchange(ctx context.Context, actorID, exchangeID uuid.UUID) (exchange.Exchange, error) {
	op := fmt.Sprintf("complete exchange %s", exchangeID)

	release, err := u.acquireCompletionLock(ctx, op, exchangeID, actorID)
	if err != nil {
		return exchange.Exchange{}, err
	}
	defer release()

	var completed exchange.Exchange
	err = u.store.WithinTx(ctx, func(tx repository.Store) error {
		ex, err := tx.Exchanges().GetForUpdate(ctx, exchangeID)
		if err != nil {
			if errors.Is(err, exchange.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrNotFound)
			}
			return dataAccess(op, err)
		}
		if !ex.IsParty(actorID) {
			return fmt.Errorf("%s: %w: not a party to this exchange", op, ErrForbidden)
		}
		if !exchange.CanTransition(ex.Status, exchange.StatusCompleted) {
			return fmt.Errorf("%s: %w: status is %s", op, ErrInvalidStateTransition, ex.Status)
		}

		completed, err = tx.Exchanges().UpdateStatusIfCurrent(ctx, exchange.Transition{
			ID:   exchangeID,
			From: ex.Status,
			To:   exchange.StatusCompleted,
			At:   u.now(),
		})
		if err != nil {
			if errors.Is(err, exchange.ErrStatusChanged) {
				return fmt.Errorf("%s: %w: status changed concurrently", op, ErrInvalidStateTransition)
			}
			return dataAccess(op, err)
		}

		if err := tx.Users().AdjustTimeBalance(ctx, ex.TeacherID, ex.Credits); err != nil {
			return dataAccess(fmt.Sprintf("%s: credit teacher %s", op, ex.TeacherID), err)
		}
		if err := tx.Users().AdjustTimeBalance(ctx, ex.StudentID, -ex.Credits); err != nil {
			return dataAccess(fmt.Sprintf("%s: debit student %s", op, ex.StudentID), err)
		}
		return nil
	})
	if err != nil {
		return exchange.Exchange{}, dataAccess(op, err)
	}

	u.metrics.ExchangeTransition(string(exchange.StatusCompleted))
	u.metrics.CreditsTransferred(completed.Credits)
	u.logf("[Exchange] completed | id=%s actor=%s credits=%d teacher=%s student=%s", exchangeID, actorID, completed.Credits, completed.TeacherID, completed.StudentID)
	u.publish(actorID, completed)
	return completed, nil
}

// acquireCompletionLock stores a per-attempt token; release deletes the key only
// while it still holds that token.
func (u *Exchange) acquireCompletionLock(ctx context.Context, op string, exchangeID, actorID uuid.UUID) (func(), error) {
	if u.locks == nil {
		return func() {}, nil
	}
	key := "exchanges:complete:lock:" + exchangeID.String()
	token := actorID.String() + ":" + uuid.NewString()
	ok, err := u.locks.SetIfNotExists(ctx, key, token, completionLockTTL)
	if err != nil {
		u.logf("[Exchange] completion lock unavailable, relying on row lock | id=%s err=%v", exchangeID, err)
		return func() {}, nil
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w: completion already in progress", op, ErrConflict)
	}
	return func() {
		if _, err := u.locks.DeleteIfValue(context.Background(), key, token); err != nil {
			u.logf("[Exchange] completion lock not released, left to expire | id=%s err=%v", exchangeID, err)
		}
	}, nil
}

func (u *Exchange) GetExchange(ctx context.Context, exchangeID uuid.UUID) (exchange.Exchange, error) {
	op := fmt.Sprintf("get exchange %s", exchangeID)
	ex, err := retryRead(ctx, func(ctx context.Context) (exchange.Exchange, error) {
		return u.store.Exchanges().Get(ctx, exchangeID)
	})
	if err != nil {
		if errors.Is(err, exchange.ErrNotFound) {
			return exchange.Exchange{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return exchange.Exchange{}, dataAccess(op, err)
	}
	return ex, nil
}

func (u *Exchange) getForActor(ctx context.Context, op string, actorID, exchangeID uuid.UUID) (exchange.Exchange, error) {
	ex, err := u.GetExchange(ctx, exchangeID)
	if err != nil {
		return exchange.Exchange{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ex.IsParty(actorID) {
		return exchange.Exchange{}, fmt.Errorf("%s: %w: not a party to this exchange", op, ErrForbidden)
	}
	return ex, nil
}

// GetExchangeDetails returns the exchange with both parties' profiles, read
// in parallel.
func (u *Exchange) GetExchangeDetails(ctx context.Context, actorID, exchangeID uuid.UUID) (ExchangeDetails, error) {
	op := fmt.Sprintf("get exchange details %s", exchangeID)

	ex, err := u.getForActor(ctx, op, actorID, exchangeID)
	if err != nil {
		return ExchangeDetails{}, err
	}

	out := ExchangeDetails{Exchange: ex}
	g, gctx := errgroup.WithContext(ctx)
	load := func(id uuid.UUID, dst *user.Profile) func() error {
		return func() error {
			p, err := retryRead(gctx, func(ctx context.Context) (user.Profile, error) {
				return u.store.Users().Get(ctx, id)
			})
			if err != nil {
				if errors.Is(err, user.ErrNotFound) {
					return fmt.Errorf("%s: user %s %w", op, id, ErrNotFound)
				}
				return dataAccess(op, err)
			}
			*dst = p
			return nil
		}
	}
	g.Go(load(ex.TeacherID, &out.Teacher))
	g.Go(load(ex.StudentID, &out.Student))
	if err := g.Wait(); err != nil {
		return ExchangeDetails{}, err
	}
	return out, nil
}

// GetUserExchanges lists every exchange the user is party to, newest
// scheduledFor or createdAt first, without filtering by status.
func (u *Exchange) GetUserExchanges(ctx context.Context, userID uuid.UUID) ([]exchange.Exchange, error) {
	op := fmt.Sprintf("list exchanges for %s", userID)
	items, err := retryRead(ctx, func(ctx context.Context) ([]exchange.Exchange, error) {
		return u.store.Exchanges().ListForUser(ctx, userID)
	})
	if err != nil {
		return nil, dataAccess(op, err)
	}
	exchange.SortNewestFirst(items)
	return items, nil
}

// GetUpcomingSessions returns scheduled exchanges whose time is still ahead,
// soonest first.
func (u *Exchange) GetUpcomingSessions(ctx context.Context, userID uuid.UUID) ([]exchange.Exchange, error) {
	items, err := u.GetUserExchanges(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	out := make([]exchange.Exchange, 0, len(items))
	for _, e := range items {
		if e.IsUpcoming(now) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledFor.Before(*out[j].ScheduledFor)
	})
	return out, nil
}

func (u *Exchange) publish(actorID uuid.UUID, ex exchange.Exchange) {
	if u.events == nil {
		return
	}
	u.events.PublishExchangeEvent(ExchangeEvent{
		Type:     EventExchangeUpdated,
		ActorID:  actorID,
		Exchange: ex,
		At:       u.now(),
	})
}

func (u *Exchange) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
