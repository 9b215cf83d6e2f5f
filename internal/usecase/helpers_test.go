package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/repository/memory"

	"github.com/google/uuid"
)

var errStoreDown = errors.New("store down")

func ptr[T any](v T) *T { return &v }

var testNow = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

func newMemoryStore(t *testing.T) *memory.Store {
	t.Helper()
	return memory.New(memory.WithClock(func() time.Time { return testNow }))
}

func profile(name string, teaches, learns []string) user.Profile {
	return user.Profile{
		ID:                uuid.New(),
		Name:              name,
		TeachingSkills:    teaches,
		LearningInterests: learns,
	}
}

// failOnce fails the first call of op and lets later calls through.
func failOnce(op string) memory.FaultFunc {
	var once sync.Once
	return func(got string, _ uuid.UUID) error {
		var err error
		if got == op {
			once.Do(func() { err = errStoreDown })
		}
		return err
	}
}

func failAlways(op string, id uuid.UUID) memory.FaultFunc {
	return func(got string, gotID uuid.UUID) error {
		if got == op && (id == uuid.Nil || gotID == id) {
			return errStoreDown
		}
		return nil
	}
}

type recordedEvents struct {
	mu     sync.Mutex
	events []ExchangeEvent
}

func (r *recordedEvents) PublishExchangeEvent(ev ExchangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordedEvents) all() []ExchangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ExchangeEvent(nil), r.events...)
}

type fakeLocks struct {
	mu      sync.Mutex
	held    map[string]string
	err     error
	deleted []string
}

func newFakeLocks() *fakeLocks { return &fakeLocks{held: map[string]string{}} }

func (l *fakeLocks) SetIfNotExists(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = value
	return true, nil
}

func (l *fakeLocks) DeleteIfValue(_ context.Context, key, value string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] != value {
		return false, nil
	}
	delete(l.held, key)
	l.deleted = append(l.deleted, key)
	return true, nil
}
