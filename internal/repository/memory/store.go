// Package memory is an in-process Store. It backs tests and DB_DRIVER=memory.
//
// Writes are serialized. WithinTx works on a copy of the data and swaps it in
// on success, so a failed transaction leaves nothing behind.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"skill-swap/internal/domain/exchange"
	"skill-swap/internal/domain/skill"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

// FaultFunc lets tests fail a named operation, e.g. "users.AdjustTimeBalance".
// A nil return lets the operation proceed.
type FaultFunc func(op string, id uuid.UUID) error

type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	data    *state

	faultMu sync.RWMutex
	fault   FaultFunc

	now func() time.Time
}

type state struct {
	accounts      map[uuid.UUID]user.Account
	accountEmails map[string]uuid.UUID
	profiles      map[uuid.UUID]user.Profile
	profileOrder  []uuid.UUID
	exchanges     map[uuid.UUID]exchange.Exchange
	exchangeOrder []uuid.UUID
	skills        []skill.CatalogEntry
}

func newState() *state {
	return &state{
		accounts:      map[uuid.UUID]user.Account{},
		accountEmails: map[string]uuid.UUID{},
		profiles:      map[uuid.UUID]user.Profile{},
		exchanges:     map[uuid.UUID]exchange.Exchange{},
	}
}

func (s *state) clone() *state {
	out := &state{
		accounts:      make(map[uuid.UUID]user.Account, len(s.accounts)),
		accountEmails: make(map[string]uuid.UUID, len(s.accountEmails)),
		profiles:      make(map[uuid.UUID]user.Profile, len(s.profiles)),
		profileOrder:  slices.Clone(s.profileOrder),
		exchanges:     make(map[uuid.UUID]exchange.Exchange, len(s.exchanges)),
		exchangeOrder: slices.Clone(s.exchangeOrder),
		skills:        slices.Clone(s.skills),
	}
	for k, v := range s.accounts {
		out.accounts[k] = v
	}
	for k, v := range s.accountEmails {
		out.accountEmails[k] = v
	}
	for k, v := range s.profiles {
		out.profiles[k] = v.Clone()
	}
	for k, v := range s.exchanges {
		out.exchanges[k] = v
	}
	return out
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSkills preloads the catalog. Entries without an ID get one.
func WithSkills(entries []skill.CatalogEntry) Option {
	return func(s *Store) {
		for _, e := range entries {
			if e.ID == uuid.Nil {
				e.ID = uuid.New()
			}
			if e.CreatedAt.IsZero() {
				e.CreatedAt = s.now()
			}
			s.data.skills = append(s.data.skills, e)
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{data: newState(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SetFault installs fn, replacing any previous one. Pass nil to clear.
func (s *Store) SetFault(fn FaultFunc) {
	s.faultMu.Lock()
	s.fault = fn
	s.faultMu.Unlock()
}

func (s *Store) check(op string, id uuid.UUID) error {
	s.faultMu.RLock()
	fn := s.fault
	s.faultMu.RUnlock()
	if fn == nil {
		return nil
	}
	return fn(op, id)
}

// SeedProfiles inserts profiles as-is, including fields a patch cannot set
// such as TimeBalance.
func (s *Store) SeedProfiles(profiles ...user.Profile) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range profiles {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = s.now()
			p.UpdatedAt = p.CreatedAt
		}
		if _, ok := s.data.profiles[p.ID]; !ok {
			s.data.profileOrder = append(s.data.profileOrder, p.ID)
		}
		s.data.profiles[p.ID] = p.Clone()
	}
}

func (s *Store) Accounts() user.AccountRepository { return accounts{view{store: s}} }
func (s *Store) Users() user.ProfileRepository    { return profiles{view{store: s}} }
func (s *Store) Exchanges() exchange.Repository   { return exchanges{view{store: s}} }
func (s *Store) Skills() skill.Repository         { return skills{view{store: s}} }

func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	if err := fn(&txStore{store: s, data: work}); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

// txStore reads and writes the transaction's private copy. The store's write
// lock is already held, so it takes no locks of its own.
type txStore struct {
	store *Store
	data  *state
}

func (t *txStore) Accounts() user.AccountRepository { return accounts{view{store: t.store, tx: t}} }
func (t *txStore) Users() user.ProfileRepository    { return profiles{view{store: t.store, tx: t}} }
func (t *txStore) Exchanges() exchange.Repository   { return exchanges{view{store: t.store, tx: t}} }
func (t *txStore) Skills() skill.Repository         { return skills{view{store: t.store, tx: t}} }

func (t *txStore) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(t)
}

// view runs repository operations against either the committed state or a
// transaction's copy.
type view struct {
	store *Store
	tx    *txStore
}

func (v view) now() time.Time { return v.store.now().UTC() }

func (v view) read(fn func(*state) error) error {
	if v.tx != nil {
		return fn(v.tx.data)
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return fn(v.store.data)
}

func (v view) write(fn func(*state) error) error {
	if v.tx != nil {
		return fn(v.tx.data)
	}
	v.store.writeMu.Lock()
	defer v.store.writeMu.Unlock()

	v.store.mu.RLock()
	work := v.store.data.clone()
	v.store.mu.RUnlock()

	if err := fn(work); err != nil {
		return err
	}
	v.store.mu.Lock()
	v.store.data = work
	v.store.mu.Unlock()
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	_ repository.Store = (*Store)(nil)
	_ repository.Store = (*txStore)(nil)
)
