package repository

import (
	"context"
	"fmt"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/exchange"
	"skill-swap/internal/domain/skill"
	"skill-swap/internal/domain/user"
)

// Store is the persistence port used by the usecases. Repositories returned
// from a Store passed to WithinTx run inside that transaction.
type Store interface {
	Accounts() user.AccountRepository
	Users() user.ProfileRepository
	Exchanges() exchange.Repository
	Skills() skill.Repository

	// WithinTx runs fn in one transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

type PostgresStore struct {
	db database.DB
	q  database.Querier
}

func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

func (s *PostgresStore) Accounts() user.AccountRepository {
	return NewPostgresAccountRepository(s.q)
}

func (s *PostgresStore) Users() user.ProfileRepository {
	return NewPostgresProfileRepository(s.q)
}

func (s *PostgresStore) Exchanges() exchange.Repository {
	return NewPostgresExchangeRepository(s.q)
}

func (s *PostgresStore) Skills() skill.Repository {
	return NewPostgresSkillRepository(s.q)
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if _, nested := s.q.(database.Tx); nested {
		return fn(s)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if err := fn(&PostgresStore{db: s.db, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
