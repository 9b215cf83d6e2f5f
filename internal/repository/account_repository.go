package repository

import (
	"context"
	"strings"

	"skill-swap/internal/database"
	"skill-swap/internal/database/postgres"
	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
)

type PostgresAccountRepository struct {
	q database.Querier
}

func NewPostgresAccountRepository(q database.Querier) *PostgresAccountRepository {
	return &PostgresAccountRepository{q: q}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, a user.Account) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, strings.ToLower(strings.TrimSpace(a.Email)), a.PasswordHash, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return user.ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (user.Account, error) {
	return r.scanOne(r.q.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`,
		id,
	))
}

func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (user.Account, error) {
	return r.scanOne(r.q.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	))
}

func (r *PostgresAccountRepository) scanOne(row database.Row) (user.Account, error) {
	var a user.Account
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return user.Account{}, user.ErrNotFound
		}
		return user.Account{}, err
	}
	return a, nil
}
