package repository

import (
	"context"
	"fmt"

	"skill-swap/internal/database"
	"skill-swap/internal/database/postgres"
	"skill-swap/internal/domain/exchange"
	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
)

const exchangeColumns = `id, teacher_id, student_id, skill, duration, credits, status,
	scheduled_for, created_at, completed_at, cancelled_at, updated_at`

type PostgresExchangeRepository struct {
	q database.Querier
}

func NewPostgresExchangeRepository(q database.Querier) *PostgresExchangeRepository {
	return &PostgresExchangeRepository{q: q}
}

func (r *PostgresExchangeRepository) Create(ctx context.Context, e exchange.Exchange) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO exchanges (id, teacher_id, student_id, skill, duration, credits, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.TeacherID, e.StudentID, e.Skill, e.Duration, e.Credits, string(e.Status), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return user.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresExchangeRepository) Get(ctx context.Context, id uuid.UUID) (exchange.Exchange, error) {
	return r.getOne(ctx, `SELECT `+exchangeColumns+` FROM exchanges WHERE id = $1`, id)
}

func (r *PostgresExchangeRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (exchange.Exchange, error) {
	return r.getOne(ctx, `SELECT `+exchangeColumns+` FROM exchanges WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresExchangeRepository) getOne(ctx context.Context, query string, id uuid.UUID) (exchange.Exchange, error) {
	e, err := scanExchange(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return exchange.Exchange{}, exchange.ErrNotFound
		}
		return exchange.Exchange{}, err
	}
	return e, nil
}

func (r *PostgresExchangeRepository) UpdateStatusIfCurrent(ctx context.Context, t exchange.Transition) (exchange.Exchange, error) {
	if !exchange.CanTransition(t.From, t.To) {
		return exchange.Exchange{}, fmt.Errorf("%w: %s -> %s", exchange.ErrInvalidTransition, t.From, t.To)
	}
	if t.To == exchange.StatusScheduled && t.ScheduledFor == nil {
		return exchange.Exchange{}, exchange.ErrInvalidSchedule
	}

	e, err := scanExchange(r.q.QueryRow(ctx,
		`UPDATE exchanges
		 SET status = $3::text,
			updated_at = $4,
			scheduled_for = CASE WHEN $3::text = 'scheduled' THEN $5::timestamptz ELSE scheduled_for END,
			completed_at = CASE WHEN $3::text = 'completed' THEN $4 ELSE completed_at END,
			cancelled_at = CASE WHEN $3::text = 'cancelled' THEN $4 ELSE cancelled_at END
		 WHERE id = $1 AND status = $2::text
		 RETURNING `+exchangeColumns,
		t.ID, string(t.From), string(t.To), t.At, t.ScheduledFor,
	))
	if err == nil {
		return e, nil
	}
	if !database.IsNoRows(err) {
		return exchange.Exchange{}, err
	}

	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM exchanges WHERE id = $1)`, t.ID).Scan(&exists); err != nil {
		return exchange.Exchange{}, err
	}
	if !exists {
		return exchange.Exchange{}, exchange.ErrNotFound
	}
	return exchange.Exchange{}, exchange.ErrStatusChanged
}

func (r *PostgresExchangeRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]exchange.Exchange, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+exchangeColumns+`
		 FROM exchanges
		 WHERE teacher_id = $1 OR student_id = $1
		 ORDER BY COALESCE(scheduled_for, created_at) DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]exchange.Exchange, 0)
	for rows.Next() {
		e, err := scanExchange(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanExchange(row database.Row) (exchange.Exchange, error) {
	var (
		e      exchange.Exchange
		status string
	)
	err := row.Scan(
		&e.ID, &e.TeacherID, &e.StudentID, &e.Skill, &e.Duration, &e.Credits, &status,
		&e.ScheduledFor, &e.CreatedAt, &e.CompletedAt, &e.CancelledAt, &e.UpdatedAt,
	)
	if err != nil {
		return exchange.Exchange{}, err
	}
	e.Status = exchange.Status(status)
	return e, nil
}
