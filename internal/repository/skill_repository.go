package repository

import (
	"context"
	"strings"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/skill"
)

const skillColumns = `id, name, description, category, estimated_hours, created_at`

type PostgresSkillRepository struct {
	q database.Querier
}

func NewPostgresSkillRepository(q database.Querier) *PostgresSkillRepository {
	return &PostgresSkillRepository{q: q}
}

func (r *PostgresSkillRepository) List(ctx context.Context) ([]skill.CatalogEntry, error) {
	return r.query(ctx, `SELECT `+skillColumns+` FROM skills ORDER BY created_at DESC, name ASC`)
}

func (r *PostgresSkillRepository) ListByCategory(ctx context.Context, category string) ([]skill.CatalogEntry, error) {
	return r.query(ctx,
		`SELECT `+skillColumns+` FROM skills WHERE category = $1 ORDER BY created_at DESC, name ASC`,
		category,
	)
}

func (r *PostgresSkillRepository) Search(ctx context.Context, keyword string) ([]skill.CatalogEntry, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(keyword)) + "%"
	return r.query(ctx,
		`SELECT `+skillColumns+`
		 FROM skills
		 WHERE name ILIKE $1 OR description ILIKE $1
		 ORDER BY created_at DESC, name ASC`,
		pattern,
	)
}

func (r *PostgresSkillRepository) query(ctx context.Context, query string, args ...any) ([]skill.CatalogEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.CatalogEntry, 0)
	for rows.Next() {
		var s skill.CatalogEntry
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &s.EstimatedHours, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
