package seeder

import (
	"context"

	"skill-swap/internal/database"
)

// Seeder writes reference rows into one table. Seed runs inside the
// transaction opened by Runner and returns how many rows it inserted.
type Seeder interface {
	Name() string
	Table() Table
	Seed(ctx context.Context, tx database.Querier) (int64, error)
}
