package seeder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"skill-swap/internal/database"
)

type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
}

// Run checks each seeder's table and seeds it in its own transaction. The
// first failure stops the run; earlier seeders stay committed.
func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		n, err := runOne(ctx, db, s)
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		r.logf("[Seeder] done | name=%s table=%s inserted=%d duration_ms=%d", s.Name(), s.Table().Name, n, time.Since(start).Milliseconds())
	}
	return nil
}

func runOne(ctx context.Context, db database.DB, s Seeder) (int64, error) {
	if err := s.Table().Ensure(ctx, db); err != nil {
		return 0, err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	n, err := s.Seed(ctx, tx)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

func (r Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}
