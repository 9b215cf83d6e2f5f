package seeder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"skill-swap/internal/database"
)

// Table names the table a seeder writes and the columns it fills. Conflict is
// the unique column that makes reruns skip rows already present.
type Table struct {
	Name     string
	Columns  []string
	Conflict string
}

func (t Table) validate() error {
	if t.Name == "" {
		return errors.New("empty table")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %s: no columns", t.Name)
	}
	for _, col := range t.Columns {
		if col == "" {
			return fmt.Errorf("table %s: empty column", t.Name)
		}
	}
	return nil
}

// Ensure checks information_schema for every seeded column and reports all
// missing ones at once.
func (t Table) Ensure(ctx context.Context, q database.Querier) error {
	if err := t.validate(); err != nil {
		return err
	}

	rows, err := q.Query(
		ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema='public' AND table_name=$1`,
		t.Name,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, col := range t.Columns {
		if _, ok := existing[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("schema mismatch: table %s missing %s", t.Name, strings.Join(missing, ", "))
	}
	return nil
}

// InsertSQL builds a positional INSERT over Columns, skipping conflicts on
// Conflict when it is set.
func (t Table) InsertSQL() string {
	ph := make([]string, len(t.Columns))
	for i := range t.Columns {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(t.Columns, ", "), strings.Join(ph, ", "))
	if t.Conflict != "" {
		q += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", t.Conflict)
	}
	return q
}
