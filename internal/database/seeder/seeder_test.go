package seeder

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"skill-swap/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	vals []string
	i    int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool {
	r.i++
	return r.i <= len(r.vals)
}
func (r *fakeRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.vals[r.i-1]
	return nil
}

type fakeTx struct {
	execs     int
	failAt    int
	committed bool
}

func (t *fakeTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	t.execs++
	if t.failAt > 0 && t.execs == t.failAt {
		return 0, errors.New("boom")
	}
	return 1, nil
}
func (t *fakeTx) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return nil, errors.New("not used")
}
func (t *fakeTx) QueryRow(ctx context.Context, query string, args ...any) database.Row { return nil }
func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}
func (t *fakeTx) Rollback(ctx context.Context) error { return nil }

type fakeDB struct {
	columns []string
	tx      *fakeTx
}

func (d *fakeDB) Exec(ctx context.Context, query string, args ...any) (int64, error) { return 0, nil }
func (d *fakeDB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return &fakeRows{vals: d.columns}, nil
}
func (d *fakeDB) QueryRow(ctx context.Context, query string, args ...any) database.Row { return nil }
func (d *fakeDB) Ping(ctx context.Context) error                                       { return nil }
func (d *fakeDB) Close() error                                                         { return nil }
func (d *fakeDB) Begin(ctx context.Context) (database.Tx, error)                       { return d.tx, nil }
func (d *fakeDB) SQLDB() *sql.DB                                                       { return nil }

var skillColumns = []string{"id", "name", "description", "category", "estimated_hours", "created_at"}

func runSkills(db *fakeDB) error {
	return Runner{Seeders: Defaults()}.Run(context.Background(), db)
}

func TestCatalog_HasUniqueNamesAndPositiveHours(t *testing.T) {
	items := Catalog()
	require.Len(t, items, 17)

	seen := map[string]struct{}{}
	categories := map[string]struct{}{}
	for _, it := range items {
		_, dup := seen[it.Name]
		assert.False(t, dup, "duplicate skill %q", it.Name)
		seen[it.Name] = struct{}{}
		categories[it.Category] = struct{}{}
		assert.Positive(t, it.EstimatedHours, it.Name)
		assert.NotEmpty(t, it.Description, it.Name)
	}
	assert.Len(t, categories, 8)
}

func TestTable_InsertSQL(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO skills (name, description, category, estimated_hours) VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO NOTHING",
		skillsTable.InsertSQL(),
	)
	assert.Equal(t,
		"INSERT INTO tags (label) VALUES ($1)",
		Table{Name: "tags", Columns: []string{"label"}}.InsertSQL(),
	)
}

func TestSkillsSeeder_SeedCountsInsertedRows(t *testing.T) {
	tx := &fakeTx{}

	n, err := SkillsSeeder{}.Seed(context.Background(), tx)
	require.NoError(t, err)
	assert.EqualValues(t, len(Catalog()), n)
	assert.Equal(t, len(Catalog()), tx.execs)
}

func TestRunner_InsertsEveryEntryAndCommits(t *testing.T) {
	db := &fakeDB{columns: skillColumns, tx: &fakeTx{}}

	require.NoError(t, runSkills(db))
	assert.Equal(t, len(Catalog()), db.tx.execs)
	assert.True(t, db.tx.committed)
}

func TestRunner_StopsOnInsertError(t *testing.T) {
	db := &fakeDB{columns: skillColumns, tx: &fakeTx{failAt: 3}}

	err := runSkills(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed skills")
	assert.False(t, db.tx.committed)
}

func TestRunner_RejectsSchemaMismatch(t *testing.T) {
	db := &fakeDB{columns: []string{"id", "name"}, tx: &fakeTx{}}

	err := runSkills(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema mismatch: table skills missing category, description, estimated_hours")
	assert.Zero(t, db.tx.execs)
}

func TestTable_EnsureRejectsEmptyDefinition(t *testing.T) {
	db := &fakeDB{columns: skillColumns}

	require.Error(t, Table{Columns: []string{"name"}}.Ensure(context.Background(), db))
	require.Error(t, Table{Name: "skills"}.Ensure(context.Background(), db))
	require.Error(t, Table{Name: "skills", Columns: []string{""}}.Ensure(context.Background(), db))
}

func TestRunner_RequiresDB(t *testing.T) {
	err := Runner{Seeders: Defaults()}.Run(context.Background(), nil)
	require.Error(t, err)
}
