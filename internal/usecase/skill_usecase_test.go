package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"skill-swap/internal/domain/skill"
	"skill-swap/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	c.sets++
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func catalogStore() *memory.Store {
	return memory.New(memory.WithSkills([]skill.CatalogEntry{
		{Name: "Guitar Lessons", Description: "Chords and strumming", Category: "Music", EstimatedHours: 25},
		{Name: "Piano Fundamentals", Description: "Music theory basics", Category: "Music", EstimatedHours: 20},
		{Name: "Python Basics", Description: "Programming fundamentals", Category: "Programming", EstimatedHours: 8},
	}))
}

func names(items []skill.CatalogEntry) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestListSkills_FiltersByCategoryAndKeyword(t *testing.T) {
	uc := NewSkillUsecase(catalogStore(), nil, 0, nil)
	ctx := context.Background()

	all, err := uc.ListSkills(ctx, skill.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	music, err := uc.ListSkills(ctx, skill.Query{Category: "Music"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Guitar Lessons", "Piano Fundamentals"}, names(music))

	theory, err := uc.ListSkills(ctx, skill.Query{Keyword: "THEORY"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Piano Fundamentals"}, names(theory))

	none, err := uc.ListSkills(ctx, skill.Query{Category: "Programming", Keyword: "music"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListSkills_ServesRepeatQueriesFromCache(t *testing.T) {
	s := catalogStore()
	cache := newMapCache()
	uc := NewSkillUsecase(s, cache, time.Minute, nil)
	ctx := context.Background()

	first, err := uc.ListSkills(ctx, skill.Query{Category: "Music"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	s.SetFault(failAlways("skills.ListByCategory", uuid.Nil))
	second, err := uc.ListSkills(ctx, skill.Query{Category: " Music "})
	require.NoError(t, err)
	assert.Equal(t, names(first), names(second))
	assert.Equal(t, 1, cache.sets)
}

func TestListSkills_StoreFailureIsDataAccess(t *testing.T) {
	s := catalogStore()
	s.SetFault(failAlways("skills.List", uuid.Nil))

	_, err := NewSkillUsecase(s, nil, 0, nil).ListSkills(context.Background(), skill.Query{})
	assert.ErrorIs(t, err, ErrDataAccess)
}

func TestListCategories_SortedAndUnique(t *testing.T) {
	got, err := NewSkillUsecase(catalogStore(), nil, 0, nil).ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Music", "Programming"}, got)
}

func TestSkillCatalogCacheKey_NormalizesKeyword(t *testing.T) {
	a := SkillCatalogCacheKey(skill.Query{Category: "Music", Keyword: "  Guitar   Lessons "})
	b := SkillCatalogCacheKey(skill.Query{Category: "Music", Keyword: "guitar lessons"})
	c := SkillCatalogCacheKey(skill.Query{Category: "music", Keyword: "guitar lessons"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, b, c)
	assert.Contains(t, a, "skills:catalog:")
}
