package usecase

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"skill-swap/internal/domain/skill"
	"skill-swap/internal/repository"
)

type SkillUsecase interface {
	ListSkills(ctx context.Context, q skill.Query) ([]skill.CatalogEntry, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type Skill struct {
	store  repository.Store
	cache  SearchCache
	ttl    time.Duration
	logger *log.Logger
}

func NewSkillUsecase(store repository.Store, cache SearchCache, ttl time.Duration, logger *log.Logger) *Skill {
	return &Skill{store: store, cache: cache, ttl: ttl, logger: logger}
}

// ListSkills reads the catalog through the cache. A keyword searches name and
// description; a category narrows the result further.
func (u *Skill) ListSkills(ctx context.Context, q skill.Query) ([]skill.CatalogEntry, error) {
	q.Category = strings.TrimSpace(q.Category)
	q.Keyword = strings.TrimSpace(q.Keyword)
	key := SkillCatalogCacheKey(q)

	if u.cache != nil {
		var cached []skill.CatalogEntry
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			return cached, nil
		}
		if err != nil && u.logger != nil {
			u.logger.Printf("[Skills] cache read failed | key=%s err=%v", key, err)
		}
	}

	items, err := retryRead(ctx, func(ctx context.Context) ([]skill.CatalogEntry, error) {
		repo := u.store.Skills()
		switch {
		case q.Keyword != "":
			return repo.Search(ctx, q.Keyword)
		case q.Category != "":
			return repo.ListByCategory(ctx, q.Category)
		default:
			return repo.List(ctx)
		}
	})
	if err != nil {
		return nil, dataAccess("list skills", err)
	}

	if q.Keyword != "" && q.Category != "" {
		filtered := make([]skill.CatalogEntry, 0, len(items))
		for _, it := range items {
			if it.Category == q.Category {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, items, u.ttl); err != nil && u.logger != nil {
			u.logger.Printf("[Skills] cache write failed | key=%s err=%v", key, err)
		}
	}
	return items, nil
}

func (u *Skill) ListCategories(ctx context.Context) ([]string, error) {
	items, err := u.ListSkills(ctx, skill.Query{})
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, it := range items {
		if it.Category == "" {
			continue
		}
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	sort.Strings(out)
	return out, nil
}
