package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"skill-swap/internal/domain/skill"
)

const skillCatalogKeyPrefix = "skills:catalog:"

type skillCatalogCacheKeyInput struct {
	Category string `json:"category"`
	Keyword  string `json:"keyword"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// SkillCatalogCacheKey maps equivalent queries to one key. Category is
// compared exactly by the store, so only surrounding whitespace is dropped
// from it.
func SkillCatalogCacheKey(q skill.Query) string {
	in := skillCatalogCacheKeyInput{
		Category: strings.TrimSpace(q.Category),
		Keyword:  normalizeSearchValue(q.Keyword),
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return skillCatalogKeyPrefix + hex.EncodeToString(sum[:16])
}
