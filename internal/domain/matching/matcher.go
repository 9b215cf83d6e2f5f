package matching

import (
	"strings"

	"skill-swap/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Result is one candidate who can teach something the requester wants to
// learn. MatchingSkill is the requester's interest that produced the match.
type Result struct {
	UserID             uuid.UUID
	Name               string
	Bio                string
	Avatar             string
	Rating             float64
	MatchingSkill      string
	CompletedExchanges int
}

// folder caches case-folded skill names for one matching pass.
type folder struct {
	caser cases.Caser
	memo  map[string]string
}

func newFolder() *folder {
	return &folder{caser: cases.Fold(), memo: map[string]string{}}
}

func (f *folder) fold(s string) string {
	if v, ok := f.memo[s]; ok {
		return v
	}
	v := f.caser.String(s)
	f.memo[s] = v
	return v
}

func (f *folder) overlap(desired, taught string) bool {
	if strings.TrimSpace(desired) == "" || strings.TrimSpace(taught) == "" {
		return false
	}
	d, t := f.fold(desired), f.fold(taught)
	return strings.Contains(t, d) || strings.Contains(d, t)
}

// SkillsOverlap reports whether a desired skill and a taught skill match:
// ignoring case, one must contain the other. Blank names never match and
// surrounding whitespace is compared as typed.
//
// "Java" therefore also matches "JavaScript".
func SkillsOverlap(desired, taught string) bool {
	return newFolder().overlap(desired, taught)
}

// FirstMatch returns the first interest, in interest order, that overlaps any
// of the taught skills.
func FirstMatch(interests, taught []string) (string, bool) {
	return newFolder().firstMatch(interests, taught)
}

func (f *folder) firstMatch(interests, taught []string) (string, bool) {
	for _, d := range interests {
		for _, t := range taught {
			if f.overlap(d, t) {
				return d, true
			}
		}
	}
	return "", false
}

// FindMatches scans candidates in the given order and returns one Result per
// candidate that teaches something in requester.LearningInterests. The
// requester never appears in the output.
func FindMatches(requester user.Profile, candidates []user.Profile) []Result {
	out := make([]Result, 0)
	if len(requester.LearningInterests) == 0 {
		return out
	}

	f := newFolder()
	for _, c := range candidates {
		if c.ID == requester.ID {
			continue
		}
		skill, ok := f.firstMatch(requester.LearningInterests, c.TeachingSkills)
		if !ok {
			continue
		}
		out = append(out, Result{
			UserID:             c.ID,
			Name:               c.Name,
			Bio:                c.Bio,
			Avatar:             c.Avatar,
			Rating:             c.Rating,
			MatchingSkill:      skill,
			CompletedExchanges: c.CompletedExchanges,
		})
	}
	return out
}
