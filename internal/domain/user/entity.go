package user

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Account is the login identity. Its ID is shared with the Profile.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Profile struct {
	ID       uuid.UUID
	Name     string
	Bio      string
	Location string
	Avatar   string

	TeachingSkills    []string
	LearningInterests []string

	Rating             float64
	TotalReviews       int
	TimeBalance        int
	CompletedExchanges int

	Achievements  []string
	SkillProgress map[string]int
	Settings      json.RawMessage

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfilePatch carries a partial update. Nil fields are left untouched,
// SkillProgress entries are merged key by key and Achievements are added to
// the existing set. TimeBalance has no patch field; it only moves through
// exchange completion.
type ProfilePatch struct {
	Name     *string
	Bio      *string
	Location *string
	Avatar   *string

	TeachingSkills    *[]string
	LearningInterests *[]string

	Achievements  []string
	SkillProgress map[string]int
	Settings      json.RawMessage
}

func (p ProfilePatch) IsEmpty() bool {
	return p.Name == nil && p.Bio == nil && p.Location == nil && p.Avatar == nil &&
		p.TeachingSkills == nil && p.LearningInterests == nil &&
		len(p.Achievements) == 0 && len(p.SkillProgress) == 0 && p.Settings == nil
}

// Apply returns p with the patch merged in.
func (p Profile) Apply(patch ProfilePatch, now time.Time) Profile {
	out := p.Clone()
	if patch.Name != nil {
		out.Name = *patch.Name
	}
	if patch.Bio != nil {
		out.Bio = *patch.Bio
	}
	if patch.Location != nil {
		out.Location = *patch.Location
	}
	if patch.Avatar != nil {
		out.Avatar = *patch.Avatar
	}
	if patch.TeachingSkills != nil {
		out.TeachingSkills = UniqueStrings(*patch.TeachingSkills)
	}
	if patch.LearningInterests != nil {
		out.LearningInterests = UniqueStrings(*patch.LearningInterests)
	}
	for _, a := range patch.Achievements {
		if !slices.Contains(out.Achievements, a) {
			out.Achievements = append(out.Achievements, a)
		}
	}
	if len(patch.SkillProgress) > 0 && out.SkillProgress == nil {
		out.SkillProgress = make(map[string]int, len(patch.SkillProgress))
	}
	for k, v := range patch.SkillProgress {
		out.SkillProgress[k] = v
	}
	if patch.Settings != nil {
		out.Settings = slices.Clone(patch.Settings)
	}
	out.UpdatedAt = now
	return out
}

// Clone returns a copy that shares no slices or maps with p.
func (p Profile) Clone() Profile {
	out := p
	out.TeachingSkills = slices.Clone(p.TeachingSkills)
	out.LearningInterests = slices.Clone(p.LearningInterests)
	out.Achievements = slices.Clone(p.Achievements)
	out.Settings = slices.Clone(p.Settings)
	if p.SkillProgress != nil {
		out.SkillProgress = make(map[string]int, len(p.SkillProgress))
		for k, v := range p.SkillProgress {
			out.SkillProgress[k] = v
		}
	}
	return out
}

// UniqueStrings drops exact duplicates while keeping first-seen order, which
// the matcher relies on.
func UniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
