package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

var (
	errBlankSkillName   = errors.New("skill names must not be blank")
	errProgressRange    = errors.New("progress must be between 0 and 100")
	errBlankAchievement = errors.New("achievement must not be blank")
	errSettingsNotJSON  = errors.New("settings must be a JSON object")
	errEmptyUpdate      = errors.New("nothing to update")
)

type UpdateProfileInput struct {
	Name              *string
	Bio               *string
	Location          *string
	Avatar            *string
	TeachingSkills    *[]string
	LearningInterests *[]string
	Settings          json.RawMessage
}

type Progress struct {
	TeachingSkills     []string
	CompletedExchanges int
	TimeBalance        int
	Rating             float64
	TotalReviews       int
	Achievements       []string
	SkillProgress      map[string]int
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (user.Profile, error)
	GetUserProgress(ctx context.Context, userID uuid.UUID) (Progress, error)
	UpdateSkillProgress(ctx context.Context, userID uuid.UUID, skill string, percent int) (Progress, error)
	AddAchievement(ctx context.Context, userID uuid.UUID, name string) (Progress, error)
}

type Profile struct {
	store repository.Store
}

func NewProfileUsecase(store repository.Store) *Profile {
	return &Profile{store: store}
}

func (u *Profile) GetProfile(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	op := fmt.Sprintf("get profile %s", userID)
	p, err := retryRead(ctx, func(ctx context.Context) (user.Profile, error) {
		return u.store.Users().Get(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Profile{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return user.Profile{}, dataAccess(op, err)
	}
	return p, nil
}

// UpdateProfile merges the given fields into the caller's profile and creates
// the profile when it does not exist yet. Skill names are kept as typed.
func (u *Profile) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (user.Profile, error) {
	op := fmt.Sprintf("update profile %s", userID)

	patch := user.ProfilePatch{
		Name:              in.Name,
		Bio:               in.Bio,
		Location:          in.Location,
		Avatar:            in.Avatar,
		TeachingSkills:    in.TeachingSkills,
		LearningInterests: in.LearningInterests,
		Settings:          in.Settings,
	}
	if patch.IsEmpty() {
		return user.Profile{}, invalid(op, errEmptyUpdate)
	}
	for _, list := range []*[]string{in.TeachingSkills, in.LearningInterests} {
		if list == nil {
			continue
		}
		for _, s := range *list {
			if strings.TrimSpace(s) == "" {
				return user.Profile{}, invalid(op, errBlankSkillName)
			}
		}
	}
	if in.Settings != nil && !isJSONObject(in.Settings) {
		return user.Profile{}, invalid(op, errSettingsNotJSON)
	}

	p, err := u.store.Users().Patch(ctx, userID, patch)
	if err != nil {
		return user.Profile{}, dataAccess(op, err)
	}
	return p, nil
}

func (u *Profile) GetUserProgress(ctx context.Context, userID uuid.UUID) (Progress, error) {
	p, err := u.GetProfile(ctx, userID)
	if err != nil {
		return Progress{}, err
	}
	return progressOf(p), nil
}

func (u *Profile) UpdateSkillProgress(ctx context.Context, userID uuid.UUID, skill string, percent int) (Progress, error) {
	op := fmt.Sprintf("update skill progress %s", userID)
	if strings.TrimSpace(skill) == "" {
		return Progress{}, invalid(op, errBlankSkillName)
	}
	if percent < 0 || percent > 100 {
		return Progress{}, invalid(op, errProgressRange)
	}
	return u.patchExisting(ctx, op, userID, user.ProfilePatch{SkillProgress: map[string]int{skill: percent}})
}

func (u *Profile) AddAchievement(ctx context.Context, userID uuid.UUID, name string) (Progress, error) {
	op := fmt.Sprintf("add achievement %s", userID)
	if strings.TrimSpace(name) == "" {
		return Progress{}, invalid(op, errBlankAchievement)
	}
	return u.patchExisting(ctx, op, userID, user.ProfilePatch{Achievements: []string{name}})
}

// patchExisting applies a progress patch to a profile that must already exist.
func (u *Profile) patchExisting(ctx context.Context, op string, userID uuid.UUID, patch user.ProfilePatch) (Progress, error) {
	if _, err := u.GetProfile(ctx, userID); err != nil {
		return Progress{}, fmt.Errorf("%s: %w", op, err)
	}
	p, err := u.store.Users().Patch(ctx, userID, patch)
	if err != nil {
		return Progress{}, dataAccess(op, err)
	}
	return progressOf(p), nil
}

func progressOf(p user.Profile) Progress {
	progress := p.SkillProgress
	if progress == nil {
		progress = map[string]int{}
	}
	achievements := p.Achievements
	if achievements == nil {
		achievements = []string{}
	}
	teaching := p.TeachingSkills
	if teaching == nil {
		teaching = []string{}
	}
	return Progress{
		TeachingSkills:     teaching,
		CompletedExchanges: p.CompletedExchanges,
		TimeBalance:        p.TimeBalance,
		Rating:             p.Rating,
		TotalReviews:       p.TotalReviews,
		Achievements:       achievements,
		SkillProgress:      progress,
	}
}

func isJSONObject(raw json.RawMessage) bool {
	var v map[string]any
	return json.Unmarshal(raw, &v) == nil && v != nil
}
