package dto

import (
	"encoding/json"
	"time"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/usecase"

	"github.com/google/uuid"
)

// PublicProfileResponse is what any signed-in user may see about another.
type PublicProfileResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Bio                string    `json:"bio"`
	Location           string    `json:"location"`
	Avatar             string    `json:"avatar"`
	TeachingSkills     []string  `json:"teaching_skills"`
	LearningInterests  []string  `json:"learning_interests"`
	Rating             float64   `json:"rating"`
	TotalReviews       int       `json:"total_reviews"`
	CompletedExchanges int       `json:"completed_exchanges"`
}

type UserProfileResponse struct {
	PublicProfileResponse
	TimeBalance   int             `json:"time_balance"`
	Achievements  []string        `json:"achievements"`
	SkillProgress map[string]int  `json:"skill_progress"`
	Settings      json.RawMessage `json:"settings"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ProgressResponse struct {
	TeachingSkills     []string       `json:"teaching_skills"`
	CompletedExchanges int            `json:"completed_exchanges"`
	TimeBalance        int            `json:"time_balance"`
	Rating             float64        `json:"rating"`
	TotalReviews       int            `json:"total_reviews"`
	Achievements       []string       `json:"achievements"`
	SkillProgress      map[string]int `json:"skill_progress"`
}

func NewPublicProfileResponse(p user.Profile) PublicProfileResponse {
	return PublicProfileResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Bio:                p.Bio,
		Location:           p.Location,
		Avatar:             p.Avatar,
		TeachingSkills:     nonNil(p.TeachingSkills),
		LearningInterests:  nonNil(p.LearningInterests),
		Rating:             p.Rating,
		TotalReviews:       p.TotalReviews,
		CompletedExchanges: p.CompletedExchanges,
	}
}

func NewUserProfileResponse(p user.Profile) UserProfileResponse {
	progress := p.SkillProgress
	if progress == nil {
		progress = map[string]int{}
	}
	settings := p.Settings
	if len(settings) == 0 {
		settings = json.RawMessage(`{}`)
	}
	return UserProfileResponse{
		PublicProfileResponse: NewPublicProfileResponse(p),
		TimeBalance:           p.TimeBalance,
		Achievements:          nonNil(p.Achievements),
		SkillProgress:         progress,
		Settings:              settings,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func NewProgressResponse(p usecase.Progress) ProgressResponse {
	return ProgressResponse{
		TeachingSkills:     nonNil(p.TeachingSkills),
		CompletedExchanges: p.CompletedExchanges,
		TimeBalance:        p.TimeBalance,
		Rating:             p.Rating,
		TotalReviews:       p.TotalReviews,
		Achievements:       nonNil(p.Achievements),
		SkillProgress:      p.SkillProgress,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
