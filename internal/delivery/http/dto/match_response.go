package dto

import (
	"skill-swap/internal/domain/matching"

	"github.com/google/uuid"
)

type MatchResponse struct {
	UserID             uuid.UUID `json:"user_id"`
	Name               string    `json:"name"`
	Bio                string    `json:"bio"`
	Avatar             string    `json:"avatar"`
	Rating             float64   `json:"rating"`
	MatchingSkill      string    `json:"matching_skill"`
	CompletedExchanges int       `json:"completed_exchanges"`
}

func NewMatchResponses(items []matching.Result) []MatchResponse {
	out := make([]MatchResponse, 0, len(items))
	for _, it := range items {
		out = append(out, MatchResponse{
			UserID:             it.UserID,
			Name:               it.Name,
			Bio:                it.Bio,
			Avatar:             it.Avatar,
			Rating:             it.Rating,
			MatchingSkill:      it.MatchingSkill,
			CompletedExchanges: it.CompletedExchanges,
		})
	}
	return out
}
