package dto

import (
	"skill-swap/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	EstimatedHours int       `json:"estimated_hours"`
}

func NewSkillResponses(items []skill.CatalogEntry) []SkillResponse {
	out := make([]SkillResponse, 0, len(items))
	for _, it := range items {
		out = append(out, SkillResponse{
			ID:             it.ID,
			Name:           it.Name,
			Description:    it.Description,
			Category:       it.Category,
			EstimatedHours: it.EstimatedHours,
		})
	}
	return out
}
