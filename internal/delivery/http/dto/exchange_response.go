package dto

import (
	"time"

	"skill-swap/internal/domain/exchange"
	"skill-swap/internal/usecase"

	"github.com/google/uuid"
)

type ExchangeResponse struct {
	ID           uuid.UUID  `json:"id"`
	TeacherID    uuid.UUID  `json:"teacher_id"`
	StudentID    uuid.UUID  `json:"student_id"`
	Skill        string     `json:"skill"`
	Duration     int        `json:"duration"`
	Credits      int        `json:"credits"`
	Status       string     `json:"status"`
	Role         string     `json:"role,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
}

type ExchangeDetailsResponse struct {
	ExchangeResponse
	Teacher PublicProfileResponse `json:"teacher"`
	Student PublicProfileResponse `json:"student"`
}

type CreateExchangeResponse struct {
	ID uuid.UUID `json:"id"`
}

// NewExchangeResponse renders e as seen by viewer. A nil viewer omits the
// role.
func NewExchangeResponse(e exchange.Exchange, viewer uuid.UUID) ExchangeResponse {
	return ExchangeResponse{
		ID:           e.ID,
		TeacherID:    e.TeacherID,
		StudentID:    e.StudentID,
		Skill:        e.Skill,
		Duration:     e.Duration,
		Credits:      e.Credits,
		Status:       string(e.Status),
		Role:         string(e.RoleOf(viewer)),
		ScheduledFor: e.ScheduledFor,
		CreatedAt:    e.CreatedAt,
		CompletedAt:  e.CompletedAt,
		CancelledAt:  e.CancelledAt,
	}
}

func NewExchangeResponses(items []exchange.Exchange, viewer uuid.UUID) []ExchangeResponse {
	out := make([]ExchangeResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewExchangeResponse(it, viewer))
	}
	return out
}

func NewExchangeDetailsResponse(d usecase.ExchangeDetails, viewer uuid.UUID) ExchangeDetailsResponse {
	return ExchangeDetailsResponse{
		ExchangeResponse: NewExchangeResponse(d.Exchange, viewer),
		Teacher:          NewPublicProfileResponse(d.Teacher),
		Student:          NewPublicProfileResponse(d.Student),
	}
}
