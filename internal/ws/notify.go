package ws

import (
	"encoding/json"
	"time"

	"skill-swap/internal/usecase"

	"github.com/google/uuid"
)

type ExchangeUpdatedEvent struct {
	Type         string     `json:"type"`
	ExchangeID   uuid.UUID  `json:"exchange_id"`
	ActorID      uuid.UUID  `json:"actor_id"`
	TeacherID    uuid.UUID  `json:"teacher_id"`
	StudentID    uuid.UUID  `json:"student_id"`
	Skill        string     `json:"skill"`
	Status       string     `json:"status"`
	Credits      int        `json:"credits"`
	ScheduledFor *time.Time `json:"scheduled_for"`
	Timestamp    string     `json:"timestamp"`
}

// PublishExchangeEvent sends ev to both parties of the exchange.
func (h *Hub) PublishExchangeEvent(ev usecase.ExchangeEvent) {
	if h == nil {
		return
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	b, err := json.Marshal(ExchangeUpdatedEvent{
		Type:         ev.Type,
		ExchangeID:   ev.Exchange.ID,
		ActorID:      ev.ActorID,
		TeacherID:    ev.Exchange.TeacherID,
		StudentID:    ev.Exchange.StudentID,
		Skill:        ev.Exchange.Skill,
		Status:       string(ev.Exchange.Status),
		Credits:      ev.Exchange.Credits,
		ScheduledFor: ev.Exchange.ScheduledFor,
		Timestamp:    at.UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logf("WS encode error | exchange_id=%s error=%v", ev.Exchange.ID, err)
		return
	}
	h.SendTo(ev.Recipients(), b)
}

var _ usecase.EventPublisher = (*Hub)(nil)
