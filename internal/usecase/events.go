package usecase

import (
	"time"

	"skill-swap/internal/domain/exchange"

	"github.com/google/uuid"
)

const EventExchangeUpdated = "exchange_updated"

// ExchangeEvent is published after an exchange has been created or has changed
// status. Both parties are interested.
type ExchangeEvent struct {
	Type     string
	ActorID  uuid.UUID
	Exchange exchange.Exchange
	At       time.Time
}

func (e ExchangeEvent) Recipients() []uuid.UUID {
	return []uuid.UUID{e.Exchange.TeacherID, e.Exchange.StudentID}
}

type EventPublisher interface {
	PublishExchangeEvent(ev ExchangeEvent)
}
