package exchange

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("exchange not found")
	ErrStatusChanged     = errors.New("exchange status changed concurrently")
	ErrInvalidDuration   = errors.New("duration must be a positive number of hours")
	ErrSameParties       = errors.New("teacher and student must be different users")
	ErrMissingParty      = errors.New("teacher and student are required")
	ErrBlankSkill        = errors.New("skill is required")
	ErrInvalidSchedule   = errors.New("invalid schedule time")
	ErrInvalidTransition = errors.New("invalid status transition")
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusScheduled, StatusCancelled},
	StatusScheduled: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether an exchange may move from one status to
// another. Completed and cancelled are terminal, and an exchange is never
// scheduled twice.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// MaxDurationHours is the largest duration the exchanges table can store.
const MaxDurationHours = math.MaxInt32

func ValidateDuration(hours int) error {
	if hours <= 0 || hours > MaxDurationHours {
		return fmt.Errorf("%w: got %d", ErrInvalidDuration, hours)
	}
	return nil
}

func ValidateParties(teacherID, studentID uuid.UUID) error {
	if teacherID == uuid.Nil || studentID == uuid.Nil {
		return ErrMissingParty
	}
	if teacherID == studentID {
		return ErrSameParties
	}
	return nil
}

// ValidateSkill rejects blank names only; no normalization happens.
func ValidateSkill(skill string) error {
	if strings.TrimSpace(skill) == "" {
		return ErrBlankSkill
	}
	return nil
}

// ParseScheduleTime accepts an RFC 3339 timestamp and keeps the instant it
// names, normalized to UTC.
func ParseScheduleTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSchedule, raw)
	}
	return t.UTC(), nil
}

var clockLayouts = []string{"15:04", "15:04:05"}

// CombineDateTime joins a calendar date (2006-01-02) and a wall clock time
// (15:04 or 15:04:05) in loc. A nil loc means UTC.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range clockLayouts {
		t, err := time.ParseInLocation("2006-01-02 "+layout, date+" "+clock, loc)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date=%q time=%q", ErrInvalidSchedule, date, clock)
}

// SortNewestFirst orders by SortTime descending. Ties keep their input order.
func SortNewestFirst(items []Exchange) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortTime().After(items[j].SortTime())
	})
}

// Transition describes a compare-and-set status change: it applies only when
// the stored status still equals From.
type Transition struct {
	ID           uuid.UUID
	From         Status
	To           Status
	At           time.Time
	ScheduledFor *time.Time
}

type Repository interface {
	Create(ctx context.Context, e Exchange) error
	Get(ctx context.Context, id uuid.UUID) (Exchange, error)
	// GetForUpdate reads the exchange and locks it until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (Exchange, error)
	// UpdateStatusIfCurrent applies t and returns the updated exchange, or
	// ErrStatusChanged when the stored status is no longer t.From.
	UpdateStatusIfCurrent(ctx context.Context, t Transition) (Exchange, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Exchange, error)
}

// Apply performs t on e in memory, for stores that have no native
// conditional update.
func (e Exchange) Apply(t Transition) (Exchange, error) {
	if e.Status != t.From {
		return e, ErrStatusChanged
	}
	if !CanTransition(t.From, t.To) {
		return e, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.From, t.To)
	}
	out := e
	out.Status = t.To
	out.UpdatedAt = t.At
	switch t.To {
	case StatusScheduled:
		if t.ScheduledFor == nil {
			return e, ErrInvalidSchedule
		}
		at := *t.ScheduledFor
		out.ScheduledFor = &at
	case StatusCompleted:
		at := t.At
		out.CompletedAt = &at
	case StatusCancelled:
		at := t.At
		out.CancelledAt = &at
	}
	return out, nil
}
