package exchange

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Exchange pairs a teacher and a student around one skill. Credits equal the
// duration at creation and never change afterwards.
type Exchange struct {
	ID           uuid.UUID
	TeacherID    uuid.UUID
	StudentID    uuid.UUID
	Skill        string
	Duration     int
	Credits      int
	Status       Status
	ScheduledFor *time.Time
	CreatedAt    time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	UpdatedAt    time.Time
}

// New builds a pending exchange after validating its inputs. The skill is
// stored verbatim.
func New(id, teacherID, studentID uuid.UUID, skill string, durationHours int, now time.Time) (Exchange, error) {
	if err := ValidateParties(teacherID, studentID); err != nil {
		return Exchange{}, err
	}
	if err := ValidateSkill(skill); err != nil {
		return Exchange{}, err
	}
	if err := ValidateDuration(durationHours); err != nil {
		return Exchange{}, err
	}
	return Exchange{
		ID:        id,
		TeacherID: teacherID,
		StudentID: studentID,
		Skill:     skill,
		Duration:  durationHours,
		Credits:   durationHours,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (e Exchange) IsParty(userID uuid.UUID) bool {
	return userID != uuid.Nil && (userID == e.TeacherID || userID == e.StudentID)
}

// RoleOf reports which side userID is on, or "" when not a party.
func (e Exchange) RoleOf(userID uuid.UUID) Role {
	switch {
	case userID == uuid.Nil:
		return ""
	case userID == e.TeacherID:
		return RoleTeacher
	case userID == e.StudentID:
		return RoleStudent
	default:
		return ""
	}
}

// Counterpart returns the other party of the exchange.
func (e Exchange) Counterpart(userID uuid.UUID) uuid.UUID {
	if userID == e.TeacherID {
		return e.StudentID
	}
	return e.TeacherID
}

// SortTime is scheduledFor when set, otherwise createdAt.
func (e Exchange) SortTime() time.Time {
	if e.ScheduledFor != nil {
		return *e.ScheduledFor
	}
	return e.CreatedAt
}

func (e Exchange) IsUpcoming(now time.Time) bool {
	return e.Status == StatusScheduled && e.ScheduledFor != nil && e.ScheduledFor.After(now)
}
