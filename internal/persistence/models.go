package persistence

import (
	"time"

	"github.com/example/room-scheduler/internal/scheduler"
)

// Status is the lifecycle state of a stored reservation. Transitions are
// monotonic: a cancelled reservation is never confirmed again.
type Status string

const (
	// StatusConfirmed marks an active reservation that blocks its time slot.
	StatusConfirmed Status = "CONFIRMED"
	// StatusCancelled marks a reservation that no longer blocks anything.
	StatusCancelled Status = "CANCELLED"
)

// Organizer is the person a reservation is booked for, resolved
// idempotently by email address.
type Organizer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reservation is a stored booking row. A series anchor carries a recurrence
// rule and a nil ParentID; its occurrences reference the anchor through
// ParentID and carry no rule of their own. A non-recurring booking is an
// anchor with an empty rule and no children.
type Reservation struct {
	ID       string
	ParentID *string

	Date  time.Time
	Start scheduler.TimeOfDay
	End   scheduler.TimeOfDay

	Subject          string
	Organizer        *Organizer
	Status           Status
	ReservationType  string
	Equipment        string
	Disposition      string
	ParticipantCount int
	Department       string
	RecurrenceRule   string

	ReminderSentAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
