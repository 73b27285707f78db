package application

import (
	"time"

	"github.com/example/room-scheduler/internal/scheduler"
)

// Status is the lifecycle state of a reservation. Transitions are monotonic:
// once cancelled, a reservation never becomes confirmed again.
type Status string

const (
	// StatusConfirmed marks an active reservation that blocks its slot.
	StatusConfirmed Status = "CONFIRMED"
	// StatusCancelled marks a reservation that no longer blocks anything.
	StatusCancelled Status = "CANCELLED"
)

// Organizer is the person a reservation is booked for.
type Organizer struct {
	ID    string
	Name  string
	Email string
}

// Reservation represents a booking exposed by the application services. A
// series anchor carries the recurrence rule and a nil ParentID; occurrences
// reference the anchor through ParentID.
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

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSeries reports whether the reservation anchors a recurring series.
func (r Reservation) IsSeries() bool {
	return r.ParentID == nil && r.RecurrenceRule != ""
}

// ReservationInput captures caller provided reservation fields.
type ReservationInput struct {
	Date             time.Time
	Start            scheduler.TimeOfDay
	End              scheduler.TimeOfDay
	Subject          string
	OrganizerName    string
	OrganizerEmail   string
	ReservationType  string
	Equipment        string
	Disposition      string
	ParticipantCount int
	Department       string
	RecurrenceRule   string
}

// CreateReservationParams wraps the data required to create a reservation or
// a series. SkipValidation bypasses the conflict check but never the
// structural field checks.
type CreateReservationParams struct {
	Input          ReservationInput
	SkipValidation bool
}

// CreateReservationResult reports what a create call persisted. For a series,
// Occurrences holds the generated members after the anchor.
type CreateReservationResult struct {
	Reservation Reservation
	Occurrences []Reservation
}

// UpdateScope selects how far an update to a series member reaches.
type UpdateScope string

const (
	// UpdateScopeSingle modifies only the addressed occurrence.
	UpdateScopeSingle UpdateScope = "single"
	// UpdateScopePartial is an alias of single scope: it detaches nothing
	// and modifies only the addressed occurrence.
	UpdateScopePartial UpdateScope = "partial"
	// UpdateScopeSeries applies the change to every member of the series.
	UpdateScopeSeries UpdateScope = "series"
)

// UpdateReservationParams wraps the data required to update a reservation.
type UpdateReservationParams struct {
	ReservationID  string
	Scope          UpdateScope
	Input          ReservationInput
	SkipValidation bool
}

// Action identifies the logical operation a notification reports.
type Action string

const (
	// ActionCreated reports a newly persisted reservation or series.
	ActionCreated Action = "created"
	// ActionModified reports a changed reservation or series.
	ActionModified Action = "modified"
	// ActionCancelled reports a cancelled reservation or series.
	ActionCancelled Action = "cancelled"
	// ActionReminder reports an upcoming reservation reminder.
	ActionReminder Action = "reminder"
)

// Notification is the event emitted once per logical operation. A series
// operation produces exactly one series-scoped notification, never one per
// member.
type Notification struct {
	Reservation Reservation
	Action      Action
	// EquipmentAffected signals that the facilities team needs to act:
	// the slot or the equipment selection changed.
	EquipmentAffected bool
	// SeriesScoped marks a notification covering a whole series.
	SeriesScoped bool
	// RecurrenceDetail carries the rendered rule summary and occurrence
	// table for series notifications.
	RecurrenceDetail string
}
