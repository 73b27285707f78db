package persistence

import (
	"context"
	"time"
)

// ReservationRepository stores reservation rows and the series relationships
// between them. Multi-row operations (series create, series replace, batch
// update) execute atomically: either every row is committed or none is.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) error
	// CreateSeries persists an anchor and its generated occurrences in one
	// transaction.
	CreateSeries(ctx context.Context, anchor Reservation, children []Reservation) error
	UpdateReservation(ctx context.Context, reservation Reservation) error
	UpdateReservations(ctx context.Context, reservations []Reservation) error
	// ReplaceSeries updates the anchor and swaps out its entire child set in
	// one transaction, so a regeneration never leaves stale and new
	// occurrences coexisting.
	ReplaceSeries(ctx context.Context, anchor Reservation, children []Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	ListChildren(ctx context.Context, parentID string) ([]Reservation, error)
	// ListConfirmedByDate returns the confirmed bookings on a date, the
	// window set the conflict validator checks candidates against.
	ListConfirmedByDate(ctx context.Context, date time.Time) ([]Reservation, error)
	ListByDate(ctx context.Context, date time.Time) ([]Reservation, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Reservation, error)
	ListByStatus(ctx context.Context, status Status) ([]Reservation, error)
	// SearchByOrganizerName matches reservations whose organizer name
	// contains the fragment, case-insensitively.
	SearchByOrganizerName(ctx context.Context, fragment string) ([]Reservation, error)
	// ListDueForReminder returns confirmed reservations starting inside
	// [from, to] whose reminder has not been sent yet.
	ListDueForReminder(ctx context.Context, from, to time.Time) ([]Reservation, error)
	MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error
	// DeleteReservation hard-removes exactly one row. It never cascades.
	DeleteReservation(ctx context.Context, id string) error
}

// OrganizerRepository stores organizers keyed by id with unique emails.
type OrganizerRepository interface {
	// ResolveOrCreate returns the organizer with the given email, creating
	// it first when absent. Resolution is idempotent by email.
	ResolveOrCreate(ctx context.Context, organizer Organizer) (Organizer, error)
	GetOrganizer(ctx context.Context, id string) (Organizer, error)
	GetOrganizerByEmail(ctx context.Context, email string) (Organizer, error)
}
