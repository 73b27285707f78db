// Package testfixtures provides deterministic clocks, identifier generators
// and reservation fixtures shared by the test suites.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-scheduler/internal/application"
	"github.com/example/room-scheduler/internal/persistence"
	"github.com/example/room-scheduler/internal/scheduler"
)

var (
	reservationCounter uint64
	organizerCounter   uint64
)

// referenceTime is a Monday, so weekly fixtures line up with the start of an
// ISO week.
var referenceTime = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns the baseline calendar date at midnight UTC.
func ReferenceDate() time.Time {
	return time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
}

// ReservationFixture represents a deterministic reservation record that can
// be materialised for application or persistence tests.
type ReservationFixture struct {
	ID               string
	ParentID         *string
	Date             time.Time
	Start            scheduler.TimeOfDay
	End              scheduler.TimeOfDay
	Subject          string
	Organizer        *OrganizerFixture
	Status           string
	ReservationType  string
	Equipment        string
	Disposition      string
	ParticipantCount int
	Department       string
	RecurrenceRule   string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReservationOption configures the generated reservation fixture.
type ReservationOption func(*ReservationFixture)

// NewReservationFixture returns a deterministic reservation fixture with
// optional overrides. Successive fixtures land on successive hours of the
// reference date, so they never overlap unless a test asks them to.
func NewReservationFixture(opts ...ReservationOption) ReservationFixture {
	idx := atomic.AddUint64(&reservationCounter, 1)
	hour := 7 + int(idx)%11
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := ReservationFixture{
		ID:               fmt.Sprintf("reservation-%03d", idx),
		Date:             ReferenceDate(),
		Start:            scheduler.NewTimeOfDay(hour, 0),
		End:              scheduler.NewTimeOfDay(hour+1, 0),
		Subject:          fmt.Sprintf("Meeting %03d", idx),
		Status:           string(persistence.StatusConfirmed),
		ReservationType:  "meeting",
		ParticipantCount: 4,
		Department:       "engineering",
		CreatedAt:        created,
		UpdatedAt:        created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithDate places the fixture on the given calendar date.
func WithDate(date time.Time) ReservationOption {
	return func(f *ReservationFixture) { f.Date = date }
}

// WithSlot sets the fixture's start and end times.
func WithSlot(start, end scheduler.TimeOfDay) ReservationOption {
	return func(f *ReservationFixture) {
		f.Start = start
		f.End = end
	}
}

// WithStatus overrides the lifecycle state.
func WithStatus(status string) ReservationOption {
	return func(f *ReservationFixture) { f.Status = status }
}

// WithParent links the fixture to a series anchor.
func WithParent(parentID string) ReservationOption {
	return func(f *ReservationFixture) { f.ParentID = &parentID }
}

// WithRule attaches a recurrence rule, marking the fixture as an anchor.
func WithRule(rule string) ReservationOption {
	return func(f *ReservationFixture) { f.RecurrenceRule = rule }
}

// WithOrganizer attaches an organizer to the fixture.
func WithOrganizer(organizer OrganizerFixture) ReservationOption {
	return func(f *ReservationFixture) { f.Organizer = &organizer }
}

// ToPersistence materialises the fixture as a persistence model.
func (f ReservationFixture) ToPersistence() persistence.Reservation {
	reservation := persistence.Reservation{
		ID:               f.ID,
		ParentID:         f.ParentID,
		Date:             f.Date,
		Start:            f.Start,
		End:              f.End,
		Subject:          f.Subject,
		Status:           persistence.Status(f.Status),
		ReservationType:  f.ReservationType,
		Equipment:        f.Equipment,
		Disposition:      f.Disposition,
		ParticipantCount: f.ParticipantCount,
		Department:       f.Department,
		RecurrenceRule:   f.RecurrenceRule,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
	if f.Organizer != nil {
		organizer := f.Organizer.ToPersistence()
		reservation.Organizer = &organizer
	}
	return reservation
}

// ToApplication materialises the fixture as an application model.
func (f ReservationFixture) ToApplication() application.Reservation {
	reservation := application.Reservation{
		ID:               f.ID,
		ParentID:         f.ParentID,
		Date:             f.Date,
		Start:            f.Start,
		End:              f.End,
		Subject:          f.Subject,
		Status:           application.Status(f.Status),
		ReservationType:  f.ReservationType,
		Equipment:        f.Equipment,
		Disposition:      f.Disposition,
		ParticipantCount: f.ParticipantCount,
		Department:       f.Department,
		RecurrenceRule:   f.RecurrenceRule,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
	if f.Organizer != nil {
		reservation.Organizer = &application.Organizer{
			ID:    f.Organizer.ID,
			Name:  f.Organizer.Name,
			Email: f.Organizer.Email,
		}
	}
	return reservation
}

// OrganizerFixture represents a deterministic organizer record.
type OrganizerFixture struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrganizerFixture returns a deterministic organizer fixture.
func NewOrganizerFixture() OrganizerFixture {
	idx := atomic.AddUint64(&organizerCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	return OrganizerFixture{
		ID:        fmt.Sprintf("organizer-%03d", idx),
		Name:      fmt.Sprintf("Organizer %03d", idx),
		Email:     fmt.Sprintf("organizer-%03d@example.com", idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// ToPersistence materialises the fixture as a persistence model.
func (f OrganizerFixture) ToPersistence() persistence.Organizer {
	return persistence.Organizer{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
