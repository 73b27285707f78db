// Package reminder periodically notifies organizers of upcoming
// reservations.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/example/room-scheduler/internal/application"
)

// DefaultLead is how far ahead of a reservation's start the sweep looks.
const DefaultLead = 24 * time.Hour

// ReservationSource lists reservations that still need a reminder and
// records the ones that received one.
type ReservationSource interface {
	ListDueForReminder(ctx context.Context, from, to time.Time) ([]application.Reservation, error)
	MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error
}

// Service sweeps for reservations starting within the lead window and emits
// one reminder notification per reservation. Marking happens after
// publishing, so a crash mid-sweep re-sends rather than silently drops.
type Service struct {
	source    ReservationSource
	publisher application.EventPublisher
	lead      time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewService wires dependencies for the reminder sweep.
func NewService(source ReservationSource, publisher application.EventPublisher, lead time.Duration, now func() time.Time, logger *slog.Logger) *Service {
	if lead <= 0 {
		lead = DefaultLead
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:    source,
		publisher: publisher,
		lead:      lead,
		now:       now,
		logger:    logger,
	}
}

// Sweep notifies every confirmed reservation starting inside the lead window
// that has not been reminded yet. It returns the first listing or marking
// error; individual publishes cannot fail.
func (s *Service) Sweep(ctx context.Context) error {
	if s == nil || s.source == nil {
		return fmt.Errorf("reservation source not configured")
	}

	from := s.now()
	due, err := s.source.ListDueForReminder(ctx, from, from.Add(s.lead))
	if err != nil {
		return fmt.Errorf("list due reminders: %w", err)
	}

	for _, reservation := range due {
		if s.publisher != nil {
			s.publisher.Publish(ctx, application.Notification{
				Reservation: reservation,
				Action:      application.ActionReminder,
			})
		}
		if err := s.source.MarkReminderSent(ctx, reservation.ID, s.now()); err != nil {
			return fmt.Errorf("mark reminder sent for %s: %w", reservation.ID, err)
		}
	}

	if len(due) > 0 {
		s.logger.InfoContext(ctx, "reminder sweep completed", "reminders", len(due))
	}
	return nil
}

// Schedule registers the sweep with a cron runner under the given spec.
func (s *Service) Schedule(runner *cron.Cron, spec string) (cron.EntryID, error) {
	if runner == nil {
		return 0, fmt.Errorf("cron runner not configured")
	}
	return runner.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.Sweep(ctx); err != nil {
			s.logger.Error("reminder sweep failed", "error", err)
		}
	})
}
