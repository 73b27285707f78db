package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/example/room-scheduler/internal/application"
	"github.com/example/room-scheduler/internal/scheduler"
	"github.com/example/room-scheduler/internal/testfixtures"
)

type stubSource struct {
	due        []application.Reservation
	listErr    error
	markErr    error
	lastFrom   time.Time
	lastTo     time.Time
	markedIDs  []string
	markedAt   []time.Time
	listCalled int
}

func (s *stubSource) ListDueForReminder(_ context.Context, from, to time.Time) ([]application.Reservation, error) {
	s.listCalled++
	s.lastFrom, s.lastTo = from, to
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.due, nil
}

func (s *stubSource) MarkReminderSent(_ context.Context, id string, sentAt time.Time) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.markedIDs = append(s.markedIDs, id)
	s.markedAt = append(s.markedAt, sentAt)
	return nil
}

type stubPublisher struct {
	notifications []application.Notification
}

func (p *stubPublisher) Publish(_ context.Context, notification application.Notification) {
	p.notifications = append(p.notifications, notification)
}

func dueReservation(id string, day time.Time) application.Reservation {
	return application.Reservation{
		ID:      id,
		Date:    day,
		Start:   scheduler.NewTimeOfDay(9, 0),
		End:     scheduler.NewTimeOfDay(10, 0),
		Subject: "Upcoming meeting",
		Status:  application.StatusConfirmed,
	}
}

func TestService_Sweep(t *testing.T) {
	t.Parallel()

	t.Run("publishes and marks each due reservation", func(t *testing.T) {
		t.Parallel()
		clock := testfixtures.NewClock(time.Time{})
		source := &stubSource{due: []application.Reservation{
			dueReservation("r1", testfixtures.ReferenceDate()),
			dueReservation("r2", testfixtures.ReferenceDate().AddDate(0, 0, 1)),
		}}
		publisher := &stubPublisher{}
		service := NewService(source, publisher, 24*time.Hour, clock.NowFunc(), nil)

		if err := service.Sweep(context.Background()); err != nil {
			t.Fatalf("Sweep returned error: %v", err)
		}

		if !source.lastFrom.Equal(clock.Now()) {
			t.Fatalf("expected window to start at the clock time, got %s", source.lastFrom)
		}
		if !source.lastTo.Equal(clock.Now().Add(24 * time.Hour)) {
			t.Fatalf("expected window to end one lead later, got %s", source.lastTo)
		}

		if len(publisher.notifications) != 2 {
			t.Fatalf("expected 2 reminder notifications, got %d", len(publisher.notifications))
		}
		for _, notification := range publisher.notifications {
			if notification.Action != application.ActionReminder {
				t.Fatalf("expected reminder action, got %s", notification.Action)
			}
		}

		if len(source.markedIDs) != 2 || source.markedIDs[0] != "r1" || source.markedIDs[1] != "r2" {
			t.Fatalf("expected both reservations marked, got %v", source.markedIDs)
		}
	})

	t.Run("empty sweep does nothing", func(t *testing.T) {
		t.Parallel()
		source := &stubSource{}
		publisher := &stubPublisher{}
		service := NewService(source, publisher, DefaultLead, nil, nil)

		if err := service.Sweep(context.Background()); err != nil {
			t.Fatalf("Sweep returned error: %v", err)
		}
		if len(publisher.notifications) != 0 || len(source.markedIDs) != 0 {
			t.Fatalf("expected no activity for an empty window")
		}
	})

	t.Run("listing failure propagates", func(t *testing.T) {
		t.Parallel()
		source := &stubSource{listErr: errors.New("storage offline")}
		service := NewService(source, &stubPublisher{}, DefaultLead, nil, nil)

		if err := service.Sweep(context.Background()); err == nil {
			t.Fatalf("expected listing error to propagate")
		}
	})

	t.Run("marking failure propagates", func(t *testing.T) {
		t.Parallel()
		source := &stubSource{
			due:     []application.Reservation{dueReservation("r1", testfixtures.ReferenceDate())},
			markErr: errors.New("write failed"),
		}
		publisher := &stubPublisher{}
		service := NewService(source, publisher, DefaultLead, nil, nil)

		if err := service.Sweep(context.Background()); err == nil {
			t.Fatalf("expected marking error to propagate")
		}
		// The notification was already out when marking failed; re-sending
		// on the next sweep is the accepted failure mode.
		if len(publisher.notifications) != 1 {
			t.Fatalf("expected the notification to have been published, got %d", len(publisher.notifications))
		}
	})
}

func TestService_Schedule(t *testing.T) {
	t.Parallel()

	service := NewService(&stubSource{}, &stubPublisher{}, DefaultLead, nil, nil)
	runner := cron.New()

	if _, err := service.Schedule(runner, "@every 15m"); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	if len(runner.Entries()) != 1 {
		t.Fatalf("expected one scheduled entry, got %d", len(runner.Entries()))
	}

	if _, err := service.Schedule(runner, "not a spec"); err == nil {
		t.Fatalf("expected invalid cron spec to be rejected")
	}
	if _, err := service.Schedule(nil, "@hourly"); err == nil {
		t.Fatalf("expected nil runner to be rejected")
	}
}
