// Package notify delivers reservation notifications to outbound channels.
// Delivery is fire and forget: a failed notification never unwinds the
// booking that triggered it.
package notify

import (
	"context"
	"log/slog"

	"github.com/example/room-scheduler/internal/application"
	"github.com/example/room-scheduler/internal/logging"
)

// LogPublisher writes each notification to the structured log. It stands in
// for the mail gateway in deployments that have none configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that records notifications via the
// given logger.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish implements application.EventPublisher.
func (p *LogPublisher) Publish(ctx context.Context, notification application.Notification) {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = p.logger
	}

	attrs := []any{
		"action", string(notification.Action),
		"reservation_id", notification.Reservation.ID,
		"date", notification.Reservation.Date.Format("2006-01-02"),
		"start", notification.Reservation.Start.String(),
		"end", notification.Reservation.End.String(),
		"subject", notification.Reservation.Subject,
		"series", notification.SeriesScoped,
		"equipment_affected", notification.EquipmentAffected,
	}
	if organizer := notification.Reservation.Organizer; organizer != nil {
		attrs = append(attrs, "organizer", organizer.Email)
	}
	if notification.RecurrenceDetail != "" {
		attrs = append(attrs, "detail", notification.RecurrenceDetail)
	}

	logger.InfoContext(ctx, "reservation notification", attrs...)
}
