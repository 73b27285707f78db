package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/example/room-scheduler/internal/application"
	"github.com/example/room-scheduler/internal/config"
	"github.com/example/room-scheduler/internal/logging"
	"github.com/example/room-scheduler/internal/notify"
	"github.com/example/room-scheduler/internal/persistence"
	"github.com/example/room-scheduler/internal/persistence/sqlite"
	"github.com/example/room-scheduler/internal/reminder"
)

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	reservationRepo := sqlite.NewReservationRepository(storage)
	organizerRepo := sqlite.NewOrganizerRepository(storage)

	publisher := notify.NewLogPublisher(logger)
	reservationService := application.NewReservationService(
		newReservationRepositoryAdapter(reservationRepo),
		newOrganizerDirectoryAdapter(organizerRepo, idGenerator),
		publisher,
		cfg.WorkingHours,
		idGenerator,
		now,
		logger,
	)

	confirmed, err := reservationService.ListReservationsByStatus(ctx, application.StatusConfirmed)
	if err != nil {
		logger.Error("failed to read reservation state", "error", err)
		os.Exit(1)
	}

	reminderService := reminder.NewService(
		newReminderSourceAdapter(reservationRepo),
		publisher,
		cfg.ReminderLead,
		now,
		logger,
	)

	runner := cron.New()
	if _, err := reminderService.Schedule(runner, cfg.ReminderSpec); err != nil {
		logger.Error("failed to schedule reminder sweep", "error", err)
		os.Exit(1)
	}
	runner.Start()

	logger.Info("reservation service running",
		"dsn", cfg.SQLiteDSN,
		"working_hours", cfg.WorkingHours.Start.String()+"-"+cfg.WorkingHours.End.String(),
		"reminder_spec", cfg.ReminderSpec,
		"confirmed_reservations", len(confirmed))

	<-ctx.Done()

	stopCtx := runner.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("reminder jobs did not finish before shutdown deadline")
	}
	logger.Info("reservation service stopped")
}

// --------------------------- model conversion ---------------------------

func toPersistenceReservation(reservation application.Reservation) persistence.Reservation {
	stored := persistence.Reservation{
		ID:               reservation.ID,
		ParentID:         reservation.ParentID,
		Date:             reservation.Date,
		Start:            reservation.Start,
		End:              reservation.End,
		Subject:          reservation.Subject,
		Status:           persistence.Status(reservation.Status),
		ReservationType:  reservation.ReservationType,
		Equipment:        reservation.Equipment,
		Disposition:      reservation.Disposition,
		ParticipantCount: reservation.ParticipantCount,
		Department:       reservation.Department,
		RecurrenceRule:   reservation.RecurrenceRule,
		CreatedAt:        reservation.CreatedAt,
		UpdatedAt:        reservation.UpdatedAt,
	}
	if reservation.Organizer != nil {
		stored.Organizer = &persistence.Organizer{
			ID:    reservation.Organizer.ID,
			Name:  reservation.Organizer.Name,
			Email: reservation.Organizer.Email,
		}
	}
	return stored
}

func toApplicationReservation(stored persistence.Reservation) application.Reservation {
	reservation := application.Reservation{
		ID:               stored.ID,
		ParentID:         stored.ParentID,
		Date:             stored.Date,
		Start:            stored.Start,
		End:              stored.End,
		Subject:          stored.Subject,
		Status:           application.Status(stored.Status),
		ReservationType:  stored.ReservationType,
		Equipment:        stored.Equipment,
		Disposition:      stored.Disposition,
		ParticipantCount: stored.ParticipantCount,
		Department:       stored.Department,
		RecurrenceRule:   stored.RecurrenceRule,
		CreatedAt:        stored.CreatedAt,
		UpdatedAt:        stored.UpdatedAt,
	}
	if stored.Organizer != nil {
		reservation.Organizer = &application.Organizer{
			ID:    stored.Organizer.ID,
			Name:  stored.Organizer.Name,
			Email: stored.Organizer.Email,
		}
	}
	return reservation
}

func toApplicationReservations(stored []persistence.Reservation) []application.Reservation {
	if len(stored) == 0 {
		return nil
	}
	reservations := make([]application.Reservation, 0, len(stored))
	for _, model := range stored {
		reservations = append(reservations, toApplicationReservation(model))
	}
	return reservations
}

func toPersistenceReservations(reservations []application.Reservation) []persistence.Reservation {
	if len(reservations) == 0 {
		return nil
	}
	stored := make([]persistence.Reservation, 0, len(reservations))
	for _, reservation := range reservations {
		stored = append(stored, toPersistenceReservation(reservation))
	}
	return stored
}

// ----------------------------- repo adapters -----------------------------

type reservationRepositoryAdapter struct {
	repo persistence.ReservationRepository
}

func newReservationRepositoryAdapter(repo persistence.ReservationRepository) *reservationRepositoryAdapter {
	return &reservationRepositoryAdapter{repo: repo}
}

func (a *reservationRepositoryAdapter) CreateReservation(ctx context.Context, reservation application.Reservation) error {
	return a.repo.CreateReservation(ctx, toPersistenceReservation(reservation))
}

func (a *reservationRepositoryAdapter) CreateSeries(ctx context.Context, anchor application.Reservation, children []application.Reservation) error {
	return a.repo.CreateSeries(ctx, toPersistenceReservation(anchor), toPersistenceReservations(children))
}

func (a *reservationRepositoryAdapter) UpdateReservation(ctx context.Context, reservation application.Reservation) error {
	return a.repo.UpdateReservation(ctx, toPersistenceReservation(reservation))
}

func (a *reservationRepositoryAdapter) UpdateReservations(ctx context.Context, reservations []application.Reservation) error {
	return a.repo.UpdateReservations(ctx, toPersistenceReservations(reservations))
}

func (a *reservationRepositoryAdapter) ReplaceSeries(ctx context.Context, anchor application.Reservation, children []application.Reservation) error {
	return a.repo.ReplaceSeries(ctx, toPersistenceReservation(anchor), toPersistenceReservations(children))
}

func (a *reservationRepositoryAdapter) GetReservation(ctx context.Context, id string) (application.Reservation, error) {
	stored, err := a.repo.GetReservation(ctx, id)
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(stored), nil
}

func (a *reservationRepositoryAdapter) ListChildren(ctx context.Context, parentID string) ([]application.Reservation, error) {
	stored, err := a.repo.ListChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(stored), nil
}

func (a *reservationRepositoryAdapter) ListConfirmedByDate(ctx context.Context, date time.Time) ([]application.Reservation, error) {
	stored, err := a.repo.ListConfirmedByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(stored), nil
}

func (a *reservationRepositoryAdapter) ListByDate(ctx context.Context, date time.Time) ([]application.Reservation, error) {
	stored, err := a.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(stored), nil
}

func (a *reservationRepositoryAdapter) ListByDateRange(ctx context.Context, from, to time.Time) ([]application.Reservation, error) {
	stored, err := a.repo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(stored), nil
}

func (a *reservationRepositoryAdapter) ListByStatus(ctx context.Context, status application.Status) ([]application.Reservation, error) {
	stored, err := a.repo.ListByStatus(ctx, persistence.Status(status))
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(stored), nil
}

func (a *reservationRepositoryAdapter) SearchByOrganizerName(ctx context.Context, fragment string) ([]application.Reservation, error) {
	stored, err := a.repo.SearchByOrganizerName(ctx, fragment)
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(stored), nil
}

func (a *reservationRepositoryAdapter) DeleteReservation(ctx context.Context, id string) error {
	return a.repo.DeleteReservation(ctx, id)
}

type organizerDirectoryAdapter struct {
	repo        persistence.OrganizerRepository
	idGenerator func() string
}

func newOrganizerDirectoryAdapter(repo persistence.OrganizerRepository, idGenerator func() string) *organizerDirectoryAdapter {
	return &organizerDirectoryAdapter{repo: repo, idGenerator: idGenerator}
}

func (a *organizerDirectoryAdapter) ResolveOrCreate(ctx context.Context, organizer application.Organizer) (application.Organizer, error) {
	if organizer.ID == "" && a.idGenerator != nil {
		organizer.ID = a.idGenerator()
	}
	resolved, err := a.repo.ResolveOrCreate(ctx, persistence.Organizer{
		ID:    organizer.ID,
		Name:  organizer.Name,
		Email: organizer.Email,
	})
	if err != nil {
		return application.Organizer{}, err
	}
	return application.Organizer{ID: resolved.ID, Name: resolved.Name, Email: resolved.Email}, nil
}

type reminderSourceAdapter struct {
	repo persistence.ReservationRepository
}

func newReminderSourceAdapter(repo persistence.ReservationRepository) *reminderSourceAdapter {
	return &reminderSourceAdapter{repo: repo}
}

func (a *reminderSourceAdapter) ListDueForReminder(ctx context.Context, from, to time.Time) ([]application.Reservation, error) {
	stored, err := a.repo.ListDueForReminder(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(stored), nil
}

func (a *reminderSourceAdapter) MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error {
	return a.repo.MarkReminderSent(ctx, id, sentAt)
}
