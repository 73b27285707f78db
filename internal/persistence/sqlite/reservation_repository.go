package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/room-scheduler/internal/persistence"
	"github.com/example/room-scheduler/internal/scheduler"
)

const dateLayout = "2006-01-02"

const reservationColumns = `
	r.id, r.parent_id, r.date, r.start_time, r.end_time, r.subject,
	r.status, r.reservation_type, r.equipment, r.disposition,
	r.participant_count, r.department, r.recurrence_rule,
	r.reminder_sent_at, r.created_at, r.updated_at,
	o.id, o.name, o.email, o.created_at, o.updated_at`

const reservationSelect = `SELECT` + reservationColumns + `
	FROM reservations r
	LEFT JOIN organizers o ON o.id = r.organizer_id`

// ReservationRepository implements persistence.ReservationRepository on SQLite.
type ReservationRepository struct {
	pool *ConnectionPool
}

// NewReservationRepository creates a SQLite-backed reservation repository.
func NewReservationRepository(pool *ConnectionPool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// CreateReservation inserts a single reservation row.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" {
		return persistence.ErrConstraintViolation
	}
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return insertReservationTx(tx, reservation)
	})
}

// CreateSeries inserts an anchor and all of its occurrences in one
// transaction, so a rejected occurrence leaves no partial series behind.
func (r *ReservationRepository) CreateSeries(ctx context.Context, anchor persistence.Reservation, children []persistence.Reservation) error {
	if anchor.ID == "" {
		return persistence.ErrConstraintViolation
	}
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := insertReservationTx(tx, anchor); err != nil {
			return err
		}
		for _, child := range children {
			if err := insertReservationTx(tx, child); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateReservation updates an existing reservation row.
func (r *ReservationRepository) UpdateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" {
		return persistence.ErrNotFound
	}
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return updateReservationTx(tx, reservation)
	})
}

// UpdateReservations applies a batch of updates in one transaction. Dates
// are vacated first: the per-series unique index is enforced per statement,
// so a forward shift would otherwise collide with a sibling that has not
// moved yet.
func (r *ReservationRepository) UpdateReservations(ctx context.Context, reservations []persistence.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, reservation := range reservations {
			if _, err := tx.Exec(
				"UPDATE reservations SET date = 'moving:' || id WHERE id = ?",
				reservation.ID,
			); err != nil {
				return mapError(err)
			}
		}
		for _, reservation := range reservations {
			if err := updateReservationTx(tx, reservation); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceSeries updates the anchor and swaps its whole child set in one
// transaction. A crash mid-regeneration therefore never leaves stale and
// freshly generated occurrences coexisting.
func (r *ReservationRepository) ReplaceSeries(ctx context.Context, anchor persistence.Reservation, children []persistence.Reservation) error {
	if anchor.ID == "" {
		return persistence.ErrNotFound
	}
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := updateReservationTx(tx, anchor); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM reservations WHERE parent_id = ?", anchor.ID); err != nil {
			return mapError(err)
		}
		for _, child := range children {
			if err := insertReservationTx(tx, child); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetReservation retrieves a reservation by id.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	if id == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, reservationSelect+" WHERE r.id = ?", id)
	reservation, err := scanReservation(row)
	if err != nil {
		return persistence.Reservation{}, mapError(err)
	}
	return reservation, nil
}

// ListChildren returns the occurrences of a series anchor ordered by date.
func (r *ReservationRepository) ListChildren(ctx context.Context, parentID string) ([]persistence.Reservation, error) {
	return r.list(ctx, reservationSelect+" WHERE r.parent_id = ? ORDER BY r.date ASC, r.start_time ASC", parentID)
}

// ListConfirmedByDate returns the confirmed bookings on a date ordered by
// start time.
func (r *ReservationRepository) ListConfirmedByDate(ctx context.Context, date time.Time) ([]persistence.Reservation, error) {
	return r.list(ctx,
		reservationSelect+" WHERE r.date = ? AND r.status = ? ORDER BY r.start_time ASC, r.id ASC",
		date.Format(dateLayout), string(persistence.StatusConfirmed))
}

// ListByDate returns every reservation on a date ordered by start time.
func (r *ReservationRepository) ListByDate(ctx context.Context, date time.Time) ([]persistence.Reservation, error) {
	return r.list(ctx,
		reservationSelect+" WHERE r.date = ? ORDER BY r.start_time ASC, r.id ASC",
		date.Format(dateLayout))
}

// ListByDateRange returns reservations dated within [from, to] inclusive.
func (r *ReservationRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]persistence.Reservation, error) {
	return r.list(ctx,
		reservationSelect+" WHERE r.date >= ? AND r.date <= ? ORDER BY r.date ASC, r.start_time ASC, r.id ASC",
		from.Format(dateLayout), to.Format(dateLayout))
}

// ListByStatus returns reservations in the given status ordered by date.
func (r *ReservationRepository) ListByStatus(ctx context.Context, status persistence.Status) ([]persistence.Reservation, error) {
	return r.list(ctx,
		reservationSelect+" WHERE r.status = ? ORDER BY r.date ASC, r.start_time ASC, r.id ASC",
		string(status))
}

// SearchByOrganizerName matches reservations whose organizer name contains
// the fragment, case-insensitively.
func (r *ReservationRepository) SearchByOrganizerName(ctx context.Context, fragment string) ([]persistence.Reservation, error) {
	return r.list(ctx,
		reservationSelect+" WHERE o.name LIKE '%' || ? || '%' COLLATE NOCASE ORDER BY r.date ASC, r.start_time ASC, r.id ASC",
		fragment)
}

// ListDueForReminder returns confirmed reservations starting inside
// [from, to] that have not had a reminder sent.
func (r *ReservationRepository) ListDueForReminder(ctx context.Context, from, to time.Time) ([]persistence.Reservation, error) {
	return r.list(ctx,
		reservationSelect+` WHERE r.status = ?
			AND r.reminder_sent_at IS NULL
			AND (r.date || 'T' || r.start_time) >= ?
			AND (r.date || 'T' || r.start_time) <= ?
			ORDER BY r.date ASC, r.start_time ASC, r.id ASC`,
		string(persistence.StatusConfirmed),
		from.UTC().Format("2006-01-02T15:04"),
		to.UTC().Format("2006-01-02T15:04"))
}

// MarkReminderSent stamps the reminder timestamp on a reservation.
func (r *ReservationRepository) MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error {
	result, err := r.pool.db.ExecContext(ctx,
		"UPDATE reservations SET reminder_sent_at = ? WHERE id = ?",
		sentAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteReservation hard-removes exactly one row. Children keep their
// parent reference; deletion never cascades.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		// Detach children first so the self-referencing foreign key does not
		// block deleting an anchor.
		if _, err := tx.Exec("UPDATE reservations SET parent_id = NULL WHERE parent_id = ?", id); err != nil {
			return mapError(err)
		}
		result, err := tx.Exec("DELETE FROM reservations WHERE id = ?", id)
		if err != nil {
			return mapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

func (r *ReservationRepository) list(ctx context.Context, query string, args ...any) ([]persistence.Reservation, error) {
	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var reservations []persistence.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, mapError(err)
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return reservations, nil
}

func insertReservationTx(tx *sql.Tx, reservation persistence.Reservation) error {
	now := time.Now().UTC()
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = now
	}
	if reservation.UpdatedAt.IsZero() {
		reservation.UpdatedAt = now
	}

	_, err := tx.Exec(`
		INSERT INTO reservations (
			id, parent_id, date, start_time, end_time, subject, organizer_id,
			status, reservation_type, equipment, disposition, participant_count,
			department, recurrence_rule, reminder_sent_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reservation.ID,
		nullableString(reservation.ParentID),
		reservation.Date.Format(dateLayout),
		reservation.Start.String(),
		reservation.End.String(),
		reservation.Subject,
		organizerID(reservation.Organizer),
		string(reservation.Status),
		reservation.ReservationType,
		reservation.Equipment,
		reservation.Disposition,
		reservation.ParticipantCount,
		reservation.Department,
		reservation.RecurrenceRule,
		nullableTime(reservation.ReminderSentAt),
		reservation.CreatedAt.Format(time.RFC3339),
		reservation.UpdatedAt.Format(time.RFC3339),
	)
	return mapError(err)
}

func updateReservationTx(tx *sql.Tx, reservation persistence.Reservation) error {
	if reservation.UpdatedAt.IsZero() {
		reservation.UpdatedAt = time.Now().UTC()
	}

	result, err := tx.Exec(`
		UPDATE reservations SET
			parent_id = ?, date = ?, start_time = ?, end_time = ?, subject = ?,
			organizer_id = ?, status = ?, reservation_type = ?, equipment = ?,
			disposition = ?, participant_count = ?, department = ?,
			recurrence_rule = ?, reminder_sent_at = ?, updated_at = ?
		WHERE id = ?`,
		nullableString(reservation.ParentID),
		reservation.Date.Format(dateLayout),
		reservation.Start.String(),
		reservation.End.String(),
		reservation.Subject,
		organizerID(reservation.Organizer),
		string(reservation.Status),
		reservation.ReservationType,
		reservation.Equipment,
		reservation.Disposition,
		reservation.ParticipantCount,
		reservation.Department,
		reservation.RecurrenceRule,
		nullableTime(reservation.ReminderSentAt),
		reservation.UpdatedAt.Format(time.RFC3339),
		reservation.ID,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var (
		reservation                       persistence.Reservation
		parentID, reminderSentAt          sql.NullString
		dateStr, startStr, endStr, status string
		createdAtStr, updatedAtStr        string
		orgID, orgName, orgEmail          sql.NullString
		orgCreatedAtStr, orgUpdatedAtStr  sql.NullString
	)

	err := row.Scan(
		&reservation.ID, &parentID, &dateStr, &startStr, &endStr,
		&reservation.Subject, &status, &reservation.ReservationType,
		&reservation.Equipment, &reservation.Disposition,
		&reservation.ParticipantCount, &reservation.Department,
		&reservation.RecurrenceRule, &reminderSentAt,
		&createdAtStr, &updatedAtStr,
		&orgID, &orgName, &orgEmail, &orgCreatedAtStr, &orgUpdatedAtStr,
	)
	if err != nil {
		return persistence.Reservation{}, err
	}

	reservation.Status = persistence.Status(status)
	if parentID.Valid {
		reservation.ParentID = &parentID.String
	}

	if reservation.Date, err = time.Parse(dateLayout, dateStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("sqlite: parse date: %w", err)
	}
	if reservation.Start, err = scheduler.ParseTimeOfDay(startStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("sqlite: parse start_time: %w", err)
	}
	if reservation.End, err = scheduler.ParseTimeOfDay(endStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("sqlite: parse end_time: %w", err)
	}
	if reservation.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if reservation.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	if reminderSentAt.Valid {
		sentAt, err := time.Parse(time.RFC3339, reminderSentAt.String)
		if err != nil {
			return persistence.Reservation{}, fmt.Errorf("sqlite: parse reminder_sent_at: %w", err)
		}
		reservation.ReminderSentAt = &sentAt
	}

	if orgID.Valid {
		organizer := persistence.Organizer{
			ID:    orgID.String,
			Name:  orgName.String,
			Email: orgEmail.String,
		}
		if orgCreatedAtStr.Valid {
			if organizer.CreatedAt, err = time.Parse(time.RFC3339, orgCreatedAtStr.String); err != nil {
				return persistence.Reservation{}, fmt.Errorf("sqlite: parse organizer created_at: %w", err)
			}
		}
		if orgUpdatedAtStr.Valid {
			if organizer.UpdatedAt, err = time.Parse(time.RFC3339, orgUpdatedAtStr.String); err != nil {
				return persistence.Reservation{}, fmt.Errorf("sqlite: parse organizer updated_at: %w", err)
			}
		}
		reservation.Organizer = &organizer
	}

	return reservation, nil
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullableTime(value *time.Time) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: value.UTC().Format(time.RFC3339), Valid: true}
}

func organizerID(organizer *persistence.Organizer) sql.NullString {
	if organizer == nil || organizer.ID == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: organizer.ID, Valid: true}
}
