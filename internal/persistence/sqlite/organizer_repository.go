package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/room-scheduler/internal/persistence"
)

// OrganizerRepository implements persistence.OrganizerRepository on SQLite.
type OrganizerRepository struct {
	pool *ConnectionPool
}

// NewOrganizerRepository creates a SQLite-backed organizer repository.
func NewOrganizerRepository(pool *ConnectionPool) *OrganizerRepository {
	return &OrganizerRepository{pool: pool}
}

// ResolveOrCreate returns the organizer registered under the given email,
// inserting it first when absent. Email matching is case-insensitive, so
// resolution is idempotent regardless of casing.
func (r *OrganizerRepository) ResolveOrCreate(ctx context.Context, organizer persistence.Organizer) (persistence.Organizer, error) {
	email := strings.TrimSpace(organizer.Email)
	if email == "" {
		return persistence.Organizer{}, persistence.ErrConstraintViolation
	}

	existing, err := r.GetOrganizerByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		return persistence.Organizer{}, err
	}

	now := time.Now().UTC()
	organizer.Email = email
	if organizer.CreatedAt.IsZero() {
		organizer.CreatedAt = now
	}
	if organizer.UpdatedAt.IsZero() {
		organizer.UpdatedAt = now
	}

	_, err = r.pool.db.ExecContext(ctx,
		"INSERT INTO organizers (id, name, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		organizer.ID, organizer.Name, organizer.Email,
		organizer.CreatedAt.Format(time.RFC3339),
		organizer.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		// A concurrent insert may have won the race; fall back to the winner.
		if errors.Is(mapError(err), persistence.ErrDuplicate) {
			return r.GetOrganizerByEmail(ctx, email)
		}
		return persistence.Organizer{}, mapError(err)
	}
	return organizer, nil
}

// GetOrganizer retrieves an organizer by id.
func (r *OrganizerRepository) GetOrganizer(ctx context.Context, id string) (persistence.Organizer, error) {
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT id, name, email, created_at, updated_at FROM organizers WHERE id = ?", id)
	return scanOrganizer(row)
}

// GetOrganizerByEmail retrieves an organizer by email, case-insensitively.
func (r *OrganizerRepository) GetOrganizerByEmail(ctx context.Context, email string) (persistence.Organizer, error) {
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT id, name, email, created_at, updated_at FROM organizers WHERE email = ? COLLATE NOCASE", email)
	return scanOrganizer(row)
}

func scanOrganizer(row *sql.Row) (persistence.Organizer, error) {
	var (
		organizer                  persistence.Organizer
		createdAtStr, updatedAtStr string
	)
	err := row.Scan(&organizer.ID, &organizer.Name, &organizer.Email, &createdAtStr, &updatedAtStr)
	if err != nil {
		return persistence.Organizer{}, mapError(err)
	}
	if organizer.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Organizer{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if organizer.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Organizer{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return organizer, nil
}
