package sqlite

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS organizers (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE COLLATE NOCASE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id                TEXT PRIMARY KEY,
		parent_id         TEXT REFERENCES reservations(id),
		date              TEXT NOT NULL,
		start_time        TEXT NOT NULL,
		end_time          TEXT NOT NULL,
		subject           TEXT NOT NULL DEFAULT '',
		organizer_id      TEXT REFERENCES organizers(id),
		status            TEXT NOT NULL CHECK (status IN ('CONFIRMED', 'CANCELLED')),
		reservation_type  TEXT NOT NULL DEFAULT '',
		equipment         TEXT NOT NULL DEFAULT '',
		disposition       TEXT NOT NULL DEFAULT '',
		participant_count INTEGER NOT NULL DEFAULT 0,
		department        TEXT NOT NULL DEFAULT '',
		recurrence_rule   TEXT NOT NULL DEFAULT '',
		reminder_sent_at  TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL,
		CHECK (start_time < end_time),
		UNIQUE (parent_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations(date)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_parent ON reservations(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
}

// Migrate creates the schema when it does not exist yet. Occurrence dates
// are unique per series via the (parent_id, date) constraint; times are
// stored as zero-padded HH:MM strings so the start/end check works
// lexicographically.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if _, err := cp.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("sqlite: apply schema: %w", err)
		}
	}
	return nil
}
