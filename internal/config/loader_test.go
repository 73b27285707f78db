package config

import (
	"os"
	"testing"
	"time"

	"github.com/example/room-scheduler/internal/scheduler"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	clearEnv := func(t *testing.T) {
		t.Helper()
		for _, key := range []string{
			"ROOMSCHED_SQLITE_DSN",
			"ROOMSCHED_WORK_START",
			"ROOMSCHED_WORK_END",
			"ROOMSCHED_REMINDER_SPEC",
			"ROOMSCHED_REMINDER_LEAD",
		} {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}
	}

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.SQLiteDSN != "file:reservations.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.WorkingHours != scheduler.DefaultWorkingHours() {
			t.Fatalf("expected default working hours, got %s-%s", cfg.WorkingHours.Start, cfg.WorkingHours.End)
		}
		if cfg.ReminderSpec != "@every 15m" {
			t.Fatalf("unexpected default reminder spec: %q", cfg.ReminderSpec)
		}
		if cfg.ReminderLead != 24*time.Hour {
			t.Fatalf("unexpected default reminder lead: %s", cfg.ReminderLead)
		}
	})

	t.Run("parses supplied values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ROOMSCHED_SQLITE_DSN", "file:/tmp/reservations.db")
		t.Setenv("ROOMSCHED_WORK_START", "08:30")
		t.Setenv("ROOMSCHED_WORK_END", "18:00")
		t.Setenv("ROOMSCHED_REMINDER_SPEC", "@hourly")
		t.Setenv("ROOMSCHED_REMINDER_LEAD", "48h")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.SQLiteDSN != "file:/tmp/reservations.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.WorkingHours.Start != scheduler.NewTimeOfDay(8, 30) || cfg.WorkingHours.End != scheduler.NewTimeOfDay(18, 0) {
			t.Fatalf("unexpected working hours: %s-%s", cfg.WorkingHours.Start, cfg.WorkingHours.End)
		}
		if cfg.ReminderSpec != "@hourly" {
			t.Fatalf("unexpected reminder spec: %q", cfg.ReminderSpec)
		}
		if cfg.ReminderLead != 48*time.Hour {
			t.Fatalf("unexpected reminder lead: %s", cfg.ReminderLead)
		}
	})

	t.Run("reports every invalid entry at once", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ROOMSCHED_WORK_START", "morning")
		t.Setenv("ROOMSCHED_REMINDER_LEAD", "-1h")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "invalid environment variables: ROOMSCHED_WORK_START, ROOMSCHED_REMINDER_LEAD"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("rejects inverted working hours", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ROOMSCHED_WORK_START", "18:00")
		t.Setenv("ROOMSCHED_WORK_END", "08:00")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error for inverted working hours")
		}
	})
}
