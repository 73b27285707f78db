// Package config loads service configuration from the process environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/room-scheduler/internal/scheduler"
)

// Config captures environment driven configuration values for the
// reservation service.
type Config struct {
	SQLiteDSN    string
	WorkingHours scheduler.WorkingHours
	ReminderSpec string
	ReminderLead time.Duration
}

// Load parses configuration values from the current process environment. A
// .env file in the working directory is merged in first when present; real
// environment variables win over file entries.
//
// The loader applies defaults for optional fields while validating supplied
// values and reporting every invalid entry at once.
func Load() (Config, error) {
	// Missing .env files are fine; only the environment is authoritative.
	_ = godotenv.Load()

	cfg := Config{
		SQLiteDSN:    "file:reservations.db?_foreign_keys=on",
		WorkingHours: scheduler.DefaultWorkingHours(),
		ReminderSpec: "@every 15m",
		ReminderLead: 24 * time.Hour,
	}

	invalid := make([]string, 0, 2)

	if dsn := strings.TrimSpace(os.Getenv("ROOMSCHED_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if value := strings.TrimSpace(os.Getenv("ROOMSCHED_WORK_START")); value != "" {
		start, err := scheduler.ParseTimeOfDay(value)
		if err != nil {
			invalid = append(invalid, "ROOMSCHED_WORK_START")
		} else {
			cfg.WorkingHours.Start = start
		}
	}

	if value := strings.TrimSpace(os.Getenv("ROOMSCHED_WORK_END")); value != "" {
		end, err := scheduler.ParseTimeOfDay(value)
		if err != nil {
			invalid = append(invalid, "ROOMSCHED_WORK_END")
		} else {
			cfg.WorkingHours.End = end
		}
	}

	if spec := strings.TrimSpace(os.Getenv("ROOMSCHED_REMINDER_SPEC")); spec != "" {
		cfg.ReminderSpec = spec
	}

	if value := strings.TrimSpace(os.Getenv("ROOMSCHED_REMINDER_LEAD")); value != "" {
		lead, err := time.ParseDuration(value)
		if err != nil || lead <= 0 {
			invalid = append(invalid, "ROOMSCHED_REMINDER_LEAD")
		} else {
			cfg.ReminderLead = lead
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	if !cfg.WorkingHours.Start.Before(cfg.WorkingHours.End) {
		return Config{}, fmt.Errorf("working hours are inverted: %s-%s", cfg.WorkingHours.Start, cfg.WorkingHours.End)
	}

	return cfg, nil
}
