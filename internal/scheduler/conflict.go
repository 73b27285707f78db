package scheduler

import "fmt"

// Window is a candidate or existing booking window on a single date.
type Window struct {
	ID        string
	Start     TimeOfDay
	End       TimeOfDay
	Confirmed bool
}

// WorkingHours bounds the daily interval within which bookings are permitted.
type WorkingHours struct {
	Start TimeOfDay
	End   TimeOfDay
}

// DefaultWorkingHours returns the standard 07:00-19:00 booking window.
func DefaultWorkingHours() WorkingHours {
	return WorkingHours{Start: NewTimeOfDay(7, 0), End: NewTimeOfDay(19, 0)}
}

// ViolationKind classifies why a candidate window was rejected.
type ViolationKind string

const (
	// ViolationInvalidTimeRange indicates the window does not start before it ends.
	ViolationInvalidTimeRange ViolationKind = "invalid_time_range"
	// ViolationWorkHours indicates the window falls outside working hours.
	ViolationWorkHours ViolationKind = "work_hours"
	// ViolationOverlap indicates the window intersects a confirmed booking.
	ViolationOverlap ViolationKind = "overlap"
)

// ConflictError rejects a candidate window with a human-readable reason.
type ConflictError struct {
	Kind   ViolationKind
	Reason string
	// WithID identifies the confirmed window that caused an overlap rejection.
	WithID string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e == nil {
		return ""
	}
	return e.Reason
}

// Overlaps reports whether two same-date windows intersect. Windows are
// half-open intervals: a window ending exactly when another starts does not
// overlap it.
func Overlaps(a, b Window) bool {
	return !(a.End <= b.Start || a.Start >= b.End)
}

// Validate checks a candidate window against working hours and the confirmed
// windows already booked on the same date. Windows whose id appears in
// exclude are skipped, which lets series operations revalidate members that
// are being moved together. Checks run in order: time ordering, working
// hours, then overlap. Cancelled windows never block.
func Validate(hours WorkingHours, candidate Window, existing []Window, exclude map[string]struct{}) error {
	if candidate.Start >= candidate.End {
		return &ConflictError{
			Kind:   ViolationInvalidTimeRange,
			Reason: fmt.Sprintf("start time %s must be before end time %s", candidate.Start, candidate.End),
		}
	}

	if candidate.Start < hours.Start || candidate.End > hours.End {
		return &ConflictError{
			Kind:   ViolationWorkHours,
			Reason: fmt.Sprintf("reservation must fall within working hours %s-%s", hours.Start, hours.End),
		}
	}

	for _, other := range existing {
		if !other.Confirmed {
			continue
		}
		if _, ok := exclude[other.ID]; ok {
			continue
		}
		if other.ID != "" && other.ID == candidate.ID {
			continue
		}
		if Overlaps(candidate, other) {
			return &ConflictError{
				Kind:   ViolationOverlap,
				Reason: fmt.Sprintf("slot %s-%s is already booked", other.Start, other.End),
				WithID: other.ID,
			}
		}
	}

	return nil
}
