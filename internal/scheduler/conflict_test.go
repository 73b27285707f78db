package scheduler

import (
	"errors"
	"testing"
)

func window(id string, startHour, startMin, endHour, endMin int, confirmed bool) Window {
	return Window{
		ID:        id,
		Start:     NewTimeOfDay(startHour, startMin),
		End:       NewTimeOfDay(endHour, endMin),
		Confirmed: confirmed,
	}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b Window
		want bool
	}{
		{name: "identical", a: window("a", 9, 0, 10, 0, true), b: window("b", 9, 0, 10, 0, true), want: true},
		{name: "partial overlap", a: window("a", 9, 0, 10, 30, true), b: window("b", 10, 0, 11, 0, true), want: true},
		{name: "contained", a: window("a", 9, 0, 12, 0, true), b: window("b", 10, 0, 11, 0, true), want: true},
		{name: "touching end to start", a: window("a", 9, 0, 10, 0, true), b: window("b", 10, 0, 11, 0, true), want: false},
		{name: "touching start to end", a: window("a", 10, 0, 11, 0, true), b: window("b", 9, 0, 10, 0, true), want: false},
		{name: "disjoint", a: window("a", 7, 0, 8, 0, true), b: window("b", 15, 0, 16, 0, true), want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(tc.a, tc.b); got != tc.want {
				t.Fatalf("Overlaps(%s-%s, %s-%s) = %v, want %v",
					tc.a.Start, tc.a.End, tc.b.Start, tc.b.End, got, tc.want)
			}
			if got := Overlaps(tc.b, tc.a); got != tc.want {
				t.Fatalf("Overlaps is not symmetric for %s", tc.name)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	hours := DefaultWorkingHours()

	t.Run("accepts a free in-hours slot", func(t *testing.T) {
		t.Parallel()
		existing := []Window{window("other", 9, 0, 10, 0, true)}
		err := Validate(hours, window("new", 10, 0, 11, 0, true), existing, nil)
		if err != nil {
			t.Fatalf("expected slot touching an existing booking to be accepted, got %v", err)
		}
	})

	t.Run("rejects inverted time range", func(t *testing.T) {
		t.Parallel()
		err := Validate(hours, window("new", 11, 0, 10, 0, true), nil, nil)
		assertViolation(t, err, ViolationInvalidTimeRange)
	})

	t.Run("rejects zero-length range", func(t *testing.T) {
		t.Parallel()
		err := Validate(hours, window("new", 10, 0, 10, 0, true), nil, nil)
		assertViolation(t, err, ViolationInvalidTimeRange)
	})

	t.Run("rejects start before working hours", func(t *testing.T) {
		t.Parallel()
		err := Validate(hours, window("new", 6, 30, 8, 0, true), nil, nil)
		assertViolation(t, err, ViolationWorkHours)
	})

	t.Run("rejects end after working hours", func(t *testing.T) {
		t.Parallel()
		err := Validate(hours, window("new", 18, 0, 19, 30, true), nil, nil)
		assertViolation(t, err, ViolationWorkHours)
	})

	t.Run("accepts window spanning the full working day", func(t *testing.T) {
		t.Parallel()
		err := Validate(hours, window("new", 7, 0, 19, 0, true), nil, nil)
		if err != nil {
			t.Fatalf("expected full-day window to be accepted, got %v", err)
		}
	})

	t.Run("rejects overlap with confirmed booking", func(t *testing.T) {
		t.Parallel()
		existing := []Window{window("busy", 9, 0, 11, 0, true)}
		err := Validate(hours, window("new", 10, 0, 12, 0, true), existing, nil)
		assertViolation(t, err, ViolationOverlap)

		var cErr *ConflictError
		if !errors.As(err, &cErr) {
			t.Fatalf("expected ConflictError, got %T", err)
		}
		if cErr.WithID != "busy" {
			t.Fatalf("expected conflict to identify window %q, got %q", "busy", cErr.WithID)
		}
	})

	t.Run("ignores cancelled bookings", func(t *testing.T) {
		t.Parallel()
		existing := []Window{window("cancelled", 9, 0, 11, 0, false)}
		err := Validate(hours, window("new", 10, 0, 12, 0, true), existing, nil)
		if err != nil {
			t.Fatalf("expected cancelled booking to not block, got %v", err)
		}
	})

	t.Run("skips excluded windows", func(t *testing.T) {
		t.Parallel()
		existing := []Window{
			window("sibling-1", 9, 0, 10, 0, true),
			window("sibling-2", 10, 0, 11, 0, true),
		}
		exclude := map[string]struct{}{"sibling-1": {}, "sibling-2": {}}
		err := Validate(hours, window("new", 9, 30, 10, 30, true), existing, exclude)
		if err != nil {
			t.Fatalf("expected excluded windows to not block, got %v", err)
		}
	})

	t.Run("skips the candidate's own stored window", func(t *testing.T) {
		t.Parallel()
		existing := []Window{window("self", 9, 0, 10, 0, true)}
		err := Validate(hours, window("self", 9, 30, 10, 30, true), existing, nil)
		if err != nil {
			t.Fatalf("expected candidate to not conflict with itself, got %v", err)
		}
	})
}

func assertViolation(t *testing.T, err error, want ViolationKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s violation, got nil", want)
	}
	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected ConflictError, got %T: %v", err, err)
	}
	if cErr.Kind != want {
		t.Fatalf("expected violation kind %s, got %s (%s)", want, cErr.Kind, cErr.Reason)
	}
}
