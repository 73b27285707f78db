package recurrence

import (
	"testing"
	"time"

	"github.com/example/room-scheduler/internal/rrule"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// mondayAnchor is 2025-01-06, a Monday.
var mondayAnchor = date(2025, time.January, 6)

func assertDates(t *testing.T, got []time.Time, want ...time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), len(got), formatDates(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("date %d: expected %s, got %s (full: %v)",
				i, want[i].Format("2006-01-02"), got[i].Format("2006-01-02"), formatDates(got))
		}
	}
}

func formatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format("2006-01-02"))
	}
	return out
}

func TestGenerate_ZeroRule(t *testing.T) {
	t.Parallel()
	assertDates(t, Generate(mondayAnchor, rrule.Rule{}), mondayAnchor)
}

func TestGenerate_Daily(t *testing.T) {
	t.Parallel()

	t.Run("count", func(t *testing.T) {
		t.Parallel()
		got := Generate(mondayAnchor, rrule.Parse("FREQ=DAILY;COUNT=4"))
		assertDates(t, got,
			date(2025, time.January, 6),
			date(2025, time.January, 7),
			date(2025, time.January, 8),
			date(2025, time.January, 9))
	})

	t.Run("interval", func(t *testing.T) {
		t.Parallel()
		got := Generate(mondayAnchor, rrule.Parse("FREQ=DAILY;INTERVAL=3;COUNT=3"))
		assertDates(t, got,
			date(2025, time.January, 6),
			date(2025, time.January, 9),
			date(2025, time.January, 12))
	})

	t.Run("until is inclusive", func(t *testing.T) {
		t.Parallel()
		got := Generate(mondayAnchor, rrule.Parse("FREQ=DAILY;UNTIL=20250110"))
		assertDates(t, got,
			date(2025, time.January, 6),
			date(2025, time.January, 7),
			date(2025, time.January, 8),
			date(2025, time.January, 9),
			date(2025, time.January, 10))
	})

	t.Run("until before next candidate stops at anchor", func(t *testing.T) {
		t.Parallel()
		got := Generate(mondayAnchor, rrule.Parse("FREQ=DAILY;UNTIL=20250106"))
		assertDates(t, got, mondayAnchor)
	})

	t.Run("default count when unterminated", func(t *testing.T) {
		t.Parallel()
		got := Generate(mondayAnchor, rrule.Parse("FREQ=DAILY"))
		if len(got) != rrule.DefaultOccurrenceCount {
			t.Fatalf("expected %d dates, got %d", rrule.DefaultOccurrenceCount, len(got))
		}
	})

	t.Run("count one yields only the anchor", func(t *testing.T) {
		t.Parallel()
		got := Generate(mondayAnchor, rrule.Parse("FREQ=DAILY;COUNT=1"))
		assertDates(t, got, mondayAnchor)
	})
}

func TestGenerate_WeeklyByDay(t *testing.T) {
	t.Parallel()

	t.Run("monday wednesday friday from a monday", func(t *testing.T) {
		t.Parallel()
		got := Generate(mondayAnchor, rrule.Parse("FREQ=WEEKLY;BYDAY=MO,WE,FR;COUNT=5"))
		assertDates(t, got,
			date(2025, time.January, 6),  // Monday anchor
			date(2025, time.January, 8),  // Wednesday
			date(2025, time.January, 10), // Friday
			date(2025, time.January, 13), // Monday
			date(2025, time.January, 15)) // Wednesday
	})

	t.Run("anchor weekday outside the selection", func(t *testing.T) {
		t.Parallel()
		tuesday := date(2025, time.January, 7)
		got := Generate(tuesday, rrule.Parse("FREQ=WEEKLY;BYDAY=MO,FR;COUNT=4"))
		assertDates(t, got,
			tuesday,                      // anchor always first
			date(2025, time.January, 10), // Friday same week
			date(2025, time.January, 13), // Monday next week
			date(2025, time.January, 17)) // Friday next week
	})

	t.Run("anchor never duplicates", func(t *testing.T) {
		t.Parallel()
		got := Generate(mondayAnchor, rrule.Parse("FREQ=WEEKLY;BYDAY=MO;COUNT=3"))
		assertDates(t, got,
			date(2025, time.January, 6),
			date(2025, time.January, 13),
			date(2025, time.January, 20))
	})

	t.Run("biweekly blocks", func(t *testing.T) {
		t.Parallel()
		got := Generate(mondayAnchor, rrule.Parse("FREQ=WEEKLY;INTERVAL=2;BYDAY=MO;COUNT=3"))
		assertDates(t, got,
			date(2025, time.January, 6),
			date(2025, time.January, 20),
			date(2025, time.February, 3))
	})

	t.Run("weekday order within a week is ascending", func(t *testing.T) {
		t.Parallel()
		got := Generate(mondayAnchor, rrule.Parse("FREQ=WEEKLY;BYDAY=FR,TU;COUNT=3"))
		assertDates(t, got,
			date(2025, time.January, 6),
			date(2025, time.January, 7),  // Tuesday before Friday
			date(2025, time.January, 10)) // Friday
	})

	t.Run("until bound", func(t *testing.T) {
		t.Parallel()
		got := Generate(mondayAnchor, rrule.Parse("FREQ=WEEKLY;BYDAY=MO,FR;UNTIL=20250117"))
		assertDates(t, got,
			date(2025, time.January, 6),
			date(2025, time.January, 10),
			date(2025, time.January, 13),
			date(2025, time.January, 17))
	})
}

func TestGenerate_WeeklyWithoutByDay(t *testing.T) {
	t.Parallel()
	got := Generate(mondayAnchor, rrule.Parse("FREQ=WEEKLY;COUNT=3"))
	assertDates(t, got,
		date(2025, time.January, 6),
		date(2025, time.January, 13),
		date(2025, time.January, 20))
}

func TestGenerate_MonthlyClamping(t *testing.T) {
	t.Parallel()

	t.Run("day of month clamps and stays clamped", func(t *testing.T) {
		t.Parallel()
		got := Generate(date(2025, time.January, 31), rrule.Parse("FREQ=MONTHLY;COUNT=4"))
		// Once clamped to February 28, later months step from the clamped
		// day rather than recovering the original 31st.
		assertDates(t, got,
			date(2025, time.January, 31),
			date(2025, time.February, 28),
			date(2025, time.March, 28),
			date(2025, time.April, 28))
	})

	t.Run("leap february", func(t *testing.T) {
		t.Parallel()
		got := Generate(date(2024, time.January, 31), rrule.Parse("FREQ=MONTHLY;COUNT=2"))
		assertDates(t, got,
			date(2024, time.January, 31),
			date(2024, time.February, 29))
	})
}

func TestGenerate_MonthlyByPosition(t *testing.T) {
	t.Parallel()

	t.Run("last friday of each month", func(t *testing.T) {
		t.Parallel()
		anchor := date(2025, time.January, 31) // last Friday of January 2025
		got := Generate(anchor, rrule.Parse("FREQ=MONTHLY;BYDAY=FR;BYSETPOS=-1;COUNT=4"))
		assertDates(t, got,
			date(2025, time.January, 31),
			date(2025, time.February, 28),
			date(2025, time.March, 28),
			date(2025, time.April, 25))
	})

	t.Run("second monday of each month", func(t *testing.T) {
		t.Parallel()
		anchor := date(2025, time.January, 13) // second Monday of January 2025
		got := Generate(anchor, rrule.Parse("FREQ=MONTHLY;BYDAY=MO;BYSETPOS=2;COUNT=3"))
		assertDates(t, got,
			date(2025, time.January, 13),
			date(2025, time.February, 10),
			date(2025, time.March, 10))
	})

	t.Run("months without the position are skipped", func(t *testing.T) {
		t.Parallel()
		anchor := date(2025, time.January, 31) // fifth Friday of January 2025
		got := Generate(anchor, rrule.Parse("FREQ=MONTHLY;BYDAY=FR;BYSETPOS=5;COUNT=3"))
		// February through April 2025 have only four Fridays; the next
		// fifth Fridays land in May and August.
		assertDates(t, got,
			date(2025, time.January, 31),
			date(2025, time.May, 30),
			date(2025, time.August, 29))
	})

	t.Run("impossible position terminates", func(t *testing.T) {
		t.Parallel()
		anchor := date(2025, time.January, 6)
		got := Generate(anchor, rrule.Parse("FREQ=MONTHLY;BYDAY=MO;BYSETPOS=6;COUNT=5"))
		assertDates(t, got, anchor)
	})
}

func TestGenerate_YearlyLeapClamp(t *testing.T) {
	t.Parallel()
	got := Generate(date(2024, time.February, 29), rrule.Parse("FREQ=YEARLY;COUNT=3"))
	assertDates(t, got,
		date(2024, time.February, 29),
		date(2025, time.February, 28),
		date(2026, time.February, 28))
}

func TestGenerate_OrderedAndUnique(t *testing.T) {
	t.Parallel()

	rules := []string{
		"FREQ=DAILY;COUNT=12",
		"FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR;COUNT=20",
		"FREQ=MONTHLY;COUNT=12",
		"FREQ=MONTHLY;BYDAY=FR;BYSETPOS=-1;COUNT=12",
		"FREQ=YEARLY;COUNT=5",
	}

	for _, raw := range rules {
		got := Generate(mondayAnchor, rrule.Parse(raw))
		if len(got) == 0 || !got[0].Equal(mondayAnchor) {
			t.Fatalf("rule %q: expected anchor-first sequence, got %v", raw, formatDates(got))
		}
		for i := 1; i < len(got); i++ {
			if !got[i].After(got[i-1]) {
				t.Fatalf("rule %q: dates not strictly increasing at %d: %v", raw, i, formatDates(got))
			}
		}
	}
}

func TestNthWeekdayOfMonth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		year  int
		month time.Month
		nth   int
		day   time.Weekday
		want  time.Time
		ok    bool
	}{
		{name: "first monday", year: 2025, month: time.January, nth: 1, day: time.Monday, want: date(2025, time.January, 6), ok: true},
		{name: "second friday", year: 2025, month: time.January, nth: 2, day: time.Friday, want: date(2025, time.January, 10), ok: true},
		{name: "last friday", year: 2025, month: time.February, nth: -1, day: time.Friday, want: date(2025, time.February, 28), ok: true},
		{name: "second to last monday", year: 2025, month: time.January, nth: -2, day: time.Monday, want: date(2025, time.January, 20), ok: true},
		{name: "fifth friday exists", year: 2025, month: time.January, nth: 5, day: time.Friday, want: date(2025, time.January, 31), ok: true},
		{name: "fifth friday missing", year: 2025, month: time.February, nth: 5, day: time.Friday, ok: false},
		{name: "zero position", year: 2025, month: time.January, nth: 0, day: time.Monday, ok: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := NthWeekdayOfMonth(tc.year, tc.month, tc.nth, tc.day)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v (%s)", tc.ok, ok, got.Format("2006-01-02"))
			}
			if ok && !got.Equal(tc.want) {
				t.Fatalf("expected %s, got %s", tc.want.Format("2006-01-02"), got.Format("2006-01-02"))
			}
		})
	}
}

func TestAlignToMonthPosition(t *testing.T) {
	t.Parallel()

	t.Run("snaps to positioned weekday", func(t *testing.T) {
		t.Parallel()
		rule := rrule.Parse("FREQ=MONTHLY;BYDAY=FR;BYSETPOS=2")
		got := AlignToMonthPosition(date(2025, time.January, 6), rule)
		if !got.Equal(date(2025, time.January, 10)) {
			t.Fatalf("expected 2025-01-10, got %s", got.Format("2006-01-02"))
		}
	})

	t.Run("non-positional rules pass through", func(t *testing.T) {
		t.Parallel()
		rule := rrule.Parse("FREQ=WEEKLY;BYDAY=MO")
		got := AlignToMonthPosition(mondayAnchor, rule)
		if !got.Equal(mondayAnchor) {
			t.Fatalf("expected anchor unchanged, got %s", got.Format("2006-01-02"))
		}
	})

	t.Run("missing position passes through", func(t *testing.T) {
		t.Parallel()
		rule := rrule.Parse("FREQ=MONTHLY;BYDAY=FR;BYSETPOS=5")
		anchor := date(2025, time.February, 3)
		got := AlignToMonthPosition(anchor, rule)
		if !got.Equal(anchor) {
			t.Fatalf("expected anchor unchanged, got %s", got.Format("2006-01-02"))
		}
	})
}

func TestDateHelpers(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2025, time.January, 6, 15, 30, 45, 0, time.UTC)
	if !DateOf(stamp).Equal(mondayAnchor) {
		t.Fatalf("expected midnight date, got %s", DateOf(stamp))
	}

	if got := DaysBetween(mondayAnchor, date(2025, time.January, 9)); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}
	if got := DaysBetween(date(2025, time.January, 9), mondayAnchor); got != -3 {
		t.Fatalf("expected -3 days, got %d", got)
	}
	if got := DaysBetween(mondayAnchor, mondayAnchor); got != 0 {
		t.Fatalf("expected 0 days, got %d", got)
	}
}
