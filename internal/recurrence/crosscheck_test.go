package recurrence

import (
	"testing"
	"time"

	teambition "github.com/teambition/rrule-go"

	"github.com/example/room-scheduler/internal/rrule"
)

// Cross-checks the generator against a full RFC 5545 implementation on the
// rule shapes where the lenient dialect and the RFC agree: count-terminated
// daily and weekly rules anchored on a selected weekday.
func TestGenerate_MatchesReferenceImplementation(t *testing.T) {
	t.Parallel()

	anchor := date(2025, time.January, 6) // Monday

	cases := []struct {
		name   string
		raw    string
		option teambition.ROption
	}{
		{
			name: "daily count",
			raw:  "FREQ=DAILY;COUNT=10",
			option: teambition.ROption{
				Freq:    teambition.DAILY,
				Count:   10,
				Dtstart: anchor,
			},
		},
		{
			name: "daily interval",
			raw:  "FREQ=DAILY;INTERVAL=3;COUNT=7",
			option: teambition.ROption{
				Freq:     teambition.DAILY,
				Interval: 3,
				Count:    7,
				Dtstart:  anchor,
			},
		},
		{
			name: "weekly without byday",
			raw:  "FREQ=WEEKLY;COUNT=6",
			option: teambition.ROption{
				Freq:    teambition.WEEKLY,
				Count:   6,
				Dtstart: anchor,
			},
		},
		{
			name: "weekly byday from selected weekday",
			raw:  "FREQ=WEEKLY;BYDAY=MO,WE,FR;COUNT=9",
			option: teambition.ROption{
				Freq:      teambition.WEEKLY,
				Count:     9,
				Byweekday: []teambition.Weekday{teambition.MO, teambition.WE, teambition.FR},
				Dtstart:   anchor,
			},
		},
		{
			name: "biweekly byday",
			raw:  "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO;COUNT=5",
			option: teambition.ROption{
				Freq:      teambition.WEEKLY,
				Interval:  2,
				Count:     5,
				Byweekday: []teambition.Weekday{teambition.MO},
				Dtstart:   anchor,
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reference, err := teambition.NewRRule(tc.option)
			if err != nil {
				t.Fatalf("building reference rule: %v", err)
			}
			want := reference.All()

			got := Generate(anchor, rrule.Parse(tc.raw))

			if len(got) != len(want) {
				t.Fatalf("expected %d dates, got %d: %v vs %v",
					len(want), len(got), formatDates(want), formatDates(got))
			}
			for i := range want {
				if !got[i].Equal(DateOf(want[i])) {
					t.Fatalf("date %d: reference %s, got %s",
						i, want[i].Format("2006-01-02"), got[i].Format("2006-01-02"))
				}
			}
		})
	}
}
