// Package rrule parses the recurrence rule subset used by the reservation
// core: FREQ, INTERVAL, BYDAY, BYSETPOS, COUNT and UNTIL, in the familiar
// "KEY=VALUE;KEY=VALUE" wire form.
package rrule

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Frequency identifies how a rule advances between occurrences.
type Frequency string

const (
	// FreqDaily advances by days.
	FreqDaily Frequency = "DAILY"
	// FreqWeekly advances by weeks, optionally constrained to weekdays.
	FreqWeekly Frequency = "WEEKLY"
	// FreqMonthly advances by months, optionally to a positioned weekday.
	FreqMonthly Frequency = "MONTHLY"
	// FreqYearly advances by years.
	FreqYearly Frequency = "YEARLY"
)

// DefaultOccurrenceCount is the series length used when a rule carries
// neither COUNT nor UNTIL.
const DefaultOccurrenceCount = 12

// untilLayout is the basic ISO date form used by the UNTIL component.
const untilLayout = "20060102"

// Rule is a structured recurrence rule. The zero value means "no recurrence".
type Rule struct {
	Frequency Frequency
	Interval  int
	// ByDay restricts weekly rules to selected weekdays; for monthly rules
	// combined with BySetPos only the first entry is meaningful.
	ByDay []time.Weekday
	// BySetPos selects the nth weekday of the month; negative values count
	// from the month's end. Zero means unset.
	BySetPos int
	// Count is the total number of occurrences including the anchor.
	// Zero means unset.
	Count int
	// Until is the inclusive last date a generated occurrence may fall on.
	Until *time.Time
}

// IsZero reports whether the rule describes no recurrence at all.
func (r Rule) IsZero() bool {
	return r.Frequency == ""
}

var weekdayCodes = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// ParseWeekday maps a two-letter weekday code to a time.Weekday.
func ParseWeekday(code string) (time.Weekday, bool) {
	day, ok := weekdayCodes[strings.ToUpper(strings.TrimSpace(code))]
	return day, ok
}

// WeekdayCode maps a time.Weekday back to its two-letter wire code.
func WeekdayCode(day time.Weekday) string {
	switch day {
	case time.Monday:
		return "MO"
	case time.Tuesday:
		return "TU"
	case time.Wednesday:
		return "WE"
	case time.Thursday:
		return "TH"
	case time.Friday:
		return "FR"
	case time.Saturday:
		return "SA"
	default:
		return "SU"
	}
}

// ISOIndex returns the ISO-8601 weekday number, Monday = 1 through Sunday = 7.
// Weekday codes sort in this order, so it also defines the "ascending
// weekday" enumeration used for weekly BYDAY expansion.
func ISOIndex(day time.Weekday) int {
	if day == time.Sunday {
		return 7
	}
	return int(day)
}

// Parse turns a rule string into a structured Rule. Parsing is lenient by
// contract: tokens without an "=" are skipped, unknown keys and unparseable
// values fall back to defaults, and an empty input yields the zero Rule.
// When both COUNT and UNTIL are present, COUNT wins.
func Parse(raw string) Rule {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Rule{}
	}

	rule := Rule{Frequency: FreqDaily, Interval: 1}

	for _, token := range strings.Split(raw, ";") {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "FREQ":
			switch Frequency(strings.ToUpper(value)) {
			case FreqDaily, FreqWeekly, FreqMonthly, FreqYearly:
				rule.Frequency = Frequency(strings.ToUpper(value))
			}
		case "INTERVAL":
			if interval, err := strconv.Atoi(value); err == nil && interval > 0 {
				rule.Interval = interval
			}
		case "BYDAY":
			rule.ByDay = parseByDay(value)
		case "BYSETPOS":
			if pos, err := strconv.Atoi(value); err == nil {
				rule.BySetPos = pos
			}
		case "COUNT":
			if count, err := strconv.Atoi(value); err == nil && count > 0 {
				rule.Count = count
			}
		case "UNTIL":
			if until, ok := parseUntil(value); ok {
				rule.Until = &until
			}
		}
	}

	if rule.Count > 0 {
		rule.Until = nil
	}

	return rule
}

func parseByDay(value string) []time.Weekday {
	days := make([]time.Weekday, 0, 4)
	for _, code := range strings.Split(value, ",") {
		day, ok := ParseWeekday(code)
		if !ok {
			continue
		}
		if slices.Contains(days, day) {
			continue
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil
	}
	return days
}

// parseUntil reads a YYYYMMDD date, discarding any time suffix after "T".
func parseUntil(value string) (time.Time, bool) {
	datePart, _, _ := strings.Cut(value, "T")
	until, err := time.Parse(untilLayout, datePart)
	if err != nil {
		return time.Time{}, false
	}
	return until.UTC(), true
}

// PatternEquals reports whether two rules share the same recurrence pattern
// (frequency, interval, weekday selection, position and termination). Series
// updates use this to decide between shifting members and regenerating.
func PatternEquals(a, b Rule) bool {
	if a.Frequency != b.Frequency || a.Interval != b.Interval || a.BySetPos != b.BySetPos || a.Count != b.Count {
		return false
	}
	if !slices.Equal(sortedByISO(a.ByDay), sortedByISO(b.ByDay)) {
		return false
	}
	if (a.Until == nil) != (b.Until == nil) {
		return false
	}
	if a.Until != nil && !a.Until.Equal(*b.Until) {
		return false
	}
	return true
}

func sortedByISO(days []time.Weekday) []time.Weekday {
	out := make([]time.Weekday, len(days))
	copy(out, days)
	slices.SortFunc(out, func(a, b time.Weekday) int {
		return ISOIndex(a) - ISOIndex(b)
	})
	return out
}
