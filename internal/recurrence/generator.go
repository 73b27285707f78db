// Package recurrence expands recurrence rules into bounded, ordered
// occurrence date sequences. Generation is pure: the output depends only on
// the anchor date and the rule, never on the wall clock or stored state.
package recurrence

import (
	"time"

	"github.com/example/room-scheduler/internal/rrule"
)

// monthScanHorizon caps how many months a positioned monthly rule may scan.
// Positions such as the fifth Friday exist only in some months and are
// skipped without consuming a slot; the cap keeps impossible positions
// (BYSETPOS=6 and beyond) from looping forever.
const monthScanHorizon = 1200

// DateOf normalizes a timestamp to its calendar date at midnight UTC. All
// generated occurrence dates use this form.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// Generate expands a rule from its anchor date into an ordered,
// duplicate-free date sequence whose first element is the anchor itself.
// Termination resolves in order: an explicit COUNT produces exactly that
// many dates, an UNTIL bound keeps generating while candidates stay on or
// before it, and a rule with neither yields the default occurrence count.
func Generate(anchor time.Time, rule rrule.Rule) []time.Time {
	anchor = DateOf(anchor)
	if rule.IsZero() {
		return []time.Time{anchor}
	}

	limit, until := resolveTermination(rule)

	switch {
	case rule.Frequency == rrule.FreqWeekly && len(rule.ByDay) > 0:
		return generateWeeklyByDay(anchor, rule, limit, until)
	case rule.Frequency == rrule.FreqMonthly && len(rule.ByDay) > 0 && rule.BySetPos != 0:
		return generateMonthlyByPosition(anchor, rule, limit, until)
	default:
		return generateByStep(anchor, rule, limit, until)
	}
}

// resolveTermination returns the total occurrence budget, or a zero budget
// with an until bound when the rule terminates by date. UNTIL-bounded rules
// walk until the next candidate would exceed the bound; the same algorithm
// applies to every frequency.
func resolveTermination(rule rrule.Rule) (int, *time.Time) {
	if rule.Count > 0 {
		return rule.Count, nil
	}
	if rule.Until != nil {
		until := DateOf(*rule.Until)
		return 0, &until
	}
	return rrule.DefaultOccurrenceCount, nil
}

// generateByStep handles the frequencies that advance by a fixed step from
// the last generated date: daily, weekly without BYDAY, monthly without a
// positioned weekday, and yearly.
func generateByStep(anchor time.Time, rule rrule.Rule, limit int, until *time.Time) []time.Time {
	dates := []time.Time{anchor}
	current := anchor

	for limit == 0 || len(dates) < limit {
		next := advance(current, rule)
		if until != nil && next.After(*until) {
			break
		}
		dates = append(dates, next)
		current = next
	}

	return dates
}

func advance(current time.Time, rule rrule.Rule) time.Time {
	switch rule.Frequency {
	case rrule.FreqDaily:
		return current.AddDate(0, 0, rule.Interval)
	case rrule.FreqWeekly:
		return current.AddDate(0, 0, 7*rule.Interval)
	case rrule.FreqMonthly:
		return addMonthsClamped(current, rule.Interval)
	case rrule.FreqYearly:
		return addYearsClamped(current, rule.Interval)
	default:
		return current.AddDate(0, 0, 1)
	}
}

// generateWeeklyByDay enumerates the selected weekdays in ascending weekday
// order inside each interval-week block, starting from the anchor's week.
// Candidates on or before the anchor are skipped; the anchor itself is
// always the first element.
func generateWeeklyByDay(anchor time.Time, rule rrule.Rule, limit int, until *time.Time) []time.Time {
	dates := []time.Time{anchor}
	if limit == 1 {
		return dates
	}

	days := sortedWeekdays(rule.ByDay)
	weekStart := startOfISOWeek(anchor)

	for block := 0; ; block++ {
		blockStart := weekStart.AddDate(0, 0, block*rule.Interval*7)
		for _, day := range days {
			candidate := blockStart.AddDate(0, 0, rrule.ISOIndex(day)-1)
			if !candidate.After(anchor) {
				continue
			}
			if until != nil && candidate.After(*until) {
				return dates
			}
			dates = append(dates, candidate)
			if limit > 0 && len(dates) >= limit {
				return dates
			}
		}
	}
}

// generateMonthlyByPosition computes the BYSETPOS-th occurrence of the
// rule's weekday in each successive interval-month. Months where the
// position does not exist are skipped without consuming a slot.
func generateMonthlyByPosition(anchor time.Time, rule rrule.Rule, limit int, until *time.Time) []time.Time {
	dates := []time.Time{anchor}
	if limit == 1 {
		return dates
	}

	day := rule.ByDay[0]
	year, month := anchor.Year(), int(anchor.Month())

	for scanned := 0; scanned < monthScanHorizon; scanned += rule.Interval {
		month += rule.Interval
		year += (month - 1) / 12
		month = (month-1)%12 + 1

		candidate, ok := NthWeekdayOfMonth(year, time.Month(month), rule.BySetPos, day)
		if !ok {
			continue
		}
		if until != nil && candidate.After(*until) {
			break
		}
		dates = append(dates, candidate)
		if limit > 0 && len(dates) >= limit {
			break
		}
	}

	return dates
}

// NthWeekdayOfMonth returns the nth occurrence of a weekday within a month,
// counting from the start for positive n and from the end for negative n.
// It reports false when that occurrence does not exist (for example the
// fifth Friday of a four-Friday month).
func NthWeekdayOfMonth(year int, month time.Month, nth int, day time.Weekday) (time.Time, bool) {
	if nth == 0 {
		return time.Time{}, false
	}

	var candidate time.Time
	if nth > 0 {
		first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		offset := rrule.ISOIndex(day) - rrule.ISOIndex(first.Weekday())
		if offset < 0 {
			offset += 7
		}
		candidate = first.AddDate(0, 0, offset+7*(nth-1))
	} else {
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
		offset := rrule.ISOIndex(last.Weekday()) - rrule.ISOIndex(day)
		if offset < 0 {
			offset += 7
		}
		candidate = last.AddDate(0, 0, -offset-7*(-nth-1))
	}

	if candidate.Month() != month || candidate.Year() != year {
		return time.Time{}, false
	}
	return candidate, true
}

// AlignToMonthPosition snaps an anchor date to the positioned weekday of its
// own month when the rule is monthly with BYDAY and BYSETPOS. Anchors of
// other rules pass through unchanged, as do months lacking the position.
func AlignToMonthPosition(anchor time.Time, rule rrule.Rule) time.Time {
	anchor = DateOf(anchor)
	if rule.Frequency != rrule.FreqMonthly || len(rule.ByDay) == 0 || rule.BySetPos == 0 {
		return anchor
	}
	aligned, ok := NthWeekdayOfMonth(anchor.Year(), anchor.Month(), rule.BySetPos, rule.ByDay[0])
	if !ok {
		return anchor
	}
	return aligned
}

// addMonthsClamped advances by whole months, clamping the day of month to
// the target month's length instead of letting it roll over.
func addMonthsClamped(date time.Time, months int) time.Time {
	year, month := date.Year(), int(date.Month())+months
	year += (month - 1) / 12
	month = (month-1)%12 + 1

	day := date.Day()
	if max := daysInMonth(year, time.Month(month)); day > max {
		day = max
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// addYearsClamped advances by whole years, clamping February 29 anchors to
// February 28 in non-leap years.
func addYearsClamped(date time.Time, years int) time.Time {
	year := date.Year() + years
	day := date.Day()
	if max := daysInMonth(year, date.Month()); day > max {
		day = max
	}
	return time.Date(year, date.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// startOfISOWeek returns the Monday on or before the given date.
func startOfISOWeek(date time.Time) time.Time {
	return date.AddDate(0, 0, 1-rrule.ISOIndex(date.Weekday()))
}

func sortedWeekdays(days []time.Weekday) []time.Weekday {
	out := make([]time.Weekday, 0, len(days))
	seen := make(map[time.Weekday]struct{}, len(days))
	for _, day := range days {
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && rrule.ISOIndex(out[j]) < rrule.ISOIndex(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
