package rrule

import (
	"fmt"
	"strings"
	"time"
)

var frequencyLabels = map[Frequency]string{
	FreqDaily:   "Daily",
	FreqWeekly:  "Weekly",
	FreqMonthly: "Monthly",
	FreqYearly:  "Yearly",
}

var weekdayLabels = map[time.Weekday]string{
	time.Monday:    "Monday",
	time.Tuesday:   "Tuesday",
	time.Wednesday: "Wednesday",
	time.Thursday:  "Thursday",
	time.Friday:    "Friday",
	time.Saturday:  "Saturday",
	time.Sunday:    "Sunday",
}

var positionLabels = map[int]string{
	1:  "First",
	2:  "Second",
	3:  "Third",
	4:  "Fourth",
	-1: "Last",
}

// Describe renders a rule as the human-readable detail block carried by
// notification events.
func Describe(rule Rule) string {
	if rule.IsZero() {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n=== Recurrence details ===\n")
	fmt.Fprintf(&b, "Type: %s\n", frequencyLabel(rule.Frequency))
	fmt.Fprintf(&b, "Interval: %d\n", rule.Interval)

	if len(rule.ByDay) > 0 {
		labels := make([]string, 0, len(rule.ByDay))
		for _, day := range sortedByISO(rule.ByDay) {
			labels = append(labels, weekdayLabels[day])
		}
		fmt.Fprintf(&b, "Days: %s\n", strings.Join(labels, ", "))
	}

	if rule.BySetPos != 0 {
		fmt.Fprintf(&b, "Position: %s\n", positionLabel(rule.BySetPos))
	}

	switch {
	case rule.Count > 0:
		fmt.Fprintf(&b, "Occurrences: %d\n", rule.Count)
	case rule.Until != nil:
		fmt.Fprintf(&b, "Until: %s\n", rule.Until.Format("2006-01-02"))
	default:
		fmt.Fprintf(&b, "Occurrences: %d\n", DefaultOccurrenceCount)
	}

	return b.String()
}

func frequencyLabel(freq Frequency) string {
	if label, ok := frequencyLabels[freq]; ok {
		return label
	}
	return string(freq)
}

func positionLabel(pos int) string {
	if label, ok := positionLabels[pos]; ok {
		return label
	}
	return fmt.Sprintf("%d", pos)
}
