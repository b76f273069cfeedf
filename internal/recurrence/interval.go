package recurrence

import (
	"fmt"
	"time"
)

// Interval describes how often a reminder regenerates after completion.
type Interval string

const (
	None          Interval = "none"
	Daily         Interval = "daily"
	EveryOtherDay Interval = "every_other_day"
	Weekly        Interval = "weekly"
	Biweekly      Interval = "biweekly"
	Monthly       Interval = "monthly"
	Quarterly     Interval = "quarterly"
	Yearly        Interval = "yearly"
)

var intervals = map[Interval]bool{
	None:          true,
	Daily:         true,
	EveryOtherDay: true,
	Weekly:        true,
	Biweekly:      true,
	Monthly:       true,
	Quarterly:     true,
	Yearly:        true,
}

// Parse validates a recurrence string. The empty string parses as None.
func Parse(s string) (Interval, error) {
	if s == "" {
		return None, nil
	}
	iv := Interval(s)
	if !intervals[iv] {
		return "", fmt.Errorf("unknown recurrence: %q", s)
	}
	return iv, nil
}

// Valid reports whether iv is one of the known intervals.
func (iv Interval) Valid() bool {
	return intervals[iv]
}

// Repeats reports whether iv regenerates a reminder after completion.
func (iv Interval) Repeats() bool {
	return intervals[iv] && iv != None
}

// Describe returns a human-readable description of the interval.
func (iv Interval) Describe() string {
	switch iv {
	case Daily:
		return "Repeats daily"
	case EveryOtherDay:
		return "Repeats every 2 days"
	case Weekly:
		return "Repeats weekly"
	case Biweekly:
		return "Repeats every 2 weeks"
	case Monthly:
		return "Repeats monthly"
	case Quarterly:
		return "Repeats every 3 months"
	case Yearly:
		return "Repeats yearly"
	}
	return ""
}

// Next returns the occurrence after from. Month and year arithmetic uses
// AddDate, so a Jan 31 base rolls into early March rather than clamping;
// that matches the calendar semantics the reminder UI documents.
//
// None and unrecognized values are errors: callers must guard before
// asking for a next occurrence.
func Next(from time.Time, iv Interval) (time.Time, error) {
	switch iv {
	case Daily:
		return from.AddDate(0, 0, 1), nil
	case EveryOtherDay:
		return from.AddDate(0, 0, 2), nil
	case Weekly:
		return from.AddDate(0, 0, 7), nil
	case Biweekly:
		return from.AddDate(0, 0, 14), nil
	case Monthly:
		return from.AddDate(0, 1, 0), nil
	case Quarterly:
		return from.AddDate(0, 3, 0), nil
	case Yearly:
		return from.AddDate(1, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("recurrence %q has no next occurrence", iv)
}
