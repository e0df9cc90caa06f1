// Package reminder selects clients whose birthday or wedding anniversary falls
// inside a date window and groups the matches by calendar date.
//
// All dates are UTC date-only values: time of day and the caller's timezone are
// discarded before any comparison, so "days until" always counts calendar days.
package reminder

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO 8601 date format accepted and produced by this package.
const DateLayout = "2006-01-02"

// MaxWindowDays bounds a window so that each client can occur at most once in it.
const MaxWindowDays = 366

// Kind selects which special date is matched.
type Kind string

const (
	KindBirthday    Kind = "birthday"
	KindAnniversary Kind = "anniversary"
	KindBoth        Kind = "both"
)

// ValidationError reports a caller-supplied window or filter that cannot be used.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ParseKind parses a type filter. An empty string means both.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindBoth:
		return KindBoth, nil
	case KindBirthday:
		return KindBirthday, nil
	case KindAnniversary:
		return KindAnniversary, nil
	default:
		return "", &ValidationError{Field: "type", Message: fmt.Sprintf("%q is not one of birthday, anniversary, both", s)}
	}
}

// Includes reports whether the filter selects the given concrete kind.
func (k Kind) Includes(other Kind) bool {
	return k == KindBoth || k == other
}

// DateOf truncates t to midnight UTC of its own calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TodayIn returns the current calendar date in loc as a UTC date.
func TodayIn(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

// ParseDate parses an ISO 8601 date (YYYY-MM-DD).
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Message: fmt.Sprintf("%q is not a YYYY-MM-DD date", s)}
	}
	return t, nil
}

// DaysBetween counts calendar days from a to b. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// Window is an inclusive date range [Start, End] together with the reference date
// that "days until" is measured from and "Today" is labelled against.
type Window struct {
	Reference time.Time
	Start     time.Time
	End       time.Time
}

// TodayWindow matches only occurrences on the reference date.
func TodayWindow(reference time.Time) Window {
	ref := DateOf(reference)
	return Window{Reference: ref, Start: ref, End: ref}
}

// DaysWindow covers reference through reference + days, both inclusive.
func DaysWindow(reference time.Time, days int) (Window, error) {
	if days < 0 {
		return Window{}, &ValidationError{Field: "days", Message: fmt.Sprintf("must not be negative, got %d", days)}
	}
	if days > MaxWindowDays {
		return Window{}, &ValidationError{Field: "days", Message: fmt.Sprintf("must be at most %d, got %d", MaxWindowDays, days)}
	}
	ref := DateOf(reference)
	return Window{Reference: ref, Start: ref, End: ref.AddDate(0, 0, days)}, nil
}

// RangeWindow covers start through end, both inclusive. Occurrences are projected
// from start; "days until" and the "Today" label still use reference, which may lie
// outside the range (days until is then negative for a range in the past).
func RangeWindow(reference, start, end time.Time) (Window, error) {
	s, e := DateOf(start), DateOf(end)
	if e.Before(s) {
		return Window{}, &ValidationError{
			Field:   "end",
			Message: fmt.Sprintf("end date %s is before start date %s", e.Format(DateLayout), s.Format(DateLayout)),
		}
	}
	if span := DaysBetween(s, e); span > MaxWindowDays {
		return Window{}, &ValidationError{Field: "end", Message: fmt.Sprintf("range spans %d days, at most %d allowed", span, MaxWindowDays)}
	}
	return Window{Reference: DateOf(reference), Start: s, End: e}, nil
}

// Contains reports whether d lies inside the window.
func (w Window) Contains(d time.Time) bool {
	d = DateOf(d)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days is the number of days after Start that the window still covers.
func (w Window) Days() int {
	return DaysBetween(w.Start, w.End)
}
