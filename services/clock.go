package services

import (
	"time"

	"insuranceapi/config"
	"insuranceapi/pkg/reminder"
)

// Clock supplies the current date in the reminder timezone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock reads the wall clock in REMINDER_TIMEZONE.
func SystemClock() Clock {
	return Clock{Now: time.Now, Location: config.ReminderLocation()}
}

// FixedClock always reports t. Used by tests.
func FixedClock(t time.Time) Clock {
	return Clock{Now: func() time.Time { return t }, Location: time.UTC}
}

// Today returns the current calendar date as a UTC midnight.
func (c Clock) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return reminder.TodayIn(now(), c.Location)
}
