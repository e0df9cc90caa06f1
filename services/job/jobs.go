package job

import (
	"context"
	"fmt"

	"insuranceapi/pkg/logger"
	"insuranceapi/services/dto"
)

// Names of the jobs main registers.
const (
	LookupRefreshJob  = "lookup-refresh"
	ReminderDigestJob = "reminder-digest"
)

// ReminderSummarizer is the part of the reminder service the digest needs.
type ReminderSummarizer interface {
	Summary(ctx context.Context) (*dto.ReminderSummary, error)
}

// ReminderDigest logs today's birthday and anniversary counts.
func ReminderDigest(reminders ReminderSummarizer) Func {
	return func(ctx context.Context) error {
		summary, err := reminders.Summary(ctx)
		if err != nil {
			return fmt.Errorf("reminder summary: %w", err)
		}
		logger.Infof("Reminder digest: %d today (%d birthdays, %d anniversaries), %d in the next %d days",
			summary.Today, summary.TodayBirthdays, summary.TodayAnniversaries, summary.Upcoming, summary.UpcomingDays)
		return nil
	}
}

// LookupRefresh reloads the dropdown and city cache so edits made directly in
// the database show up without a restart.
func LookupRefresh(load func() error) Func {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := load(); err != nil {
			return fmt.Errorf("reload lookups: %w", err)
		}
		return nil
	}
}
