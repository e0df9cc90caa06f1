package services

import (
	"context"
	"fmt"
	"time"

	"insuranceapi/config"
	"insuranceapi/pkg/logger"
	"insuranceapi/pkg/reminder"
	"insuranceapi/repository"
	"insuranceapi/services/dto"
)

// ReminderService finds client birthdays and anniversaries in a date window.
type ReminderService interface {
	Today(ctx context.Context, kind reminder.Kind, grouped bool) (*dto.ReminderResponse, error)
	// Upcoming covers today through today + days.
	Upcoming(ctx context.Context, days int, kind reminder.Kind, grouped bool) (*dto.ReminderResponse, error)
	Range(ctx context.Context, start, end time.Time, kind reminder.Kind, grouped bool) (*dto.ReminderResponse, error)
	Find(ctx context.Context, q dto.ReminderQuery) (*dto.ReminderResponse, error)
	Summary(ctx context.Context) (*dto.ReminderSummary, error)
	// DefaultDays is the upcoming window used when a request names none.
	DefaultDays() int
}

type reminderService struct {
	baseRepo    repository.BaseRepository
	clientRepo  repository.ClientRepository
	clock       Clock
	defaultDays int
}

// NewReminderService creates a reminder service on the shared connection.
func NewReminderService() ReminderService {
	return NewReminderServiceWithDeps(
		repository.NewBaseRepository(),
		repository.NewClientRepository(),
		SystemClock(),
		config.Cfg.ReminderDefaultDays,
	)
}

// NewReminderServiceWithDeps creates a reminder service with injected dependencies.
func NewReminderServiceWithDeps(
	baseRepo repository.BaseRepository,
	clientRepo repository.ClientRepository,
	clock Clock,
	defaultDays int,
) ReminderService {
	return &reminderService{
		baseRepo:    baseRepo,
		clientRepo:  clientRepo,
		clock:       clock,
		defaultDays: defaultDays,
	}
}

func (s *reminderService) DefaultDays() int {
	return s.defaultDays
}

func (s *reminderService) Today(ctx context.Context, kind reminder.Kind, grouped bool) (*dto.ReminderResponse, error) {
	return s.Find(ctx, dto.ReminderQuery{
		Window:  reminder.TodayWindow(s.clock.Today()),
		Kind:    kind,
		Grouped: grouped,
	})
}

func (s *reminderService) Upcoming(ctx context.Context, days int, kind reminder.Kind, grouped bool) (*dto.ReminderResponse, error) {
	w, err := reminder.DaysWindow(s.clock.Today(), days)
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, dto.ReminderQuery{Window: w, Kind: kind, Grouped: grouped})
}

func (s *reminderService) Range(ctx context.Context, start, end time.Time, kind reminder.Kind, grouped bool) (*dto.ReminderResponse, error) {
	w, err := reminder.RangeWindow(s.clock.Today(), start, end)
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, dto.ReminderQuery{Window: w, Kind: kind, Grouped: grouped})
}

func (s *reminderService) Find(ctx context.Context, q dto.ReminderQuery) (*dto.ReminderResponse, error) {
	if q.Kind == "" {
		q.Kind = reminder.KindBoth
	}
	result, err := s.match(ctx, q.Window, q.Kind)
	if err != nil {
		return nil, err
	}

	birthdays, anniversaries := reminder.Count(result.Matches)
	resp := &dto.ReminderResponse{
		Reference:        q.Window.Reference.Format(reminder.DateLayout),
		Start:            q.Window.Start.Format(reminder.DateLayout),
		End:              q.Window.End.Format(reminder.DateLayout),
		Type:             q.Kind,
		BirthdayCount:    birthdays,
		AnniversaryCount: anniversaries,
		Total:            len(result.Matches),
		Skipped:          len(result.Skipped),
	}
	if q.Grouped {
		resp.Groups = reminder.Group(result.Matches, q.Window.Reference)
	} else {
		resp.Matches = result.Matches
	}
	return resp, nil
}

func (s *reminderService) match(ctx context.Context, w reminder.Window, kind reminder.Kind) (reminder.Result, error) {
	clients, err := s.clientRepo.ListWithSpecialDates(s.baseRepo.WithContext(ctx))
	if err != nil {
		return reminder.Result{}, fmt.Errorf("failed to load clients with special dates: %w", err)
	}

	people := make([]reminder.Person, 0, len(clients))
	for i := range clients {
		people = append(people, clients[i].ReminderPerson())
	}

	result := reminder.Find(people, w, kind)
	for _, sk := range result.Skipped {
		logger.Warnf("Reminder skipped client id=%d %s: %s", sk.ClientID, sk.Kind, sk.Reason)
	}
	logger.Debugf("Reminder window %s..%s type=%s: %d matches from %d clients",
		w.Start.Format(reminder.DateLayout), w.End.Format(reminder.DateLayout), kind, len(result.Matches), len(clients))
	return result, nil
}

func (s *reminderService) Summary(ctx context.Context) (*dto.ReminderSummary, error) {
	today := s.clock.Today()
	w, err := reminder.DaysWindow(today, s.defaultDays)
	if err != nil {
		return nil, err
	}

	result, err := s.match(ctx, w, reminder.KindBoth)
	if err != nil {
		return nil, err
	}

	summary := &dto.ReminderSummary{Upcoming: len(result.Matches), UpcomingDays: s.defaultDays}
	for _, m := range result.Matches {
		if m.DaysUntil != 0 {
			continue
		}
		summary.Today++
		if m.Kind == reminder.KindBirthday {
			summary.TodayBirthdays++
		} else {
			summary.TodayAnniversaries++
		}
	}
	return summary, nil
}
