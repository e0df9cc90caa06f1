package services

import (
	"context"
	"fmt"

	"insuranceapi/repository"
	"insuranceapi/services/dto"
)

// DashboardService assembles the figures shown on the landing page.
type DashboardService interface {
	Get(ctx context.Context) (*dto.Dashboard, error)
}

type dashboardService struct {
	baseRepo   repository.BaseRepository
	clientRepo repository.ClientRepository
	entries    EntryRepositories
	reminders  ReminderService
}

// NewDashboardService creates a dashboard service on the shared connection.
func NewDashboardService(reminders ReminderService) DashboardService {
	return NewDashboardServiceWithDeps(
		repository.NewBaseRepository(),
		repository.NewClientRepository(),
		NewEntryRepositories(),
		reminders,
	)
}

// NewDashboardServiceWithDeps creates a dashboard service with injected dependencies.
func NewDashboardServiceWithDeps(
	baseRepo repository.BaseRepository,
	clientRepo repository.ClientRepository,
	entries EntryRepositories,
	reminders ReminderService,
) DashboardService {
	return &dashboardService{
		baseRepo:   baseRepo,
		clientRepo: clientRepo,
		entries:    entries,
		reminders:  reminders,
	}
}

func (s *dashboardService) Get(ctx context.Context) (*dto.Dashboard, error) {
	db := s.baseRepo.WithContext(ctx)

	clients, err := s.clientRepo.Count(db)
	if err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}

	d := &dto.Dashboard{Clients: clients, Entries: make(map[string]dto.EntryStats, 5)}

	type counter struct {
		kind  string
		count func() (dto.EntryStats, error)
	}
	counters := []counter{
		{"gic", func() (dto.EntryStats, error) { return stats(db, s.entries.GIC) }},
		{"lic", func() (dto.EntryStats, error) { return stats(db, s.entries.LIC) }},
		{"rto", func() (dto.EntryStats, error) { return stats(db, s.entries.RTO) }},
		{"bmds", func() (dto.EntryStats, error) { return stats(db, s.entries.BMDS) }},
		{"mf", func() (dto.EntryStats, error) { return stats(db, s.entries.MF) }},
	}
	for _, c := range counters {
		st, err := c.count()
		if err != nil {
			return nil, fmt.Errorf("failed to count %s entries: %w", c.kind, err)
		}
		d.Entries[c.kind] = st
	}

	summary, err := s.reminders.Summary(ctx)
	if err != nil {
		return nil, err
	}
	d.Reminders = *summary
	return d, nil
}
