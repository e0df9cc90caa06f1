package services

import (
	"context"
	"errors"
	"fmt"

	"insuranceapi/models"
	"insuranceapi/pkg/logger"
	"insuranceapi/pkg/reminder"
	"insuranceapi/repository"
	"insuranceapi/services/dto"
	"insuranceapi/utils"

	"gorm.io/gorm"
)

// ClientService provides business logic for client records and the client profile.
// All methods accept context.Context for cancellation and timeout control.
type ClientService interface {
	List(ctx context.Context, filter dto.ClientFilter) (dto.PageResult[models.Client], error)
	Get(ctx context.Context, id uint) (*models.Client, error)
	Create(ctx context.Context, actor dto.Actor, client models.Client) (*models.Client, error)
	Update(ctx context.Context, actor dto.Actor, id uint, client models.Client) (*models.Client, error)
	// Delete soft-deletes the client after confirming the actor's password.
	// The client's entries are kept.
	Delete(ctx context.Context, actor dto.Actor, id uint, password string) error
	// Profile returns the client with every entry of every type and their totals.
	Profile(ctx context.Context, id uint) (*dto.ClientProfile, error)
}

type clientService struct {
	baseRepo     repository.BaseRepository
	clientRepo   repository.ClientRepository
	cityRepo     repository.CityRepository
	dropdownRepo repository.DropdownRepository
	auditRepo    repository.AuditRepository
	entries      EntryRepositories
	auth         AuthService
	clock        Clock
}

// NewClientService creates a client service on the shared connection.
func NewClientService(auth AuthService) ClientService {
	return &clientService{
		baseRepo:     repository.NewBaseRepository(),
		clientRepo:   repository.NewClientRepository(),
		cityRepo:     repository.NewCityRepository(),
		dropdownRepo: repository.NewDropdownRepository(),
		auditRepo:    repository.NewAuditRepository(),
		entries:      NewEntryRepositories(),
		auth:         auth,
		clock:        SystemClock(),
	}
}

// NewClientServiceWithDeps creates a client service with injected dependencies.
func NewClientServiceWithDeps(
	baseRepo repository.BaseRepository,
	clientRepo repository.ClientRepository,
	cityRepo repository.CityRepository,
	dropdownRepo repository.DropdownRepository,
	auditRepo repository.AuditRepository,
	entries EntryRepositories,
	auth AuthService,
	clock Clock,
) ClientService {
	return &clientService{
		baseRepo:     baseRepo,
		clientRepo:   clientRepo,
		cityRepo:     cityRepo,
		dropdownRepo: dropdownRepo,
		auditRepo:    auditRepo,
		entries:      entries,
		auth:         auth,
		clock:        clock,
	}
}

func (s *clientService) List(ctx context.Context, filter dto.ClientFilter) (dto.PageResult[models.Client], error) {
	filter.PageRequest = normalizePage(filter.PageRequest)
	clients, total, err := s.clientRepo.List(s.baseRepo.WithContext(ctx), filter)
	if err != nil {
		return dto.PageResult[models.Client]{}, fmt.Errorf("failed to list clients: %w", err)
	}
	today := s.clock.Today()
	for i := range clients {
		clients[i].DeriveAge(today)
	}
	return dto.NewPageResult(clients, total, filter.PageRequest), nil
}

func (s *clientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.load(s.baseRepo.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	client.DeriveAge(s.clock.Today())
	return client, nil
}

func (s *clientService) load(tx *gorm.DB, id uint) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError(fmt.Sprintf("client id=%d", id))
		}
		return nil, fmt.Errorf("failed to load client id=%d: %w", id, err)
	}
	return client, nil
}

// prepare normalizes and validates a client submitted by a form.
func (s *clientService) prepare(tx *gorm.DB, client *models.Client) error {
	client.City = nil
	client.InquiryType = nil
	client.Age = nil
	client.Normalize()

	if err := utils.ValidateStruct(client); err != nil {
		return err
	}
	if err := client.Validate(s.clock.Today()); err != nil {
		return err
	}

	if client.CityID != nil {
		if _, err := s.cityRepo.GetByID(tx, *client.CityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewValidationError("city_id", fmt.Sprintf("city id=%d does not exist", *client.CityID))
			}
			return fmt.Errorf("failed to check city id=%d: %w", *client.CityID, err)
		}
	}
	if client.InquiryTypeID != nil {
		if err := checkDropdown(tx, s.dropdownRepo, "inquiry_type_id", *client.InquiryTypeID, models.CategoryInquiryType); err != nil {
			return err
		}
	}
	return nil
}

func (s *clientService) Create(ctx context.Context, actor dto.Actor, client models.Client) (*models.Client, error) {
	client.ID = 0
	client.SrNo = 0

	var created *models.Client
	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.prepare(tx, &client); err != nil {
			return err
		}
		if err := s.clientRepo.Create(tx, &client); err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		details := fmt.Sprintf("sr_no=%d name=%s", client.SrNo, client.ClientName)
		if err := s.auditRepo.Create(tx, auditRow(actor, "client", client.ID, models.ActionCreate, details)); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		var err error
		created, err = s.load(tx, client.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	created.DeriveAge(s.clock.Today())
	logger.Infof("Client id=%d sr_no=%d created by %q", created.ID, created.SrNo, actor.Username)
	return created, nil
}

func (s *clientService) Update(ctx context.Context, actor dto.Actor, id uint, client models.Client) (*models.Client, error) {
	var updated *models.Client
	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.load(tx, id)
		if err != nil {
			return err
		}

		client.ID = existing.ID
		client.SrNo = existing.SrNo
		client.CreatedAt = existing.CreatedAt
		if err := s.prepare(tx, &client); err != nil {
			return err
		}
		if err := s.clientRepo.Update(tx, &client); err != nil {
			return fmt.Errorf("failed to update client id=%d: %w", id, err)
		}
		if err := s.auditRepo.Create(tx, auditRow(actor, "client", id, models.ActionUpdate, "name="+client.ClientName)); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		updated, err = s.load(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	updated.DeriveAge(s.clock.Today())
	logger.Infof("Client id=%d updated by %q", id, actor.Username)
	return updated, nil
}

func (s *clientService) Delete(ctx context.Context, actor dto.Actor, id uint, password string) error {
	if err := s.auth.VerifyPassword(ctx, actor.UserID, password); err != nil {
		return err
	}

	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.load(tx, id)
		if err != nil {
			return err
		}
		if err := s.clientRepo.Delete(tx, id); err != nil {
			return fmt.Errorf("failed to delete client id=%d: %w", id, err)
		}
		details := fmt.Sprintf("sr_no=%d name=%s", existing.SrNo, existing.ClientName)
		return s.auditRepo.Create(tx, auditRow(actor, "client", id, models.ActionDelete, details))
	})
	if err != nil {
		return err
	}

	logger.Infof("Client id=%d deleted by %q", id, actor.Username)
	return nil
}

func (s *clientService) Profile(ctx context.Context, id uint) (*dto.ClientProfile, error) {
	db := s.baseRepo.WithContext(ctx)

	client, err := s.load(db, id)
	if err != nil {
		return nil, err
	}
	today := s.clock.Today()
	client.DeriveAge(today)

	gic, err := s.entries.GIC.ListByClient(db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list gic entries of client id=%d: %w", id, err)
	}
	lic, err := s.entries.LIC.ListByClient(db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list lic entries of client id=%d: %w", id, err)
	}
	rto, err := s.entries.RTO.ListByClient(db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list rto entries of client id=%d: %w", id, err)
	}
	bmds, err := s.entries.BMDS.ListByClient(db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list bmds entries of client id=%d: %w", id, err)
	}
	mf, err := s.entries.MF.ListByClient(db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list mf entries of client id=%d: %w", id, err)
	}

	profile := &dto.ClientProfile{
		Client: *client,
		GIC:    groupEntries[models.GicEntry](gic),
		LIC:    groupEntries[models.LicEntry](lic),
		RTO:    groupEntries[models.RtoEntry](rto),
		BMDS:   groupEntries[models.BmdsEntry](bmds),
		MF:     groupEntries[models.MfEntry](mf),
	}
	// GIC and BMDS balances are money still owed by the client.
	profile.Outstanding = profile.GIC.Total.Add(profile.BMDS.Total)

	// Every annual date recurs within 366 days, so this window always finds the next one.
	window, err := reminder.DaysWindow(today, reminder.MaxWindowDays)
	if err != nil {
		return nil, err
	}
	result := reminder.Find([]reminder.Person{client.ReminderPerson()}, window, reminder.KindBoth)
	for _, sk := range result.Skipped {
		logger.Warnf("Client id=%d has an unusable %s date: %s", sk.ClientID, sk.Kind, sk.Reason)
	}
	profile.NextEvents = result.Matches
	if profile.NextEvents == nil {
		profile.NextEvents = []reminder.Match{}
	}
	return profile, nil
}

// checkDropdown verifies that id names an option of category.
func checkDropdown(tx *gorm.DB, repo repository.DropdownRepository, field string, id uint, category string) error {
	option, err := repo.GetByID(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewValidationError(field, fmt.Sprintf("%s option id=%d does not exist", category, id))
		}
		return fmt.Errorf("failed to check %s id=%d: %w", field, id, err)
	}
	if option.Category != category {
		return utils.NewValidationError(field, fmt.Sprintf("option id=%d is a %s, expected %s", id, option.Category, category))
	}
	return nil
}
