package services

import (
	"context"
	"errors"
	"fmt"

	"insuranceapi/models"
	"insuranceapi/pkg/logger"
	"insuranceapi/repository"
	"insuranceapi/services/dto"
	"insuranceapi/utils"

	"gorm.io/gorm"
)

// EntryService provides business logic for one entry type. A single generic
// implementation serves GIC, LIC, RTO, BMDS and MF entries; the type-specific
// rules live on the models (Normalize, Validate, Derive).
type EntryService[T any, PT repository.EntryPtr[T]] interface {
	// Kind is the short type name, e.g. "gic".
	Kind() string
	List(ctx context.Context, filter dto.EntryFilter) (dto.PageResult[T], error)
	Get(ctx context.Context, id uint) (*T, error)
	// NextRegNum previews the reg_num the next entry will most likely get.
	// The number is only reserved at insert time.
	NextRegNum(ctx context.Context) (int, error)
	Create(ctx context.Context, actor dto.Actor, entry T) (*T, error)
	Update(ctx context.Context, actor dto.Actor, id uint, entry T) (*T, error)
	Delete(ctx context.Context, actor dto.Actor, id uint, password string) error
}

type entryService[T any, PT repository.EntryPtr[T]] struct {
	kind         string
	baseRepo     repository.BaseRepository
	entryRepo    repository.EntryRepository[T, PT]
	clientRepo   repository.ClientRepository
	dropdownRepo repository.DropdownRepository
	auditRepo    repository.AuditRepository
	auth         AuthService
}

// NewEntryService creates an entry service on the shared connection.
func NewEntryService[T any, PT repository.EntryPtr[T]](auth AuthService) EntryService[T, PT] {
	return NewEntryServiceWithDeps[T, PT](
		repository.NewBaseRepository(),
		repository.NewEntryRepository[T, PT](),
		repository.NewClientRepository(),
		repository.NewDropdownRepository(),
		repository.NewAuditRepository(),
		auth,
	)
}

// NewEntryServiceWithDeps creates an entry service with injected dependencies.
func NewEntryServiceWithDeps[T any, PT repository.EntryPtr[T]](
	baseRepo repository.BaseRepository,
	entryRepo repository.EntryRepository[T, PT],
	clientRepo repository.ClientRepository,
	dropdownRepo repository.DropdownRepository,
	auditRepo repository.AuditRepository,
	auth AuthService,
) EntryService[T, PT] {
	var zero T
	return &entryService[T, PT]{
		kind:         PT(&zero).Kind(),
		baseRepo:     baseRepo,
		entryRepo:    entryRepo,
		clientRepo:   clientRepo,
		dropdownRepo: dropdownRepo,
		auditRepo:    auditRepo,
		auth:         auth,
	}
}

func (s *entryService[T, PT]) Kind() string {
	return s.kind
}

func (s *entryService[T, PT]) List(ctx context.Context, filter dto.EntryFilter) (dto.PageResult[T], error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(filter.DateFrom.Time) {
		return dto.PageResult[T]{}, utils.NewValidationError("date_to", "date_to is before date_from")
	}
	filter.PageRequest = normalizePage(filter.PageRequest)
	entries, total, err := s.entryRepo.List(s.baseRepo.WithContext(ctx), filter)
	if err != nil {
		return dto.PageResult[T]{}, fmt.Errorf("failed to list %s entries: %w", s.kind, err)
	}
	return dto.NewPageResult(entries, total, filter.PageRequest), nil
}

func (s *entryService[T, PT]) Get(ctx context.Context, id uint) (*T, error) {
	return s.load(s.baseRepo.WithContext(ctx), id)
}

func (s *entryService[T, PT]) load(tx *gorm.DB, id uint) (*T, error) {
	entry, err := s.entryRepo.GetByID(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError(fmt.Sprintf("%s entry id=%d", s.kind, id))
		}
		return nil, fmt.Errorf("failed to load %s entry id=%d: %w", s.kind, id, err)
	}
	return entry, nil
}

func (s *entryService[T, PT]) NextRegNum(ctx context.Context) (int, error) {
	next, err := s.entryRepo.NextRegNum(s.baseRepo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to compute next %s reg_num: %w", s.kind, err)
	}
	return next, nil
}

// prepare normalizes and validates e, then checks that every reference resolves.
func (s *entryService[T, PT]) prepare(tx *gorm.DB, e PT) error {
	base := e.GetBase()
	base.Client = nil
	e.Normalize()

	if err := utils.ValidateStruct(e); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}

	if _, err := s.clientRepo.GetByID(tx, base.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewValidationError("client_id", fmt.Sprintf("client id=%d does not exist", base.ClientID))
		}
		return fmt.Errorf("failed to check client id=%d: %w", base.ClientID, err)
	}
	for _, ref := range e.DropdownRefs() {
		if ref.ID == nil {
			continue
		}
		if err := checkDropdown(tx, s.dropdownRepo, ref.Field, *ref.ID, ref.Category); err != nil {
			return err
		}
	}
	return nil
}

func (s *entryService[T, PT]) Create(ctx context.Context, actor dto.Actor, entry T) (*T, error) {
	e := PT(&entry)
	base := e.GetBase()
	base.ID = 0
	base.RegNum = 0

	var created *T
	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.prepare(tx, e); err != nil {
			return err
		}
		if err := s.entryRepo.Create(tx, e); err != nil {
			return fmt.Errorf("failed to create %s entry: %w", s.kind, err)
		}
		details := fmt.Sprintf("reg_num=%d client_id=%d", base.RegNum, base.ClientID)
		if err := s.auditRepo.Create(tx, auditRow(actor, s.kind, base.ID, models.ActionCreate, details)); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		var err error
		created, err = s.load(tx, base.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("%s entry id=%d reg_num=%d created by %q", s.kind, base.ID, base.RegNum, actor.Username)
	return created, nil
}

func (s *entryService[T, PT]) Update(ctx context.Context, actor dto.Actor, id uint, entry T) (*T, error) {
	e := PT(&entry)
	base := e.GetBase()

	var updated *T
	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.load(tx, id)
		if err != nil {
			return err
		}
		old := PT(existing).GetBase()
		base.ID = old.ID
		base.RegNum = old.RegNum
		base.CreatedAt = old.CreatedAt

		if err := s.prepare(tx, e); err != nil {
			return err
		}
		if err := s.entryRepo.Update(tx, e); err != nil {
			return fmt.Errorf("failed to update %s entry id=%d: %w", s.kind, id, err)
		}
		details := fmt.Sprintf("reg_num=%d form_status=%s", base.RegNum, base.FormStatus)
		if err := s.auditRepo.Create(tx, auditRow(actor, s.kind, id, models.ActionUpdate, details)); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		updated, err = s.load(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("%s entry id=%d updated by %q", s.kind, id, actor.Username)
	return updated, nil
}

func (s *entryService[T, PT]) Delete(ctx context.Context, actor dto.Actor, id uint, password string) error {
	if err := s.auth.VerifyPassword(ctx, actor.UserID, password); err != nil {
		return err
	}

	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.load(tx, id)
		if err != nil {
			return err
		}
		if err := s.entryRepo.Delete(tx, id); err != nil {
			return fmt.Errorf("failed to delete %s entry id=%d: %w", s.kind, id, err)
		}
		details := fmt.Sprintf("reg_num=%d", PT(existing).GetBase().RegNum)
		return s.auditRepo.Create(tx, auditRow(actor, s.kind, id, models.ActionDelete, details))
	})
	if err != nil {
		return err
	}

	logger.Infof("%s entry id=%d deleted by %q", s.kind, id, actor.Username)
	return nil
}

// EntryServices holds one service per entry type.
type EntryServices struct {
	GIC  EntryService[models.GicEntry, *models.GicEntry]
	LIC  EntryService[models.LicEntry, *models.LicEntry]
	RTO  EntryService[models.RtoEntry, *models.RtoEntry]
	BMDS EntryService[models.BmdsEntry, *models.BmdsEntry]
	MF   EntryService[models.MfEntry, *models.MfEntry]
}

// NewEntryServices creates the five entry services on the shared connection.
func NewEntryServices(auth AuthService) EntryServices {
	return EntryServices{
		GIC:  NewEntryService[models.GicEntry](auth),
		LIC:  NewEntryService[models.LicEntry](auth),
		RTO:  NewEntryService[models.RtoEntry](auth),
		BMDS: NewEntryService[models.BmdsEntry](auth),
		MF:   NewEntryService[models.MfEntry](auth),
	}
}
