package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"insuranceapi/bootstrap"
	"insuranceapi/models"
	"insuranceapi/pkg/logger"
	"insuranceapi/repository"
	"insuranceapi/services/dto"
	"insuranceapi/utils"

	"gorm.io/gorm"
)

// DropdownService serves dropdown options from the bootstrap cache and
// refreshes the cache after every write.
type DropdownService interface {
	Categories(ctx context.Context) []string
	List(ctx context.Context, category string, includeInactive bool) ([]models.DropdownOption, error)
	Create(ctx context.Context, actor dto.Actor, option models.DropdownOption) (*models.DropdownOption, error)
	Update(ctx context.Context, actor dto.Actor, id uint, option models.DropdownOption) (*models.DropdownOption, error)
	// Delete removes an unused option. Options still referenced must be deactivated instead.
	Delete(ctx context.Context, actor dto.Actor, id uint) error
}

type dropdownService struct {
	baseRepo     repository.BaseRepository
	dropdownRepo repository.DropdownRepository
	auditRepo    repository.AuditRepository
}

// NewDropdownService creates a dropdown service on the shared connection.
func NewDropdownService() DropdownService {
	return NewDropdownServiceWithDeps(
		repository.NewBaseRepository(),
		repository.NewDropdownRepository(),
		repository.NewAuditRepository(),
	)
}

// NewDropdownServiceWithDeps creates a dropdown service with injected dependencies.
func NewDropdownServiceWithDeps(
	baseRepo repository.BaseRepository,
	dropdownRepo repository.DropdownRepository,
	auditRepo repository.AuditRepository,
) DropdownService {
	return &dropdownService{baseRepo: baseRepo, dropdownRepo: dropdownRepo, auditRepo: auditRepo}
}

func knownCategory(category string) bool {
	for _, c := range models.DropdownCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Categories returns every category the application reads, sorted.
func (s *dropdownService) Categories(ctx context.Context) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range append(bootstrap.DropdownCategories(), models.DropdownCategories...) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

func (s *dropdownService) List(ctx context.Context, category string, includeInactive bool) ([]models.DropdownOption, error) {
	if !knownCategory(category) {
		return nil, utils.NewNotFoundError(fmt.Sprintf("dropdown category %q", category))
	}
	if !includeInactive {
		return bootstrap.Dropdowns(category), nil
	}
	options, err := s.dropdownRepo.ListByCategory(s.baseRepo.WithContext(ctx), category, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s options: %w", category, err)
	}
	return options, nil
}

func (s *dropdownService) prepare(option *models.DropdownOption) error {
	option.Normalize()
	if err := utils.ValidateStruct(option); err != nil {
		return err
	}
	if !knownCategory(option.Category) {
		return utils.NewValidationError("category", fmt.Sprintf("unknown dropdown category %q", option.Category))
	}
	if len(option.Metadata) > 0 && !json.Valid(option.Metadata) {
		return utils.NewValidationError("metadata", "metadata must be a JSON value")
	}
	return nil
}

func (s *dropdownService) Create(ctx context.Context, actor dto.Actor, option models.DropdownOption) (*models.DropdownOption, error) {
	option.ID = 0
	if err := s.prepare(&option); err != nil {
		return nil, err
	}

	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.dropdownRepo.Create(tx, &option); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.NewConflictError(fmt.Sprintf("%s option %q already exists", option.Category, option.Value))
			}
			return fmt.Errorf("failed to create dropdown option: %w", err)
		}
		return s.auditRepo.Create(tx, auditRow(actor, "dropdown", option.ID, models.ActionCreate, option.Category+"="+option.Value))
	})
	if err != nil {
		return nil, err
	}

	s.refresh()
	return &option, nil
}

func (s *dropdownService) Update(ctx context.Context, actor dto.Actor, id uint, option models.DropdownOption) (*models.DropdownOption, error) {
	if err := s.prepare(&option); err != nil {
		return nil, err
	}

	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.dropdownRepo.GetByID(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError(fmt.Sprintf("dropdown option id=%d", id))
			}
			return fmt.Errorf("failed to load dropdown option id=%d: %w", id, err)
		}
		if existing.Category != option.Category {
			return utils.NewValidationError("category", "category of an existing option cannot change")
		}
		option.ID = existing.ID
		option.CreatedAt = existing.CreatedAt
		if err := s.dropdownRepo.Update(tx, &option); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.NewConflictError(fmt.Sprintf("%s option %q already exists", option.Category, option.Value))
			}
			return fmt.Errorf("failed to update dropdown option id=%d: %w", id, err)
		}
		return s.auditRepo.Create(tx, auditRow(actor, "dropdown", id, models.ActionUpdate, option.Category+"="+option.Value))
	})
	if err != nil {
		return nil, err
	}

	s.refresh()
	return &option, nil
}

func (s *dropdownService) Delete(ctx context.Context, actor dto.Actor, id uint) error {
	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.dropdownRepo.GetByID(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError(fmt.Sprintf("dropdown option id=%d", id))
			}
			return fmt.Errorf("failed to load dropdown option id=%d: %w", id, err)
		}
		used, err := s.dropdownRepo.InUse(tx, *existing)
		if err != nil {
			return fmt.Errorf("failed to check usage of dropdown option id=%d: %w", id, err)
		}
		if used {
			return utils.NewConflictError(fmt.Sprintf("%s option %q is in use; deactivate it instead", existing.Category, existing.Value))
		}
		if err := s.dropdownRepo.Delete(tx, id); err != nil {
			return fmt.Errorf("failed to delete dropdown option id=%d: %w", id, err)
		}
		return s.auditRepo.Create(tx, auditRow(actor, "dropdown", id, models.ActionDelete, existing.Category+"="+existing.Value))
	})
	if err != nil {
		return err
	}

	s.refresh()
	return nil
}

// refresh reloads the cache. The write already committed, so a failure is only logged.
func (s *dropdownService) refresh() {
	if err := bootstrap.ReloadDropdowns(s.dropdownRepo); err != nil {
		logger.Errorf("Dropdown cache is stale: %v", err)
	}
}

// CityService manages the city list.
type CityService interface {
	List(ctx context.Context, includeInactive bool) ([]models.City, error)
	Create(ctx context.Context, actor dto.Actor, city models.City) (*models.City, error)
	Update(ctx context.Context, actor dto.Actor, id uint, city models.City) (*models.City, error)
	// Delete removes a city no client references.
	Delete(ctx context.Context, actor dto.Actor, id uint) error
}

type cityService struct {
	baseRepo  repository.BaseRepository
	cityRepo  repository.CityRepository
	auditRepo repository.AuditRepository
}

// NewCityService creates a city service on the shared connection.
func NewCityService() CityService {
	return NewCityServiceWithDeps(repository.NewBaseRepository(), repository.NewCityRepository(), repository.NewAuditRepository())
}

// NewCityServiceWithDeps creates a city service with injected dependencies.
func NewCityServiceWithDeps(baseRepo repository.BaseRepository, cityRepo repository.CityRepository, auditRepo repository.AuditRepository) CityService {
	return &cityService{baseRepo: baseRepo, cityRepo: cityRepo, auditRepo: auditRepo}
}

func (s *cityService) List(ctx context.Context, includeInactive bool) ([]models.City, error) {
	if !includeInactive {
		return bootstrap.Cities(), nil
	}
	cities, err := s.cityRepo.List(s.baseRepo.WithContext(ctx), false)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	return cities, nil
}

func (s *cityService) Create(ctx context.Context, actor dto.Actor, city models.City) (*models.City, error) {
	city.ID = 0
	city.Normalize()
	if err := utils.ValidateStruct(&city); err != nil {
		return nil, err
	}

	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.cityRepo.Create(tx, &city); err != nil {
			return fmt.Errorf("failed to create city: %w", err)
		}
		return s.auditRepo.Create(tx, auditRow(actor, "city", city.ID, models.ActionCreate, city.CityName))
	})
	if err != nil {
		return nil, err
	}

	s.refresh()
	return &city, nil
}

func (s *cityService) Update(ctx context.Context, actor dto.Actor, id uint, city models.City) (*models.City, error) {
	city.Normalize()
	if err := utils.ValidateStruct(&city); err != nil {
		return nil, err
	}

	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.cityRepo.GetByID(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError(fmt.Sprintf("city id=%d", id))
			}
			return fmt.Errorf("failed to load city id=%d: %w", id, err)
		}
		city.ID = existing.ID
		city.CreatedAt = existing.CreatedAt
		if err := s.cityRepo.Update(tx, &city); err != nil {
			return fmt.Errorf("failed to update city id=%d: %w", id, err)
		}
		return s.auditRepo.Create(tx, auditRow(actor, "city", id, models.ActionUpdate, city.CityName))
	})
	if err != nil {
		return nil, err
	}

	s.refresh()
	return &city, nil
}

func (s *cityService) Delete(ctx context.Context, actor dto.Actor, id uint) error {
	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.cityRepo.GetByID(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError(fmt.Sprintf("city id=%d", id))
			}
			return fmt.Errorf("failed to load city id=%d: %w", id, err)
		}
		used, err := s.cityRepo.InUse(tx, id)
		if err != nil {
			return fmt.Errorf("failed to check usage of city id=%d: %w", id, err)
		}
		if used {
			return utils.NewConflictError(fmt.Sprintf("city %q has clients; deactivate it instead", existing.CityName))
		}
		if err := s.cityRepo.Delete(tx, id); err != nil {
			return fmt.Errorf("failed to delete city id=%d: %w", id, err)
		}
		return s.auditRepo.Create(tx, auditRow(actor, "city", id, models.ActionDelete, existing.CityName))
	})
	if err != nil {
		return err
	}

	s.refresh()
	return nil
}

func (s *cityService) refresh() {
	if err := bootstrap.ReloadCities(s.cityRepo); err != nil {
		logger.Errorf("City cache is stale: %v", err)
	}
}
