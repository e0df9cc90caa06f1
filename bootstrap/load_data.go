package bootstrap

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"insuranceapi/models"
	"insuranceapi/pkg/logger"
	"insuranceapi/repository"

	"gorm.io/datatypes"
)

// Cached lookup data, loaded at startup and reloaded after every dropdown or city write.
var (
	mu sync.RWMutex
	// dropdownsByCategory holds active options per category, in display order.
	dropdownsByCategory map[string][]models.DropdownOption
	// dropdownByID indexes every cached option for reference checks.
	dropdownByID map[uint]models.DropdownOption
	// cityAll holds active cities ordered by name.
	cityAll []models.City
)

// LoadData initializes the lookup cache from the shared connection.
func LoadData() error {
	return LoadDataWithRepos(repository.NewDropdownRepository(), repository.NewCityRepository())
}

// LoadDataWithRepos initializes the lookup cache from the given repositories.
func LoadDataWithRepos(dropdownRepo repository.DropdownRepository, cityRepo repository.CityRepository) error {
	logger.Infof("Starting bootstrap data loading...")

	if err := ReloadDropdowns(dropdownRepo); err != nil {
		return err
	}
	if err := ReloadCities(cityRepo); err != nil {
		return err
	}

	logger.Infof("Bootstrap data loading completed successfully")
	return nil
}

// ReloadDropdowns replaces the cached dropdown options.
func ReloadDropdowns(repo repository.DropdownRepository) error {
	options, err := repo.ListAll(nil, true)
	if err != nil {
		logger.Errorf("Failed to load dropdown options: %v", err)
		return fmt.Errorf("failed to load dropdown options: %w", err)
	}

	byCategory := make(map[string][]models.DropdownOption)
	byID := make(map[uint]models.DropdownOption, len(options))
	for _, o := range options {
		byCategory[o.Category] = append(byCategory[o.Category], o)
		byID[o.ID] = o
	}

	mu.Lock()
	dropdownsByCategory = byCategory
	dropdownByID = byID
	mu.Unlock()

	logger.Infof("Loaded %d dropdown options in %d categories", len(options), len(byCategory))
	return nil
}

// ReloadCities replaces the cached city list.
func ReloadCities(repo repository.CityRepository) error {
	cities, err := repo.List(nil, true)
	if err != nil {
		logger.Errorf("Failed to load cities: %v", err)
		return fmt.Errorf("failed to load cities: %w", err)
	}

	mu.Lock()
	cityAll = cities
	mu.Unlock()

	logger.Infof("Loaded %d cities", len(cities))
	return nil
}

// Dropdowns returns a copy of the cached active options of category.
func Dropdowns(category string) []models.DropdownOption {
	mu.RLock()
	defer mu.RUnlock()
	cached := dropdownsByCategory[category]
	out := make([]models.DropdownOption, len(cached))
	copy(out, cached)
	return out
}

// DropdownByID returns a cached active option.
func DropdownByID(id uint) (models.DropdownOption, bool) {
	mu.RLock()
	defer mu.RUnlock()
	o, ok := dropdownByID[id]
	return o, ok
}

// DropdownCategories returns the categories that have at least one active option, sorted.
func DropdownCategories() []string {
	mu.RLock()
	defer mu.RUnlock()
	categories := make([]string, 0, len(dropdownsByCategory))
	for c := range dropdownsByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// Cities returns a copy of the cached active cities.
func Cities() []models.City {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]models.City, len(cityAll))
	copy(out, cityAll)
	return out
}

type seedOption struct {
	value    string
	metadata map[string]interface{}
}

var defaultDropdowns = map[string][]seedOption{
	models.CategoryBank: {
		{value: "State Bank of India"}, {value: "HDFC Bank"}, {value: "ICICI Bank"}, {value: "Bank of Baroda"},
	},
	models.CategoryPolicyCompany: {
		{value: "New India Assurance"}, {value: "ICICI Lombard"}, {value: "Bajaj Allianz"}, {value: "HDFC ERGO"},
	},
	models.CategoryVehicleClass: {
		{value: "Two Wheeler", metadata: map[string]interface{}{"wheels": 2}},
		{value: "Private Car", metadata: map[string]interface{}{"wheels": 4}},
		{value: "Goods Carrying", metadata: map[string]interface{}{"commercial": true}},
		{value: "Passenger Carrying", metadata: map[string]interface{}{"commercial": true}},
	},
	models.CategoryNonmotorSubtype: {
		{value: "Health"}, {value: "Fire"}, {value: "Marine"}, {value: "Travel"},
	},
	models.CategoryAgency: {
		{value: "Branch Office"},
	},
	models.CategoryServicingType: {
		{value: "Nomination Change"}, {value: "Address Change"}, {value: "Loan Request"}, {value: "Maturity Claim"},
	},
	models.CategoryWorkType: {
		{value: "Transfer"}, {value: "Hypothecation Removal"}, {value: "Fitness"}, {value: "Permit"},
	},
	models.CategoryTestPlace: {
		{value: "RTO Office"},
	},
	models.CategoryClassOfVehicle: {
		{value: "MCWG", metadata: map[string]interface{}{"description": "Motorcycle with gear"}},
		{value: "MCWOG", metadata: map[string]interface{}{"description": "Motorcycle without gear"}},
		{value: "LMV", metadata: map[string]interface{}{"description": "Light motor vehicle"}},
	},
	models.CategoryAMC: {
		{value: "SBI Mutual Fund"}, {value: "HDFC Mutual Fund"}, {value: "ICICI Prudential Mutual Fund"},
	},
	models.CategoryInsuranceCo: {
		{value: "LIC of India"}, {value: "HDFC Life"}, {value: "Star Health"},
	},
	models.CategoryAdviser: {
		{value: "Self"},
	},
	models.CategoryInquiryType: {
		{value: "Walk-in"}, {value: "Reference"}, {value: "Phone"},
	},
}

// SeedDefaults inserts the default dropdown options when the table is empty.
// The admin account is seeded separately by the auth service.
func SeedDefaults(repo repository.DropdownRepository) error {
	count, err := repo.Count(nil)
	if err != nil {
		return fmt.Errorf("failed to count dropdown options: %w", err)
	}
	if count > 0 {
		logger.Debugf("Dropdown options present (%d), skipping seed", count)
		return nil
	}

	seeded := 0
	for _, category := range models.DropdownCategories {
		for i, s := range defaultDropdowns[category] {
			option := &models.DropdownOption{
				Category:     category,
				Value:        s.value,
				DisplayOrder: i,
				IsActive:     true,
			}
			if s.metadata != nil {
				raw, err := json.Marshal(s.metadata)
				if err != nil {
					return fmt.Errorf("failed to encode metadata for %s/%s: %w", category, s.value, err)
				}
				option.Metadata = datatypes.JSON(raw)
			}
			if err := repo.Create(nil, option); err != nil {
				return fmt.Errorf("failed to seed %s/%s: %w", category, s.value, err)
			}
			seeded++
		}
	}
	logger.Infof("Seeded %d default dropdown options", seeded)
	return nil
}
