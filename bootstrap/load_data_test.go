package bootstrap

import (
	"encoding/json"
	"sort"
	"testing"

	"insuranceapi/config"
	"insuranceapi/models"
	"insuranceapi/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepos(t *testing.T) (repository.DropdownRepository, repository.CityRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return repository.NewDropdownRepositoryWithDB(db), repository.NewCityRepositoryWithDB(db)
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	dropdownRepo, _ := newTestRepos(t)

	require.NoError(t, SeedDefaults(dropdownRepo))
	first, err := dropdownRepo.Count(nil)
	require.NoError(t, err)
	assert.Positive(t, first)

	require.NoError(t, SeedDefaults(dropdownRepo))
	second, err := dropdownRepo.Count(nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadDataCachesActiveLookups(t *testing.T) {
	dropdownRepo, cityRepo := newTestRepos(t)
	require.NoError(t, SeedDefaults(dropdownRepo))
	require.NoError(t, cityRepo.Create(nil, &models.City{CityName: "Surat", IsActive: true}))
	require.NoError(t, cityRepo.Create(nil, &models.City{CityName: "Ahmedabad", IsActive: true}))

	require.NoError(t, LoadDataWithRepos(dropdownRepo, cityRepo))

	categories := DropdownCategories()
	assert.True(t, sort.StringsAreSorted(categories))
	assert.Len(t, categories, len(models.DropdownCategories))

	banks := Dropdowns(models.CategoryBank)
	require.Len(t, banks, 4)
	assert.Equal(t, "State Bank of India", banks[0].Value)
	for i, b := range banks {
		assert.Equal(t, i, b.DisplayOrder)
	}

	cached, ok := DropdownByID(banks[1].ID)
	require.True(t, ok)
	assert.Equal(t, banks[1].Value, cached.Value)

	classes := Dropdowns(models.CategoryVehicleClass)
	require.NotEmpty(t, classes)
	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(classes[0].Metadata, &meta))
	assert.EqualValues(t, 2, meta["wheels"])

	cities := Cities()
	require.Len(t, cities, 2)
	assert.Equal(t, "Ahmedabad", cities[0].CityName)

	// callers get copies
	banks[0].Value = "changed"
	assert.Equal(t, "State Bank of India", Dropdowns(models.CategoryBank)[0].Value)
}

func TestReloadDropsDeactivatedRows(t *testing.T) {
	dropdownRepo, cityRepo := newTestRepos(t)
	require.NoError(t, SeedDefaults(dropdownRepo))
	city := &models.City{CityName: "Vadodara", IsActive: true}
	require.NoError(t, cityRepo.Create(nil, city))
	require.NoError(t, LoadDataWithRepos(dropdownRepo, cityRepo))
	require.Len(t, Cities(), 1)

	bank := Dropdowns(models.CategoryBank)[0]
	bank.IsActive = false
	require.NoError(t, dropdownRepo.Update(nil, &bank))
	city.IsActive = false
	require.NoError(t, cityRepo.Update(nil, city))

	require.NoError(t, ReloadDropdowns(dropdownRepo))
	require.NoError(t, ReloadCities(cityRepo))

	assert.Len(t, Dropdowns(models.CategoryBank), 3)
	_, ok := DropdownByID(bank.ID)
	assert.False(t, ok)
	assert.Empty(t, Cities())
}
