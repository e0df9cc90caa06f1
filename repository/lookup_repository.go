package repository

import (
	"insuranceapi/config"
	"insuranceapi/models"

	"gorm.io/gorm"
)

// CityRepository provides data access operations for cities.
type CityRepository interface {
	List(tx *gorm.DB, activeOnly bool) ([]models.City, error)
	GetByID(tx *gorm.DB, id uint) (*models.City, error)
	Create(tx *gorm.DB, city *models.City) error
	Update(tx *gorm.DB, city *models.City) error
	Delete(tx *gorm.DB, id uint) error
	InUse(tx *gorm.DB, id uint) (bool, error)
}

type cityRepository struct {
	db *gorm.DB
}

// NewCityRepository creates a new city repository instance.
func NewCityRepository() CityRepository {
	return NewCityRepositoryWithDB(config.DB)
}

// NewCityRepositoryWithDB creates a city repository on an explicit connection.
func NewCityRepositoryWithDB(db *gorm.DB) CityRepository {
	return &cityRepository{db: db}
}

func (r *cityRepository) List(tx *gorm.DB, activeOnly bool) ([]models.City, error) {
	db := pick(tx, r.db)
	q := db.Model(&models.City{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var cities []models.City
	if err := q.Order("city_name").Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *cityRepository) GetByID(tx *gorm.DB, id uint) (*models.City, error) {
	db := pick(tx, r.db)
	var city models.City
	if err := db.Where("id = ?", id).First(&city).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *cityRepository) Create(tx *gorm.DB, city *models.City) error {
	return pick(tx, r.db).Create(city).Error
}

// Update uses Select("*") so is_active=false is written.
func (r *cityRepository) Update(tx *gorm.DB, city *models.City) error {
	return pick(tx, r.db).Model(city).Select("*").Omit("id", "created_at").Updates(city).Error
}

func (r *cityRepository) Delete(tx *gorm.DB, id uint) error {
	res := pick(tx, r.db).Where("id = ?", id).Delete(&models.City{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// InUse reports whether any live client references the city.
func (r *cityRepository) InUse(tx *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := pick(tx, r.db).Model(&models.Client{}).Where("city_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DropdownRepository provides data access operations for dropdown options.
type DropdownRepository interface {
	ListAll(tx *gorm.DB, activeOnly bool) ([]models.DropdownOption, error)
	ListByCategory(tx *gorm.DB, category string, activeOnly bool) ([]models.DropdownOption, error)
	Categories(tx *gorm.DB) ([]string, error)
	GetByID(tx *gorm.DB, id uint) (*models.DropdownOption, error)
	Create(tx *gorm.DB, option *models.DropdownOption) error
	Update(tx *gorm.DB, option *models.DropdownOption) error
	Delete(tx *gorm.DB, id uint) error
	Count(tx *gorm.DB) (int64, error)
	// InUse reports whether a client or entry references the option.
	InUse(tx *gorm.DB, option models.DropdownOption) (bool, error)
}

type dropdownRepository struct {
	db *gorm.DB
}

// NewDropdownRepository creates a new dropdown repository instance.
func NewDropdownRepository() DropdownRepository {
	return NewDropdownRepositoryWithDB(config.DB)
}

// NewDropdownRepositoryWithDB creates a dropdown repository on an explicit connection.
func NewDropdownRepositoryWithDB(db *gorm.DB) DropdownRepository {
	return &dropdownRepository{db: db}
}

func (r *dropdownRepository) ListAll(tx *gorm.DB, activeOnly bool) ([]models.DropdownOption, error) {
	db := pick(tx, r.db)
	q := db.Model(&models.DropdownOption{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var options []models.DropdownOption
	if err := q.Order("category, display_order, value").Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *dropdownRepository) ListByCategory(tx *gorm.DB, category string, activeOnly bool) ([]models.DropdownOption, error) {
	db := pick(tx, r.db)
	q := db.Where("category = ?", category)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var options []models.DropdownOption
	if err := q.Order("display_order, value").Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *dropdownRepository) Categories(tx *gorm.DB) ([]string, error) {
	var categories []string
	if err := pick(tx, r.db).Model(&models.DropdownOption{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *dropdownRepository) GetByID(tx *gorm.DB, id uint) (*models.DropdownOption, error) {
	var option models.DropdownOption
	if err := pick(tx, r.db).Where("id = ?", id).First(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *dropdownRepository) Create(tx *gorm.DB, option *models.DropdownOption) error {
	return pick(tx, r.db).Create(option).Error
}

func (r *dropdownRepository) Update(tx *gorm.DB, option *models.DropdownOption) error {
	return pick(tx, r.db).Model(option).Select("*").Omit("id", "created_at").Updates(option).Error
}

func (r *dropdownRepository) Delete(tx *gorm.DB, id uint) error {
	res := pick(tx, r.db).Where("id = ?", id).Delete(&models.DropdownOption{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *dropdownRepository) Count(tx *gorm.DB) (int64, error) {
	var count int64
	if err := pick(tx, r.db).Model(&models.DropdownOption{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *dropdownRepository) InUse(tx *gorm.DB, option models.DropdownOption) (bool, error) {
	db := pick(tx, r.db)

	if option.Category == models.CategoryInquiryType {
		var n int64
		if err := db.Model(&models.Client{}).Where("inquiry_type_id = ?", option.ID).Count(&n).Error; err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}

	for _, e := range models.AllEntries() {
		for _, ref := range e.DropdownRefs() {
			if ref.Category != option.Category {
				continue
			}
			var n int64
			if err := db.Table(e.TableName()).Where(ref.Field+" = ?", option.ID).Count(&n).Error; err != nil {
				return false, err
			}
			if n > 0 {
				return true, nil
			}
		}
	}
	return false, nil
}
