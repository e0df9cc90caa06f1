package repository

import (
	"strconv"
	"strings"

	"insuranceapi/config"
	"insuranceapi/models"
	"insuranceapi/services/dto"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClientRepository provides data access operations for client records.
type ClientRepository interface {
	List(tx *gorm.DB, filter dto.ClientFilter) ([]models.Client, int64, error)
	GetByID(tx *gorm.DB, id uint) (*models.Client, error)
	Create(tx *gorm.DB, client *models.Client) error
	Update(tx *gorm.DB, client *models.Client) error
	Delete(tx *gorm.DB, id uint) error
	ListWithSpecialDates(tx *gorm.DB) ([]models.Client, error)
	Count(tx *gorm.DB) (int64, error)
}

type clientRepository struct {
	db         *gorm.DB
	maxRetries int
}

// NewClientRepository creates a new client repository instance.
func NewClientRepository() ClientRepository {
	return NewClientRepositoryWithDB(config.DB, config.Cfg.RegNumMaxRetries)
}

// NewClientRepositoryWithDB creates a client repository on an explicit connection.
func NewClientRepositoryWithDB(db *gorm.DB, maxRetries int) ClientRepository {
	return &clientRepository{db: db, maxRetries: maxRetries}
}

func (r *clientRepository) List(tx *gorm.DB, filter dto.ClientFilter) ([]models.Client, int64, error) {
	db := pick(tx, r.db)

	q := db.Model(&models.Client{})
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		p := likePattern(s)
		if n, err := strconv.Atoi(s); err == nil {
			q = q.Where("LOWER(client_name) LIKE ? OR contact LIKE ? OR LOWER(email) LIKE ? OR sr_no = ?", p, p, p, n)
		} else {
			q = q.Where("LOWER(client_name) LIKE ? OR contact LIKE ? OR LOWER(email) LIKE ?", p, p, p)
		}
	}
	if filter.Tag != "" {
		q = q.Where("tag = ?", strings.ToUpper(filter.Tag))
	}
	if filter.ClientType != "" {
		q = q.Where("client_type = ?", strings.ToUpper(filter.ClientType))
	}
	if filter.CityID != nil {
		q = q.Where("city_id = ?", *filter.CityID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clients []models.Client
	if err := q.Preload("City").
		Order("sr_no DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *clientRepository) GetByID(tx *gorm.DB, id uint) (*models.Client, error) {
	db := pick(tx, r.db)
	var client models.Client
	if err := db.Preload("City").Preload("InquiryType").Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Create(tx *gorm.DB, client *models.Client) error {
	db := pick(tx, r.db)
	return createWithSequence(db, models.Client{}.TableName(), "sr_no", r.maxRetries,
		func(next int) { client.SrNo = next },
		func(tx *gorm.DB) error {
			return tx.Omit(clause.Associations).Create(client).Error
		})
}

// Update writes every column except id, sr_no and created_at.
func (r *clientRepository) Update(tx *gorm.DB, client *models.Client) error {
	db := pick(tx, r.db)
	return db.Model(client).
		Select("*").
		Omit("id", "sr_no", "created_at", "deleted_at", clause.Associations).
		Updates(client).Error
}

// Delete soft-deletes the client. Entries keep their client_id.
func (r *clientRepository) Delete(tx *gorm.DB, id uint) error {
	db := pick(tx, r.db)
	res := db.Delete(&models.Client{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *clientRepository) ListWithSpecialDates(tx *gorm.DB) ([]models.Client, error) {
	db := pick(tx, r.db)
	var clients []models.Client
	if err := db.Preload("City").
		Where("birth_date IS NOT NULL OR anniversary_date IS NOT NULL").
		Order("id").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepository) Count(tx *gorm.DB) (int64, error) {
	db := pick(tx, r.db)
	var count int64
	if err := db.Model(&models.Client{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
