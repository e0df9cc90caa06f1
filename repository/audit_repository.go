package repository

import (
	"insuranceapi/config"
	"insuranceapi/models"
	"insuranceapi/services/dto"

	"gorm.io/gorm"
)

// AuditRepository stores and lists audit rows. Rows are never updated.
type AuditRepository interface {
	Create(tx *gorm.DB, entry *models.AuditLog) error
	List(tx *gorm.DB, filter dto.AuditFilter) ([]models.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository instance.
func NewAuditRepository() AuditRepository {
	return NewAuditRepositoryWithDB(config.DB)
}

// NewAuditRepositoryWithDB creates an audit repository on an explicit connection.
func NewAuditRepositoryWithDB(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(tx *gorm.DB, entry *models.AuditLog) error {
	return pick(tx, r.db).Create(entry).Error
}

func (r *auditRepository) List(tx *gorm.DB, filter dto.AuditFilter) ([]models.AuditLog, int64, error) {
	q := pick(tx, r.db).Model(&models.AuditLog{})
	if filter.Entity != "" {
		q = q.Where("entity = ?", filter.Entity)
	}
	if filter.EntityID != nil {
		q = q.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AuditLog
	if err := q.Order("created_at DESC, id DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
