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

// EntryPtr constrains a pointer to one of the entry models.
type EntryPtr[T any] interface {
	*T
	models.Entry
}

// EntryRepository provides data access for one entry type. The same
// implementation serves GIC, LIC, RTO, BMDS and MF entries.
type EntryRepository[T any, PT EntryPtr[T]] interface {
	List(tx *gorm.DB, filter dto.EntryFilter) ([]T, int64, error)
	GetByID(tx *gorm.DB, id uint) (*T, error)
	ListByClient(tx *gorm.DB, clientID uint) ([]T, error)
	NextRegNum(tx *gorm.DB) (int, error)
	Create(tx *gorm.DB, entry PT) error
	Update(tx *gorm.DB, entry PT) error
	Delete(tx *gorm.DB, id uint) error
	Count(tx *gorm.DB, status string) (int64, error)
}

type entryRepository[T any, PT EntryPtr[T]] struct {
	db         *gorm.DB
	maxRetries int
	table      string
	discColumn string
}

// NewEntryRepository creates an entry repository on the shared connection.
func NewEntryRepository[T any, PT EntryPtr[T]]() EntryRepository[T, PT] {
	return NewEntryRepositoryWithDB[T, PT](config.DB, config.Cfg.RegNumMaxRetries)
}

// NewEntryRepositoryWithDB creates an entry repository on an explicit connection.
func NewEntryRepositoryWithDB[T any, PT EntryPtr[T]](db *gorm.DB, maxRetries int) EntryRepository[T, PT] {
	var zero T
	p := PT(&zero)
	return &entryRepository[T, PT]{
		db:         db,
		maxRetries: maxRetries,
		table:      p.TableName(),
		discColumn: p.DiscriminatorColumn(),
	}
}

func (r *entryRepository[T, PT]) List(tx *gorm.DB, filter dto.EntryFilter) ([]T, int64, error) {
	db := pick(tx, r.db)

	q := db.Model(new(T))
	if filter.ClientID != nil {
		q = q.Where("client_id = ?", *filter.ClientID)
	}
	if filter.FormStatus != "" {
		q = q.Where("form_status = ?", strings.ToUpper(filter.FormStatus))
	}
	if filter.Discriminator != "" {
		q = q.Where(r.discColumn+" = ?", strings.ToUpper(filter.Discriminator))
	}
	if filter.DateFrom != nil {
		q = q.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("date <= ?", *filter.DateTo)
	}
	if filter.RegNum != nil {
		q = q.Where("reg_num = ?", *filter.RegNum)
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		names := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Client{}).
			Select("id").
			Where("LOWER(client_name) LIKE ?", likePattern(s))
		if n, err := strconv.Atoi(s); err == nil {
			q = q.Where("client_id IN (?) OR reg_num = ?", names, n)
		} else {
			q = q.Where("client_id IN (?)", names)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []T
	if err := q.Preload("Client").
		Order("reg_num DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *entryRepository[T, PT]) GetByID(tx *gorm.DB, id uint) (*T, error) {
	db := pick(tx, r.db)
	var entry T
	if err := db.Preload("Client").Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository[T, PT]) ListByClient(tx *gorm.DB, clientID uint) ([]T, error) {
	db := pick(tx, r.db)
	var entries []T
	if err := db.Where("client_id = ?", clientID).Order("date DESC, reg_num DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// NextRegNum previews the number the next insert will most likely receive.
func (r *entryRepository[T, PT]) NextRegNum(tx *gorm.DB) (int, error) {
	return nextSequence(pick(tx, r.db), r.table, "reg_num")
}

func (r *entryRepository[T, PT]) Create(tx *gorm.DB, entry PT) error {
	db := pick(tx, r.db)
	base := entry.GetBase()
	return createWithSequence(db, r.table, "reg_num", r.maxRetries,
		func(next int) {
			base.ID = 0
			base.RegNum = next
		},
		func(tx *gorm.DB) error {
			return tx.Omit(clause.Associations).Create(entry).Error
		})
}

// Update writes every column except id, reg_num and created_at.
func (r *entryRepository[T, PT]) Update(tx *gorm.DB, entry PT) error {
	db := pick(tx, r.db)
	return db.Model(entry).
		Select("*").
		Omit("id", "reg_num", "created_at", clause.Associations).
		Updates(entry).Error
}

func (r *entryRepository[T, PT]) Delete(tx *gorm.DB, id uint) error {
	db := pick(tx, r.db)
	res := db.Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count returns the number of entries, restricted to one form status when status is not empty.
func (r *entryRepository[T, PT]) Count(tx *gorm.DB, status string) (int64, error) {
	db := pick(tx, r.db)
	q := db.Model(new(T))
	if status != "" {
		q = q.Where("form_status = ?", status)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
