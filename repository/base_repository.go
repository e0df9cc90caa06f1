package repository

import (
	"context"
	"errors"
	"fmt"

	"insuranceapi/config"
	"insuranceapi/pkg/logger"

	"gorm.io/gorm"
)

// BaseRepository provides transaction management capabilities for database operations.
type BaseRepository interface {
	Begin() *gorm.DB
	// WithContext returns a session bound to ctx, for passing as tx to other repositories.
	WithContext(ctx context.Context) *gorm.DB
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type baseRepository struct {
	db *gorm.DB
}

// NewBaseRepository creates a new base repository instance with database connection.
func NewBaseRepository() BaseRepository {
	return NewBaseRepositoryWithDB(config.DB)
}

// NewBaseRepositoryWithDB creates a base repository on an explicit connection.
func NewBaseRepositoryWithDB(db *gorm.DB) BaseRepository {
	return &baseRepository{db: db}
}

func (r *baseRepository) Begin() *gorm.DB {
	return r.db.Begin()
}

func (r *baseRepository) WithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *baseRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func pick(tx, db *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// nextSequence returns MAX(column)+1 over every row of table, soft-deleted rows included.
func nextSequence(db *gorm.DB, table, column string) (int, error) {
	var max int64
	row := db.Table(table).Select(fmt.Sprintf("COALESCE(MAX(%s), 0)", column)).Row()
	if err := row.Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to read max %s.%s: %w", table, column, err)
	}
	return int(max) + 1, nil
}

// createWithSequence allocates column = MAX+1 and inserts inside one transaction.
// A concurrent insert that takes the same number surfaces as gorm.ErrDuplicatedKey
// from the unique index; the whole allocation is then retried up to maxRetries times.
func createWithSequence(db *gorm.DB, table, column string, maxRetries int, assign func(next int), insert func(tx *gorm.DB) error) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	for attempt := 1; ; attempt++ {
		var allocated int
		err := db.Transaction(func(tx *gorm.DB) error {
			next, err := nextSequence(tx, table, column)
			if err != nil {
				return err
			}
			allocated = next
			assign(next)
			return insert(tx)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt >= maxRetries {
			return err
		}
		logger.Warnf("%s.%s %d taken by a concurrent insert, retrying (%d/%d)", table, column, allocated, attempt, maxRetries)
	}
}

func likePattern(s string) string {
	return "%" + s + "%"
}
