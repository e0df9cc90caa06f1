package repository

import (
	"time"

	"insuranceapi/config"
	"insuranceapi/models"

	"gorm.io/gorm"
)

// UserRepository provides data access operations for operator accounts.
type UserRepository interface {
	GetByID(tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(tx *gorm.DB, username string) (*models.User, error)
	List(tx *gorm.DB) ([]models.User, error)
	Create(tx *gorm.DB, user *models.User) error
	UpdatePassword(tx *gorm.DB, id uint, hash string) error
	TouchLogin(tx *gorm.DB, id uint, at time.Time) error
	CountByRole(tx *gorm.DB, role string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance.
func NewUserRepository() UserRepository {
	return NewUserRepositoryWithDB(config.DB)
}

// NewUserRepositoryWithDB creates a user repository on an explicit connection.
func NewUserRepositoryWithDB(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := pick(tx, r.db).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(tx *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := pick(tx, r.db).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(tx *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := pick(tx, r.db).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Create(tx *gorm.DB, user *models.User) error {
	return pick(tx, r.db).Create(user).Error
}

func (r *userRepository) UpdatePassword(tx *gorm.DB, id uint, hash string) error {
	res := pick(tx, r.db).Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) TouchLogin(tx *gorm.DB, id uint, at time.Time) error {
	return pick(tx, r.db).Model(&models.User{}).Where("id = ?", id).Update("last_login_at", at).Error
}

func (r *userRepository) CountByRole(tx *gorm.DB, role string) (int64, error) {
	var count int64
	if err := pick(tx, r.db).Model(&models.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
