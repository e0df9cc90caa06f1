package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"insuranceapi/models"
	"insuranceapi/pkg/logger"
	"insuranceapi/repository"
	"insuranceapi/services/dto"
	"insuranceapi/utils"

	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by Login for an unknown user, a disabled
// account or a wrong password alike.
var ErrInvalidCredentials = utils.NewUnauthorizedError("invalid username or password")

// ErrPasswordMismatch is returned when a destructive action is confirmed with the wrong password.
var ErrPasswordMismatch = utils.NewForbiddenError("password confirmation failed")

// AuthService handles operator accounts and password checks.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	// VerifyPassword confirms a destructive action for the signed-in user.
	VerifyPassword(ctx context.Context, userID uint, password string) error
	// EnsureAdmin creates the admin account when no admin exists yet.
	EnsureAdmin(ctx context.Context, username, password string) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, actor dto.Actor, req dto.CreateUserRequest) (*models.User, error)
	ChangePassword(ctx context.Context, actor dto.Actor, req dto.ChangePasswordRequest) error
}

type authService struct {
	baseRepo  repository.BaseRepository
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	now       func() time.Time
}

// NewAuthService creates an auth service on the shared connection.
func NewAuthService() AuthService {
	return &authService{
		baseRepo:  repository.NewBaseRepository(),
		userRepo:  repository.NewUserRepository(),
		auditRepo: repository.NewAuditRepository(),
		now:       time.Now,
	}
}

// NewAuthServiceWithDeps creates an auth service with injected dependencies.
func NewAuthServiceWithDeps(
	baseRepo repository.BaseRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
) AuthService {
	return &authService{
		baseRepo:  baseRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.User, error) {
	db := s.baseRepo.WithContext(ctx)

	user, err := s.userRepo.GetByUsername(db, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warnf("Login failed: unknown user %q", username)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user %q: %w", username, err)
	}
	if !user.IsActive {
		logger.Warnf("Login failed: user %q is disabled", username)
		return nil, ErrInvalidCredentials
	}

	ok, err := utils.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Warnf("Login failed: wrong password for %q", username)
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.userRepo.TouchLogin(db, user.ID, now); err != nil {
		logger.Warnf("Failed to record login time for user id=%d: %v", user.ID, err)
	}
	user.LastLoginAt = &now

	actor := dto.Actor{UserID: user.ID, Username: user.Username, Role: user.Role}
	if err := s.auditRepo.Create(db, auditRow(actor, "user", user.ID, models.ActionLogin, "")); err != nil {
		logger.Warnf("Failed to write login audit for user id=%d: %v", user.ID, err)
	}

	logger.Infof("User %q logged in", user.Username)
	return user, nil
}

func (s *authService) VerifyPassword(ctx context.Context, userID uint, password string) error {
	if password == "" {
		return utils.NewValidationError("password", "password is required")
	}
	user, err := s.userRepo.GetByID(s.baseRepo.WithContext(ctx), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewUnauthorizedError("session user no longer exists")
		}
		return fmt.Errorf("failed to load user id=%d: %w", userID, err)
	}
	ok, err := utils.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return err
	}
	if !ok {
		logger.Warnf("Password confirmation failed for user %q", user.Username)
		return ErrPasswordMismatch
	}
	return nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	db := s.baseRepo.WithContext(ctx)

	admins, err := s.userRepo.CountByRole(db, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if admins > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		return fmt.Errorf("failed to create admin %q: %w", username, err)
	}
	logger.Warnf("Seeded admin account %q; change its password after first login", username)
	return nil
}

func (s *authService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(s.baseRepo.WithContext(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("user")
		}
		return nil, fmt.Errorf("failed to load user id=%d: %w", id, err)
	}
	return user, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(s.baseRepo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *authService) CreateUser(ctx context.Context, actor dto.Actor, req dto.CreateUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}

	err = s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.NewConflictError(fmt.Sprintf("username %q is taken", req.Username))
			}
			return fmt.Errorf("failed to create user %q: %w", req.Username, err)
		}
		return s.auditRepo.Create(tx, auditRow(actor, "user", user.ID, models.ActionCreate, "role="+user.Role))
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("User %q created by %q", user.Username, actor.Username)
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor dto.Actor, req dto.ChangePasswordRequest) error {
	if err := s.VerifyPassword(ctx, actor.UserID, req.CurrentPassword); err != nil {
		return err
	}
	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.userRepo.UpdatePassword(tx, actor.UserID, hash); err != nil {
			return fmt.Errorf("failed to update password for user id=%d: %w", actor.UserID, err)
		}
		return s.auditRepo.Create(tx, auditRow(actor, "user", actor.UserID, models.ActionUpdate, "password changed"))
	})
}
