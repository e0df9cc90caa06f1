package services

import (
	"context"
	"fmt"

	"insuranceapi/config"
	"insuranceapi/models"
	"insuranceapi/repository"
	"insuranceapi/services/dto"
)

// AuditService lists the audit trail. Rows are written by the services that make the changes.
type AuditService interface {
	List(ctx context.Context, filter dto.AuditFilter) (dto.PageResult[models.AuditLog], error)
}

type auditService struct {
	baseRepo  repository.BaseRepository
	auditRepo repository.AuditRepository
}

// NewAuditService creates an audit service on the shared connection.
func NewAuditService() AuditService {
	return NewAuditServiceWithDeps(repository.NewBaseRepository(), repository.NewAuditRepository())
}

// NewAuditServiceWithDeps creates an audit service with injected dependencies.
func NewAuditServiceWithDeps(baseRepo repository.BaseRepository, auditRepo repository.AuditRepository) AuditService {
	return &auditService{baseRepo: baseRepo, auditRepo: auditRepo}
}

func (s *auditService) List(ctx context.Context, filter dto.AuditFilter) (dto.PageResult[models.AuditLog], error) {
	filter.PageRequest = normalizePage(filter.PageRequest)
	rows, total, err := s.auditRepo.List(s.baseRepo.WithContext(ctx), filter)
	if err != nil {
		return dto.PageResult[models.AuditLog]{}, fmt.Errorf("failed to list audit log: %w", err)
	}
	return dto.NewPageResult(rows, total, filter.PageRequest), nil
}

func auditRow(actor dto.Actor, entity string, entityID uint, action, details string) *models.AuditLog {
	row := &models.AuditLog{
		Username: actor.Username,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if actor.UserID != 0 {
		id := actor.UserID
		row.UserID = &id
	}
	return row
}

// normalizePage applies the configured page size defaults.
func normalizePage(p dto.PageRequest) dto.PageRequest {
	return p.Normalize(config.Cfg.PageSizeDefault, config.Cfg.PageSizeMax)
}
