package repository

import (
	"context"

	"school-navigator/internal/models"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog creates a new audit log entry
func (r *AuditRepository) CreateAuditLog(ctx context.Context, sessionID string, action string, details string) error {
	log := &models.AuditLog{
		SessionID: sessionID,
		Action:    action,
		Details:   details,
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// ListAuditLogs returns the most recent entries, newest first
func (r *AuditRepository) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
