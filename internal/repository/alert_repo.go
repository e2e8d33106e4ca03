package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"suraksha.com/preparedness/internal/model"
)

// AlertFilter narrows alert listings. When ActiveOnly is set, Now is the
// reference time for expiry; callers take it once per request.
type AlertFilter struct {
	Severity   *model.AlertSeverity
	AlertType  *model.AlertType
	ActiveOnly bool
	Now        time.Time
	Offset     int
	Limit      int
}

type AlertRepository interface {
	Create(ctx context.Context, alert *model.EmergencyAlert) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.EmergencyAlert, error)
	Update(ctx context.Context, alert *model.EmergencyAlert) error
	FindAll(ctx context.Context, filter AlertFilter) ([]model.EmergencyAlert, error)
	CountActive(ctx context.Context, now time.Time) (int64, error)
	CountActiveCritical(ctx context.Context, now time.Time) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *model.EmergencyAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *alertRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.EmergencyAlert, error) {
	var alert model.EmergencyAlert
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&alert).Error; err != nil {
		return nil, err
	}

	return &alert, nil
}

func (r *alertRepository) Update(ctx context.Context, alert *model.EmergencyAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

func (r *alertRepository) FindAll(ctx context.Context, filter AlertFilter) ([]model.EmergencyAlert, error) {
	query := r.db.WithContext(ctx).Model(&model.EmergencyAlert{})

	if filter.ActiveOnly {
		query = query.
			Where("is_active = ?", true).
			Where("expires_at IS NULL OR expires_at > ?", filter.Now)
	}
	if filter.Severity != nil {
		query = query.Where("severity = ?", *filter.Severity)
	}
	if filter.AlertType != nil {
		query = query.Where("alert_type = ?", *filter.AlertType)
	}
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var alerts []model.EmergencyAlert
	if err := query.
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, err
	}

	return alerts, nil
}

func (r *alertRepository) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.EmergencyAlert{}).
		Where("is_active = ?", true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *alertRepository) CountActiveCritical(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.EmergencyAlert{}).
		Where("is_active = ? AND severity = ?", true, model.SeverityCritical).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *alertRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.EmergencyAlert{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
