package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"suraksha.com/preparedness/internal/model"
)

// SOSFilter narrows SOS listings. UserID is set by the service layer when the
// caller is a student, scoping results to their own requests.
type SOSFilter struct {
	UserID *uuid.UUID
	Status *model.SOSStatus
	Offset int
	Limit  int
}

type SOSRepository interface {
	Create(ctx context.Context, request *model.SOSRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SOSRequest, error)
	Update(ctx context.Context, request *model.SOSRequest) error
	FindAll(ctx context.Context, filter SOSFilter) ([]model.SOSRequest, error)
	CountActive(ctx context.Context) (int64, error)
	FindRecent(ctx context.Context, limit int) ([]model.SOSRequest, error)
}

type sosRepository struct {
	db *gorm.DB
}

func NewSOSRepository(db *gorm.DB) SOSRepository {
	return &sosRepository{db: db}
}

func (r *sosRepository) Create(ctx context.Context, request *model.SOSRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *sosRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SOSRequest, error) {
	var request model.SOSRequest
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *sosRepository) Update(ctx context.Context, request *model.SOSRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *sosRepository) FindAll(ctx context.Context, filter SOSFilter) ([]model.SOSRequest, error) {
	query := r.db.WithContext(ctx).Model(&model.SOSRequest{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var requests []model.SOSRequest
	if err := query.
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *sosRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.SOSRequest{}).
		Where("status = ?", model.SOSActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *sosRepository) FindRecent(ctx context.Context, limit int) ([]model.SOSRequest, error) {
	var requests []model.SOSRequest
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}
