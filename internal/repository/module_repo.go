package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"suraksha.com/preparedness/internal/model"
)

type ModuleRepository interface {
	Create(ctx context.Context, module *model.DisasterModule) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DisasterModule, error)
	FindBySlug(ctx context.Context, slug string) (*model.DisasterModule, error)
	FindAll(ctx context.Context, activeOnly bool, offset, limit int) ([]model.DisasterModule, error)
	FindQuestions(ctx context.Context, moduleID uuid.UUID, phase string) ([]model.QuizQuestion, error)
	Update(ctx context.Context, module *model.DisasterModule) error
	CountActive(ctx context.Context) (int64, error)
}

type moduleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(ctx context.Context, module *model.DisasterModule) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *moduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DisasterModule, error) {
	var module model.DisasterModule
	if err := r.db.WithContext(ctx).
		Preload("Phases", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("id = ?", id).
		First(&module).Error; err != nil {
		return nil, err
	}

	return &module, nil
}

func (r *moduleRepository) FindBySlug(ctx context.Context, slug string) (*model.DisasterModule, error) {
	var module model.DisasterModule
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&module).Error; err != nil {
		return nil, err
	}

	return &module, nil
}

func (r *moduleRepository) FindAll(ctx context.Context, activeOnly bool, offset, limit int) ([]model.DisasterModule, error) {
	query := r.db.WithContext(ctx).Model(&model.DisasterModule{})

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}

	var modules []model.DisasterModule
	if err := query.
		Order("created_at ASC").
		Find(&modules).Error; err != nil {
		return nil, err
	}

	return modules, nil
}

func (r *moduleRepository) FindQuestions(ctx context.Context, moduleID uuid.UUID, phase string) ([]model.QuizQuestion, error) {
	query := r.db.WithContext(ctx).Where("module_id = ?", moduleID)

	if phase != "" {
		query = query.Where("phase = ?", phase)
	}

	var questions []model.QuizQuestion
	if err := query.Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *moduleRepository) Update(ctx context.Context, module *model.DisasterModule) error {
	return r.db.WithContext(ctx).Save(module).Error
}

func (r *moduleRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.DisasterModule{}).
		Where("is_active = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
