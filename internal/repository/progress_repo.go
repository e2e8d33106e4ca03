package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"suraksha.com/preparedness/internal/model"
)

type ProgressRepository interface {
	Create(ctx context.Context, progress *model.StudentProgress) error
	FindByUserAndModule(ctx context.Context, userID, moduleID uuid.UUID) (*model.StudentProgress, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.StudentProgress, error)
	Update(ctx context.Context, progress *model.StudentProgress) error
	CountCompleted(ctx context.Context) (int64, error)
	CountCompletedByModule(ctx context.Context, moduleID uuid.UUID) (int64, error)
	AverageScoreByModule(ctx context.Context, moduleID uuid.UUID) (float64, error)
	FindRecentCompletions(ctx context.Context, limit int) ([]model.StudentProgress, error)
	CountAttemptsByModule(ctx context.Context, moduleID uuid.UUID) (int64, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Create(ctx context.Context, progress *model.StudentProgress) error {
	return r.db.WithContext(ctx).Create(progress).Error
}

func (r *progressRepository) FindByUserAndModule(ctx context.Context, userID, moduleID uuid.UUID) (*model.StudentProgress, error) {
	var progress model.StudentProgress
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&progress).Error; err != nil {
		return nil, err
	}

	return &progress, nil
}

func (r *progressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.StudentProgress, error) {
	var records []model.StudentProgress
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *progressRepository) Update(ctx context.Context, progress *model.StudentProgress) error {
	return r.db.WithContext(ctx).Save(progress).Error
}

func (r *progressRepository) CountCompleted(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.StudentProgress{}).
		Where("completed = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *progressRepository) CountCompletedByModule(ctx context.Context, moduleID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.StudentProgress{}).
		Where("module_id = ? AND completed = ?", moduleID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AverageScoreByModule averages over completed attempts only; 0 when none.
func (r *progressRepository) AverageScoreByModule(ctx context.Context, moduleID uuid.UUID) (float64, error) {
	var avg *float64
	if err := r.db.WithContext(ctx).Model(&model.StudentProgress{}).
		Select("AVG(score)").
		Where("module_id = ? AND completed = ?", moduleID, true).
		Scan(&avg).Error; err != nil {
		return 0, err
	}

	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *progressRepository) FindRecentCompletions(ctx context.Context, limit int) ([]model.StudentProgress, error) {
	var records []model.StudentProgress
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Module").
		Where("completed = ? AND completed_at IS NOT NULL", true).
		Order("completed_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *progressRepository) CountAttemptsByModule(ctx context.Context, moduleID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.QuizAttempt{}).
		Where("module_id = ?", moduleID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
