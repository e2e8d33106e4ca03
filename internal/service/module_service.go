package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"suraksha.com/preparedness/internal/model"
	"suraksha.com/preparedness/internal/repository"
	"suraksha.com/preparedness/pkg/apperror"
)

type CreateModuleInput struct {
	Slug        string `json:"slug" binding:"required,min=2,max=50"`
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Icon        string `json:"icon" binding:"required"`
	Color       string `json:"color" binding:"required"`
}

type UpdateProgressInput struct {
	Completed *bool `json:"completed"`
	Score     *int  `json:"score" binding:"omitempty,min=0,max=100"`
	TimeSpent *int  `json:"time_spent" binding:"omitempty,min=0"`
}

type ModuleService interface {
	List(ctx context.Context, activeOnly bool, offset, limit int) ([]model.DisasterModule, error)
	Get(ctx context.Context, id uuid.UUID) (*model.DisasterModule, error)
	Create(ctx context.Context, input CreateModuleInput) (*model.DisasterModule, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Questions(ctx context.Context, moduleID uuid.UUID, phase string) ([]model.QuizQuestion, error)
	GetProgress(ctx context.Context, userID, moduleID uuid.UUID) (*model.StudentProgress, error)
	UpdateProgress(ctx context.Context, userID, moduleID uuid.UUID, input UpdateProgressInput) (*model.StudentProgress, error)
	UserProgress(ctx context.Context, caller *model.User, targetUserID uuid.UUID) ([]model.StudentProgress, error)
}

type moduleService struct {
	modules  repository.ModuleRepository
	progress repository.ProgressRepository
}

func NewModuleService(modules repository.ModuleRepository, progress repository.ProgressRepository) ModuleService {
	return &moduleService{
		modules:  modules,
		progress: progress,
	}
}

func (s *moduleService) List(ctx context.Context, activeOnly bool, offset, limit int) ([]model.DisasterModule, error) {
	return s.modules.FindAll(ctx, activeOnly, offset, limit)
}

func (s *moduleService) Get(ctx context.Context, id uuid.UUID) (*model.DisasterModule, error) {
	module, err := s.modules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if !module.IsActive {
		return nil, apperror.ErrNotFound
	}

	return module, nil
}

func (s *moduleService) Create(ctx context.Context, input CreateModuleInput) (*model.DisasterModule, error) {
	if _, err := s.modules.FindBySlug(ctx, input.Slug); err == nil {
		return nil, apperror.New(http.StatusBadRequest, "module with this slug already exists", apperror.ErrBadRequest)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	module := &model.DisasterModule{
		Slug:        input.Slug,
		Title:       input.Title,
		Description: input.Description,
		Icon:        input.Icon,
		Color:       input.Color,
		IsActive:    true,
	}

	if err := s.modules.Create(ctx, module); err != nil {
		return nil, err
	}

	return module, nil
}

// Delete deactivates the module. Records referencing it survive.
func (s *moduleService) Delete(ctx context.Context, id uuid.UUID) error {
	module, err := s.modules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	module.IsActive = false
	return s.modules.Update(ctx, module)
}

func (s *moduleService) Questions(ctx context.Context, moduleID uuid.UUID, phase string) ([]model.QuizQuestion, error) {
	if _, err := s.Get(ctx, moduleID); err != nil {
		return nil, err
	}

	return s.modules.FindQuestions(ctx, moduleID, phase)
}

// GetProgress returns the caller's progress for the module, creating an empty
// record on first access so there is at most one per (user, module) pair.
func (s *moduleService) GetProgress(ctx context.Context, userID, moduleID uuid.UUID) (*model.StudentProgress, error) {
	record, err := s.progress.FindByUserAndModule(ctx, userID, moduleID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.Get(ctx, moduleID); err != nil {
		return nil, err
	}

	record = &model.StudentProgress{
		UserID:   userID,
		ModuleID: moduleID,
	}
	if err := s.progress.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *moduleService) UpdateProgress(ctx context.Context, userID, moduleID uuid.UUID, input UpdateProgressInput) (*model.StudentProgress, error) {
	record, err := s.progress.FindByUserAndModule(ctx, userID, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if input.Score != nil {
		record.Score = *input.Score
	}
	if input.TimeSpent != nil {
		record.TimeSpent = *input.TimeSpent
	}
	if input.Completed != nil {
		// completed_at latches on the first transition to completed
		if *input.Completed && !record.Completed {
			now := time.Now().UTC()
			record.CompletedAt = &now
		}
		record.Completed = *input.Completed
	}

	if err := s.progress.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// UserProgress lists the target user's progress across modules. Students may
// only view their own; admins may view anyone's.
func (s *moduleService) UserProgress(ctx context.Context, caller *model.User, targetUserID uuid.UUID) ([]model.StudentProgress, error) {
	if caller.ID != targetUserID && caller.Role != model.RoleAdmin {
		return nil, apperror.ErrForbidden
	}

	return s.progress.FindByUser(ctx, targetUserID)
}
