package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentProgress tracks one user's state in one module. The composite unique
// index enforces at most one record per (user, module) pair.
type StudentProgress struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_module" json:"user_id"`
	ModuleID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_module" json:"module_id"`
	Completed    bool           `gorm:"not null;default:false" json:"completed"`
	Score        int            `gorm:"not null;default:0" json:"score"`
	TimeSpent    int            `gorm:"not null;default:0" json:"time_spent"` // minutes
	LastAccessed time.Time      `gorm:"autoUpdateTime" json:"last_accessed"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	User         User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Module       DisasterModule `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (p *StudentProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type QuizAttempt struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ModuleID       uuid.UUID `gorm:"type:uuid;not null;index" json:"module_id"`
	Score          int       `gorm:"not null" json:"score"`
	TotalQuestions int       `gorm:"not null" json:"total_questions"`
	Answers        string    `gorm:"type:text;not null" json:"answers"` // JSON array of selected indexes
	CompletedAt    time.Time `gorm:"autoCreateTime" json:"completed_at"`
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
