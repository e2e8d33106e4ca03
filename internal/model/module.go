package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DisasterModule is a disaster-preparedness learning unit. Modules are never
// hard-deleted; deactivation hides them from students and analytics.
type DisasterModule struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string         `gorm:"size:50;uniqueIndex;not null" json:"slug"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Icon        string         `gorm:"size:50;not null" json:"icon"`
	Color       string         `gorm:"size:30;not null" json:"color"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	Phases      []ModulePhase  `gorm:"constraint:OnDelete:CASCADE" json:"phases,omitempty"`
	Questions   []QuizQuestion `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (m *DisasterModule) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ModulePhase groups content into before/during/after sections.
type ModulePhase struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID     uuid.UUID `gorm:"type:uuid;not null;index" json:"module_id"`
	PhaseType    string    `gorm:"size:20;not null" json:"phase_type"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	ContentFocus string    `gorm:"type:text;not null" json:"content_focus"`
	Format       string    `gorm:"size:50;not null" json:"format"`
	OrderIndex   int       `gorm:"not null;default:0" json:"order_index"`
}

func (p *ModulePhase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type QuizQuestion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID      uuid.UUID `gorm:"type:uuid;not null;index" json:"module_id"`
	Question      string    `gorm:"type:text;not null" json:"question"`
	Options       string    `gorm:"type:text;not null" json:"options"` // JSON array of option strings
	CorrectAnswer int       `gorm:"not null" json:"correct_answer"`
	Phase         string    `gorm:"size:20;not null" json:"phase"`
}

func (q *QuizQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
