package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of account roles. Authorization decisions compare
// against these constants, never against raw strings.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	Role         Role       `gorm:"size:20;not null;default:student" json:"role"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	ProfileImage *string    `gorm:"type:text" json:"profile_image,omitempty"`
	Phone        *string    `gorm:"size:30" json:"phone,omitempty"`
	Department   *string    `gorm:"size:100" json:"department,omitempty"`
	YearOfStudy  *string    `gorm:"size:20" json:"year_of_study,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
