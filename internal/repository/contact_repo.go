package repository

import (
	"context"

	"gorm.io/gorm"
	"suraksha.com/preparedness/internal/model"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *model.EmergencyContact) error
	FindAll(ctx context.Context, activeOnly bool, offset, limit int) ([]model.EmergencyContact, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.EmergencyContact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepository) FindAll(ctx context.Context, activeOnly bool, offset, limit int) ([]model.EmergencyContact, error) {
	query := r.db.WithContext(ctx).Model(&model.EmergencyContact{})

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}

	var contacts []model.EmergencyContact
	if err := query.
		Order("priority ASC, name ASC").
		Find(&contacts).Error; err != nil {
		return nil, err
	}

	return contacts, nil
}
