// Package contacts stores messages submitted through the contact form.
package contacts

import (
	"gorm.io/gorm"

	"bookstore/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(message *entities.ContactMessage) error {
	return r.db.Create(message).Error
}

func (r *Repository) List(limit, offset int) ([]entities.ContactMessage, error) {
	var messages []entities.ContactMessage
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&messages).Error
	return messages, err
}

func (r *Repository) GetByID(id uint) (*entities.ContactMessage, error) {
	var message entities.ContactMessage
	err := r.db.First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.ContactMessage{}, id).Error
}
