// Package categories provides database operations for the category tree.
package categories

import (
	"gorm.io/gorm"

	"bookstore/internal/entities"
)

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindAll returns every persisted category. The importer diffs the feed's
// normalized names against this full set.
func (r *Repository) FindAll() ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.Find(&categories).Error
	return categories, err
}

// FindTopLevelCategories returns root categories (no parent), name ascending.
func (r *Repository) FindTopLevelCategories() ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.Where("parent_id IS NULL").Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *Repository) GetByID(id uint) (*entities.Category, error) {
	var category entities.Category
	err := r.db.Preload("Children").First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) Create(category *entities.Category) error {
	return r.db.Create(category).Error
}

func (r *Repository) Save(category *entities.Category) error {
	return r.db.Save(category).Error
}

func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Category{}, id).Error
}
