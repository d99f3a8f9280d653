// Package books provides database operations for the book catalog,
// including the filtered category browse queries and the recursive
// category count used by the listing page.
package books

import (
	"strings"

	"gorm.io/gorm"

	"bookstore/internal/entities"
)

// Filters narrows a category's book listing. All fields are optional.
type Filters struct {
	Search string // Title substring
	Author string // Author substring, matched against the serialized author list
	Status string // Exact status match
}

// Page is one page of a filtered book listing.
type Page struct {
	Items      []entities.Book `json:"items"`
	TotalItems int64           `json:"total_items"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByISBN looks a book up by its natural key. Returns gorm.ErrRecordNotFound
// when no book carries the ISBN.
func (r *Repository) FindByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("isbn = ?", isbn).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Categories").First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindWithFilters returns one page of a category's books, optionally narrowed
// by title substring, author substring and status.
func (r *Repository) FindWithFilters(categoryID uint, filters Filters, page, perPage int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	query := r.db.Model(&entities.Book{}).
		Joins("INNER JOIN book_categories bc ON bc.book_id = books.id").
		Where("bc.category_id = ?", categoryID)

	if filters.Search != "" {
		query = query.Where("books.title LIKE ?", "%"+filters.Search+"%")
	}
	if filters.Author != "" {
		// Authors are stored as a JSON array, so an exact author name appears
		// quoted. Matching the quoted form avoids substring hits across names.
		query = query.Where("books.authors LIKE ?", "%"+quoteJSONString(filters.Author)+"%")
	}
	if filters.Status != "" {
		query = query.Where("books.status = ?", filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []entities.Book
	err := query.Preload("Categories").
		Order("books.id ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	return &Page{
		Items:      items,
		TotalItems: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// CountByCategoryRecursive counts distinct books attached to the category or
// any of its transitive descendants. The traversal is iterative and assumes a
// well-formed tree; there is no cycle guard.
func (r *Repository) CountByCategoryRecursive(categoryID uint) (int64, error) {
	ids := []uint{categoryID}
	stack := []uint{categoryID}

	for len(stack) > 0 {
		parent := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var childIDs []uint
		err := r.db.Model(&entities.Category{}).
			Where("parent_id = ?", parent).
			Pluck("id", &childIDs).Error
		if err != nil {
			return 0, err
		}

		ids = append(ids, childIDs...)
		stack = append(stack, childIDs...)
	}

	var count int64
	err := r.db.Model(&entities.Book{}).
		Distinct("books.id").
		Joins("INNER JOIN book_categories bc ON bc.book_id = books.id").
		Where("bc.category_id IN ?", ids).
		Count(&count).Error
	return count, err
}

// FindRelatedBooks returns up to limit books sharing the book's first
// category, excluding the book itself.
func (r *Repository) FindRelatedBooks(book *entities.Book, limit int) ([]entities.Book, error) {
	if len(book.Categories) == 0 {
		return []entities.Book{}, nil
	}
	first := book.Categories[0]

	var related []entities.Book
	err := r.db.
		Joins("INNER JOIN book_categories bc ON bc.book_id = books.id").
		Where("bc.category_id = ? AND books.id != ?", first.ID, book.ID).
		Limit(limit).
		Preload("Categories").
		Find(&related).Error
	return related, err
}

func (r *Repository) Create(book *entities.Book) error {
	return r.db.Create(book).Error
}

// Save overwrites the book's scalar fields. Category associations are
// managed separately through ReplaceCategories.
func (r *Repository) Save(book *entities.Book) error {
	return r.db.Omit("Categories").Save(book).Error
}

func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Book{}, id).Error
}

// ReplaceCategories swaps the book's category associations for the given set.
func (r *Repository) ReplaceCategories(book *entities.Book, categories []*entities.Category) error {
	return r.db.Model(book).Association("Categories").Replace(categories)
}

// UpdateImagePath records a freshly mirrored thumbnail path.
func (r *Repository) UpdateImagePath(id uint, path string) error {
	return r.db.Model(&entities.Book{}).Where("id = ?", id).Update("image_path", path).Error
}

// FindMissingThumbnails lists books that know their remote thumbnail URL but
// have no mirrored image, typically after a download failed during import.
func (r *Repository) FindMissingThumbnails() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.
		Where("thumbnail_url != '' AND (image_path = '' OR image_path IS NULL)").
		Find(&books).Error
	return books, err
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// quoteJSONString renders a value the way it appears inside a JSON-encoded
// string array, escaping backslashes and quotes.
func quoteJSONString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
