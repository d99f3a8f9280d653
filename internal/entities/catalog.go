package entities

import (
	"time"

	"gorm.io/gorm"
)

// DefaultStatus is applied to imported books that carry no status of their own.
const DefaultStatus = "PUBLISH"

type Book struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"index;size:255" json:"title"`
	ISBN      string `gorm:"index;size:13" json:"isbn,omitempty"`
	PageCount *int   `json:"page_count,omitempty"`

	// Authors is stored as a JSON array column, preserving feed order.
	Authors []string `gorm:"serializer:json" json:"authors"`

	PublishedDate *time.Time `json:"published_date,omitempty"`
	Status        string     `gorm:"size:50;default:'PUBLISH'" json:"status"`

	// ImagePath is the relative path of the mirrored thumbnail under the
	// uploads directory. ThumbnailURL keeps the remote origin so missing
	// images can be re-fetched later.
	ImagePath    string `gorm:"size:255" json:"image_path,omitempty"`
	ThumbnailURL string `gorm:"size:2048" json:"thumbnail_url,omitempty"`

	Categories []Category `gorm:"many2many:book_categories;" json:"categories,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Category forms a tree via ParentID. Name keeps its original casing; the
// importer compares categories by normalized name only.
type Category struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	Name     string     `gorm:"index;size:255" json:"name"`
	ParentID *uint      `gorm:"index" json:"parent_id,omitempty"`
	Parent   *Category  `gorm:"foreignKey:ParentID" json:"-"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Books    []Book     `gorm:"many2many:book_categories;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255" json:"email"`
	Name      string    `gorm:"size:255" json:"name,omitempty"`
	Phone     string    `gorm:"size:50" json:"phone,omitempty"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// User is an administrator account for the CRUD backend.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string    `gorm:"size:100" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

func (User) TableName() string {
	return "users"
}
