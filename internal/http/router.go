package http

import (
	"github.com/gin-gonic/gin"

	"bookstore/internal/auth"
	"bookstore/internal/database"
	"bookstore/internal/database/books"
	"bookstore/internal/database/categories"
	"bookstore/internal/database/contacts"
	"bookstore/internal/database/users"
	"bookstore/internal/tasks"
)

// RouterConfig carries all router dependencies, keeping NewRouter's
// signature flat and the wiring testable.
type RouterConfig struct {
	Database     *database.Database
	Books        *books.Repository
	Categories   *categories.Repository
	Contacts     *contacts.Repository
	Users        *users.Repository
	TaskClient   *tasks.Client
	UploadsDir   string
	ItemsPerPage int
	ContactEmail string
	Version      string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Mirrored thumbnails are served straight from disk.
	if cfg.UploadsDir != "" {
		router.Static("/uploads", cfg.UploadsDir)
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	categoriesController := NewCategoriesController(cfg.Categories, cfg.Books, cfg.ItemsPerPage)
	booksController := NewBooksController(cfg.Books)
	contactController := NewContactController(cfg.Contacts, cfg.ContactEmail)
	adminController := NewAdminController(cfg.Books, cfg.Categories, cfg.Contacts, cfg.TaskClient)

	router.GET("/health", health.Status)

	// Public catalog endpoints
	router.GET("/api/categories", categoriesController.Index)
	router.GET("/api/categories/:id", categoriesController.Show)
	router.GET("/api/books/:id", booksController.Show)
	router.POST("/api/contact", contactController.Submit)

	// Admin CRUD backend, Basic auth per request
	admin := router.Group("/api/admin", auth.BasicAuth(cfg.Users))
	{
		admin.POST("/books", adminController.CreateBook)
		admin.PUT("/books/:id", adminController.UpdateBook)
		admin.DELETE("/books/:id", adminController.DeleteBook)

		admin.POST("/categories", adminController.CreateCategory)
		admin.PUT("/categories/:id", adminController.UpdateCategory)
		admin.DELETE("/categories/:id", adminController.DeleteCategory)

		admin.GET("/contact-messages", adminController.ListContactMessages)
		admin.DELETE("/contact-messages/:id", adminController.DeleteContactMessage)

		admin.POST("/tasks/refetch-thumbnails", adminController.RefetchThumbnails)
		admin.GET("/tasks/:id", adminController.TaskStatus)
	}

	return router
}
