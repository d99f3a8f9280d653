package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"gorm.io/gorm"

	"bookstore/internal/database/books"
	"bookstore/internal/database/categories"
	"bookstore/internal/database/contacts"
	"bookstore/internal/entities"
	"bookstore/internal/tasks"
)

// AdminBookRequest carries the full field set for creating or updating a
// book through the admin API.
type AdminBookRequest struct {
	Title         string     `json:"title" binding:"required"`
	ISBN          string     `json:"isbn"`
	PageCount     *int       `json:"page_count"`
	Authors       []string   `json:"authors"`
	Status        string     `json:"status"`
	PublishedDate *time.Time `json:"published_date"`
	ThumbnailURL  string     `json:"thumbnail_url"`
	CategoryIDs   []uint     `json:"category_ids"`
}

type AdminCategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

// AdminController implements the CRUD backend for books, categories and
// contact messages.
type AdminController struct {
	books      *books.Repository
	categories *categories.Repository
	contacts   *contacts.Repository
	taskClient *tasks.Client
}

func NewAdminController(bookRepo *books.Repository, categoryRepo *categories.Repository, contactRepo *contacts.Repository, taskClient *tasks.Client) *AdminController {
	return &AdminController{
		books:      bookRepo,
		categories: categoryRepo,
		contacts:   contactRepo,
		taskClient: taskClient,
	}
}

// CreateBook creates a book with the given categories.
// POST /api/admin/books
func (ac *AdminController) CreateBook(c *gin.Context) {
	var req AdminBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resolved, ok := ac.resolveCategories(c, req.CategoryIDs)
	if !ok {
		return
	}

	book := &entities.Book{}
	applyAdminBookRequest(book, req)

	if err := ac.books.Create(book); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := ac.books.ReplaceCategories(book, resolved); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusCreated, book)
}

// UpdateBook overwrites a book's fields and category set.
// PUT /api/admin/books/:id
func (ac *AdminController) UpdateBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	var req AdminBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := ac.books.GetByID(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resolved, ok := ac.resolveCategories(c, req.CategoryIDs)
	if !ok {
		return
	}

	applyAdminBookRequest(book, req)

	if err := ac.books.Save(book); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := ac.books.ReplaceCategories(book, resolved); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

// DELETE /api/admin/books/:id
func (ac *AdminController) DeleteBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	if err := ac.books.Delete(uint(id)); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/admin/categories
func (ac *AdminController) CreateCategory(c *gin.Context) {
	var req AdminCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &entities.Category{Name: req.Name, ParentID: req.ParentID}
	if err := ac.categories.Create(category); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusCreated, category)
}

// PUT /api/admin/categories/:id
func (ac *AdminController) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	var req AdminCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := ac.categories.GetByID(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	category.Name = req.Name
	category.ParentID = req.ParentID
	if err := ac.categories.Save(category); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, category)
}

// DELETE /api/admin/categories/:id
func (ac *AdminController) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}
	if err := ac.categories.Delete(uint(id)); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/admin/contact-messages
func (ac *AdminController) ListContactMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := ac.contacts.List(limit, offset)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

// DELETE /api/admin/contact-messages/:id
func (ac *AdminController) DeleteContactMessage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	if err := ac.contacts.Delete(uint(id)); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// RefetchThumbnails enqueues a background task re-mirroring missing images.
// POST /api/admin/tasks/refetch-thumbnails
func (ac *AdminController) RefetchThumbnails(c *gin.Context) {
	if ac.taskClient == nil {
		c.IndentedJSON(http.StatusServiceUnavailable, gin.H{"error": "task queue disabled"})
		return
	}

	ids, err := ac.taskClient.Add(tasks.RefetchThumbnailsTask{}).Save()
	if err != nil {
		log.Printf("Failed to enqueue thumbnail refetch task: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue task"})
		return
	}

	c.IndentedJSON(http.StatusAccepted, gin.H{"task_id": ids[0]})
}

// TaskStatus reports the state of a previously enqueued task by the ID
// returned when it was accepted.
// GET /api/admin/tasks/:id
func (ac *AdminController) TaskStatus(c *gin.Context) {
	if ac.taskClient == nil {
		c.IndentedJSON(http.StatusServiceUnavailable, gin.H{"error": "task queue disabled"})
		return
	}

	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := ac.taskClient.Status(ctx, taskID)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

func (ac *AdminController) resolveCategories(c *gin.Context, ids []uint) ([]*entities.Category, bool) {
	resolved := make([]*entities.Category, 0, len(ids))
	for _, id := range ids {
		category, err := ac.categories.GetByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "unknown category id"})
			return nil, false
		}
		if err != nil {
			c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return nil, false
		}
		resolved = append(resolved, category)
	}
	return resolved, true
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

func applyAdminBookRequest(book *entities.Book, req AdminBookRequest) {
	book.Title = req.Title
	book.ISBN = req.ISBN
	book.PageCount = req.PageCount
	book.Authors = req.Authors
	if book.Authors == nil {
		book.Authors = []string{}
	}
	book.Status = req.Status
	if book.Status == "" {
		book.Status = entities.DefaultStatus
	}
	book.PublishedDate = req.PublishedDate
	book.ThumbnailURL = req.ThumbnailURL
}
