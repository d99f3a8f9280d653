package http

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bookstore/internal/database/books"
	"bookstore/internal/database/categories"
	"bookstore/internal/entities"
)

// CategoryWithCount pairs a top-level category with its recursive book count.
type CategoryWithCount struct {
	Category  entities.Category `json:"category"`
	BookCount int64             `json:"book_count"`
}

type CategoriesController struct {
	categories   *categories.Repository
	books        *books.Repository
	itemsPerPage int
}

func NewCategoriesController(categoryRepo *categories.Repository, bookRepo *books.Repository, itemsPerPage int) *CategoriesController {
	return &CategoriesController{
		categories:   categoryRepo,
		books:        bookRepo,
		itemsPerPage: itemsPerPage,
	}
}

// Index lists top-level categories with recursive book counts, most populated
// first. Counts are recomputed on every request.
// GET /api/categories
func (controller *CategoriesController) Index(c *gin.Context) {
	topLevel, err := controller.categories.FindTopLevelCategories()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	withCounts := make([]CategoryWithCount, 0, len(topLevel))
	for _, category := range topLevel {
		count, err := controller.books.CountByCategoryRecursive(category.ID)
		if err != nil {
			c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		withCounts = append(withCounts, CategoryWithCount{Category: category, BookCount: count})
	}

	sort.SliceStable(withCounts, func(i, j int) bool {
		return withCounts[i].BookCount > withCounts[j].BookCount
	})

	c.IndentedJSON(http.StatusOK, gin.H{"categories": withCounts})
}

// Show returns a category's children when it has any, otherwise its books
// filtered by optional search/author/status and paginated.
// GET /api/categories/:id
func (controller *CategoriesController) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	category, err := controller.categories.GetByID(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if len(category.Children) > 0 {
		c.IndentedJSON(http.StatusOK, gin.H{
			"category": category,
			"children": category.Children,
		})
		return
	}

	filters := books.Filters{
		Search: c.Query("search"),
		Author: c.Query("author"),
		Status: c.Query("status"),
	}

	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}

	result, err := controller.books.FindWithFilters(category.ID, filters, page, controller.itemsPerPage)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"category":   category,
		"pagination": result,
		"search":     filters.Search,
		"author":     filters.Author,
		"status":     filters.Status,
	})
}
