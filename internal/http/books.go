package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bookstore/internal/database/books"
)

const relatedBooksLimit = 4

type BooksController struct {
	books *books.Repository
}

func NewBooksController(bookRepo *books.Repository) *BooksController {
	return &BooksController{books: bookRepo}
}

// Show returns a book together with up to four related books from the same
// category.
// GET /api/books/:id
func (controller *BooksController) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	book, err := controller.books.GetByID(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	related, err := controller.books.FindRelatedBooks(book, relatedBooksLimit)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"book":          book,
		"related_books": related,
	})
}
