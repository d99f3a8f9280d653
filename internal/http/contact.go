package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore/internal/database/contacts"
	"bookstore/internal/entities"
)

type ContactRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required"`
}

type ContactController struct {
	contacts       *contacts.Repository
	recipientEmail string
}

func NewContactController(contactRepo *contacts.Repository, recipientEmail string) *ContactController {
	return &ContactController{
		contacts:       contactRepo,
		recipientEmail: recipientEmail,
	}
}

// Submit validates and stores a contact message.
// POST /api/contact
func (controller *ContactController) Submit(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := entities.ContactMessage{
		Email:   req.Email,
		Name:    req.Name,
		Phone:   req.Phone,
		Message: req.Message,
	}

	if err := controller.contacts.Create(&message); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if controller.recipientEmail != "" {
		log.Printf("New contact message %d from %s for %s", message.ID, message.Email, controller.recipientEmail)
	}

	c.IndentedJSON(http.StatusCreated, gin.H{"message": "Sent!", "id": message.ID})
}
