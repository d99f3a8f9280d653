// Package auth guards the admin API with HTTP Basic authentication against
// bcrypt-hashed administrator accounts.
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore/internal/database/users"
)

// BasicAuth verifies request credentials against the users table. Every
// request is checked independently; there are no sessions or cookies.
func BasicAuth(repo *users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, password, ok := c.Request.BasicAuth()
		if !ok || !repo.Verify(email, password) {
			c.Header("WWW-Authenticate", `Basic realm="bookstore admin"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
