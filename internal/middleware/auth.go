package middleware

import (
	"net/http"

	"clanboard/internal/db"
	"clanboard/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// LoadUser retrieves the active user from the session and sets it on the
// context. Signed-out requests simply carry no user.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			if result := db.DB.First(&user, userID); result.Error == nil {
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects requests without a signed-in user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

// ModeratorRequired rejects requests whose user lacks the moderate
// capability. Runs after LoadUser.
func ModeratorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get(CheckUserKey)
		if !exists || !user.(*models.User).CanModerate() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "moderator required"})
			return
		}
		c.Next()
	}
}
