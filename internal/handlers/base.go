package handlers

import (
	"errors"
	"net/http"

	"clanboard/internal/forum"
	"clanboard/internal/middleware"
	"clanboard/internal/models"

	"github.com/gin-gonic/gin"
)

// currentUser returns the session user, or nil when signed out.
func currentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		return user.(*models.User)
	}
	return nil
}

// respondError maps engine errors onto HTTP status codes. Validation and
// permission errors carry their message; anything else is a generic 500 so
// store internals never leak.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, forum.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, forum.ErrNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	case errors.Is(err, forum.ErrSignedOut):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
	case errors.Is(err, forum.ErrTitleRequired), errors.Is(err, forum.ErrContentRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, forum.ErrPostLocked):
		c.JSON(http.StatusConflict, gin.H{"error": "post locked"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// respondState returns the controller snapshot, the response body for every
// state-changing endpoint.
func respondState(c *gin.Context, ctrl *forum.Controller) {
	c.JSON(http.StatusOK, ctrl.Snapshot())
}
