package handlers

import (
	"errors"
	"net/http"

	"contesthub/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP status codes: missing
// records to 404, rejected preconditions to 400, bad credentials to 401
// and everything else to 500.
func respondError(c *gin.Context, err error) {
	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case services.IsInvalidInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidRefreshToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
