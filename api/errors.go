package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"example.com/storebunk/services/pos/domain"
)

// respondError maps domain errors to HTTP statuses: unknown aggregates to
// 404, version conflicts to 409, rejected state transitions to 422.
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.IsConcurrency(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case domain.IsInvariantViolation(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("Unhandled error in API request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
