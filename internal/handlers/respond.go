package handlers

import (
	"errors"
	"net/http"

	"poll-quiz-service/internal/logger"
	"poll-quiz-service/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps the service error taxonomy onto HTTP statuses.
// Not-found and duplicate are expected outcomes, not server errors.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrQuizNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Quiz not found or inactive"})
	case errors.Is(err, models.ErrDuplicateSubmission):
		c.JSON(http.StatusBadRequest, gin.H{"message": "You have already submitted this quiz"})
	case errors.Is(err, models.ErrInvalidAnswer):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, models.ErrAttemptNotRecorded):
		c.JSON(http.StatusBadRequest, gin.H{"message": "No recorded attempt for this quiz"})
	default:
		logger.Log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

func submissionOutcome(err error) string {
	switch {
	case errors.Is(err, models.ErrDuplicateSubmission):
		return "duplicate"
	case errors.Is(err, models.ErrQuizNotFound), errors.Is(err, models.ErrInvalidAnswer):
		return "rejected"
	default:
		return "error"
	}
}
