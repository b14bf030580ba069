package handlers

import (
	"net/http"

	"poll-quiz-service/internal/middleware"
	"poll-quiz-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StatHandler struct {
	Stats  *service.StatService
	Boards *service.LeaderboardService
}

func NewStatHandler(stats *service.StatService, boards *service.LeaderboardService) *StatHandler {
	return &StatHandler{Stats: stats, Boards: boards}
}

// Me returns the caller's lifetime stats, zero-valued when no record
// exists yet.
func (h *StatHandler) Me(c *gin.Context) {
	student := middleware.Identity(c)
	stat, err := h.Stats.GetOrDefault(c.Request.Context(), student.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stat)
}

type trackQuizRequest struct {
	QuizID         string `json:"quizId" binding:"required"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
	TimeTaken      int    `json:"timeTaken"`
}

// TrackQuiz is the legacy client-driven stat call, now idempotent
// against the recorded attempt.
func (h *StatHandler) TrackQuiz(c *gin.Context) {
	var req trackQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	quizID, err := primitive.ObjectIDFromHex(req.QuizID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quiz id"})
		return
	}
	student := middleware.Identity(c)
	err = h.Stats.TrackQuiz(c.Request.Context(), student.ID, service.RecordAttemptInput{
		UserID:         student.ID,
		QuizID:         quizID,
		Score:          req.Score,
		CorrectAnswers: req.CorrectAnswers,
		TotalQuestions: req.TotalQuestions,
		TimeTaken:      req.TimeTaken,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student stats updated."})
}

// Leaderboard ranks a quiz by its storage id; this variant includes
// email and timeTaken for each entry.
func (h *StatHandler) Leaderboard(c *gin.Context) {
	quizID, err := primitive.ObjectIDFromHex(c.Param("quizId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quiz id"})
		return
	}
	board, err := h.Boards.RankByID(c.Request.Context(), quizID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"quizId":      board.QuizID,
		"leaderboard": board.Entries,
	})
}
