package handlers

import (
	"net/http"

	"poll-quiz-service/internal/middleware"
	"poll-quiz-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminHandler struct {
	Admin  *service.AdminService
	Boards *service.LeaderboardService
}

func NewAdminHandler(admin *service.AdminService, boards *service.LeaderboardService) *AdminHandler {
	return &AdminHandler{Admin: admin, Boards: boards}
}

func (h *AdminHandler) CreateQuiz(c *gin.Context) {
	var req service.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	creator := middleware.Identity(c)
	quiz, err := h.Admin.CreateQuiz(c.Request.Context(), creator, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	quizID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quiz id"})
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	creator := middleware.Identity(c)
	if err := h.Admin.SetStatus(c.Request.Context(), creator, quizID, req.Status); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *AdminHandler) ListQuizzes(c *gin.Context) {
	creator := middleware.Identity(c)
	quizzes, err := h.Admin.ListQuizzes(c.Request.Context(), creator)
	if err != nil {
		writeError(c, err)
		return
	}
	if quizzes == nil {
		quizzes = []service.AdminQuizSummary{}
	}
	c.JSON(http.StatusOK, quizzes)
}

// Leaderboard is the cross-quiz board: total score per student over
// every quiz, most recent submission winning ties.
func (h *AdminHandler) Leaderboard(c *gin.Context) {
	rows, err := h.Boards.RankAllQuizzes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": rows})
}
