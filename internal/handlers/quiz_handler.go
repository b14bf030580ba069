package handlers

import (
	"net/http"

	"poll-quiz-service/internal/middleware"
	"poll-quiz-service/internal/monitoring"
	"poll-quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	Submissions *service.SubmissionService
	Boards      *service.LeaderboardService
}

func NewQuizHandler(submissions *service.SubmissionService, boards *service.LeaderboardService) *QuizHandler {
	return &QuizHandler{Submissions: submissions, Boards: boards}
}

func (h *QuizHandler) ListActive(c *gin.Context) {
	quizzes, err := h.Submissions.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if quizzes == nil {
		quizzes = []service.ActiveQuizSummary{}
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) GetQuiz(c *gin.Context) {
	view, err := h.Submissions.GetForStudent(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type checkAnswerRequest struct {
	QuestionIndex  int `json:"questionIndex"`
	SelectedOption int `json:"selectedOption"`
}

func (h *QuizHandler) CheckAnswer(c *gin.Context) {
	var req checkAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	result, err := h.Submissions.CheckAnswer(c.Request.Context(), c.Param("code"), req.QuestionIndex, req.SelectedOption)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type submitRequest struct {
	Answers   []service.AnswerInput `json:"answers"`
	TimeTaken int                   `json:"timeTaken"`
}

func (h *QuizHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		monitoring.SubmissionCounter.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	student := middleware.Identity(c)
	result, err := h.Submissions.Submit(c.Request.Context(), c.Param("code"), student, req.Answers, req.TimeTaken)
	if err != nil {
		monitoring.SubmissionCounter.WithLabelValues(submissionOutcome(err)).Inc()
		writeError(c, err)
		return
	}
	monitoring.SubmissionCounter.WithLabelValues("accepted").Inc()
	c.JSON(http.StatusOK, gin.H{
		"message":         "Quiz submitted successfully",
		"score":           result.Score,
		"totalQuestions":  result.TotalQuestions,
		"correctAnswers":  result.CorrectAnswers,
		"participantId":   result.ParticipantID,
		"detailedResults": result.DetailedResults,
	})
}

// Leaderboard serves the student-facing board: names and scores only,
// no emails.
func (h *QuizHandler) Leaderboard(c *gin.Context) {
	board, err := h.Boards.RankByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	entries := make([]gin.H, len(board.Entries))
	for i, e := range board.Entries {
		entries[i] = gin.H{
			"rank":        e.Rank,
			"name":        e.Name,
			"score":       e.Score,
			"completedAt": e.CompletedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"quizTopic":         board.QuizTopic,
		"totalParticipants": board.TotalParticipants,
		"leaderboard":       entries,
	})
}
