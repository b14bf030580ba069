package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"poll-quiz-service/internal/cache"
	"poll-quiz-service/internal/middleware"
	"poll-quiz-service/internal/models"
	"poll-quiz-service/internal/repository/memory"
	"poll-quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

// newAdminEnv wires the admin routes with the role gate in place so
// the tests cover it too.
func newAdminEnv(identity models.Identity) *handlerEnv {
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	stats := service.NewStatService(store, store)
	boards := service.NewLeaderboardService(store, cache.NewMemory(64), 50*time.Millisecond)
	adminSvc := service.NewAdminService(store, stats, nil)

	adminHandler := NewAdminHandler(adminSvc, boards)

	r := gin.New()
	auth := func(c *gin.Context) { middleware.SetIdentity(c, identity) }
	a := r.Group("/admin", auth, middleware.RequireRole(models.RoleAdmin))
	{
		a.POST("/quiz", adminHandler.CreateQuiz)
		a.GET("/quiz", adminHandler.ListQuizzes)
		a.PATCH("/quiz/:id/status", adminHandler.UpdateStatus)
		a.GET("/leaderboard", adminHandler.Leaderboard)
	}
	return &handlerEnv{store: store, router: r}
}

func adminIdentity(id string) models.Identity {
	return models.Identity{ID: id, Name: "Admin " + id, Email: id + "@example.com", Role: models.RoleAdmin}
}

const createQuizBody = `{
	"topic": "Slices",
	"difficulty": "easy",
	"questions": [
		{"question": "What is len(nil slice)?", "options": ["0", "panics"], "correctAnswer": 0}
	]
}`

func TestAdminCreateQuiz(t *testing.T) {
	env := newAdminEnv(adminIdentity("a1"))

	w := env.do(t, http.MethodPost, "/admin/quiz", createQuizBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	code, _ := body["quizCode"].(string)
	if len(code) != models.QuizCodeLength {
		t.Errorf("Expected a %d-char quiz code, got %q", models.QuizCodeLength, code)
	}
	if body["status"] != models.StatusActive {
		t.Errorf("Expected active status, got %v", body["status"])
	}
}

func TestAdminCreateQuizRejectsBadDifficulty(t *testing.T) {
	env := newAdminEnv(adminIdentity("a1"))

	w := env.do(t, http.MethodPost, "/admin/quiz", `{
		"topic": "Slices",
		"difficulty": "brutal",
		"questions": [{"question": "q", "options": ["a", "b"], "correctAnswer": 0}]
	}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminRoutesForbiddenForStudents(t *testing.T) {
	env := newAdminEnv(studentIdentity("u1"))

	w := env.do(t, http.MethodPost, "/admin/quiz", createQuizBody)
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for a student, got %d", w.Code)
	}
	w = env.do(t, http.MethodGet, "/admin/leaderboard", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for a student, got %d", w.Code)
	}
}

func TestAdminUpdateStatus(t *testing.T) {
	env := newAdminEnv(adminIdentity("a1"))

	w := env.do(t, http.MethodPost, "/admin/quiz", createQuizBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("CreateQuiz failed: %d", w.Code)
	}
	id, _ := decodeBody(t, w)["id"].(string)
	if id == "" {
		t.Fatalf("Missing quiz id in response: %s", w.Body.String())
	}

	w = env.do(t, http.MethodPatch, "/admin/quiz/"+id+"/status", `{"status":"inactive"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/admin/quiz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var list []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("Bad list body: %v", err)
	}
	if len(list) != 1 || list[0]["status"] != models.StatusInactive {
		t.Errorf("Expected one inactive quiz, got %v", list)
	}
}

func TestAdminUpdateStatusBadID(t *testing.T) {
	env := newAdminEnv(adminIdentity("a1"))

	w := env.do(t, http.MethodPatch, "/admin/quiz/nope/status", `{"status":"inactive"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestAdminLeaderboardEmpty(t *testing.T) {
	env := newAdminEnv(adminIdentity("a1"))

	w := env.do(t, http.MethodGet, "/admin/leaderboard", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	rows, ok := body["leaderboard"].([]interface{})
	if !ok || len(rows) != 0 {
		t.Errorf("Expected empty leaderboard array, got %v", body["leaderboard"])
	}
}
