package main

import (
	"context"
	"net/http"
	"time"

	"poll-quiz-service/internal/cache"
	"poll-quiz-service/internal/config"
	"poll-quiz-service/internal/db"
	"poll-quiz-service/internal/event"
	"poll-quiz-service/internal/handlers"
	"poll-quiz-service/internal/logger"
	"poll-quiz-service/internal/middleware"
	"poll-quiz-service/internal/models"
	"poll-quiz-service/internal/monitoring"
	"poll-quiz-service/internal/repository"
	"poll-quiz-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger.Init(cfg.Server.Mode)
	defer logger.Log.Sync()

	if err := db.InitMongo(cfg.Mongo.URI); err != nil {
		logger.Log.Fatal("mongo connection failed", zap.Error(err))
	}
	database := db.Client.Database(cfg.Mongo.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		cancel()
		logger.Log.Fatal("index creation failed", zap.Error(err))
	}
	cancel()

	// RabbitMQ event publisher (notification dispatcher collaborator)
	var publisher event.Publisher = event.Noop{}
	if cfg.Rabbit.URI != "" {
		p, err := event.NewAMQPPublisher(cfg.Rabbit.URI, cfg.Rabbit.Exchange)
		if err != nil {
			logger.Log.Fatal("rabbitmq connection failed", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	} else {
		logger.Log.Info("RabbitMQ not configured, events will not be published")
	}

	// Leaderboard cache: shared Redis when configured, bounded local
	// cache otherwise.
	var boardCache cache.Cache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		boardCache = cache.NewRedis(client, "quiz:")
	} else {
		logger.Log.Info("Redis not configured, using in-process leaderboard cache")
		boardCache = cache.NewMemory(cfg.Leaderboard.CacheEntries)
	}

	quizRepo := repository.NewQuizRepository(database)
	statRepo := repository.NewStatRepository(database)

	statService := service.NewStatService(statRepo, quizRepo)
	boardService := service.NewLeaderboardService(quizRepo, boardCache, cfg.Leaderboard.CacheTTL)
	submissionService := service.NewSubmissionService(quizRepo, statService, boardService, publisher)
	adminService := service.NewAdminService(quizRepo, statService, publisher)

	quizHandler := handlers.NewQuizHandler(submissionService, boardService)
	statHandler := handlers.NewStatHandler(statService, boardService)
	adminHandler := handlers.NewAdminHandler(adminService, boardService)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(monitoring.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", monitoring.PrometheusHandler())

	auth := middleware.Auth(cfg.JWT.Secret)

	quiz := r.Group("/quiz", auth)
	{
		quiz.GET("/active", quizHandler.ListActive)
		quiz.GET("/:code", quizHandler.GetQuiz)
		quiz.POST("/:code/check-answer", quizHandler.CheckAnswer)
		quiz.POST("/:code/submit", quizHandler.Submit)
		quiz.GET("/:code/leaderboard", quizHandler.Leaderboard)
	}

	stats := r.Group("/student-stats", auth)
	{
		stats.GET("/me", statHandler.Me)
		stats.POST("/track-quiz", statHandler.TrackQuiz)
		stats.GET("/leaderboard/:quizId", statHandler.Leaderboard)
	}

	admin := r.Group("/admin", auth, middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/quiz", adminHandler.CreateQuiz)
		admin.GET("/quiz", adminHandler.ListQuizzes)
		admin.PATCH("/quiz/:id/status", adminHandler.UpdateStatus)
		admin.GET("/leaderboard", adminHandler.Leaderboard)
	}

	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}
