package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Mongo       MongoConfig
	Rabbit      RabbitConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Leaderboard LeaderboardConfig
}

type ServerConfig struct {
	Port         string
	Mode         string // debug | release
	ClientOrigin string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RabbitConfig struct {
	URI      string
	Exchange string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type LeaderboardConfig struct {
	CacheTTL     time.Duration
	CacheEntries int
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "5000"),
			Mode:         getenv("GIN_MODE", "debug"),
			ClientOrigin: getenv("CLIENT_URL", "http://localhost:3000"),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getenv("MONGO_DB", "poll_quiz"),
		},
		Rabbit: RabbitConfig{
			URI:      os.Getenv("RABBITMQ_URI"),
			Exchange: getenv("RABBITMQ_EXCHANGE", "quiz.events"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getenvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
		},
		Leaderboard: LeaderboardConfig{
			CacheTTL:     time.Duration(getenvInt("LEADERBOARD_CACHE_TTL_SECONDS", 5)) * time.Second,
			CacheEntries: getenvInt("LEADERBOARD_CACHE_ENTRIES", 1024),
		},
	}

	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
