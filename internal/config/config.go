package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	MongoURI       string
	JWTSecret      string
	JWTExpiry      string
	AllowedOrigins []string
	Redis          RedisConfig
}

type RedisConfig struct {
	URL         string
	Host        string
	Port        string
	Password    string
	DB          int
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

func Load() *Config {
	// .env is optional outside local development
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI environment variable is not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173"
	}

	return &Config{
		Port:           port,
		MongoURI:       mongoURI,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiry:      os.Getenv("JWT_EXPIRY"),
		AllowedOrigins: strings.Split(allowedOrigins, ","),
		Redis:          loadRedisConfig(),
	}
}

func loadRedisConfig() RedisConfig {
	cfg := RedisConfig{
		URL:         os.Getenv("REDIS_URL"),
		Host:        os.Getenv("REDIS_HOST"),
		Port:        os.Getenv("REDIS_PORT"),
		Password:    os.Getenv("REDIS_PASSWORD"),
		DialTimeout: 5 * time.Second,
		ReadTimeout: 3 * time.Second,
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == "" {
		cfg.Port = "6379"
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			cfg.DB = n
		}
	}
	return cfg
}
