package config

import (
	"log"
	"os"

	"tripsage/globals"

	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting in one place.
type Config struct {
	Port string

	DatabaseURL  string
	DatabaseName string

	RedisURL      string
	RedisPassword string

	JWTSecret string

	AIAPIURL string
	AIAPIKey string

	FlightsAPIURL string
	FlightsAPIKey string

	StaysAPIURL string
	StaysAPIKey string
}

// App is the loaded configuration, set once by Load.
var App *Config

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads .env (if present) and the environment. DATABASE_URL and
// JWT_SECRET are required; provider keys are optional and leave that
// feature degraded rather than refusing to start.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DatabaseName:  getenv("DATABASE_NAME", "tripsage"),
		RedisURL:      getenv("REDIS_URL", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AIAPIURL:      os.Getenv("AI_API_URL"),
		AIAPIKey:      os.Getenv("AI_API_KEY"),
		FlightsAPIURL: os.Getenv("FLIGHTS_API_URL"),
		FlightsAPIKey: os.Getenv("FLIGHTS_API_KEY"),
		StaysAPIURL:   os.Getenv("STAYS_API_URL"),
		StaysAPIKey:   os.Getenv("STAYS_API_KEY"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if cfg.AIAPIKey == "" {
		log.Println("AI_API_KEY is not set; assistant replies are disabled")
	}
	if cfg.FlightsAPIKey == "" {
		log.Println("FLIGHTS_API_KEY is not set; flight search is disabled")
	}
	if cfg.StaysAPIKey == "" {
		log.Println("STAYS_API_KEY is not set; accommodation search is disabled")
	}

	globals.JwtSecret = []byte(cfg.JWTSecret)
	App = cfg
	return cfg
}
