package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	BindAddr    string
	PageSize    int
	CacheTTL    time.Duration
}

func Load() *Config {
	// .env at the repo root when run from cmd/*, then the current directory
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()
	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		BindAddr:    getEnv("BIND_ADDR", ":8000"),
		PageSize:    getEnvInt("PAGE_SIZE", 10),
		CacheTTL:    time.Duration(getEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second,
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}
