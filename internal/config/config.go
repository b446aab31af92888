package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	HTTPPort      string

	AdminUsername string
	AdminPassword string
	JWTSecret     string

	CorpusPath string

	RoundDuration  time.Duration
	DefaultRounds  int
	ReapInterval   time.Duration
	SessionIdleTTL time.Duration
}

func Load() *Config {
	return &Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "versequest"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:      getEnv("PORT", "5005"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "password123"),
		JWTSecret:     getEnv("JWT_SECRET", "super-secret-key-change-in-production"),

		CorpusPath: getEnv("CORPUS_PATH", "data/verses.csv"),

		RoundDuration:  time.Duration(getEnvInt("ROUND_SECONDS", 60)) * time.Second,
		DefaultRounds:  getEnvInt("DEFAULT_ROUNDS", 3),
		ReapInterval:   time.Duration(getEnvInt("REAP_INTERVAL_SECONDS", 60)) * time.Second,
		SessionIdleTTL: time.Duration(getEnvInt("SESSION_IDLE_TTL_SECONDS", 1800)) * time.Second,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}
