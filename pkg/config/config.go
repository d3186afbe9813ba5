// Package config loads server settings from the environment, with an
// optional .env file for development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"framebrowse/pkg/log"
)

// Cache backend selectors.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds every tunable of the browse server.
type Config struct {
	Addr             string
	DBPath           string
	SearchBackendURL string
	SearchTimeout    time.Duration

	CacheBackend    string
	CacheMaxEntries int
	RedisAddr       string
	RedisKeyPrefix  string

	GroupsFresh  time.Duration
	GroupsExpire time.Duration
	VideosFresh  time.Duration
	VideosExpire time.Duration
	FramesFresh  time.Duration
	FramesExpire time.Duration

	Debug bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present; missing variables fall back to defaults.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded .env file")
	}

	return &Config{
		Addr:             getEnv("ADDR", ":8080"),
		DBPath:           getEnv("DB_PATH", "build/catalog.db"),
		SearchBackendURL: getEnv("SEARCH_BACKEND_URL", "http://localhost:8000"),
		SearchTimeout:    getEnvAsDuration("SEARCH_TIMEOUT", 10*time.Second),

		CacheBackend:    getEnv("CACHE_BACKEND", CacheBackendMemory),
		CacheMaxEntries: getEnvAsInt("CACHE_MAX_ENTRIES", 1024),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisKeyPrefix:  getEnv("REDIS_KEY_PREFIX", "framebrowse"),

		GroupsFresh:  getEnvAsDuration("GROUPS_CACHE_FRESH", 10*time.Minute),
		GroupsExpire: getEnvAsDuration("GROUPS_CACHE_EXPIRE", 30*time.Minute),
		VideosFresh:  getEnvAsDuration("VIDEOS_CACHE_FRESH", 5*time.Minute),
		VideosExpire: getEnvAsDuration("VIDEOS_CACHE_EXPIRE", 15*time.Minute),
		FramesFresh:  getEnvAsDuration("FRAMES_CACHE_FRESH", 2*time.Minute),
		FramesExpire: getEnvAsDuration("FRAMES_CACHE_EXPIRE", 6*time.Minute),

		Debug: getEnvAsBool("DEBUG", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
