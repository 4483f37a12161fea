package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultUsersAddr       = ":8000"
	defaultOrdersAddr      = ":8001"
	defaultUserServiceURL  = "http://localhost:8000"
	defaultUserTimeout     = 5 * time.Second
	defaultCacheWarmLimit  = 100
	defaultCacheMaxEntries = 10000
	defaultLogLevel        = "info"
)

// Common holds the settings both services read.
type Common struct {
	HTTPAddr         string
	PostgresDSN      string
	PostgresMaxConns int
	LogLevel         string
	RateLimitRPS     float64
	RateLimitBurst   int
}

type Users struct {
	Common
}

type Orders struct {
	Common
	UserServiceURL     string
	UserServiceTimeout time.Duration
	CacheWarmLimit     int
	CacheMaxEntries    int
}

// LoadDotenv preloads variables from files (default ".env") without
// overriding anything already set. A missing file is not an error.
func LoadDotenv(files ...string) {
	_ = godotenv.Load(files...)
}

func LoadUsers() Users {
	return Users{Common: loadCommon(defaultUsersAddr)}
}

func LoadOrders() Orders {
	return Orders{
		Common:             loadCommon(defaultOrdersAddr),
		UserServiceURL:     strings.TrimRight(getEnv("USER_SERVICE_URL", defaultUserServiceURL), "/"),
		UserServiceTimeout: getEnvDuration("USER_SERVICE_TIMEOUT", defaultUserTimeout),
		CacheWarmLimit:     getEnvInt("CACHE_WARM_LIMIT", defaultCacheWarmLimit),
		CacheMaxEntries:    getEnvInt("CACHE_MAX_ENTRIES", defaultCacheMaxEntries),
	}
}

func loadCommon(addr string) Common {
	return Common{
		HTTPAddr:         getEnv("HTTP_ADDR", addr),
		PostgresDSN:      getEnv("POSTGRES_DSN", ""),
		PostgresMaxConns: getEnvInt("POSTGRES_MAX_CONNS", 0),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		RateLimitRPS:     getEnvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:   getEnvInt("RATE_LIMIT_BURST", 0),
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
	}
	return def
}

// getEnvDuration accepts Go durations ("750ms") or bare seconds ("5").
// Non-positive values fall back to def.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
		return time.Duration(f * float64(time.Second))
	}
	return def
}
