package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the loaded configuration
type Config struct {
	Port string
	Env  string

	APIBaseURL string
	APITimeout time.Duration

	RedisURL        string
	TokenTTL        time.Duration
	ProductCacheTTL time.Duration

	SessionCookie  string
	SessionIdleTTL time.Duration
	CookieSecure   bool

	AllowedOrigins     []string
	RateLimitPerMinute int
	RateLimitBurst     int

	CloudWatchEnabled   bool
	CloudWatchNamespace string
	AWSEndpoint         string
}

// Load reads the .env file (if any) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return Config{
		Port: getEnv("PORT", "8000"),
		Env:  getEnv("ENV", "development"),

		APIBaseURL: strings.TrimSuffix(getEnv("API_BASE_URL", "http://localhost:3000/api"), "/"),
		APITimeout: getDuration("API_TIMEOUT", 10*time.Second),

		RedisURL:        getEnv("REDIS_URL", ""),
		TokenTTL:        getDuration("TOKEN_TTL", 24*time.Hour),
		ProductCacheTTL: getDuration("PRODUCT_CACHE_TTL", 5*time.Minute),

		SessionCookie:  getEnv("SESSION_COOKIE", "sid"),
		SessionIdleTTL: getDuration("SESSION_IDLE_TTL", 30*time.Minute),
		CookieSecure:   getBool("COOKIE_SECURE", false),

		AllowedOrigins:     getList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001"}),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 100),
		RateLimitBurst:     getInt("RATE_LIMIT_BURST", 50),

		CloudWatchEnabled:   getBool("CLOUDWATCH_ENABLED", false),
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "SushiApp"),
		AWSEndpoint:         getEnv("AWS_ENDPOINT", ""),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

// getDuration accepts Go durations ("10s") and bare milliseconds ("10000").
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	log.Printf("invalid duration for %s=%q, using %s", key, raw, fallback)
	return fallback
}

func getInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("invalid integer for %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}

func getList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(o), "/")); o != "" {
			out = append(out, o)
		}
	}
	return out
}
