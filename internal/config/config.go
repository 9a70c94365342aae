package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost                 string
	DBPort                 string
	DBUser                 string
	DBPassword             string
	DBName                 string
	JWTSecret              string
	APIKey                 string
	Port                   string
	AllowedOrigins         string
	LogLevel               string
	ProfileCacheTTL        time.Duration
	AcquisitionConcurrency int
	// TrustedProxies lists the CIDRs whose X-Forwarded-For header is honoured.
	TrustedProxies     string
	MetricsOTLPAddress string
	MetricsOTLPHeaders map[string]string
	MetricsOTLPUseTLS  bool
}

// Load reads the environment, after merging an optional .env file. Values
// already set in the environment take precedence over the file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", "3306"),
		DBUser:                 getEnv("DB_USER", "bodyscore"),
		DBPassword:             getEnv("DB_PASSWORD", "bodyscore_pass"),
		DBName:                 getEnv("DB_NAME", "bodyscore"),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		APIKey:                 getEnv("API_KEY", ""),
		Port:                   getEnv("PORT", "8080"),
		AllowedOrigins:         getEnv("ALLOWED_ORIGINS", "*"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		ProfileCacheTTL:        getDuration("PROFILE_CACHE_TTL", 15*time.Minute),
		AcquisitionConcurrency: getInt("ACQUISITION_CONCURRENCY", 4),
		TrustedProxies:         getEnv("TRUSTED_PROXIES", ""),
		MetricsOTLPAddress:     getEnv("METRICS_OTLP_ADDRESS", ""),
		MetricsOTLPHeaders:     getMap("METRICS_OTLP_HEADERS"),
		MetricsOTLPUseTLS:      getBool("METRICS_OTLP_USE_TLS", false),
	}
}

func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

// getMap parses "k1=v1,k2=v2". Entries without "=" are dropped.
func getMap(key string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(os.Getenv(key), ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}
