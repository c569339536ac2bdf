package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort          string        // Application port
	DBDriver         string        // mysql, postgres or sqlite
	DatabaseURL      string        // Full DSN, overrides the parts below
	DBUser           string        // Database user
	DBPassword       string        // Database password
	DBHost           string        // Database host
	DBPort           string        // Database port
	DBName           string        // Database name
	JWTSecret        string        // JWT secret key
	JWTTTL           time.Duration // Token lifetime
	RedisAddr        string        // Redis server address
	RedisPass        string        // Redis password
	RedisDB          int           // Redis database number
	CacheTTL         time.Duration // Catalog cache lifetime
	StoreTimeout     time.Duration // Upper bound for one store call
	UserWriteRetries int           // Optimistic retries on user document conflicts
	CORSOrigins      []string      // Allowed CORS origins
	LogLevel         string        // Logrus level
	IsProd           bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:          getenv("APP_PORT", "8080"),                  // Application port
		DBDriver:         getenv("DB_DRIVER", "mysql"),                // Database driver
		DatabaseURL:      os.Getenv("DATABASE_URL"),                   // Full DSN
		DBUser:           os.Getenv("DB_USER"),                        // Database user
		DBPassword:       os.Getenv("DB_PASSWORD"),                    // Database password
		DBHost:           os.Getenv("DB_HOST"),                        // Database host
		DBPort:           os.Getenv("DB_PORT"),                        // Database port
		DBName:           os.Getenv("DB_NAME"),                        // Database name
		JWTSecret:        os.Getenv("JWT_SECRET"),                     // JWT secret key
		JWTTTL:           getDuration("JWT_TTL", 24*time.Hour),        // Token lifetime
		RedisAddr:        os.Getenv("REDIS_ADDR"),                     // Redis server address
		RedisPass:        os.Getenv("REDIS_PASS"),                     // Redis password
		RedisDB:          redisDB,                                     // Redis database number
		CacheTTL:         getDuration("CACHE_TTL", 60*time.Second),    // Catalog cache lifetime
		StoreTimeout:     getDuration("STORE_TIMEOUT", 5*time.Second), // Store call bound
		UserWriteRetries: getInt("USER_WRITE_RETRIES", 3),             // Optimistic retries
		CORSOrigins:      splitList(getenv("CORS_ORIGINS", "*")),      // Allowed origins
		LogLevel:         getenv("LOG_LEVEL", "info"),                 // Log level
		IsProd:           os.Getenv("IS_PROD") == "true",              // Is production environment
	}
}

// getenv returns the variable or def when it is unset or empty
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getDuration parses a Go duration, falling back to def
func getDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return def
}

// getInt parses a positive integer, falling back to def
func getInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
