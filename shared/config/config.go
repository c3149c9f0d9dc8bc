package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	FrontendURL string
	CORSOrigins []string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret      string
	JWTExpireHours int

	// Password hashing
	BcryptCost int

	// Reset tokens
	ResetTokenTTLMinutes int

	// Director bootstrap (initial account, created out of band)
	DirectorUsername string
	DirectorEmail    string
	DirectorPassword string

	// Email
	EmailFrom     string
	EmailFromName string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// MinIO
	MinIOServerURL    string
	MinIORootUser     string
	MinIORootPassword string
	MinIOUseSSL       bool
	MinIOBucketName   string

	// Login rate limiting
	LoginRateLimitMaxAttempts   int
	LoginRateLimitWindowSeconds int
	LoginRateLimitBlockMinutes  int

	// Password reset rate limiting
	PasswordResetMaxAttempts   int
	PasswordResetWindowMinutes int
	PasswordResetBlockHours    int
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "motri"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-this"),
		JWTExpireHours: getEnvAsInt("JWT_EXPIRE_HOURS", 24),

		// Password hashing
		BcryptCost: getEnvAsInt("BCRYPT_COST", 10),

		// Reset tokens
		ResetTokenTTLMinutes: getEnvAsInt("RESET_TOKEN_TTL_MINUTES", 60),

		// Director bootstrap
		DirectorUsername: getEnv("DIRECTOR_USERNAME", ""),
		DirectorEmail:    getEnv("DIRECTOR_EMAIL", ""),
		DirectorPassword: getEnv("DIRECTOR_PASSWORD", ""),

		// Email
		EmailFrom:     getEnv("EMAIL_FROM", "noreply@motri.local"),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "Motri"),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.example.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// MinIO
		MinIOServerURL:    getEnv("MINIO_SERVER_URL", "http://localhost:9000"),
		MinIORootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinIORootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin"),
		MinIOUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinIOBucketName:   getEnv("MINIO_BUCKET_NAME", "motri-report-images"),

		// Login rate limiting
		LoginRateLimitMaxAttempts:   getEnvAsInt("LOGIN_RATE_LIMIT_MAX_ATTEMPTS", 5),
		LoginRateLimitWindowSeconds: getEnvAsInt("LOGIN_RATE_LIMIT_WINDOW_SECONDS", 300),
		LoginRateLimitBlockMinutes:  getEnvAsInt("LOGIN_RATE_LIMIT_BLOCK_MINUTES", 30),

		// Password reset rate limiting
		PasswordResetMaxAttempts:   getEnvAsInt("PASSWORD_RESET_MAX_ATTEMPTS", 3),
		PasswordResetWindowMinutes: getEnvAsInt("PASSWORD_RESET_WINDOW_MINUTES", 60),
		PasswordResetBlockHours:    getEnvAsInt("PASSWORD_RESET_BLOCK_HOURS", 24),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets environment variable as integer with default value
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

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			values = append(values, v)
		}
	}
	return values
}
