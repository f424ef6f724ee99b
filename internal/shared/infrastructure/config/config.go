package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/saransh1220/coursehub/internal/shared/infrastructure/database"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Database    database.PostgresConfig
	Redis       database.RedisConfig
	JWT         JWTConfig
	Auth        AuthConfig
	Payment     PaymentConfig
	Mail        MailConfig
	FileStorage FileStorageConfig
	Google      GoogleConfig
	Jobs        JobsConfig
}

// GoogleConfig holds Google OAuth configuration
type GoogleConfig struct {
	ClientID string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins string
	MigrationsPath string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	ShutdownGrace  time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// AuthConfig holds account policy settings
type AuthConfig struct {
	// AdminEmails are granted the admin role when they register or first sign in.
	AdminEmails []string
}

// PaymentConfig selects the payment gateway and carries its credentials
type PaymentConfig struct {
	Provider string // "paypal" or "razorpay"
	Currency string
	PayPal   PayPalConfig
	Razorpay RazorpayConfig
}

// PayPalConfig holds PayPal REST credentials
type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	Environment  string
	BaseURL      string
}

// RazorpayConfig holds Razorpay payment gateway configuration
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

// MailConfig holds transactional email settings
type MailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

// FileStorageConfig holds file storage configuration
type FileStorageConfig struct {
	UseS3            bool
	S3Region         string
	S3Endpoint       string
	S3PublicEndpoint string
	S3AccessKey      string
	S3SecretKey      string
	S3BucketName     string
	S3UseSSL         bool
	LocalPath        string
	PublicBaseURL    string
}

// JobsConfig holds background job schedules
type JobsConfig struct {
	ReconcileSchedule string
	ReconcileBatch    int
}

const (
	PayPalSandboxURL = "https://api-m.sandbox.paypal.com"
	PayPalLiveURL    = "https://api-m.paypal.com"
)

// LoadDotEnv loads a .env file if one exists
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
}

// Load reads configuration from environment variables
func Load() Config {
	paypalEnv := strings.ToLower(getEnv("PAYPAL_ENVIRONMENT", "sandbox"))

	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "db/migrations"),
			ReadTimeout:    parseDuration(getEnv("HTTP_READ_TIMEOUT", ""), 15*time.Second),
			WriteTimeout:   parseDuration(getEnv("HTTP_WRITE_TIMEOUT", ""), 15*time.Second),
			ShutdownGrace:  parseDuration(getEnv("SHUTDOWN_GRACE", ""), 20*time.Second),
		},
		Database: database.PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "coursehub"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxOpenConns:    parseInt(getEnv("DB_MAX_OPEN_CONNS", ""), 0),
			MaxIdleConns:    parseInt(getEnv("DB_MAX_IDLE_CONNS", ""), 0),
			ConnMaxLifetime: parseDuration(getEnv("DB_CONN_MAX_LIFETIME", ""), 0),
		},
		Redis: database.RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseNonNegative(getEnv("REDIS_DB", ""), 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "default-dev-secret"),
			Expiry: parseDuration(getEnv("JWT_EXPIRATION", "24h"), 24*time.Hour),
		},
		Auth: AuthConfig{
			AdminEmails: splitList(getEnv("ADMIN_EMAILS", "")),
		},
		Payment: PaymentConfig{
			Provider: strings.ToLower(getEnv("PAYMENT_PROVIDER", "paypal")),
			Currency: getEnv("PAYMENT_CURRENCY", "USD"),
			PayPal: PayPalConfig{
				ClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
				ClientSecret: getEnv("PAYPAL_CLIENT_SECRET", ""),
				Environment:  paypalEnv,
				BaseURL:      getEnv("PAYPAL_BASE_URL", paypalBaseURL(paypalEnv)),
			},
			Razorpay: RazorpayConfig{
				KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
				KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
			},
		},
		Mail: MailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromEmail:      getEnv("MAIL_FROM_EMAIL", "no-reply@coursehub.local"),
			FromName:       getEnv("MAIL_FROM_NAME", "CourseHub"),
		},
		FileStorage: FileStorageConfig{
			UseS3:            getEnv("USE_S3", "false") == "true",
			S3Region:         getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:       getEnv("S3_ENDPOINT", ""),
			S3PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", getEnv("S3_ENDPOINT", "")),
			S3AccessKey:      getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey:      getEnv("S3_SECRET_KEY", ""),
			S3BucketName:     getEnv("S3_BUCKET", ""),
			S3UseSSL:         getEnv("S3_USE_SSL", "true") == "true",
			LocalPath:        getEnv("LOCAL_STORAGE_PATH", "./uploads"),
			PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "/uploads"),
		},
		Google: GoogleConfig{
			ClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		},
		Jobs: JobsConfig{
			ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", "@every 10m"),
			ReconcileBatch:    parseInt(getEnv("RECONCILE_BATCH", "100"), 100),
		},
	}
}

func paypalBaseURL(environment string) string {
	if environment == "live" {
		return PayPalLiveURL
	}
	return PayPalSandboxURL
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration string or returns a default value
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}

// parseInt parses a positive integer or returns a default value
func parseInt(value string, defaultValue int) int {
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func parseNonNegative(value string, defaultValue int) int {
	if n, err := strconv.Atoi(value); err == nil && n >= 0 {
		return n
	}
	return defaultValue
}

// splitList splits a comma separated value, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
