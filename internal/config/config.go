package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"contacts-admin/internal/models"
)

const (
	BackendDatabase = "database"
	BackendAPI      = "api"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppPort string

	// Database
	DBDriver          string // mysql or sqlite
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUsername        string
	DBPassword        string
	SQLitePath        string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret       string
	JWTAccessExpire time.Duration

	// Upload
	UploadMaxSize int
	UploadPath    string
	ExportPath    string

	// Import
	// ImportDefaultCategoryID is assigned to every imported contact. Rows cannot
	// override it; making it per-row needs a category lookup during import.
	ImportDefaultCategoryID int
	ImportMaxErrorLines     int

	// Export
	ExportDateLayout string
	ExportFilePrefix string

	// Contact backend: "database" writes through the local repositories,
	// "api" forwards every record to the remote contacts API.
	ContactBackend string

	// Remote contacts API
	ContactAPIBaseURL      string
	ContactAPIToken        string
	ContactAPIClientID     string
	ContactAPIClientSecret string
	ContactAPITokenURL     string
	ContactAPIRateLimitRPS int
	ContactAPITimeout      time.Duration

	// Processing
	WorkerConcurrency int

	// Asynq
	AsynqRedisAddr     string
	AsynqRedisPassword string
	AsynqRedisDB       int

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()
	_ = godotenv.Load("../../.env") // For when running from cmd/web or cmd/worker

	cfg := &Config{
		AppName: getEnv("APP_NAME", "Contacts Admin"),
		AppEnv:  getEnv("APP_ENV", "development"),
		AppPort: getEnv("APP_PORT", "8080"),

		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBHost:            getEnv("DB_HOST", "127.0.0.1"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", "contacts"),
		DBUsername:        getEnv("DB_USERNAME", "root"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		SQLitePath:        getEnv("SQLITE_PATH", "./storage/contacts.db"),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecret:       getEnv("JWT_SECRET", "change-this-secret-key"),
		JWTAccessExpire: getEnvAsDuration("JWT_ACCESS_EXPIRE", 24*time.Hour),

		UploadMaxSize: getEnvAsInt("UPLOAD_MAX_SIZE", 10*1024*1024), // 10MB
		UploadPath:    getEnv("UPLOAD_PATH", "./storage/uploads"),
		ExportPath:    getEnv("EXPORT_PATH", "./storage/exports"),

		ImportDefaultCategoryID: getEnvAsInt("IMPORT_DEFAULT_CATEGORY_ID", models.DefaultImportCategoryID),
		ImportMaxErrorLines:     getEnvAsInt("IMPORT_MAX_ERROR_LINES", models.MaxReportErrorLines),

		ExportDateLayout: getEnv("EXPORT_DATE_LAYOUT", "02.01.2006"),
		ExportFilePrefix: getEnv("EXPORT_FILE_PREFIX", "Kisiler"),

		ContactBackend: strings.ToLower(getEnv("CONTACT_BACKEND", BackendDatabase)),

		ContactAPIBaseURL:      getEnv("CONTACT_API_BASE_URL", "http://localhost:3000/api"),
		ContactAPIToken:        getEnv("CONTACT_API_TOKEN", ""),
		ContactAPIClientID:     getEnv("CONTACT_API_CLIENT_ID", ""),
		ContactAPIClientSecret: getEnv("CONTACT_API_CLIENT_SECRET", ""),
		ContactAPITokenURL:     getEnv("CONTACT_API_TOKEN_URL", ""),
		ContactAPIRateLimitRPS: getEnvAsInt("CONTACT_API_RATE_LIMIT_RPS", 10),
		ContactAPITimeout:      getEnvAsDuration("CONTACT_API_TIMEOUT", 30*time.Second),

		WorkerConcurrency: getEnvAsInt("WORKER_CONCURRENCY", 2),

		AsynqRedisAddr:     getEnv("ASYNQ_REDIS_ADDR", "127.0.0.1:6379"),
		AsynqRedisPassword: getEnv("ASYNQ_REDIS_PASSWORD", ""),
		AsynqRedisDB:       getEnvAsInt("ASYNQ_REDIS_DB", 0),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want mysql or sqlite)", c.DBDriver)
	}

	switch c.ContactBackend {
	case BackendDatabase, BackendAPI:
	default:
		return fmt.Errorf("unsupported CONTACT_BACKEND %q (want %s or %s)", c.ContactBackend, BackendDatabase, BackendAPI)
	}

	if c.UploadMaxSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_SIZE must be positive")
	}
	if c.ImportMaxErrorLines <= 0 {
		return fmt.Errorf("IMPORT_MAX_ERROR_LINES must be positive")
	}
	return nil
}

func (c *Config) GetDSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Local",
		c.DBUsername,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBDatabase,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
