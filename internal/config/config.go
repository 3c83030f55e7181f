package config

import (
	"os"
	"strconv"
	"strings"
)

// StoreConfig holds settings for the categorized local file store.
type StoreConfig struct {
	// RootDir is the upload root; one subdirectory per category lives below it.
	RootDir string
	// Categories is the closed set of valid category ("system") names.
	Categories []string
	// MaxUploadBytes is the single-file size ceiling enforced by the upload gate.
	MaxUploadBytes int64
	// BatchWorkers caps concurrency of batch delete and bulk download loops.
	BatchWorkers int
	// ThumbnailSize is the square edge length of generated previews, in pixels.
	ThumbnailSize int
}

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings used by the bulk download tooling.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	Store       StoreConfig
	Database    DatabaseConfig
	ObjectStore MinIOConfig
}

// defaultCategories mirrors the fixed set of systems the frontend knows about.
var defaultCategories = []string{
	"TQM", "RD_Nexus", "DCO", "KPI", "SPEC", "WAR_ROOM", "APPRAISAL", "ELEC_SPEC",
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Store: StoreConfig{
			RootDir:        getEnv("UPLOAD_DIR", "uploads"),
			Categories:     getEnvList("UPLOAD_CATEGORIES", defaultCategories),
			MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 50<<20),
			BatchWorkers:   getEnvInt("BATCH_WORKERS", 3),
			ThumbnailSize:  getEnvInt("THUMBNAIL_SIZE", 200),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		ObjectStore: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList parses a comma-separated env value, trimming whitespace around items.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
