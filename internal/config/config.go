package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	NotebookLM NotebookLMConfig
	Refresh    RefreshConfig
	Batch      BatchConfig
	Cache      CacheConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection string
}

type NotebookLMConfig struct {
	BridgeURL       string
	AuthJSON        string // browser storage state; empty means no session
	RequestTimeout  time.Duration
	MaxAttempts     int
	RetryDelay      time.Duration
	ContextChars    int
	NotebookBaseURL string
}

// RefreshConfig points at the host running the logged-in browser.
type RefreshConfig struct {
	Host              string
	User              string
	PrivateKey        string
	HostKey           string // authorized_keys line; empty skips verification
	ExtractCommand    string
	DialTimeout       time.Duration
	CommandTimeout    time.Duration
	KeepaliveInterval time.Duration
	KeepaliveDelay    time.Duration
}

type BatchConfig struct {
	Topic        string
	DefaultDelay time.Duration
	MaxDelay     time.Duration
}

type CacheConfig struct {
	FulltextTTL time.Duration
	ExportTTL   time.Duration
}

func (c RefreshConfig) Enabled() bool {
	return c.Host != "" && c.PrivateKey != ""
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		NotebookLM: NotebookLMConfig{
			BridgeURL:       getEnv("NOTEBOOKLM_BRIDGE_URL", "http://localhost:8100"),
			AuthJSON:        getEnv("NOTEBOOKLM_AUTH_JSON", ""),
			RequestTimeout:  getEnvAsDuration("NOTEBOOKLM_REQUEST_TIMEOUT", 120*time.Second),
			MaxAttempts:     getEnvAsInt("NOTEBOOKLM_MAX_ATTEMPTS", 2),
			RetryDelay:      getEnvAsDuration("NOTEBOOKLM_RETRY_DELAY", 3*time.Second),
			ContextChars:    getEnvAsInt("NOTEBOOKLM_CONTEXT_CHARS", 300),
			NotebookBaseURL: getEnv("NOTEBOOKLM_NOTEBOOK_URL", "https://notebooklm.google.com/notebook/"),
		},
		Refresh: RefreshConfig{
			Host:              getEnv("REFRESH_SSH_HOST", ""),
			User:              getEnv("REFRESH_SSH_USER", "root"),
			PrivateKey:        getEnv("REFRESH_SSH_PRIVATE_KEY", ""),
			HostKey:           getEnv("REFRESH_SSH_HOST_KEY", ""),
			ExtractCommand:    getEnv("REFRESH_EXTRACT_COMMAND", "python3 /opt/notebooklm/extract_cookies.py"),
			DialTimeout:       getEnvAsDuration("REFRESH_SSH_TIMEOUT", 15*time.Second),
			CommandTimeout:    getEnvAsDuration("REFRESH_COMMAND_TIMEOUT", 30*time.Second),
			KeepaliveInterval: getEnvAsDuration("REFRESH_KEEPALIVE_INTERVAL", 20*time.Minute),
			KeepaliveDelay:    getEnvAsDuration("REFRESH_KEEPALIVE_DELAY", 30*time.Second),
		},
		Batch: BatchConfig{
			Topic:        getEnv("BATCH_TOPIC_NAME", "BATCH_QUERY"),
			DefaultDelay: getEnvAsDuration("BATCH_DEFAULT_DELAY", 2*time.Second),
			MaxDelay:     getEnvAsDuration("BATCH_MAX_DELAY", 30*time.Second),
		},
		Cache: CacheConfig{
			FulltextTTL: getEnvAsDuration("CACHE_FULLTEXT_TTL", 30*time.Minute),
			ExportTTL:   getEnvAsDuration("CACHE_EXPORT_TTL", 24*time.Hour),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("3s", "20m").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
