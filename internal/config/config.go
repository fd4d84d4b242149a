package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"doc-qa-service/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort        string
	LogLevel          string
	LogFormat         string
	Limits            domain.Limits
	GenerationTimeout time.Duration
	GCPProjectID      string
	GCPLocation       string
	GeminiModel       string
	AllowedOrigins    []string
}

// NewConfig creates a new configuration instance with default values.
// It is read once at startup; nothing mutates it afterwards.
func NewConfig() domain.Config {
	defaults := domain.DefaultLimits()
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort: getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "3000")),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:  getEnvOrDefault("LOG_FORMAT", "json"),
		Limits: domain.Limits{
			MaxQuestions:     getEnvPositiveIntOrDefault("MAX_QUESTIONS", defaults.MaxQuestions),
			MaxPDFPages:      getEnvPositiveIntOrDefault("MAX_PDF_PAGES", defaults.MaxPDFPages),
			MaxFileSize:      getEnvInt64OrDefault("MAX_FILE_SIZE", defaults.MaxFileSize),
			MaxDocumentChars: getEnvPositiveIntOrDefault("MAX_DOCUMENT_CHARS", defaults.MaxDocumentChars),
		},
		GenerationTimeout: getEnvDurationOrDefault("GENERATION_TIMEOUT", 60*time.Second),
		GCPProjectID:      getEnvOrDefault("GCP_PROJECT_ID", ""),
		GCPLocation:       getEnvOrDefault("GCP_LOCATION", "us-central1"),
		GeminiModel:       getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash-001"),
		AllowedOrigins:    getEnvListOrDefault("ALLOWED_ORIGINS", []string{"*"}),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetLogFormat returns "json" or "console"
func (c *AppConfig) GetLogFormat() string {
	return c.LogFormat
}

// GetLimits returns the per-request input limits
func (c *AppConfig) GetLimits() domain.Limits {
	return c.Limits
}

// GetGenerationTimeout returns how long one generator call may take
func (c *AppConfig) GetGenerationTimeout() time.Duration {
	return c.GenerationTimeout
}

// GetGCPProjectID returns the Vertex AI project; empty disables Vertex AI
func (c *AppConfig) GetGCPProjectID() string {
	return c.GCPProjectID
}

// GetGCPLocation returns the Vertex AI region
func (c *AppConfig) GetGCPLocation() string {
	return c.GCPLocation
}

// GetGeminiModel returns the generative model name
func (c *AppConfig) GetGeminiModel() string {
	return c.GeminiModel
}

// GetAllowedOrigins returns the CORS origin allow-list
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvPositiveIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
