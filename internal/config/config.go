package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Env      string
	LogLevel string

	// AWS / record store
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	RecordsTable        string

	// Translation providers
	BedrockModelID string
	GeminiAPIKey   string
	GeminiModelID  string
	PreferGemini   bool
	MaxRetries     int
	TranslateDelay time.Duration

	// Import behavior
	ImportMode    string
	BatchSize     int
	RecordDelay   time.Duration
	BatchDelay    time.Duration
	DryRun        bool
	SourceURLBase string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		RecordsTable:        getEnv("CONVERSATION_RECORDS_TABLE", "conversation-records"),

		BedrockModelID: getEnv("BEDROCK_MODEL_ID", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:  getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		PreferGemini:   getEnvAsBool("PREFER_GEMINI", true),
		MaxRetries:     getEnvAsInt("MAX_RETRIES", 3),
		TranslateDelay: getEnvAsDuration("TRANSLATE_DELAY", 100*time.Millisecond),

		ImportMode:    strings.ToLower(strings.TrimSpace(getEnv("IMPORT_MODE", "update"))),
		BatchSize:     getEnvAsInt("BATCH_SIZE", 10),
		RecordDelay:   getEnvAsDuration("RECORD_DELAY", 100*time.Millisecond),
		BatchDelay:    getEnvAsDuration("BATCH_DELAY", time.Second),
		DryRun:        getEnvAsBool("DRY_RUN", false),
		SourceURLBase: getEnv("SOURCE_URL_BASE", "https://claude.ai/chat/"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
