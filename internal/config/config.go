package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Remote model
	GeminiAPIKey     string
	GeminiModelID    string
	ModelTimeout     time.Duration
	SentimentTimeout time.Duration

	// Conversation
	DefaultLanguage string

	// Transcript storage
	UseRedisTranscripts bool
	RedisAddr           string
	RedisPassword       string
	RedisTLS            bool
	TranscriptTTL       time.Duration

	// Appointment persistence sink
	AppointmentsFile  string
	AppointmentLogURL string
	RecorderBuffer    int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),

		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:    getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		ModelTimeout:     getEnvAsDuration("MODEL_TIMEOUT", 30*time.Second),
		SentimentTimeout: getEnvAsDuration("SENTIMENT_TIMEOUT", 20*time.Second),

		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en-IN"),

		UseRedisTranscripts: getEnvAsBool("USE_REDIS_TRANSCRIPTS", false),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisTLS:            getEnvAsBool("REDIS_TLS", false),
		TranscriptTTL:       getEnvAsDuration("TRANSCRIPT_TTL", 24*time.Hour),

		AppointmentsFile:  getEnv("APPOINTMENTS_FILE", "appointments.json"),
		AppointmentLogURL: getEnv("APPOINTMENT_LOG_URL", ""),
		RecorderBuffer:    getEnvAsInt("RECORDER_BUFFER", 16),
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

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
