package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAIBaseURL = "https://openrouter.ai/api/v1"
	DefaultAIModel   = "google/gemini-2.0-flash-001"

	// placeholderAPIKey lets the service boot without credentials; the
	// provider rejects it, which surfaces as generation unavailable.
	placeholderAPIKey = "dummy-key-for-build"

	// MaxRetryInterval caps the pause between completion retries. The
	// randomized pause can reach one and a half times this.
	MaxRetryInterval = 2 * time.Second
)

type Config struct {
	// API Configuration
	APIPort string
	APIHost string

	// Database
	DatabaseURL       string
	PerformanceSource string

	// Text generation
	AIAPIKey     string
	AIBaseURL    string
	AIModel      string
	AITimeout    time.Duration
	AIRetry      bool
	AIMaxRetries int

	// Limits
	GenerateRatePerMinute int
	MaxUploadBytes        int64

	// Kafka
	KafkaBrokers string
	KafkaTopic   string
	KafkaGroupID string

	// Chat
	ChatScriptPath string

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		APIPort:               getEnv("API_PORT", "8080"),
		APIHost:               getEnv("API_HOST", "0.0.0.0"),
		DatabaseURL:           getEnv("DATABASE_URL", "sqlite://file::memory:?cache=shared"),
		PerformanceSource:     getEnv("PERFORMANCE_SOURCE", "static"),
		AIAPIKey:              firstEnv([]string{"OPENROUTER_API_KEY", "OPENAI_API_KEY"}, placeholderAPIKey),
		AIBaseURL:             strings.TrimRight(getEnv("AI_BASE_URL", DefaultAIBaseURL), "/"),
		AIModel:               getEnv("AI_MODEL", DefaultAIModel),
		AITimeout:             time.Duration(getEnvAsInt("AI_TIMEOUT_SECONDS", 30)) * time.Second,
		AIRetry:               getEnvAsBool("AI_RETRY", false),
		AIMaxRetries:          getEnvAsInt("AI_MAX_RETRIES", 3),
		GenerateRatePerMinute: getEnvAsInt("GENERATE_RATE_PER_MINUTE", 30),
		MaxUploadBytes:        int64(getEnvAsInt("MAX_UPLOAD_BYTES", 10<<20)),
		KafkaBrokers:          getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:            getEnv("KAFKA_TOPIC", "variant-deployments"),
		KafkaGroupID:          getEnv("KAFKA_GROUP_ID", "adspark-worker"),
		ChatScriptPath:        getEnv("CHAT_SCRIPT_PATH", ""),
		Env:                   getEnv("ENV", "development"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Brokers splits the comma separated KAFKA_BROKERS value.
func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// GenerationBudget is the longest one completion call may take, retries
// included.
func (c *Config) GenerationBudget() time.Duration {
	if !c.AIRetry {
		return c.AITimeout
	}
	return RetryBudget(c.AITimeout, c.AIMaxRetries)
}

// RetryBudget covers maxTries attempts of timeout each plus the longest
// pauses between them.
func RetryBudget(timeout time.Duration, maxTries int) time.Duration {
	if maxTries < 1 {
		maxTries = 1
	}
	pause := MaxRetryInterval * 3 / 2
	return time.Duration(maxTries)*timeout + time.Duration(maxTries-1)*pause
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys []string, defaultValue string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}

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
