package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	DatabaseURL     string
	Env             string

	LLMProvider     string
	LLMModel        string
	LLMBaseURL      string
	OpenAIAPIKey    string
	GroqAPIKey      string
	AnthropicAPIKey string
	OracleTimeout   time.Duration
	OracleRate      float64
	OracleBurst     int

	RedisURL      string
	RoundCacheTTL time.Duration

	// AnswerRatePerSecond and AnswerBurst bound answer submissions per user; 0 disables the limit.
	AnswerRatePerSecond float64
	AnswerBurst         int
}

// Defaults for oracle calls and caching.
const (
	DefaultOracleTimeout = 20 * time.Second
	DefaultRoundCacheTTL = 24 * time.Hour
)

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience. Existing env wins.
	for _, path := range []string{".env", "cmd/.env"} {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			log.Printf("config: skipping %s: %v", path, err)
		}
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:     dbURL,
		Env:             env,

		LLMProvider:     NormalizeProvider(getEnv("LLM_PROVIDER", "none")),
		LLMModel:        getEnv("LLM_MODEL", ""),
		LLMBaseURL:      getEnv("LLM_BASE_URL", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OracleTimeout:   time.Duration(getInt("ORACLE_TIMEOUT_SECONDS", int(DefaultOracleTimeout/time.Second))) * time.Second,
		OracleRate:      getFloat("ORACLE_RATE_PER_SECOND", 0),
		OracleBurst:     getInt("ORACLE_BURST", 1),

		RedisURL:      getEnv("REDIS_URL", ""),
		RoundCacheTTL: getDuration("ROUND_CACHE_TTL", DefaultRoundCacheTTL),

		AnswerRatePerSecond: getFloat("ANSWER_RATE_PER_SECOND", 1),
		AnswerBurst:         getInt("ANSWER_BURST", 5),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config: %s invalid number: %v", key, err)
		return def
	}
	return val
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config: %s invalid duration: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

// NormalizeProvider maps LLM_PROVIDER to openai, groq, anthropic or none.
func NormalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "groq":
		return "groq"
	case "anthropic", "claude":
		return "anthropic"
	default:
		return "none"
	}
}
