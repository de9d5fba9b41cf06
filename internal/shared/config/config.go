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
	Env             string
	CORSAllowOrigin []string
	LogLevel        string
	LogFile         string

	DatabaseURL string
	SQLitePath  string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	LLMProvider       string
	LLMModel          string
	LLMBaseURL        string
	OpenAIAPIKey      string
	AnthropicAPIKey   string
	LLMAPIKey         string
	EnrichmentTimeout time.Duration
	LLMRPM            int
	LLMBurst          int

	RedisAddr string
	CacheTTL  time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	ChromePath string
}

// Load reads configuration from an optional YAML file named by CONFIG_FILE and
// environment variables, which take precedence.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	for _, path := range []string{".env", "cmd/.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				log.Printf("load %s: %v", path, err)
			}
		}
	}

	var file fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := loadFile(path)
		if err != nil {
			log.Printf("load config file %s: %v", path, err)
		} else {
			file = loaded
		}
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	if env == "production" && dbURL == "" && os.Getenv("SQLITE_PATH") == "" {
		log.Printf("DATABASE_URL or SQLITE_PATH is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		LogLevel:        getEnv("LOG_LEVEL", or(file.Log.Level, "info")),
		LogFile:         getEnv("LOG_FILE", file.Log.File),

		DatabaseURL: dbURL,
		SQLitePath:  getEnv("SQLITE_PATH", ""),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", or(file.Storage.Type, "local"))),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", or(file.Storage.LocalDir, "./data")),
		AWSRegion:       getEnv("AWS_REGION", file.Storage.Region),
		S3Bucket:        getEnv("S3_BUCKET", file.Storage.Bucket),
		S3Prefix:        getEnv("S3_PREFIX", file.Storage.Prefix),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		LLMProvider:       normalizeProvider(getEnv("LLM_PROVIDER", or(file.LLM.Provider, "none"))),
		LLMModel:          getEnv("LLM_MODEL", file.LLM.Model),
		LLMBaseURL:        getEnv("LLM_BASE_URL", file.LLM.BaseURL),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		LLMAPIKey:         getEnv("LLM_API_KEY", file.LLM.APIKey),
		EnrichmentTimeout: getDuration("ENRICHMENT_TIMEOUT", or(file.LLM.Timeout, "30s")),
		LLMRPM:            getInt("LLM_RPM", orInt(file.LLM.RPM, 60)),
		LLMBurst:          getInt("LLM_BURST", orInt(file.LLM.Burst, 1)),

		RedisAddr: getEnv("REDIS_ADDR", file.Cache.RedisAddr),
		CacheTTL:  getDuration("CACHE_TTL", or(file.Cache.TTL, "24h")),

		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 10),

		ChromePath: getEnv("CHROME_PATH", ""),
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
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using %v", key, raw, def)
		return def
	}
	return f
}

func getDuration(key, def string) time.Duration {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, raw, def)
		d, _ = time.ParseDuration(def)
	}
	return d
}

func or(val, def string) string {
	if strings.TrimSpace(val) != "" {
		return val
	}
	return def
}

func orInt(val, def int) int {
	if val != 0 {
		return val
	}
	return def
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
	case "test":
		return "test"
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

func normalizeProvider(raw string) string {
	switch p := strings.ToLower(strings.TrimSpace(raw)); p {
	case "openai", "anthropic", "eino":
		return p
	case "gemini":
		return "eino"
	default:
		return "none"
	}
}
