package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/wecare/hospitalbot/pkg/errors"
)

// LLM provider names
const (
	ProviderGoogleAI = "googleai"
	ProviderOpenAI   = "openai"
)

// Cost estimate policies
const (
	CostPolicyAllDiseases   = "all_diseases"
	CostPolicySingleDisease = "single_disease"
	CostPolicyNone          = "none"
)

// Config holds all application configuration
type Config struct {
	API      APIConfig
	LLM      LLMConfig
	OpenAI   OpenAIConfig
	Fetcher  FetcherConfig
	Location LocationConfig
	Chat     ChatConfig
	Redis    RedisConfig
	OTEL     OTELConfig
	Log      LogConfig
}

// APIConfig holds We Care API configuration
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// LLMConfig holds the completion provider selection
type LLMConfig struct {
	Provider     string
	GoogleAPIKey string
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey         string
	Model          string
	RateLimitRPM   int
	RateLimitBurst int
}

// FetcherConfig holds hospital fetch and cost estimate configuration
type FetcherConfig struct {
	PageSize        int
	MaxPages        int
	CostPolicy      string
	CostDiseaseID   int
	CostConcurrency int
	CostRPS         float64
}

// LocationConfig holds the static user location used for nearest ordering
type LocationConfig struct {
	Provinsi  string
	Kota      string
	Kecamatan string
}

// ChatConfig holds interactive driver configuration
type ChatConfig struct {
	Category string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled         bool
	Host            string
	Port            int
	Password        string
	DB              int
	CacheTTLSeconds int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// LogConfig holds logger configuration
type LogConfig struct {
	Env   string
	Level string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			BaseURL:        getEnv("WECARE_API_URL", "https://api-we-care.vercel.app"),
			TimeoutSeconds: getEnvAsInt("WECARE_API_TIMEOUT_SECONDS", 10),
		},
		LLM: LLMConfig{
			Provider:     strings.ToLower(getEnv("LLM_PROVIDER", ProviderGoogleAI)),
			GoogleAPIKey: getEnv("GOOGLE_API_KEY", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			RateLimitRPM:   getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
		},
		Fetcher: FetcherConfig{
			PageSize:        getEnvAsInt("HOSPITAL_PAGE_SIZE", 100),
			MaxPages:        getEnvAsInt("HOSPITAL_MAX_PAGES", 50),
			CostPolicy:      strings.ToLower(getEnv("COST_ESTIMATE_POLICY", CostPolicyAllDiseases)),
			CostDiseaseID:   getEnvAsInt("COST_ESTIMATE_DISEASE_ID", 1),
			CostConcurrency: getEnvAsInt("COST_ESTIMATE_CONCURRENCY", 4),
			CostRPS:         getEnvAsFloat("COST_ESTIMATE_RPS", 0),
		},
		Location: LocationConfig{
			Provinsi:  getEnv("USER_PROVINSI", "DKI Jakarta"),
			Kota:      getEnv("USER_KOTA", "Jakarta Selatan"),
			Kecamatan: getEnv("USER_KECAMATAN", "Kebayoran Baru"),
		},
		Chat: ChatConfig{
			Category: getEnv("HOSPITAL_CATEGORY", "terdekat"),
		},
		Redis: RedisConfig{
			Enabled:         getEnvAsBool("REDIS_ENABLED", false),
			Host:            getEnv("REDIS_HOST", "localhost"),
			Port:            getEnvAsInt("REDIS_PORT", 6379),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			CacheTTLSeconds: getEnvAsInt("HOSPITAL_CACHE_TTL_SECONDS", 300),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "hospitalbot"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Log: LogConfig{
			Env:   getEnv("APP_ENV", "development"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case ProviderGoogleAI:
		if c.LLM.GoogleAPIKey == "" {
			return apperrors.NewConfigurationError("GOOGLE_API_KEY tidak ditemukan di environment variables")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return apperrors.NewConfigurationError("OPENAI_API_KEY tidak ditemukan di environment variables")
		}
	default:
		return apperrors.NewConfigurationError(fmt.Sprintf("unknown LLM_PROVIDER %q", c.LLM.Provider))
	}

	switch c.Fetcher.CostPolicy {
	case CostPolicyAllDiseases, CostPolicySingleDisease, CostPolicyNone:
	default:
		return apperrors.NewConfigurationError(fmt.Sprintf("unknown COST_ESTIMATE_POLICY %q", c.Fetcher.CostPolicy))
	}

	switch c.Chat.Category {
	case "terdekat", "biaya_termurah", "pelayanan_terbanyak":
	default:
		return apperrors.NewConfigurationError(fmt.Sprintf("unknown HOSPITAL_CATEGORY %q", c.Chat.Category))
	}

	if strings.TrimSpace(c.API.BaseURL) == "" {
		return apperrors.NewConfigurationError("WECARE_API_URL must not be empty")
	}
	return nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
