package config

import (
	"os"
	"strconv"

	"surveyscope/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	AI       AIConfig
	Server   ServerConfig
	Storage  StorageConfig
	Analysis AnalysisConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// AIConfig holds LLM and image generation settings
type AIConfig struct {
	OpenAIKey     string
	OpenAIModel   string
	ImageModel    string
	SystemContext string
	MaxTokens     int
	Temperature   float64
	PromptsDir    string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// StorageConfig holds generated-artifact storage settings
type StorageConfig struct {
	DataDir string
	BaseURL string
}

// AnalysisConfig holds analysis run settings
type AnalysisConfig struct {
	// MinResponses is the smallest response count worth analyzing.
	MinResponses int
	// Workers caps concurrent per-question interpretation calls.
	Workers int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		AI: AIConfig{
			OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:   getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
			ImageModel:    getEnvOrDefault("IMAGE_MODEL", "dall-e-3"),
			SystemContext: "أنت محلل تربوي متخصص في تحليل نتائج الاستبيانات التعليمية",
			MaxTokens:     getEnvIntOrDefault("MAX_TOKENS", 4000),
			Temperature:   getEnvFloatOrDefault("TEMPERATURE", 1.0),
			PromptsDir:    getEnvOrDefault("PROMPTS_DIR", "./prompts"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Storage: StorageConfig{
			DataDir: getEnvOrDefault("DATA_DIR", "./data"),
			BaseURL: getEnvOrDefault("ARTIFACT_BASE_URL", "/artifacts"),
		},
		Analysis: AnalysisConfig{
			MinResponses: getEnvIntOrDefault("MIN_RESPONSES", 5),
			Workers:      getEnvIntOrDefault("ANALYSIS_WORKERS", 4),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if cfg.AI.OpenAIKey == "" {
		return errors.ConfigInvalid("OPENAI_API_KEY is required")
	}
	if cfg.Analysis.MinResponses < 1 {
		return errors.ConfigInvalid("MIN_RESPONSES must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
