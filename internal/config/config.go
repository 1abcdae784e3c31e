package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the configuration for the application.
type Config struct {
	GeminiAPIKey string
	GroqAPIKey   string
	USDAAPIKey   string

	DBPath  string
	LogMode string

	// Telegram Config (required for the bot entrypoint only)
	TelegramBotToken    string
	TelegramWebhookURL  string
	TelegramAllowUserID int64

	// Default grocery prices per kg, used by the cost estimator.
	DefaultProteinCost   float64
	DefaultVegetableCost float64
	DefaultGrainCost     float64
	DefaultDairyCost     float64

	// Planning defaults.
	DefaultDays       int
	DefaultMaxRetries int
}

// NewFromEnv creates a new Config object from environment variables.
//
// The LLM and USDA keys are optional: without them the planner falls back to
// the deterministic recipe library and the bundled nutrition table.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		USDAAPIKey:   os.Getenv("USDA_API_KEY"),

		DBPath:  envOrDefault("MEALMIND_DB_PATH", "data/mealmind.db"),
		LogMode: envOrDefault("LOG_MODE", "dev"),

		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	var err error
	if cfg.DefaultProteinCost, err = envFloat("DEFAULT_PROTEIN_COST", 15.0); err != nil {
		return nil, err
	}
	if cfg.DefaultVegetableCost, err = envFloat("DEFAULT_VEGETABLE_COST", 5.0); err != nil {
		return nil, err
	}
	if cfg.DefaultGrainCost, err = envFloat("DEFAULT_GRAIN_COST", 3.0); err != nil {
		return nil, err
	}
	if cfg.DefaultDairyCost, err = envFloat("DEFAULT_DAIRY_COST", 8.0); err != nil {
		return nil, err
	}
	if cfg.DefaultDays, err = envInt("DEFAULT_PLAN_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.DefaultMaxRetries, err = envInt("DEFAULT_MAX_RETRIES", 3); err != nil {
		return nil, err
	}

	if idStr := os.Getenv("TELEGRAM_ALLOW_USER_ID"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOW_USER_ID %q: %w", idStr, err)
		}
		cfg.TelegramAllowUserID = id
	}

	return cfg, nil
}

// RequireTelegram validates the variables the bot entrypoint cannot run without.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
