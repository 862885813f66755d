package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Razorpay gateway
	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string

	// Collaborator services
	CatalogBaseURL  string
	RegistryBaseURL string

	// Events
	RabbitMQURL   string
	EventExchange string

	// Auth
	JWTSecret string

	// Database
	DatabaseURL string

	// Pricing
	Currency string
	GSTPct   float64

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	cfg := &Config{
		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		RazorpayBaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),

		CatalogBaseURL:  getEnv("CATALOG_BASE_URL", ""),
		RegistryBaseURL: getEnv("REGISTRY_BASE_URL", ""),

		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),
		EventExchange: getEnv("EVENT_EXCHANGE", "commerce.events"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Currency: getEnv("CURRENCY", "INR"),
		GSTPct:   getEnvFloat("GST_PCT", 18),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.RazorpayKeyID == "" {
		return fmt.Errorf("RAZORPAY_KEY_ID is required")
	}
	if c.RazorpayKeySecret == "" {
		return fmt.Errorf("RAZORPAY_KEY_SECRET is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.GSTPct < 0 || c.GSTPct > 100 {
		return fmt.Errorf("GST_PCT must be between 0 and 100")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
