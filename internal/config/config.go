package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Env           string
	HTTPAddr      string
	DatabaseURL   string
	JWTSecret     string
	AdminLogin    string
	AdminPassword string
	AdminPassHash string
	BaseURL       string
	S3            S3Config
	OCR           OCRConfig
	LLM           LLMConfig
	Logging       LoggingConfig
}

type S3Config struct {
	Endpoint       string
	PublicEndpoint string
	Bucket         string
	AccessKey      string
	SecretKey      string
	Region         string
	UseSSL         bool
}

// OCRConfig points at the external image-to-text service.
type OCRConfig struct {
	Endpoint string
	APIKey   string
}

// LLMConfig gates the generative extraction fallback; empty key disables it.
type LLMConfig struct {
	APIKey string
	Model  string
}

type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:           getenv("APP_ENV", "dev"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminLogin:    os.Getenv("ADMIN_LOGIN"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminPassHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		BaseURL:       getenv("BASE_URL", ""),
		S3: S3Config{
			Endpoint:       os.Getenv("S3_ENDPOINT"),
			PublicEndpoint: os.Getenv("S3_PUBLIC_ENDPOINT"),
			Bucket:         os.Getenv("S3_BUCKET"),
			AccessKey:      os.Getenv("S3_ACCESS_KEY"),
			SecretKey:      os.Getenv("S3_SECRET_KEY"),
			Region:         getenv("S3_REGION", "ap-southeast-1"),
			UseSSL:         getenvBool("S3_USE_SSL", true),
		},
		OCR: OCRConfig{
			Endpoint: os.Getenv("OCR_ENDPOINT"),
			APIKey:   os.Getenv("OCR_API_KEY"),
		},
		LLM: LLMConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  getenv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Logging: LoggingConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "text"),
			File:   os.Getenv("LOG_FILE"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return parsed
}
