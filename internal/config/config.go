// Package config carrega a configuração do processo a partir do ambiente
// (com .env opcional em desenvolvimento).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config reúne tudo que o processo precisa do ambiente.
type Config struct {
	Port        string
	DatabaseURL string

	WhatsAppBaseURL  string
	WhatsAppInstance string
	WhatsAppAPIKey   string

	GeminiAPIKey string
	GroqAPIKey   string

	// Fuso usado pelos jobs agendados. Padrão America/Sao_Paulo.
	Timezone *time.Location

	LogLevel string
}

// Load lê o .env (se existir) e monta a configuração. DATABASE_URL e as
// credenciais do WhatsApp são obrigatórias; Gemini e Groq são opcionais
// (sem elas o bot só não entende áudio).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             envOr("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		WhatsAppBaseURL:  os.Getenv("EVOLUTION_API_URL"),
		WhatsAppInstance: os.Getenv("EVOLUTION_INSTANCE"),
		WhatsAppAPIKey:   os.Getenv("EVOLUTION_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.WhatsAppBaseURL == "" || cfg.WhatsAppInstance == "" || cfg.WhatsAppAPIKey == "" {
		return nil, fmt.Errorf("EVOLUTION_API_URL, EVOLUTION_INSTANCE and EVOLUTION_API_KEY are required")
	}

	tzName := envOr("TZ", "America/Sao_Paulo")
	location, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ %q: %w", tzName, err)
	}
	cfg.Timezone = location

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
