package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config конфигурация сервера сравнения котировок
type Config struct {
	// Сервер
	Port string `json:"port"`

	// База данных
	DatabasePath    string        `json:"database_path"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// LLM конфигурация
	LLMProvider       string        `json:"llm_provider"`
	LLMModel          string        `json:"llm_model"`
	LLMAPIKey         string        `json:"-"`
	LLMBaseURL        string        `json:"llm_base_url"`
	LLMTimeout        time.Duration `json:"llm_timeout"`
	LLMRatePerSecond  float64       `json:"llm_rate_per_second"`
	RecommendEnabled  bool          `json:"recommend_enabled"`
	ExtractionWorkers int           `json:"extraction_workers"`

	// Логирование
	LogLevel string `json:"log_level"`
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	config := &Config{
		Port: getEnv("SERVER_PORT", "8080"),

		DatabasePath:    getEnv("DATABASE_PATH", "quotations.db"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 3),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		LLMProvider:       getEnv("LLM_PROVIDER", "groq"),
		LLMModel:          os.Getenv("LLM_MODEL"),
		LLMAPIKey:         os.Getenv("LLM_API_KEY"),
		LLMBaseURL:        os.Getenv("LLM_BASE_URL"),
		LLMTimeout:        getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		LLMRatePerSecond:  getEnvFloat("LLM_RATE_PER_SECOND", 2.0),
		RecommendEnabled:  getEnv("RECOMMEND_ENABLED", "true") == "true",
		ExtractionWorkers: getEnvInt("EXTRACTION_WORKERS", 4),

		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	// Ключ провайдера берется и из провайдер-специфичной переменной
	if config.LLMAPIKey == "" {
		config.LLMAPIKey = providerAPIKey(config.LLMProvider)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// providerAPIKey возвращает ключ из переменной окружения провайдера
// (GROQ_API_KEY, OPENAI_API_KEY и т.д.)
func providerAPIKey(provider string) string {
	switch provider {
	case "groq":
		return os.Getenv("GROQ_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "deepseek":
		return os.Getenv("DEEPSEEK_API_KEY")
	case "together":
		return os.Getenv("TOGETHER_API_KEY")
	case "huggingface":
		return os.Getenv("HUGGINGFACE_API_KEY")
	case "openrouter":
		return os.Getenv("OPENROUTER_API_KEY")
	}
	return ""
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64 или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
