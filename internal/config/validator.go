package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// supportedProviders провайдеры, которые принимает валидация
var supportedProviders = map[string]bool{
	"groq":        true,
	"openai":      true,
	"deepseek":    true,
	"together":    true,
	"huggingface": true,
	"openrouter":  true,
	"ollama":      true,
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	// Валидация порта
	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	// Валидация базы данных
	if c.DatabasePath == "" {
		errors = append(errors, "database path is required")
	}
	if c.MaxOpenConns < 1 {
		errors = append(errors, "max open connections must be at least 1")
	}
	if c.MaxIdleConns < 1 {
		errors = append(errors, "max idle connections must be at least 1")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		errors = append(errors, "max idle connections cannot be greater than max open connections")
	}
	if c.ConnMaxLifetime < time.Second {
		errors = append(errors, "connection max lifetime must be at least 1 second")
	}

	// Валидация LLM
	if !supportedProviders[c.LLMProvider] {
		errors = append(errors, fmt.Sprintf("unsupported LLM provider: %s", c.LLMProvider))
	}
	if c.LLMTimeout < time.Second {
		errors = append(errors, "LLM timeout must be at least 1 second")
	}
	if c.LLMRatePerSecond <= 0 {
		errors = append(errors, "LLM rate per second must be positive")
	}
	if c.ExtractionWorkers < 1 {
		errors = append(errors, "extraction workers must be at least 1")
	}

	// Валидация уровня логирования
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level: %s", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errors, "; "))
	}
	return nil
}
