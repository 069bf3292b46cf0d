package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Поддерживаемые LLM-провайдеры. Все провайдеры говорят на
// OpenAI-совместимом chat/completions протоколе, различаются только
// базовым URL и моделью по умолчанию.
const (
	ProviderGroq        = "groq"
	ProviderOpenAI      = "openai"
	ProviderDeepSeek    = "deepseek"
	ProviderTogether    = "together"
	ProviderHuggingFace = "huggingface"
	ProviderOpenRouter  = "openrouter"
	ProviderOllama      = "ollama"
)

// providerEndpoint базовый URL и модель по умолчанию одного провайдера
type providerEndpoint struct {
	baseURL      string
	defaultModel string
}

var providerEndpoints = map[string]providerEndpoint{
	ProviderGroq:        {"https://api.groq.com/openai/v1", "llama-3.3-70b-versatile"},
	ProviderOpenAI:      {"https://api.openai.com/v1", "gpt-4o-mini"},
	ProviderDeepSeek:    {"https://api.deepseek.com/v1", "deepseek-chat"},
	ProviderTogether:    {"https://api.together.xyz/v1", "meta-llama/Llama-3-70b-chat-hf"},
	ProviderHuggingFace: {"https://api-inference.huggingface.co/v1", "meta-llama/Llama-3-8b-chat-hf"},
	ProviderOpenRouter:  {"https://openrouter.ai/api/v1", "meta-llama/llama-3.1-70b-instruct"},
	ProviderOllama:      {"http://localhost:11434/v1", "llama3.1:8b"},
}

// ClientConfig конфигурация LLM-клиента
type ClientConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string // переопределяет URL провайдера (локальный Ollama, прокси)

	Timeout           time.Duration
	RequestsPerSecond float64
	Retry             RetryConfig
}

// Client OpenAI-совместимый LLM-клиент с повторными попытками и
// ограничением частоты запросов
type Client struct {
	provider    string
	model       string
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	limiter     *rate.Limiter
	retryConfig RetryConfig
}

// NewClient создает клиент для указанного провайдера.
// Ollama не требует API-ключа, остальные провайдеры — требуют.
func NewClient(cfg ClientConfig) (*Client, error) {
	endpoint, ok := providerEndpoints[strings.ToLower(cfg.Provider)]
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}

	apiKey := cfg.APIKey
	if cfg.Provider == ProviderOllama {
		apiKey = "ollama"
	} else if apiKey == "" {
		return nil, fmt.Errorf("API key required for provider %s", cfg.Provider)
	}

	baseURL := endpoint.baseURL
	if cfg.BaseURL != "" {
		baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = endpoint.defaultModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	rps := cfg.RequestsPerSecond
	if rps == 0 {
		rps = 2.0
	}

	retryConfig := cfg.Retry
	if retryConfig.MaxRetries == 0 && retryConfig.InitialDelay == 0 {
		retryConfig = DefaultRetryConfig()
	}

	// HTTP Transport с connection pooling
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxConnsPerHost:     5,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 5,
	}

	return &Client{
		provider: strings.ToLower(cfg.Provider),
		model:    model,
		baseURL:  baseURL,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		retryConfig: retryConfig,
	}, nil
}

// Model возвращает модель, с которой работает клиент
func (c *Client) Model() string {
	return c.model
}

// Provider возвращает имя провайдера
func (c *Client) Provider() string {
	return c.provider
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// ChatCompletion выполняет запрос chat/completions и возвращает текст ответа.
// Повторные попытки с экспоненциальной задержкой для сетевых ошибок,
// 429 и 5xx; ошибки 4xx не повторяются.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message, temperature float64) (string, error) {
	url := fmt.Sprintf("%s/chat/completions", c.baseURL)

	requestBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	delay := c.retryConfig.InitialDelay

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[%s] Retry attempt %d/%d for ChatCompletion after %v", c.provider, attempt, c.retryConfig.MaxRetries, delay)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("context cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.retryConfig.BackoffMultiplier)
			if delay > c.retryConfig.MaxDelay {
				delay = c.retryConfig.MaxDelay
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter wait failed: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			log.Printf("[%s] Request failed (attempt %d/%d): %v", c.provider, attempt+1, c.retryConfig.MaxRetries+1, lastErr)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			if retryAfter := parseRetryAfter(resp); retryAfter > 0 {
				delay = retryAfter
			}
			lastErr = fmt.Errorf("rate limit exceeded (429): %s", string(body))
			log.Printf("[%s] Rate limit exceeded (attempt %d/%d), retry after %v", c.provider, attempt+1, c.retryConfig.MaxRetries+1, delay)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
			log.Printf("[%s] Server error %d (attempt %d/%d), will retry", c.provider, resp.StatusCode, attempt+1, c.retryConfig.MaxRetries+1)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}

		var response chatResponse
		if err := json.Unmarshal(body, &response); err != nil {
			lastErr = fmt.Errorf("failed to decode response: %w", err)
			log.Printf("[%s] Failed to decode response (attempt %d/%d): %v", c.provider, attempt+1, c.retryConfig.MaxRetries+1, lastErr)
			continue
		}

		if response.Error != nil {
			return "", fmt.Errorf("API error: %s (type: %s)", response.Error.Message, response.Error.Type)
		}
		if len(response.Choices) == 0 {
			return "", fmt.Errorf("no choices in response")
		}

		return response.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("all retry attempts failed: %w", lastErr)
}

// parseRetryAfter парсит заголовок Retry-After из ответа
func parseRetryAfter(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return 0
}

// cleanJSONResponse убирает markdown-обертки вокруг JSON в ответе модели
func cleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}
