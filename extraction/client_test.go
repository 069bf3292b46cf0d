package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// chatServer тестовый OpenAI-совместимый сервер
func chatServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		Provider:          ProviderGroq,
		APIKey:            "test-key",
		BaseURL:           server.URL,
		RequestsPerSecond: 1000,
		Retry: RetryConfig{
			MaxRetries:        2,
			InitialDelay:      time.Millisecond,
			MaxDelay:          10 * time.Millisecond,
			BackoffMultiplier: 2.0,
		},
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return server, client
}

func decodeChatRequest(t *testing.T, r *http.Request, dst *chatRequest) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode chat request: %v", err)
	}
}

func chatReply(content string) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	return data
}

// TestNewClient проверяет создание клиента
func TestNewClient(t *testing.T) {
	client, err := NewClient(ClientConfig{Provider: ProviderGroq, APIKey: "key"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.Model() != "llama-3.3-70b-versatile" {
		t.Errorf("default model = %s, expected llama-3.3-70b-versatile", client.Model())
	}
	if client.Provider() != ProviderGroq {
		t.Errorf("provider = %s, expected groq", client.Provider())
	}
	if client.retryConfig.MaxRetries <= 0 {
		t.Error("RetryConfig.MaxRetries should be positive")
	}
}

// TestNewClient_RequiresAPIKey проверяет обязательность ключа
func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(ClientConfig{Provider: ProviderOpenAI}); err == nil {
		t.Error("expected error for missing API key")
	}
}

// TestNewClient_OllamaWithoutKey проверяет, что Ollama не требует ключа
func TestNewClient_OllamaWithoutKey(t *testing.T) {
	client, err := NewClient(ClientConfig{Provider: ProviderOllama})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.Model() != "llama3.1:8b" {
		t.Errorf("ollama default model = %s, expected llama3.1:8b", client.Model())
	}
}

// TestNewClient_UnsupportedProvider проверяет ошибку для неизвестного провайдера
func TestNewClient_UnsupportedProvider(t *testing.T) {
	if _, err := NewClient(ClientConfig{Provider: "bedrock", APIKey: "key"}); err == nil {
		t.Error("expected error for unsupported provider")
	}
}

// TestChatCompletion проверяет успешный запрос
func TestChatCompletion(t *testing.T) {
	var gotAuth string
	var gotRequest chatRequest
	_, client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotRequest)
		w.Write(chatReply("hello"))
	})

	result, err := client.ChatCompletion(context.Background(), []Message{
		{Role: "user", Content: "hi"},
	}, 0.1)
	if err != nil {
		t.Fatalf("ChatCompletion failed: %v", err)
	}
	if result != "hello" {
		t.Errorf("result = %q, expected hello", result)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, expected Bearer test-key", gotAuth)
	}
	if gotRequest.Temperature != 0.1 {
		t.Errorf("temperature = %v, expected 0.1", gotRequest.Temperature)
	}
	if len(gotRequest.Messages) != 1 || gotRequest.Messages[0].Content != "hi" {
		t.Errorf("unexpected messages payload: %+v", gotRequest.Messages)
	}
}

// TestChatCompletion_RetriesServerErrors проверяет повтор после 5xx
func TestChatCompletion_RetriesServerErrors(t *testing.T) {
	attempts := 0
	_, client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(chatReply("recovered"))
	})

	result, err := client.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0)
	if err != nil {
		t.Fatalf("ChatCompletion failed: %v", err)
	}
	if result != "recovered" {
		t.Errorf("result = %q, expected recovered", result)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, expected 2", attempts)
	}
}

// TestChatCompletion_NoRetryOnClientError проверяет, что 4xx не повторяется
func TestChatCompletion_NoRetryOnClientError(t *testing.T) {
	attempts := 0
	_, client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	})

	if _, err := client.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0); err == nil {
		t.Fatal("expected error for 400 response")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, expected 1 (no retry on client error)", attempts)
	}
}

// TestChatCompletion_RateLimited проверяет повтор после 429 с Retry-After
func TestChatCompletion_RateLimited(t *testing.T) {
	attempts := 0
	_, client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(chatReply("ok"))
	})

	result, err := client.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0)
	if err != nil {
		t.Fatalf("ChatCompletion failed: %v", err)
	}
	if result != "ok" || attempts != 2 {
		t.Errorf("result = %q after %d attempts, expected ok after 2", result, attempts)
	}
}

// TestChatCompletion_EmptyChoices проверяет ошибку для ответа без choices
func TestChatCompletion_EmptyChoices(t *testing.T) {
	_, client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	})

	if _, err := client.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0); err == nil {
		t.Error("expected error for empty choices")
	}
}

// TestCleanJSONResponse проверяет снятие markdown-оберток
func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  {\"a\": 1}\n", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := cleanJSONResponse(tt.input); result != tt.expected {
				t.Errorf("cleanJSONResponse(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
