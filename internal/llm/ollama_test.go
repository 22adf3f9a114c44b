package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// chatServer answers chat completion requests with content and records the
// decoded request body.
func chatServer(t *testing.T, status int, content *string, got *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer ollama", r.Header.Get("Authorization"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"model not found"}}`))
			return
		}

		choices := []map[string]any{}
		if content != nil {
			choices = append(choices, map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": *content},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1729785090,
			"model":   DefaultModel,
			"choices": choices,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestOllama(t *testing.T, srv *httptest.Server) *Ollama {
	return NewOllama(OllamaConfig{
		BaseURL:    srv.URL + "/v1/",
		Timeout:    5 * time.Second,
		HTTPClient: srv.Client(),
	}, zaptest.NewLogger(t))
}

func TestOllama_Generate(t *testing.T) {
	answer := "### Der Spiegel (Krimi)\nEs war..."
	var body map[string]any
	srv := chatServer(t, http.StatusOK, &answer, &body)

	got, err := newTestOllama(t, srv).Generate(context.Background(), "Schreibe eine Geschichte.")
	require.NoError(t, err)
	assert.Equal(t, answer, got)

	assert.Equal(t, DefaultModel, body["model"])
	assert.Equal(t, DefaultKeepAlive, body["keep_alive"])
	assert.Nil(t, body["stream"])

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	msg := msgs[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "Schreibe eine Geschichte.", msg["content"])
}

func TestOllama_EmptyResponse(t *testing.T) {
	blank := "  \n"
	tests := []struct {
		name    string
		content *string
	}{
		{"no choices", nil},
		{"blank content", &blank},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatServer(t, http.StatusOK, tt.content, nil)
			_, err := newTestOllama(t, srv).Generate(context.Background(), "p")
			require.ErrorIs(t, err, ErrEmptyResponse)
		})
	}
}

func TestOllama_ServerErrorNoRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	t.Cleanup(srv.Close)

	_, err := newTestOllama(t, srv).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyResponse))
	assert.Equal(t, 1, calls)
}

func TestNewOllama_Defaults(t *testing.T) {
	o := NewOllama(OllamaConfig{}, nil)
	assert.Equal(t, DefaultModel, o.Model())

	o = NewOllama(OllamaConfig{Model: "llama3"}, nil)
	assert.Equal(t, "llama3", o.Model())
}
