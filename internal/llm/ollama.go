package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// Defaults for a local Ollama server.
const (
	DefaultBaseURL   = "http://localhost:11434/v1/"
	DefaultModel     = "gemma2:2b"
	DefaultKeepAlive = "10m"
	DefaultTimeout   = 100 * time.Second
)

// OllamaConfig configures an Ollama client.
type OllamaConfig struct {
	BaseURL   string
	Model     string
	KeepAlive string
	Timeout   time.Duration

	// HTTPClient overrides the transport; nil uses the SDK default.
	HTTPClient *http.Client
}

// Ollama talks to Ollama's OpenAI-compatible chat completions endpoint.
type Ollama struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

// NewOllama builds a client from cfg, filling unset fields with defaults.
func NewOllama(cfg OllamaConfig, logger *zap.Logger) *Ollama {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.KeepAlive == "" {
		cfg.KeepAlive = DefaultKeepAlive
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey("ollama"), // required by the SDK, ignored by Ollama
		option.WithJSONSet("keep_alive", cfg.KeepAlive),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Ollama{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		logger: logger.Named("ollama"),
	}
}

// Model returns the configured model name.
func (o *Ollama) Model() string {
	return o.model
}

// Generate sends prompt as a single user message and returns the answer.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	o.logger.Debug("sending prompt", zap.String("model", o.model), zap.Int("bytes", len(prompt)))
	start := time.Now()

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		o.logger.Error("chat completion failed", zap.Error(err))
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ollama generate: no choices: %w", ErrEmptyResponse)
	}

	answer := resp.Choices[0].Message.Content
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("ollama generate: %w", ErrEmptyResponse)
	}

	o.logger.Info("answer received",
		zap.String("model", o.model),
		zap.Int("bytes", len(answer)),
		zap.Duration("took", time.Since(start)),
	)
	return answer, nil
}
