package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	internal "github.com/frahmantamala/ai-gateway/internal"
	"github.com/frahmantamala/ai-gateway/internal/core/datamodel/request"
	"github.com/sashabaranov/go-openai"
)

// LocalBackend talks to an on-premise OpenAI-compatible endpoint (Ollama's
// /v1 API in development). It doubles as the filter's prompt runner: content
// screening must never leave the trusted boundary.
type LocalBackend struct {
	client *openai.Client
	model  string
	logger *slog.Logger

	mu     sync.RWMutex
	loaded bool
}

func NewLocalBackend(cfg internal.LocalAIConfig, logger *slog.Logger) (*LocalBackend, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("local endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("local model is required")
	}

	clientConfig := openai.DefaultConfig("")
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &LocalBackend{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		logger: logger,
	}, nil
}

func (b *LocalBackend) Name() string {
	return BackendLocal
}

// LoadModel switches to the named model (empty keeps the configured one) and
// probes it with a trivial completion. The model server loads weights lazily;
// probing at startup surfaces a dead endpoint before the first user request
// does. A failed probe rolls the switch back.
func (b *LocalBackend) LoadModel(ctx context.Context, name string) error {
	b.mu.Lock()
	previous := b.model
	if name != "" {
		b.model = name
	}
	model := b.model
	b.mu.Unlock()

	_, err := b.complete(ctx, "ping")
	if err != nil {
		b.mu.Lock()
		b.model = previous
		b.mu.Unlock()

		b.logger.Error("local model load failed", "model", model, "error", err)
		return internal.NewInternalError("failed to load local model", err).
			WithDetails(map[string]string{"model": model})
	}

	b.mu.Lock()
	b.loaded = true
	b.mu.Unlock()

	b.logger.Info("local model loaded", "model", model)
	return nil
}

func (b *LocalBackend) IsLoaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loaded
}

// Model returns the currently loaded model name.
func (b *LocalBackend) Model() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.model
}

func (b *LocalBackend) ProcessRequest(ctx context.Context, req *request.Request) (*request.Response, error) {
	content, err := b.complete(ctx, req.Content)
	if err != nil {
		return nil, internal.NewExternalError("local AI backend failure", err)
	}
	return request.NewResponse(req, content)
}

// ProcessCustomPrompt runs a raw prompt against the local model. Used by the
// sensitive-data filter.
func (b *LocalBackend) ProcessCustomPrompt(ctx context.Context, prompt string) (string, error) {
	content, err := b.complete(ctx, prompt)
	if err != nil {
		return "", internal.NewExternalError("local AI backend failure", err)
	}
	return content, nil
}

func (b *LocalBackend) complete(ctx context.Context, prompt string) (string, error) {
	b.mu.RLock()
	model := b.model
	b.mu.RUnlock()

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
