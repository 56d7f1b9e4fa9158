package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	internal "github.com/frahmantamala/ai-gateway/internal"
	"github.com/frahmantamala/ai-gateway/internal/core/datamodel/request"
	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-3-5-haiku-latest"

	anthropicMaxTokens = 1024
)

// ExternalBackend is a hosted provider behind the AI_USE_EXTERNAL gate. The
// API key can be rotated at runtime by an administrator, so access to it is
// lock-protected and clients are rebuilt on rotation.
type ExternalBackend interface {
	Backend
	Provider() string
	SetAPIKey(key string)
}

// NewExternalBackend builds the provider named in the config. Unknown
// provider names fail construction rather than the first request.
func NewExternalBackend(cfg internal.ExternalAIConfig, logger *slog.Logger) (ExternalBackend, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return newOpenAIBackend(cfg, logger), nil
	case ProviderAnthropic:
		return newAnthropicBackend(cfg, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

type openAIBackend struct {
	mu       sync.RWMutex
	client   *openai.Client
	apiKey   string
	model    string
	endpoint string
	logger   *slog.Logger
}

func newOpenAIBackend(cfg internal.ExternalAIConfig, logger *slog.Logger) *openAIBackend {
	b := &openAIBackend{
		model:    cfg.Model,
		endpoint: cfg.Endpoint,
		logger:   logger,
	}
	if b.model == "" {
		b.model = defaultOpenAIModel
	}
	if cfg.APIKey != "" {
		b.SetAPIKey(cfg.APIKey)
	}
	return b
}

func (b *openAIBackend) Name() string     { return BackendExternal }
func (b *openAIBackend) Provider() string { return ProviderOpenAI }

func (b *openAIBackend) SetAPIKey(key string) {
	clientConfig := openai.DefaultConfig(key)
	if b.endpoint != "" {
		clientConfig.BaseURL = strings.TrimSuffix(b.endpoint, "/")
	}

	b.mu.Lock()
	b.apiKey = key
	b.client = openai.NewClientWithConfig(clientConfig)
	b.mu.Unlock()

	b.logger.Info("external API key updated", "provider", ProviderOpenAI)
}

func (b *openAIBackend) ProcessRequest(ctx context.Context, req *request.Request) (*request.Response, error) {
	b.mu.RLock()
	client := b.client
	b.mu.RUnlock()

	if client == nil {
		return nil, internal.NewExternalError("external AI backend failure", ErrMissingAPIKey)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Content},
		},
	})
	if err != nil {
		b.logger.Error("external request failed", "provider", ProviderOpenAI, "error", err)
		return nil, internal.NewExternalError("external AI backend failure", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, internal.NewExternalError("external AI backend failure", ErrEmptyCompletion)
	}

	return request.NewResponse(req, resp.Choices[0].Message.Content)
}

type anthropicBackend struct {
	mu     sync.RWMutex
	client *anthropic.Client
	apiKey string
	model  string
	logger *slog.Logger
}

func newAnthropicBackend(cfg internal.ExternalAIConfig, logger *slog.Logger) *anthropicBackend {
	b := &anthropicBackend{
		model:  cfg.Model,
		logger: logger,
	}
	if b.model == "" {
		b.model = defaultAnthropicModel
	}
	if cfg.APIKey != "" {
		b.SetAPIKey(cfg.APIKey)
	}
	return b
}

func (b *anthropicBackend) Name() string     { return BackendExternal }
func (b *anthropicBackend) Provider() string { return ProviderAnthropic }

func (b *anthropicBackend) SetAPIKey(key string) {
	b.mu.Lock()
	b.apiKey = key
	b.client = anthropic.NewClient(key)
	b.mu.Unlock()

	b.logger.Info("external API key updated", "provider", ProviderAnthropic)
}

func (b *anthropicBackend) ProcessRequest(ctx context.Context, req *request.Request) (*request.Response, error) {
	b.mu.RLock()
	client := b.client
	b.mu.RUnlock()

	if client == nil {
		return nil, internal.NewExternalError("external AI backend failure", ErrMissingAPIKey)
	}

	content := req.Content
	resp, err := client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(b.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &content},
			}},
		},
	})
	if err != nil {
		b.logger.Error("external request failed", "provider", ProviderAnthropic, "error", err)
		return nil, internal.NewExternalError("external AI backend failure", err)
	}

	var answer string
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			answer = *block.Text
			break
		}
	}
	if answer == "" {
		return nil, internal.NewExternalError("external AI backend failure", ErrEmptyCompletion)
	}

	return request.NewResponse(req, answer)
}
