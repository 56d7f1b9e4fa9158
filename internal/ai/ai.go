package ai

import (
	"context"
	"errors"

	"github.com/frahmantamala/ai-gateway/internal/core/datamodel/request"
)

// Backend turns a request into a response. Both the local model and the
// hosted providers satisfy it, so the mediator never knows which one it is
// talking to.
type Backend interface {
	Name() string
	ProcessRequest(ctx context.Context, req *request.Request) (*request.Response, error)
}

const (
	BackendLocal    = "local"
	BackendExternal = "external"

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var (
	ErrModelNotLoaded  = errors.New("local model is not loaded")
	ErrMissingAPIKey   = errors.New("external provider API key is not set")
	ErrEmptyCompletion = errors.New("backend returned an empty completion")
	ErrUnknownProvider = errors.New("unknown external provider")
)
