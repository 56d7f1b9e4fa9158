package filter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/ai-gateway/internal/core/datamodel/request"
)

const detectionPrompt = "You are a system that detects if the following text contains sensitive data.\n" +
	"Respond with 'TRUE' if it contains any sensitive or personal data, or 'FALSE' otherwise.\n\n" +
	"Text:\n%s"

const anonymizationPrompt = "You are a system that removes or masks sensitive data from the text.\n" +
	"Return ONLY the anonymized text. Do not include any explanation.\n\n" +
	"Text:\n%s"

// PromptRunner executes a raw prompt against the local model. The filter runs
// locally on purpose: content must be scrubbed before anything leaves the
// premises, so the scrubber itself cannot be an external call.
type PromptRunner interface {
	ProcessCustomPrompt(ctx context.Context, prompt string) (string, error)
}

// Service screens request content for sensitive data and rewrites it in place
// when any is found.
type Service struct {
	runner PromptRunner
	logger *slog.Logger
}

func NewService(runner PromptRunner, logger *slog.Logger) *Service {
	return &Service{
		runner: runner,
		logger: logger,
	}
}

// DetectSensitiveData asks the local model whether content contains sensitive
// data. Any response mentioning TRUE counts as a positive; models rarely
// answer with the bare token.
func (s *Service) DetectSensitiveData(ctx context.Context, content string) (bool, error) {
	answer, err := s.runner.ProcessCustomPrompt(ctx, fmt.Sprintf(detectionPrompt, content))
	if err != nil {
		return false, fmt.Errorf("sensitive data detection: %w", err)
	}
	return strings.Contains(strings.ToUpper(answer), "TRUE"), nil
}

// AnonymizeData rewrites content with sensitive data removed or masked. The
// model's answer is used verbatim as the replacement content.
func (s *Service) AnonymizeData(ctx context.Context, content string) (string, error) {
	answer, err := s.runner.ProcessCustomPrompt(ctx, fmt.Sprintf(anonymizationPrompt, content))
	if err != nil {
		return "", fmt.Errorf("anonymization: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// Scrub runs detection and, when positive, anonymization over the request's
// content, mutating the request in place. Detection always runs first; clean
// content passes through untouched.
func (s *Service) Scrub(ctx context.Context, req *request.Request) error {
	sensitive, err := s.DetectSensitiveData(ctx, req.Content)
	if err != nil {
		return err
	}
	if !sensitive {
		return nil
	}

	s.logger.Info("sensitive data detected, anonymizing", "request_id", req.ID)

	anonymized, err := s.AnonymizeData(ctx, req.Content)
	if err != nil {
		return err
	}
	if err := req.SetContent(anonymized); err != nil {
		return fmt.Errorf("anonymization produced unusable content: %w", err)
	}
	return nil
}
