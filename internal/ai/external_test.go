package ai_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	internal "github.com/frahmantamala/ai-gateway/internal"
	"github.com/frahmantamala/ai-gateway/internal/ai"
	"github.com/frahmantamala/ai-gateway/internal/core/datamodel/request"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAIBackends(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AI Backends Suite")
}

var _ = Describe("External Backend", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	Describe("NewExternalBackend", func() {
		It("should build an openai backend", func() {
			backend, err := ai.NewExternalBackend(internal.ExternalAIConfig{Provider: "openai"}, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.Provider()).To(Equal(ai.ProviderOpenAI))
			Expect(backend.Name()).To(Equal(ai.BackendExternal))
		})

		It("should build an anthropic backend", func() {
			backend, err := ai.NewExternalBackend(internal.ExternalAIConfig{Provider: "anthropic"}, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.Provider()).To(Equal(ai.ProviderAnthropic))
		})

		It("should reject an unknown provider at construction time", func() {
			_, err := ai.NewExternalBackend(internal.ExternalAIConfig{Provider: "bedrock"}, logger)
			Expect(errors.Is(err, ai.ErrUnknownProvider)).To(BeTrue())
		})
	})

	Describe("ProcessRequest without an API key", func() {
		It("should fail immediately for openai", func() {
			backend, err := ai.NewExternalBackend(internal.ExternalAIConfig{Provider: "openai"}, logger)
			Expect(err).NotTo(HaveOccurred())

			req, err := request.New(1, "hello")
			Expect(err).NotTo(HaveOccurred())

			_, err = backend.ProcessRequest(context.Background(), req)
			Expect(errors.Is(err, ai.ErrMissingAPIKey)).To(BeTrue())
		})

		It("should fail immediately for anthropic", func() {
			backend, err := ai.NewExternalBackend(internal.ExternalAIConfig{Provider: "anthropic"}, logger)
			Expect(err).NotTo(HaveOccurred())

			req, err := request.New(1, "hello")
			Expect(err).NotTo(HaveOccurred())

			_, err = backend.ProcessRequest(context.Background(), req)
			Expect(errors.Is(err, ai.ErrMissingAPIKey)).To(BeTrue())
		})

		It("should wrap the failure as an external error", func() {
			backend, err := ai.NewExternalBackend(internal.ExternalAIConfig{Provider: "openai"}, logger)
			Expect(err).NotTo(HaveOccurred())

			req, err := request.New(1, "hello")
			Expect(err).NotTo(HaveOccurred())

			_, err = backend.ProcessRequest(context.Background(), req)
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
		})
	})
})

var _ = Describe("Local Backend", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	It("should start with the configured model and report unloaded", func() {
		backend, err := ai.NewLocalBackend(internal.LocalAIConfig{
			Endpoint: "http://localhost:11434/v1",
			Model:    "mistral",
		}, logger)
		Expect(err).NotTo(HaveOccurred())
		Expect(backend.Model()).To(Equal("mistral"))
		Expect(backend.IsLoaded()).To(BeFalse())
	})

	It("should refuse construction without an endpoint", func() {
		_, err := ai.NewLocalBackend(internal.LocalAIConfig{Model: "mistral"}, logger)
		Expect(err).To(HaveOccurred())
	})

	It("should refuse construction without a model", func() {
		_, err := ai.NewLocalBackend(internal.LocalAIConfig{Endpoint: "http://localhost:11434/v1"}, logger)
		Expect(err).To(HaveOccurred())
	})
})
