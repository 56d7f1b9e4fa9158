package gateway

import (
	"errors"

	"github.com/frahmantamala/ai-gateway/internal/core/common/validation"
)

var errMissingAPIKey = errors.New("api_key is required")

type MakeRequestDTO struct {
	Content       string `json:"content" validate:"required"`
	UseExternalAI bool   `json:"use_external_ai"`
}

func (dto MakeRequestDTO) Validate() error {
	if err := validation.ValidateRequestContent(dto.Content); err != nil {
		return err
	}
	return nil
}

type LoadModelDTO struct {
	Model string `json:"model"`
}

type SetAPIKeyDTO struct {
	APIKey string `json:"api_key" validate:"required"`
}

func (dto SetAPIKeyDTO) Validate() error {
	if dto.APIKey == "" {
		return errMissingAPIKey
	}
	return nil
}
