package user

import "github.com/frahmantamala/ai-gateway/internal/core/common/validation"

// CreateUserDTO is the transport shape for user registration.
type CreateUserDTO struct {
	Username   string   `json:"username" validate:"required,min=3,max=64"`
	Password   string   `json:"password" validate:"required,min=8"`
	FullName   string   `json:"full_name"`
	Department string   `json:"department"`
	RoleNames  []string `json:"role_names,omitempty"`
}

func (dto CreateUserDTO) Validate() error {
	if err := validation.ValidateCredentials(dto.Username, dto.Password); err != nil {
		return err
	}
	return nil
}
