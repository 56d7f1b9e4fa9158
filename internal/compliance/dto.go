package compliance

import "errors"

type SetConsentDTO struct {
	UserID  int64 `json:"user_id" validate:"required"`
	Granted bool  `json:"granted"`
}

func (dto SetConsentDTO) Validate() error {
	if dto.UserID <= 0 {
		return errors.New("user_id is required")
	}
	return nil
}

type EraseUserDataDTO struct {
	UserID int64 `json:"user_id" validate:"required"`
}

func (dto EraseUserDataDTO) Validate() error {
	if dto.UserID <= 0 {
		return errors.New("user_id is required")
	}
	return nil
}
