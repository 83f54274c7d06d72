package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type UpdateStoreConfigRequest struct {
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

func (req *UpdateStoreConfigRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	)
}
