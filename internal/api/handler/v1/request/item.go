package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateItemRequest struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

func (req *CreateItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Price, validation.Required, validation.Min(1)),
		validation.Field(&req.Stock, validation.Min(0)),
		validation.Field(&req.Description, validation.Length(0, 500)),
	)
}

type UpdateItemRequest struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

func (req *UpdateItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Price, validation.Required, validation.Min(1)),
		validation.Field(&req.Stock, validation.Min(0)),
		validation.Field(&req.Description, validation.Length(0, 500)),
	)
}

type SetStockRequest struct {
	Stock int `json:"stock"`
}

func (req *SetStockRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Stock, validation.Min(0)),
	)
}
