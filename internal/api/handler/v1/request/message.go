package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
	// Optional commerce attachment, set when the message references an item.
	ItemID   uint   `json:"item_id,omitempty"`
	ItemName string `json:"item_name,omitempty"`
	Price    int64  `json:"price,omitempty"`
}

func (req *SendMessageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ReceiverID, validation.Required),
		validation.Field(&req.Content, validation.Required, validation.Length(1, 2000)),
		validation.Field(&req.Price, validation.Min(0)),
	)
}

type PlaceOrderRequest struct {
	ItemID uint `json:"item_id"`
}

func (req *PlaceOrderRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ItemID, validation.Required),
	)
}
