package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type SettleRequest struct {
	ItemID  uint  `json:"item_id"`
	BuyerID uint  `json:"buyer_id"`
	Price   int64 `json:"price"`
}

func (req *SettleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ItemID, validation.Required),
		validation.Field(&req.BuyerID, validation.Required),
		validation.Field(&req.Price, validation.Required, validation.Min(1)),
	)
}
