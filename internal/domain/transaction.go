package domain

import "time"

// Transaction is one finalized sale. Append-only audit trail, immutable
// once created.
type Transaction struct {
	ID        uint      `json:"id"`
	ItemID    uint      `json:"item_id"`
	ItemName  string    `json:"item_name"`
	BuyerID   uint      `json:"buyer_id"`
	BuyerName string    `json:"buyer_name"`
	Price     int64     `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}
