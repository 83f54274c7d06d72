package domain

// StoreStats is the admin dashboard summary.
type StoreStats struct {
	Balance      int64 `json:"balance"`
	Transactions int64 `json:"transactions"`
	TotalStock   int   `json:"total_stock"`
}
