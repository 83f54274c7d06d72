package domain

import "time"

// StoreConfig is the singleton store document. Balance is only credited by
// the settlement engine; the settings form may overwrite the rest.
type StoreConfig struct {
	Name      string    `json:"name"`
	Logo      string    `json:"logo"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}
