package domain

import (
	"fmt"
	"time"
)

// Conversation is a derived roster entry, never stored. It is recomputed
// from the message log on every observation.
type Conversation struct {
	CounterpartyID   uint      `json:"counterparty_id"`
	CounterpartyName string    `json:"counterparty_name"`
	LastMessage      Message   `json:"last_message"`
	LastTimestamp    time.Time `json:"last_timestamp"`
	Unread           bool      `json:"unread"`
}

// PairKey builds the deterministic storage key for a two-party conversation:
// the two user IDs in ascending order. Both orderings of the same pair map to
// the same key.
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}
