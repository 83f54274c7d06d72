package domain

import "time"

type MessageKind string

const (
	MessageKindUser  MessageKind = "user"
	MessageKindAdmin MessageKind = "admin"
)

// Message is one entry in the append-only chat log between a buyer and the
// store admin. Everything except Read is immutable once created.
type Message struct {
	ID              uint        `json:"id"`
	ConversationKey string      `json:"conversation_key"`
	SenderID        uint        `json:"sender_id"`
	SenderName      string      `json:"sender_name"`
	ReceiverID      uint        `json:"receiver_id"`
	Content         string      `json:"content"`
	Kind            MessageKind `json:"kind"`
	Timestamp       time.Time   `json:"timestamp"`
	Read            bool        `json:"read"`

	// Commerce metadata, set when the message carries an order.
	ItemID   *uint  `json:"item_id,omitempty"`
	ItemName string `json:"item_name,omitempty"`
	Price    int64  `json:"price,omitempty"`
}

// CommerceMeta is the optional order payload attached to a message.
type CommerceMeta struct {
	ItemID   uint   `json:"item_id"`
	ItemName string `json:"item_name"`
	Price    int64  `json:"price"`
}
