package dao

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type Message struct {
	ID uint `gorm:"primaryKey"`

	ConversationKey string `gorm:"index;not null"`
	SenderID        uint   `gorm:"not null"`
	SenderName      string `gorm:"not null"`
	ReceiverID      uint   `gorm:"not null"`
	Content         string `gorm:"not null"`
	Kind            string `gorm:"not null"` // "user" or "admin"

	Timestamp time.Time `gorm:"index;not null"`
	Read      bool      `gorm:"not null;default:false"`

	ItemID   *uint
	ItemName string
	Price    int64
}

// monoClock hands out wall-clock timestamps that never move backwards.
// Equal stamps are ordered by the autoincrement row id (insertion sequence).
type monoClock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *monoClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC()
	if now.Before(c.last) {
		now = c.last
	}
	c.last = now

	return now
}

type MessageDAO struct {
	db    *gorm.DB
	clock monoClock
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{
		db: db,
	}
}

func (d *MessageDAO) Insert(ctx context.Context, message Message) (Message, error) {
	return d.insert(d.db.WithContext(ctx), message)
}

// insert is shared with the settlement transaction so confirmation messages
// go through the same clock as regular sends.
func (d *MessageDAO) insert(db *gorm.DB, message Message) (Message, error) {
	if message.Timestamp.IsZero() {
		message.Timestamp = d.clock.Now()
	}

	result := db.Create(&message)
	if result.Error != nil {
		return Message{}, wrapBackendErr(result.Error)
	}

	return message, nil
}

func (d *MessageDAO) FindByID(ctx context.Context, id uint) (Message, error) {
	var message Message

	result := d.db.WithContext(ctx).First(&message, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Message{}, ErrMessageNotFound
		}

		return Message{}, wrapBackendErr(result.Error)
	}

	return message, nil
}

func (d *MessageDAO) FindByConversationKey(ctx context.Context, key string) ([]Message, error) {
	var messages []Message

	result := d.db.WithContext(ctx).
		Where("conversation_key = ?", key).
		Order("timestamp ASC, id ASC").
		Find(&messages)
	if result.Error != nil {
		return nil, wrapBackendErr(result.Error)
	}

	return messages, nil
}

// FindAll returns the whole log newest first, for the roster fold.
func (d *MessageDAO) FindAll(ctx context.Context) ([]Message, error) {
	var messages []Message

	result := d.db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Find(&messages)
	if result.Error != nil {
		return nil, wrapBackendErr(result.Error)
	}

	return messages, nil
}

// MarkRead flips the read flag on a single message. Already-read messages are
// left alone, so the call is idempotent.
func (d *MessageDAO) MarkRead(ctx context.Context, id uint) error {
	var message Message

	result := d.db.WithContext(ctx).First(&message, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}

		return wrapBackendErr(result.Error)
	}

	if message.Read {
		return nil
	}

	result = d.db.WithContext(ctx).Model(&message).Update("read", true)
	if result.Error != nil {
		return wrapBackendErr(result.Error)
	}

	return nil
}

// MarkConversationRead marks every unread message in the conversation that is
// addressed to receiverID. Returns the ids that were flipped.
func (d *MessageDAO) MarkConversationRead(ctx context.Context, key string, receiverID uint) ([]uint, error) {
	var ids []uint

	err := d.db.WithContext(ctx).
		Model(&Message{}).
		Where("conversation_key = ? AND receiver_id = ? AND read = ?", key, receiverID, false).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, wrapBackendErr(err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	result := d.db.WithContext(ctx).
		Model(&Message{}).
		Where("id IN ?", ids).
		Update("read", true)
	if result.Error != nil {
		return nil, wrapBackendErr(result.Error)
	}

	return ids, nil
}

func (d *MessageDAO) DeleteByConversationKey(ctx context.Context, key string) error {
	result := d.db.WithContext(ctx).
		Where("conversation_key = ?", key).
		Delete(&Message{})
	if result.Error != nil {
		return wrapBackendErr(result.Error)
	}

	return nil
}
