package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/repository"
)

var (
	ErrEmptyContent       = errors.New("message content is empty")
	ErrUserBlocked        = errors.New("user is blocked")
	ErrNotMessageReceiver = errors.New("message is not addressed to this user")
	ErrMessageNotFound    = repository.ErrMessageNotFound
	ErrBackendUnavailable = repository.ErrBackendUnavailable
)

type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) (domain.Message, error)
	FindByID(ctx context.Context, id uint) (domain.Message, error)
	FindByConversationKey(ctx context.Context, key string) ([]domain.Message, error)
	MarkRead(ctx context.Context, id uint) error
	MarkConversationRead(ctx context.Context, key string, receiverID uint) ([]uint, error)
	DeleteByConversationKey(ctx context.Context, key string) error
}

type MessageUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type MessageItemReader interface {
	FindByID(ctx context.Context, id uint) (domain.Item, error)
}

// MessageService is the append-only message store. It owns message creation
// and the read flag; everything else about a message is immutable.
type MessageService struct {
	repo     MessageRepository
	users    MessageUserRepository
	items    MessageItemReader
	notifier *Notifier
	adminID  uint
}

func NewMessageService(repo MessageRepository, users MessageUserRepository, items MessageItemReader, notifier *Notifier, adminID uint) *MessageService {
	return &MessageService{
		repo:     repo,
		users:    users,
		items:    items,
		notifier: notifier,
		adminID:  adminID,
	}
}

// Send validates and appends one message. Blank content and blocked senders
// are rejected before anything is written. Subscribers of the conversation
// and of the roster are notified after the write lands.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID uint, content string, kind domain.MessageKind, meta *domain.CommerceMeta) (domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Message{}, ErrEmptyContent
	}

	sender, err := s.users.FindByID(ctx, senderID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}
	if sender.Blocked {
		return domain.Message{}, ErrUserBlocked
	}

	message := domain.Message{
		ConversationKey: domain.PairKey(senderID, receiverID),
		SenderID:        senderID,
		SenderName:      sender.Name,
		ReceiverID:      receiverID,
		Content:         content,
		Kind:            kind,
	}
	if meta != nil {
		itemID := meta.ItemID
		message.ItemID = &itemID
		message.ItemName = meta.ItemName
		message.Price = meta.Price
	}

	created, err := s.repo.Create(ctx, message)
	if err != nil {
		return domain.Message{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.notifier.ConversationChanged(ctx, created.ConversationKey)

	return created, nil
}

// PlaceOrder sends the commerce-tagged order message a buyer produces by
// hitting "buy". Stock is only read here; the decrement belongs to
// settlement.
func (s *MessageService) PlaceOrder(ctx context.Context, buyerID, itemID uint) (domain.Message, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("s.items.FindByID -> %w", err)
	}
	if item.Stock <= 0 {
		return domain.Message{}, ErrInsufficientStock
	}

	content := fmt.Sprintf("NEW ORDER\n\nI would like to buy:\n%s\nRp %d\n\nPlease send payment details", item.Name, item.Price)

	return s.Send(ctx, buyerID, s.adminID, content, domain.MessageKindUser, &domain.CommerceMeta{
		ItemID:   item.ID,
		ItemName: item.Name,
		Price:    item.Price,
	})
}

// MarkRead flips the read flag on one message. Only the message's receiver
// (or the admin) may flip it. Idempotent; marking an already-read message is
// a no-op and pushes nothing. An actual flip notifies conversation and
// roster subscribers.
func (s *MessageService) MarkRead(ctx context.Context, id uint, viewer domain.User) error {
	message, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if viewer.ID != message.ReceiverID && !viewer.IsAdmin() {
		return ErrNotMessageReceiver
	}
	if message.Read {
		return nil
	}

	if err = s.repo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("s.repo.MarkRead -> %w", err)
	}

	s.notifier.ConversationChanged(ctx, message.ConversationKey)

	return nil
}

// ListConversation returns every message between a and b in ascending
// timestamp order. When markRead is set, unread messages addressed to the
// viewer are flipped to read, mirroring the admin opening a chat.
func (s *MessageService) ListConversation(ctx context.Context, a, b uint, viewerID uint, markRead bool) ([]domain.Message, error) {
	key := domain.PairKey(a, b)

	if markRead {
		flipped, err := s.repo.MarkConversationRead(ctx, key, viewerID)
		if err != nil {
			return nil, fmt.Errorf("s.repo.MarkConversationRead -> %w", err)
		}
		if len(flipped) > 0 {
			s.notifier.ConversationChanged(ctx, key)
		}
	}

	messages, err := s.repo.FindByConversationKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByConversationKey -> %w", err)
	}

	return messages, nil
}

// DeleteConversation removes the whole thread. Irreversible.
func (s *MessageService) DeleteConversation(ctx context.Context, a, b uint) error {
	key := domain.PairKey(a, b)

	if err := s.repo.DeleteByConversationKey(ctx, key); err != nil {
		return fmt.Errorf("s.repo.DeleteByConversationKey -> %w", err)
	}

	s.notifier.ConversationChanged(ctx, key)

	return nil
}
