package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/repository"
)

type ConversationMessageRepository interface {
	FindAll(ctx context.Context) ([]domain.Message, error)
}

type ConversationUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// ConversationService derives the admin roster from the message log. Nothing
// here is stored; the roster is recomputed on every observation, which is a
// full scan of the log - fine at storefront scale.
type ConversationService struct {
	messages ConversationMessageRepository
	users    ConversationUserRepository
	adminID  uint
}

func NewConversationService(messages ConversationMessageRepository, users ConversationUserRepository, adminID uint) *ConversationService {
	return &ConversationService{
		messages: messages,
		users:    users,
		adminID:  adminID,
	}
}

// Roster folds the log into one entry per counterparty: the newest message
// plus an unread flag that is true while any message addressed to the admin
// in that conversation is still unread. Excluded ids and blocked
// counterparties are dropped; existing messages are untouched either way.
func (s *ConversationService) Roster(ctx context.Context, exclude []uint) ([]domain.Conversation, error) {
	messages, err := s.messages.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.messages.FindAll -> %w", err)
	}

	excluded := make(map[uint]struct{}, len(exclude)+1)
	excluded[s.adminID] = struct{}{}
	for _, id := range exclude {
		excluded[id] = struct{}{}
	}

	// messages arrive newest first, so the first hit per counterparty is the
	// last message of that conversation.
	entries := make(map[uint]*domain.Conversation)
	for _, msg := range messages {
		counterparty := msg.SenderID
		if counterparty == s.adminID {
			counterparty = msg.ReceiverID
		}
		if _, skip := excluded[counterparty]; skip {
			continue
		}

		entry, seen := entries[counterparty]
		if !seen {
			entry = &domain.Conversation{
				CounterpartyID: counterparty,
				LastMessage:    msg,
				LastTimestamp:  msg.Timestamp,
			}
			entries[counterparty] = entry
		}
		if msg.ReceiverID == s.adminID && !msg.Read {
			entry.Unread = true
		}
	}

	conversations := lo.Values(entries)

	filtered := conversations[:0]
	for _, conv := range conversations {
		user, err := s.users.FindByID(ctx, conv.CounterpartyID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				continue
			}
			return nil, fmt.Errorf("s.users.FindByID -> %w", err)
		}
		if user.Blocked {
			continue
		}

		conv.CounterpartyName = user.Name
		filtered = append(filtered, conv)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].LastTimestamp.Equal(filtered[j].LastTimestamp) {
			return filtered[i].LastMessage.ID > filtered[j].LastMessage.ID
		}
		return filtered[i].LastTimestamp.After(filtered[j].LastTimestamp)
	})

	result := make([]domain.Conversation, len(filtered))
	for i, conv := range filtered {
		result[i] = *conv
	}

	return result, nil
}
