package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/pubsub"
)

// ConversationUpdate is pushed to conversation subscribers after each change:
// the full refreshed thread, snapshot style.
type ConversationUpdate struct {
	ConversationKey string           `json:"conversation_key"`
	Messages        []domain.Message `json:"messages"`
}

// RosterUpdate is pushed to roster subscribers after each change.
type RosterUpdate struct {
	Roster []domain.Conversation `json:"roster"`
}

type NotifierMessageRepository interface {
	FindByConversationKey(ctx context.Context, key string) ([]domain.Message, error)
}

type RosterSource interface {
	Roster(ctx context.Context, exclude []uint) ([]domain.Conversation, error)
}

// Notifier turns store mutations into push notifications. Each observer owns
// an explicit subscription handle; tearing one down never affects another.
type Notifier struct {
	broker   *pubsub.Broker
	messages NotifierMessageRepository
	roster   RosterSource
}

func NewNotifier(broker *pubsub.Broker, messages NotifierMessageRepository, roster RosterSource) *Notifier {
	return &Notifier{
		broker:   broker,
		messages: messages,
		roster:   roster,
	}
}

func (n *Notifier) SubscribeConversation(pairKey string) *pubsub.Subscription {
	return n.broker.Subscribe(pubsub.ConversationTopic(pairKey))
}

func (n *Notifier) SubscribeRoster() *pubsub.Subscription {
	return n.broker.Subscribe(pubsub.RosterTopic)
}

// ConversationChanged recomputes and pushes the conversation snapshot and the
// roster. The triggering write has already committed, so failures here only
// cost a notification, not data; they are logged and the next change
// re-delivers the full snapshot anyway.
func (n *Notifier) ConversationChanged(ctx context.Context, pairKey string) {
	messages, err := n.messages.FindByConversationKey(ctx, pairKey)
	if err != nil {
		zap.L().Warn("failed to load conversation for push", zap.String("key", pairKey), zap.Error(err))
	} else {
		n.broker.Publish(pubsub.ConversationTopic(pairKey), ConversationUpdate{
			ConversationKey: pairKey,
			Messages:        messages,
		})
	}

	n.RosterChanged(ctx)
}

// RosterChanged recomputes and pushes the roster alone, for changes that do
// not touch a single conversation (block/unblock).
func (n *Notifier) RosterChanged(ctx context.Context) {
	roster, err := n.roster.Roster(ctx, nil)
	if err != nil {
		zap.L().Warn("failed to load roster for push", zap.Error(err))
		return
	}

	n.broker.Publish(pubsub.RosterTopic, RosterUpdate{Roster: roster})
}
