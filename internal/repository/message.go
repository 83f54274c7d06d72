package repository

import (
	"context"
	"fmt"

	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/repository/dao"
)

var (
	ErrMessageNotFound    = dao.ErrMessageNotFound
	ErrBackendUnavailable = dao.ErrBackendUnavailable
)

type MessageDAO interface {
	Insert(ctx context.Context, message dao.Message) (dao.Message, error)
	FindByID(ctx context.Context, id uint) (dao.Message, error)
	FindByConversationKey(ctx context.Context, key string) ([]dao.Message, error)
	FindAll(ctx context.Context) ([]dao.Message, error)
	MarkRead(ctx context.Context, id uint) error
	MarkConversationRead(ctx context.Context, key string, receiverID uint) ([]uint, error)
	DeleteByConversationKey(ctx context.Context, key string) error
}

type MessageRepository struct {
	dao MessageDAO
}

func NewMessageRepository(dao MessageDAO) *MessageRepository {
	return &MessageRepository{
		dao: dao,
	}
}

func (r *MessageRepository) Create(ctx context.Context, message domain.Message) (domain.Message, error) {
	created, err := r.dao.Insert(ctx, messageDomainToDAO(message))
	if err != nil {
		return domain.Message{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return messageDAOToDomain(created), nil
}

func (r *MessageRepository) FindByConversationKey(ctx context.Context, key string) ([]domain.Message, error) {
	found, err := r.dao.FindByConversationKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByConversationKey -> %w", err)
	}

	return messagesDAOToDomain(found), nil
}

func (r *MessageRepository) FindAll(ctx context.Context) ([]domain.Message, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return messagesDAOToDomain(found), nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id uint) (domain.Message, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Message{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return messageDAOToDomain(found), nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id uint) error {
	if err := r.dao.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("r.dao.MarkRead -> %w", err)
	}

	return nil
}

func (r *MessageRepository) MarkConversationRead(ctx context.Context, key string, receiverID uint) ([]uint, error) {
	ids, err := r.dao.MarkConversationRead(ctx, key, receiverID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.MarkConversationRead -> %w", err)
	}

	return ids, nil
}

func (r *MessageRepository) DeleteByConversationKey(ctx context.Context, key string) error {
	if err := r.dao.DeleteByConversationKey(ctx, key); err != nil {
		return fmt.Errorf("r.dao.DeleteByConversationKey -> %w", err)
	}

	return nil
}

func messageDomainToDAO(m domain.Message) dao.Message {
	return dao.Message{
		ID:              m.ID,
		ConversationKey: m.ConversationKey,
		SenderID:        m.SenderID,
		SenderName:      m.SenderName,
		ReceiverID:      m.ReceiverID,
		Content:         m.Content,
		Kind:            string(m.Kind),
		Timestamp:       m.Timestamp,
		Read:            m.Read,
		ItemID:          m.ItemID,
		ItemName:        m.ItemName,
		Price:           m.Price,
	}
}

func messageDAOToDomain(m dao.Message) domain.Message {
	return domain.Message{
		ID:              m.ID,
		ConversationKey: m.ConversationKey,
		SenderID:        m.SenderID,
		SenderName:      m.SenderName,
		ReceiverID:      m.ReceiverID,
		Content:         m.Content,
		Kind:            domain.MessageKind(m.Kind),
		Timestamp:       m.Timestamp,
		Read:            m.Read,
		ItemID:          m.ItemID,
		ItemName:        m.ItemName,
		Price:           m.Price,
	}
}

func messagesDAOToDomain(daoMessages []dao.Message) []domain.Message {
	messages := make([]domain.Message, len(daoMessages))
	for i, m := range daoMessages {
		messages[i] = messageDAOToDomain(m)
	}
	return messages
}
