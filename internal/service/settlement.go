package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/repository"
)

// AtomicSettler applies the whole settlement as one transaction against the
// backing store. Stores without a multi-entity transaction primitive leave it
// nil and the engine falls back to compensating rollback.
type AtomicSettler interface {
	Settle(ctx context.Context, transaction domain.Transaction, confirmation domain.Message) (repository.SettlementOutcome, error)
}

type SettlementInventory interface {
	FindByID(ctx context.Context, id uint) (domain.Item, error)
	DecrementStock(ctx context.Context, id uint, by int) (int, error)
	IncrementStock(ctx context.Context, id uint, by int) error
}

type SettlementBalance interface {
	CreditBalance(ctx context.Context, amount int64) (int64, error)
	DebitBalance(ctx context.Context, amount int64) (int64, error)
}

type SettlementLog interface {
	Create(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error)
}

type SettlementMessenger interface {
	Create(ctx context.Context, message domain.Message) (domain.Message, error)
}

type SettlementUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// SettlementService finalizes a sale: stock decrement, balance credit,
// transaction append and buyer confirmation as one coordinated unit.
// Coupling the four prevents lost sales (stock gone, nothing paid) and
// phantom credit (balance up with no matching stock movement).
type SettlementService struct {
	atomic   AtomicSettler
	items    SettlementInventory
	balance  SettlementBalance
	log      SettlementLog
	messages SettlementMessenger
	users    SettlementUserRepository
	notifier *Notifier
	adminID  uint
}

func NewSettlementService(atomic AtomicSettler, items SettlementInventory, balance SettlementBalance, log SettlementLog, messages SettlementMessenger, users SettlementUserRepository, notifier *Notifier, adminID uint) *SettlementService {
	return &SettlementService{
		atomic:   atomic,
		items:    items,
		balance:  balance,
		log:      log,
		messages: messages,
		users:    users,
		notifier: notifier,
		adminID:  adminID,
	}
}

// Settle runs the sale state machine to completion. Not cancellable once the
// first mutation lands; the context is only honored up to that point.
func (s *SettlementService) Settle(ctx context.Context, itemID, buyerID uint, price int64) (domain.Transaction, error) {
	if price <= 0 {
		return domain.Transaction{}, ErrInvalidPrice
	}

	buyer, err := s.users.FindByID(ctx, buyerID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("s.items.FindByID -> %w", err)
	}
	if item.Stock <= 0 {
		return domain.Transaction{}, ErrInsufficientStock
	}

	transaction := domain.Transaction{
		ItemID:    item.ID,
		ItemName:  item.Name,
		BuyerID:   buyer.ID,
		BuyerName: buyer.Name,
		Price:     price,
	}

	admin, err := s.users.FindByID(ctx, s.adminID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	confirmation := domain.Message{
		ConversationKey: domain.PairKey(s.adminID, buyer.ID),
		SenderID:        s.adminID,
		SenderName:      admin.Name,
		ReceiverID:      buyer.ID,
		Content:         fmt.Sprintf("TRANSACTION COMPLETE\n\nItem: %s\nPrice: Rp %d\n\nThank you for shopping!", item.Name, price),
		Kind:            domain.MessageKindAdmin,
	}

	if s.atomic != nil {
		outcome, err := s.atomic.Settle(ctx, transaction, confirmation)
		if err != nil {
			if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrItemNotFound) {
				return domain.Transaction{}, err
			}

			return domain.Transaction{}, fmt.Errorf("s.atomic.Settle -> %w", err)
		}

		s.notifier.ConversationChanged(ctx, confirmation.ConversationKey)

		return outcome.Transaction, nil
	}

	created, err := s.settleCompensating(ctx, transaction, confirmation)
	if err != nil {
		return domain.Transaction{}, err
	}

	s.notifier.ConversationChanged(ctx, confirmation.ConversationKey)

	return created, nil
}

// settleCompensating runs the steps sequentially for stores without a
// transaction primitive. A failure after the stock decrement restores stock
// (and debits any credited balance) and surfaces a PartialSettlementError
// listing whatever still holds.
func (s *SettlementService) settleCompensating(ctx context.Context, transaction domain.Transaction, confirmation domain.Message) (domain.Transaction, error) {
	completed := []domain.SettlementStep{domain.StepInitiated}

	if _, err := s.items.DecrementStock(ctx, transaction.ItemID, 1); err != nil {
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrItemNotFound) {
			return domain.Transaction{}, err
		}

		return domain.Transaction{}, fmt.Errorf("s.items.DecrementStock -> %w", err)
	}
	completed = append(completed, domain.StepStockReserved)

	if _, err := s.balance.CreditBalance(ctx, transaction.Price); err != nil {
		return domain.Transaction{}, s.rollback(ctx, transaction, false, err)
	}
	completed = append(completed, domain.StepBalanceCredited)

	created, err := s.log.Create(ctx, transaction)
	if err != nil {
		return domain.Transaction{}, s.rollback(ctx, transaction, true, err)
	}
	completed = append(completed, domain.StepTransactionLogged)

	if _, err = s.messages.Create(ctx, confirmation); err != nil {
		// The sale itself is sound; only the notification is missing. The
		// audit trail is append-only, so no rollback - the caller can retry
		// the confirmation.
		return created, &domain.PartialSettlementError{Completed: completed, Err: err}
	}

	return created, nil
}

// rollback undoes the stock reservation (and balance credit, when credited)
// after a mid-flight failure. Steps that could not be undone stay on the
// completed list of the returned error.
func (s *SettlementService) rollback(ctx context.Context, transaction domain.Transaction, credited bool, cause error) error {
	remaining := []domain.SettlementStep{domain.StepInitiated}

	if credited {
		if _, err := s.balance.DebitBalance(ctx, transaction.Price); err != nil {
			remaining = append(remaining, domain.StepBalanceCredited)
		}
	}

	if err := s.items.IncrementStock(ctx, transaction.ItemID, 1); err != nil {
		remaining = append(remaining, domain.StepStockReserved)
	}

	return &domain.PartialSettlementError{Completed: remaining, Err: cause}
}
