package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/pubsub"
	"github.com/astralshopid/astral-api/internal/repository"
)

type fakeAtomicSettler struct {
	outcome repository.SettlementOutcome
	err     error
	called  bool
}

func (f *fakeAtomicSettler) Settle(_ context.Context, transaction domain.Transaction, confirmation domain.Message) (repository.SettlementOutcome, error) {
	f.called = true
	if f.err != nil {
		return repository.SettlementOutcome{}, f.err
	}
	f.outcome.Transaction = transaction
	f.outcome.Transaction.ID = 1
	f.outcome.Confirmation = confirmation
	return f.outcome, nil
}

type settlementFixture struct {
	svc      *SettlementService
	items    *fakeItemRepo
	balance  *fakeBalance
	log      *fakeTransactionLog
	messages *fakeMessageRepo
	notifier *Notifier
}

func newSettlementFixture(t *testing.T, atomic AtomicSettler, users *fakeUserRepo, items *fakeItemRepo) *settlementFixture {
	t.Helper()

	balance := &fakeBalance{}
	log := &fakeTransactionLog{}
	messages := newFakeMessageRepo()
	roster := NewConversationService(messages, users, testAdminID)
	notifier := NewNotifier(pubsub.NewBroker(), messages, roster)

	return &settlementFixture{
		svc:      NewSettlementService(atomic, items, balance, log, messages, users, notifier, testAdminID),
		items:    items,
		balance:  balance,
		log:      log,
		messages: messages,
		notifier: notifier,
	}
}

func TestSettlementService_Settle(t *testing.T) {
	admin := domain.User{ID: testAdminID, Name: "Shop", Role: domain.RoleAdmin}
	buyer := domain.User{ID: 3, Name: "Bob", Role: domain.RoleUser}
	mug := domain.Item{ID: 5, Name: "Mug", Price: 75000, Stock: 2}

	t.Run("should apply all four steps on the fallback path", func(t *testing.T) {
		req := require.New(t)
		fx := newSettlementFixture(t, nil, newFakeUserRepo(admin, buyer), newFakeItemRepo(mug))

		transaction, err := fx.svc.Settle(context.Background(), mug.ID, buyer.ID, 75000)

		req.NoError(err)
		req.Equal(mug.ID, transaction.ItemID)
		req.Equal("Mug", transaction.ItemName)
		req.Equal("Bob", transaction.BuyerName)
		req.Equal(int64(75000), transaction.Price)

		req.Equal(1, fx.items.items[mug.ID].Stock)
		req.Equal(int64(75000), fx.balance.balance)
		req.Len(fx.log.transactions, 1)

		req.Len(fx.messages.messages, 1)
		confirmation := fx.messages.messages[0]
		req.Equal(domain.PairKey(testAdminID, buyer.ID), confirmation.ConversationKey)
		req.Equal(domain.MessageKindAdmin, confirmation.Kind)
		req.Contains(confirmation.Content, "TRANSACTION COMPLETE")
		req.Contains(confirmation.Content, "Rp 75000")
	})

	t.Run("should push the confirmation to the buyer's conversation", func(t *testing.T) {
		req := require.New(t)
		fx := newSettlementFixture(t, nil, newFakeUserRepo(admin, buyer), newFakeItemRepo(mug))

		sub := fx.notifier.SubscribeConversation(domain.PairKey(testAdminID, buyer.ID))
		defer sub.Close()

		_, err := fx.svc.Settle(context.Background(), mug.ID, buyer.ID, 75000)
		req.NoError(err)

		select {
		case event := <-sub.Events():
			update, ok := event.Payload.(ConversationUpdate)
			req.True(ok)
			req.Len(update.Messages, 1)
		default:
			t.Fatal("expected a conversation push after settlement")
		}
	})

	t.Run("should reject a non-positive price", func(t *testing.T) {
		req := require.New(t)
		fx := newSettlementFixture(t, nil, newFakeUserRepo(admin, buyer), newFakeItemRepo(mug))

		_, err := fx.svc.Settle(context.Background(), mug.ID, buyer.ID, 0)

		req.ErrorIs(err, ErrInvalidPrice)
		req.Equal(2, fx.items.items[mug.ID].Stock)
	})

	t.Run("should refuse to settle an out-of-stock item", func(t *testing.T) {
		req := require.New(t)
		gone := domain.Item{ID: 6, Name: "Gone", Price: 1000, Stock: 0}
		fx := newSettlementFixture(t, nil, newFakeUserRepo(admin, buyer), newFakeItemRepo(gone))

		_, err := fx.svc.Settle(context.Background(), gone.ID, buyer.ID, 1000)

		req.ErrorIs(err, ErrInsufficientStock)
		req.Zero(fx.balance.balance)
		req.Empty(fx.log.transactions)
		req.Empty(fx.messages.messages)
	})

	t.Run("should report unknown items and buyers", func(t *testing.T) {
		req := require.New(t)
		fx := newSettlementFixture(t, nil, newFakeUserRepo(admin, buyer), newFakeItemRepo(mug))

		_, err := fx.svc.Settle(context.Background(), 404, buyer.ID, 1000)
		req.ErrorIs(err, ErrItemNotFound)

		_, err = fx.svc.Settle(context.Background(), mug.ID, 404, 1000)
		req.ErrorIs(err, ErrUserNotFound)
	})

	t.Run("should restore stock when the balance credit fails", func(t *testing.T) {
		req := require.New(t)
		fx := newSettlementFixture(t, nil, newFakeUserRepo(admin, buyer), newFakeItemRepo(mug))
		fx.balance.creditErr = errors.New("ledger offline")

		_, err := fx.svc.Settle(context.Background(), mug.ID, buyer.ID, 75000)

		var partial *domain.PartialSettlementError
		req.ErrorAs(err, &partial)
		req.Equal([]domain.SettlementStep{domain.StepInitiated}, partial.Completed)

		req.Equal(2, fx.items.items[mug.ID].Stock)
		req.Zero(fx.balance.balance)
		req.Empty(fx.log.transactions)
	})

	t.Run("should undo credit and stock when the transaction log fails", func(t *testing.T) {
		req := require.New(t)
		fx := newSettlementFixture(t, nil, newFakeUserRepo(admin, buyer), newFakeItemRepo(mug))
		fx.log.createErr = errors.New("log full")

		_, err := fx.svc.Settle(context.Background(), mug.ID, buyer.ID, 75000)

		var partial *domain.PartialSettlementError
		req.ErrorAs(err, &partial)
		req.Equal([]domain.SettlementStep{domain.StepInitiated}, partial.Completed)

		req.Equal(2, fx.items.items[mug.ID].Stock)
		req.Zero(fx.balance.balance)
	})

	t.Run("should report steps that also failed to roll back", func(t *testing.T) {
		req := require.New(t)
		fx := newSettlementFixture(t, nil, newFakeUserRepo(admin, buyer), newFakeItemRepo(mug))
		fx.log.createErr = errors.New("log full")
		fx.balance.debitErr = errors.New("ledger offline")

		_, err := fx.svc.Settle(context.Background(), mug.ID, buyer.ID, 75000)

		var partial *domain.PartialSettlementError
		req.ErrorAs(err, &partial)
		req.Contains(partial.Completed, domain.StepBalanceCredited)

		// The credit stuck; stock still went back.
		req.Equal(int64(75000), fx.balance.balance)
		req.Equal(2, fx.items.items[mug.ID].Stock)
	})

	t.Run("should keep the sale when only the confirmation fails", func(t *testing.T) {
		req := require.New(t)
		fx := newSettlementFixture(t, nil, newFakeUserRepo(admin, buyer), newFakeItemRepo(mug))
		fx.messages.createErr = errors.New("chat store down")

		transaction, err := fx.svc.Settle(context.Background(), mug.ID, buyer.ID, 75000)

		var partial *domain.PartialSettlementError
		req.ErrorAs(err, &partial)
		req.Equal([]domain.SettlementStep{
			domain.StepInitiated,
			domain.StepStockReserved,
			domain.StepBalanceCredited,
			domain.StepTransactionLogged,
		}, partial.Completed)

		// The audit trail is append-only; nothing is undone.
		req.Zero(transaction.ID)
		req.Equal(1, fx.items.items[mug.ID].Stock)
		req.Equal(int64(75000), fx.balance.balance)
		req.Len(fx.log.transactions, 1)
	})

	t.Run("should prefer the atomic path when available", func(t *testing.T) {
		req := require.New(t)
		atomic := &fakeAtomicSettler{}
		fx := newSettlementFixture(t, atomic, newFakeUserRepo(admin, buyer), newFakeItemRepo(mug))

		transaction, err := fx.svc.Settle(context.Background(), mug.ID, buyer.ID, 75000)

		req.NoError(err)
		req.True(atomic.called)
		req.Equal(uint(1), transaction.ID)

		// The atomic settler owns every mutation; the fallbacks stay idle.
		req.Equal(2, fx.items.items[mug.ID].Stock)
		req.Zero(fx.balance.balance)
		req.Empty(fx.log.transactions)
	})

	t.Run("should surface stock sentinels from the atomic path unchanged", func(t *testing.T) {
		req := require.New(t)
		atomic := &fakeAtomicSettler{err: repository.ErrInsufficientStock}
		fx := newSettlementFixture(t, atomic, newFakeUserRepo(admin, buyer), newFakeItemRepo(mug))

		_, err := fx.svc.Settle(context.Background(), mug.ID, buyer.ID, 75000)

		req.ErrorIs(err, ErrInsufficientStock)
	})
}
