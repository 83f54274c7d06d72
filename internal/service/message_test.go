package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/pubsub"
)

const testAdminID = uint(1)

func newMessageFixture(t *testing.T, users *fakeUserRepo, items *fakeItemRepo) (*MessageService, *fakeMessageRepo, *Notifier) {
	t.Helper()

	messages := newFakeMessageRepo()
	roster := NewConversationService(messages, users, testAdminID)
	notifier := NewNotifier(pubsub.NewBroker(), messages, roster)
	svc := NewMessageService(messages, users, items, notifier, testAdminID)

	return svc, messages, notifier
}

func TestMessageService_Send(t *testing.T) {
	admin := domain.User{ID: testAdminID, Name: "Shop", Role: domain.RoleAdmin}
	alice := domain.User{ID: 7, Name: "Alice", Role: domain.RoleUser}

	t.Run("should append the message with the shared pair key", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newMessageFixture(t, newFakeUserRepo(admin, alice), newFakeItemRepo())

		sent, err := svc.Send(context.Background(), alice.ID, testAdminID, "hello", domain.MessageKindUser, nil)

		req.NoError(err)
		req.Equal(domain.PairKey(alice.ID, testAdminID), sent.ConversationKey)
		req.Equal(alice.ID, sent.SenderID)
		req.Equal("Alice", sent.SenderName)
		req.False(sent.Read)
		req.False(sent.Timestamp.IsZero())
	})

	t.Run("should use the same key regardless of direction", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newMessageFixture(t, newFakeUserRepo(admin, alice), newFakeItemRepo())

		fromAlice, err := svc.Send(context.Background(), alice.ID, testAdminID, "hi", domain.MessageKindUser, nil)
		req.NoError(err)

		fromAdmin, err := svc.Send(context.Background(), testAdminID, alice.ID, "hi back", domain.MessageKindAdmin, nil)
		req.NoError(err)

		req.Equal(fromAlice.ConversationKey, fromAdmin.ConversationKey)
	})

	t.Run("should reject blank content before writing anything", func(t *testing.T) {
		req := require.New(t)
		svc, messages, _ := newMessageFixture(t, newFakeUserRepo(admin, alice), newFakeItemRepo())

		_, err := svc.Send(context.Background(), alice.ID, testAdminID, "   \n\t ", domain.MessageKindUser, nil)

		req.ErrorIs(err, ErrEmptyContent)
		req.Empty(messages.messages)
	})

	t.Run("should reject a blocked sender", func(t *testing.T) {
		req := require.New(t)
		blocked := domain.User{ID: 9, Name: "Mallory", Blocked: true}
		svc, messages, _ := newMessageFixture(t, newFakeUserRepo(admin, blocked), newFakeItemRepo())

		_, err := svc.Send(context.Background(), blocked.ID, testAdminID, "let me in", domain.MessageKindUser, nil)

		req.ErrorIs(err, ErrUserBlocked)
		req.Empty(messages.messages)
	})

	t.Run("should attach commerce metadata when given", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newMessageFixture(t, newFakeUserRepo(admin, alice), newFakeItemRepo())

		sent, err := svc.Send(context.Background(), alice.ID, testAdminID, "about this item", domain.MessageKindUser, &domain.CommerceMeta{
			ItemID:   42,
			ItemName: "Mug",
			Price:    50000,
		})

		req.NoError(err)
		req.NotNil(sent.ItemID)
		req.Equal(uint(42), *sent.ItemID)
		req.Equal("Mug", sent.ItemName)
		req.Equal(int64(50000), sent.Price)
	})

	t.Run("should push the updated conversation to subscribers", func(t *testing.T) {
		req := require.New(t)
		svc, _, notifier := newMessageFixture(t, newFakeUserRepo(admin, alice), newFakeItemRepo())

		key := domain.PairKey(alice.ID, testAdminID)
		sub := notifier.SubscribeConversation(key)
		defer sub.Close()

		_, err := svc.Send(context.Background(), alice.ID, testAdminID, "ping", domain.MessageKindUser, nil)
		req.NoError(err)

		select {
		case event := <-sub.Events():
			update, ok := event.Payload.(ConversationUpdate)
			req.True(ok)
			req.Equal(key, update.ConversationKey)
			req.Len(update.Messages, 1)
		default:
			t.Fatal("expected a conversation push")
		}
	})
}

func TestMessageService_PlaceOrder(t *testing.T) {
	admin := domain.User{ID: testAdminID, Name: "Shop", Role: domain.RoleAdmin}
	buyer := domain.User{ID: 3, Name: "Bob", Role: domain.RoleUser}
	mug := domain.Item{ID: 5, Name: "Mug", Price: 75000, Stock: 2}

	t.Run("should post the order without touching stock", func(t *testing.T) {
		req := require.New(t)
		items := newFakeItemRepo(mug)
		svc, _, _ := newMessageFixture(t, newFakeUserRepo(admin, buyer), items)

		sent, err := svc.PlaceOrder(context.Background(), buyer.ID, mug.ID)

		req.NoError(err)
		req.Equal(buyer.ID, sent.SenderID)
		req.Equal(testAdminID, sent.ReceiverID)
		req.Contains(sent.Content, "NEW ORDER")
		req.Contains(sent.Content, "Mug")
		req.Contains(sent.Content, "Rp 75000")
		req.NotNil(sent.ItemID)
		req.Equal(mug.ID, *sent.ItemID)

		// Ordering is a message, not a reservation.
		req.Equal(2, items.items[mug.ID].Stock)
	})

	t.Run("should refuse an order for an out-of-stock item", func(t *testing.T) {
		req := require.New(t)
		empty := domain.Item{ID: 6, Name: "Gone", Price: 1000, Stock: 0}
		svc, messages, _ := newMessageFixture(t, newFakeUserRepo(admin, buyer), newFakeItemRepo(empty))

		_, err := svc.PlaceOrder(context.Background(), buyer.ID, empty.ID)

		req.ErrorIs(err, ErrInsufficientStock)
		req.Empty(messages.messages)
	})

	t.Run("should refuse an order for an unknown item", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newMessageFixture(t, newFakeUserRepo(admin, buyer), newFakeItemRepo())

		_, err := svc.PlaceOrder(context.Background(), buyer.ID, 404)

		req.ErrorIs(err, ErrItemNotFound)
	})
}

func TestMessageService_ListConversation(t *testing.T) {
	admin := domain.User{ID: testAdminID, Name: "Shop", Role: domain.RoleAdmin}
	alice := domain.User{ID: 7, Name: "Alice", Role: domain.RoleUser}

	t.Run("should return messages oldest first", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newMessageFixture(t, newFakeUserRepo(admin, alice), newFakeItemRepo())

		for _, content := range []string{"first", "second", "third"} {
			_, err := svc.Send(context.Background(), alice.ID, testAdminID, content, domain.MessageKindUser, nil)
			req.NoError(err)
		}

		messages, err := svc.ListConversation(context.Background(), testAdminID, alice.ID, testAdminID, false)

		req.NoError(err)
		req.Len(messages, 3)
		req.Equal("first", messages[0].Content)
		req.Equal("third", messages[2].Content)
	})

	t.Run("should flip only messages addressed to the viewer when marking read", func(t *testing.T) {
		req := require.New(t)
		svc, store, _ := newMessageFixture(t, newFakeUserRepo(admin, alice), newFakeItemRepo())

		_, err := svc.Send(context.Background(), alice.ID, testAdminID, "to admin", domain.MessageKindUser, nil)
		req.NoError(err)
		_, err = svc.Send(context.Background(), testAdminID, alice.ID, "to alice", domain.MessageKindAdmin, nil)
		req.NoError(err)

		messages, err := svc.ListConversation(context.Background(), testAdminID, alice.ID, testAdminID, true)
		req.NoError(err)
		req.Len(messages, 2)

		for _, m := range store.messages {
			if m.ReceiverID == testAdminID {
				req.True(m.Read)
			} else {
				req.False(m.Read, "the admin opening a chat must not read the customer's copy")
			}
		}
	})

	t.Run("should be idempotent when marking an already-read thread", func(t *testing.T) {
		req := require.New(t)
		svc, _, notifier := newMessageFixture(t, newFakeUserRepo(admin, alice), newFakeItemRepo())

		_, err := svc.Send(context.Background(), alice.ID, testAdminID, "once", domain.MessageKindUser, nil)
		req.NoError(err)

		_, err = svc.ListConversation(context.Background(), testAdminID, alice.ID, testAdminID, true)
		req.NoError(err)

		// Nothing left to flip; the second view must not push again.
		sub := notifier.SubscribeConversation(domain.PairKey(alice.ID, testAdminID))
		defer sub.Close()

		_, err = svc.ListConversation(context.Background(), testAdminID, alice.ID, testAdminID, true)
		req.NoError(err)

		select {
		case <-sub.Events():
			t.Fatal("no push expected for a no-op mark read")
		default:
		}
	})
}

func TestMessageService_MarkRead(t *testing.T) {
	admin := domain.User{ID: testAdminID, Name: "Shop", Role: domain.RoleAdmin}
	alice := domain.User{ID: 7, Name: "Alice", Role: domain.RoleUser}

	t.Run("should stay read once read", func(t *testing.T) {
		req := require.New(t)
		svc, store, _ := newMessageFixture(t, newFakeUserRepo(admin, alice), newFakeItemRepo())

		sent, err := svc.Send(context.Background(), alice.ID, testAdminID, "read me", domain.MessageKindUser, nil)
		req.NoError(err)

		req.NoError(svc.MarkRead(context.Background(), sent.ID, admin))
		req.NoError(svc.MarkRead(context.Background(), sent.ID, admin))
		req.True(store.messages[0].Read)
	})

	t.Run("should notify conversation and roster subscribers on a flip", func(t *testing.T) {
		req := require.New(t)
		svc, _, notifier := newMessageFixture(t, newFakeUserRepo(admin, alice), newFakeItemRepo())

		sent, err := svc.Send(context.Background(), alice.ID, testAdminID, "read me", domain.MessageKindUser, nil)
		req.NoError(err)

		convSub := notifier.SubscribeConversation(sent.ConversationKey)
		rosterSub := notifier.SubscribeRoster()

		req.NoError(svc.MarkRead(context.Background(), sent.ID, admin))

		select {
		case event := <-convSub.Events():
			update, ok := event.Payload.(ConversationUpdate)
			req.True(ok)
			req.True(update.Messages[0].Read)
		default:
			t.Fatal("expected a conversation push after the read flag flipped")
		}

		select {
		case event := <-rosterSub.Events():
			update, ok := event.Payload.(RosterUpdate)
			req.True(ok)
			req.False(update.Roster[0].Unread)
		default:
			t.Fatal("expected a roster push after the read flag flipped")
		}
	})

	t.Run("should push nothing for an already-read message", func(t *testing.T) {
		req := require.New(t)
		svc, _, notifier := newMessageFixture(t, newFakeUserRepo(admin, alice), newFakeItemRepo())

		sent, err := svc.Send(context.Background(), alice.ID, testAdminID, "read me", domain.MessageKindUser, nil)
		req.NoError(err)
		req.NoError(svc.MarkRead(context.Background(), sent.ID, admin))

		convSub := notifier.SubscribeConversation(sent.ConversationKey)
		rosterSub := notifier.SubscribeRoster()

		req.NoError(svc.MarkRead(context.Background(), sent.ID, admin))

		select {
		case <-convSub.Events():
			t.Fatal("no conversation push expected for a no-op mark read")
		default:
		}
		select {
		case <-rosterSub.Events():
			t.Fatal("no roster push expected for a no-op mark read")
		default:
		}
	})

	t.Run("should refuse a viewer who is not the receiver", func(t *testing.T) {
		req := require.New(t)
		bob := domain.User{ID: 8, Name: "Bob", Role: domain.RoleUser}
		svc, store, notifier := newMessageFixture(t, newFakeUserRepo(admin, alice, bob), newFakeItemRepo())

		sent, err := svc.Send(context.Background(), testAdminID, alice.ID, "for alice", domain.MessageKindAdmin, nil)
		req.NoError(err)

		sub := notifier.SubscribeConversation(sent.ConversationKey)

		err = svc.MarkRead(context.Background(), sent.ID, bob)

		req.ErrorIs(err, ErrNotMessageReceiver)
		req.False(store.messages[0].Read)
		select {
		case <-sub.Events():
			t.Fatal("no push expected for a refused mark read")
		default:
		}
	})

	t.Run("should let the admin flip a message addressed to someone else", func(t *testing.T) {
		req := require.New(t)
		svc, store, _ := newMessageFixture(t, newFakeUserRepo(admin, alice), newFakeItemRepo())

		sent, err := svc.Send(context.Background(), testAdminID, alice.ID, "for alice", domain.MessageKindAdmin, nil)
		req.NoError(err)

		req.NoError(svc.MarkRead(context.Background(), sent.ID, admin))
		req.True(store.messages[0].Read)
	})

	t.Run("should report a missing message", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newMessageFixture(t, newFakeUserRepo(admin, alice), newFakeItemRepo())

		err := svc.MarkRead(context.Background(), 12345, admin)

		req.ErrorIs(err, ErrMessageNotFound)
	})
}

func TestMessageService_DeleteConversation(t *testing.T) {
	admin := domain.User{ID: testAdminID, Name: "Shop", Role: domain.RoleAdmin}
	alice := domain.User{ID: 7, Name: "Alice", Role: domain.RoleUser}
	bob := domain.User{ID: 8, Name: "Bob", Role: domain.RoleUser}

	t.Run("should remove the thread and leave others alone", func(t *testing.T) {
		req := require.New(t)
		svc, store, _ := newMessageFixture(t, newFakeUserRepo(admin, alice, bob), newFakeItemRepo())

		_, err := svc.Send(context.Background(), alice.ID, testAdminID, "from alice", domain.MessageKindUser, nil)
		req.NoError(err)
		_, err = svc.Send(context.Background(), bob.ID, testAdminID, "from bob", domain.MessageKindUser, nil)
		req.NoError(err)

		req.NoError(svc.DeleteConversation(context.Background(), testAdminID, alice.ID))

		req.Len(store.messages, 1)
		req.Equal(bob.ID, store.messages[0].SenderID)
	})
}
