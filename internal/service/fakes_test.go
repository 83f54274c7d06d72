package service

import (
	"context"
	"sort"
	"time"

	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/repository"
)

// In-memory stand-ins for the repository layer. They mimic the ordering and
// sentinel behavior of the real DAOs so service logic can be exercised
// without a database.

type fakeUserRepo struct {
	users map[uint]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[uint]domain.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) SetBlocked(_ context.Context, id uint, blocked bool) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Blocked = blocked
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) FindBlocked(_ context.Context) ([]domain.User, error) {
	var blocked []domain.User
	for _, u := range f.users {
		if u.Blocked {
			blocked = append(blocked, u)
		}
	}
	sort.Slice(blocked, func(i, j int) bool { return blocked[i].ID < blocked[j].ID })
	return blocked, nil
}

type fakeMessageRepo struct {
	messages []domain.Message
	nextID   uint
	now      time.Time

	createErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		nextID: 1,
		now:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeMessageRepo) Create(_ context.Context, message domain.Message) (domain.Message, error) {
	if f.createErr != nil {
		return domain.Message{}, f.createErr
	}

	message.ID = f.nextID
	f.nextID++
	if message.Timestamp.IsZero() {
		f.now = f.now.Add(time.Millisecond)
		message.Timestamp = f.now
	}
	f.messages = append(f.messages, message)
	return message, nil
}

func (f *fakeMessageRepo) FindByID(_ context.Context, id uint) (domain.Message, error) {
	for _, m := range f.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.Message{}, repository.ErrMessageNotFound
}

func (f *fakeMessageRepo) FindByConversationKey(_ context.Context, key string) ([]domain.Message, error) {
	var found []domain.Message
	for _, m := range f.messages {
		if m.ConversationKey == key {
			found = append(found, m)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].Timestamp.Equal(found[j].Timestamp) {
			return found[i].ID < found[j].ID
		}
		return found[i].Timestamp.Before(found[j].Timestamp)
	})
	return found, nil
}

func (f *fakeMessageRepo) FindAll(_ context.Context) ([]domain.Message, error) {
	all := make([]domain.Message, len(f.messages))
	copy(all, f.messages)
	sort.Slice(all, func(i, j int) bool {
		if all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].ID > all[j].ID
		}
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	return all, nil
}

func (f *fakeMessageRepo) MarkRead(_ context.Context, id uint) error {
	for i, m := range f.messages {
		if m.ID == id {
			f.messages[i].Read = true
			return nil
		}
	}
	return repository.ErrMessageNotFound
}

func (f *fakeMessageRepo) MarkConversationRead(_ context.Context, key string, receiverID uint) ([]uint, error) {
	var flipped []uint
	for i, m := range f.messages {
		if m.ConversationKey == key && m.ReceiverID == receiverID && !m.Read {
			f.messages[i].Read = true
			flipped = append(flipped, m.ID)
		}
	}
	return flipped, nil
}

func (f *fakeMessageRepo) DeleteByConversationKey(_ context.Context, key string) error {
	kept := f.messages[:0]
	for _, m := range f.messages {
		if m.ConversationKey != key {
			kept = append(kept, m)
		}
	}
	f.messages = kept
	return nil
}

type fakeItemRepo struct {
	items  map[uint]domain.Item
	nextID uint

	decrementErr error
	incrementErr error
}

func newFakeItemRepo(items ...domain.Item) *fakeItemRepo {
	f := &fakeItemRepo{items: make(map[uint]domain.Item)}
	for _, it := range items {
		f.items[it.ID] = it
		if it.ID > f.nextID {
			f.nextID = it.ID
		}
	}
	return f
}

func (f *fakeItemRepo) Create(_ context.Context, item domain.Item) (domain.Item, error) {
	f.nextID++
	item.ID = f.nextID
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeItemRepo) FindAll(_ context.Context) ([]domain.Item, error) {
	all := make([]domain.Item, 0, len(f.items))
	for _, it := range f.items {
		all = append(all, it)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (f *fakeItemRepo) Update(_ context.Context, item domain.Item) (domain.Item, error) {
	if _, ok := f.items[item.ID]; !ok {
		return domain.Item{}, repository.ErrItemNotFound
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeItemRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrItemNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepo) SetStock(_ context.Context, id uint, value int) error {
	it, ok := f.items[id]
	if !ok {
		return repository.ErrItemNotFound
	}
	it.Stock = value
	f.items[id] = it
	return nil
}

func (f *fakeItemRepo) TotalStock(_ context.Context) (int, error) {
	total := 0
	for _, it := range f.items {
		total += it.Stock
	}
	return total, nil
}

func (f *fakeItemRepo) FindByID(_ context.Context, id uint) (domain.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return domain.Item{}, repository.ErrItemNotFound
	}
	return it, nil
}

func (f *fakeItemRepo) DecrementStock(_ context.Context, id uint, by int) (int, error) {
	if f.decrementErr != nil {
		return 0, f.decrementErr
	}
	it, ok := f.items[id]
	if !ok {
		return 0, repository.ErrItemNotFound
	}
	if it.Stock < by {
		return 0, repository.ErrInsufficientStock
	}
	it.Stock -= by
	f.items[id] = it
	return it.Stock, nil
}

func (f *fakeItemRepo) IncrementStock(_ context.Context, id uint, by int) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	it, ok := f.items[id]
	if !ok {
		return repository.ErrItemNotFound
	}
	it.Stock += by
	f.items[id] = it
	return nil
}

type fakeBalance struct {
	balance int64

	creditErr error
	debitErr  error
}

func (f *fakeBalance) CreditBalance(_ context.Context, amount int64) (int64, error) {
	if f.creditErr != nil {
		return 0, f.creditErr
	}
	f.balance += amount
	return f.balance, nil
}

func (f *fakeBalance) DebitBalance(_ context.Context, amount int64) (int64, error) {
	if f.debitErr != nil {
		return 0, f.debitErr
	}
	f.balance -= amount
	return f.balance, nil
}

type fakeTransactionLog struct {
	transactions []domain.Transaction
	nextID       uint

	createErr error
}

func (f *fakeTransactionLog) Create(_ context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	if f.createErr != nil {
		return domain.Transaction{}, f.createErr
	}
	f.nextID++
	transaction.ID = f.nextID
	transaction.Timestamp = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f.transactions = append(f.transactions, transaction)
	return transaction, nil
}
