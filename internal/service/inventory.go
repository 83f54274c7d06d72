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
	ErrItemNotFound      = repository.ErrItemNotFound
	ErrInsufficientStock = repository.ErrInsufficientStock
	ErrEmptyName         = errors.New("item name is empty")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidStock      = errors.New("stock must not be negative")
)

type InventoryRepository interface {
	Create(ctx context.Context, item domain.Item) (domain.Item, error)
	FindByID(ctx context.Context, id uint) (domain.Item, error)
	FindAll(ctx context.Context) ([]domain.Item, error)
	Update(ctx context.Context, item domain.Item) (domain.Item, error)
	Delete(ctx context.Context, id uint) error
	DecrementStock(ctx context.Context, id uint, by int) (int, error)
	SetStock(ctx context.Context, id uint, value int) error
	TotalStock(ctx context.Context) (int, error)
}

// InventoryService owns the item stock lifecycle. Stock only moves through
// the settlement engine or an explicit admin override here; nothing can drive
// it negative.
type InventoryService struct {
	repo InventoryRepository
}

func NewInventoryService(repo InventoryRepository) *InventoryService {
	return &InventoryService{
		repo: repo,
	}
}

func validateItem(item domain.Item) error {
	if strings.TrimSpace(item.Name) == "" {
		return ErrEmptyName
	}
	if item.Price <= 0 {
		return ErrInvalidPrice
	}
	if item.Stock < 0 {
		return ErrInvalidStock
	}

	return nil
}

func (s *InventoryService) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	if err := validateItem(item); err != nil {
		return domain.Item{}, err
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *InventoryService) GetItem(ctx context.Context, id uint) (domain.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return item, nil
}

func (s *InventoryService) GetItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return items, nil
}

func (s *InventoryService) UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	if err := validateItem(item); err != nil {
		return domain.Item{}, err
	}

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *InventoryService) DeleteItem(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// DecrementStock takes `by` units off an item, failing with
// ErrInsufficientStock when the result would go negative. Atomic with respect
// to concurrent decrements on the same item.
func (s *InventoryService) DecrementStock(ctx context.Context, id uint, by int) (int, error) {
	if by <= 0 {
		return 0, ErrInvalidStock
	}

	newStock, err := s.repo.DecrementStock(ctx, id, by)
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrItemNotFound) {
			return newStock, err
		}

		return 0, fmt.Errorf("s.repo.DecrementStock -> %w", err)
	}

	return newStock, nil
}

// SetStock is the unconditional admin override.
func (s *InventoryService) SetStock(ctx context.Context, id uint, value int) error {
	if value < 0 {
		return ErrInvalidStock
	}

	if err := s.repo.SetStock(ctx, id, value); err != nil {
		return fmt.Errorf("s.repo.SetStock -> %w", err)
	}

	return nil
}

func (s *InventoryService) TotalStock(ctx context.Context) (int, error) {
	total, err := s.repo.TotalStock(ctx)
	if err != nil {
		return 0, fmt.Errorf("s.repo.TotalStock -> %w", err)
	}

	return total, nil
}
