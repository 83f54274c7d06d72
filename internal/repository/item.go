package repository

import (
	"context"
	"fmt"

	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/repository/dao"
)

var (
	ErrItemNotFound      = dao.ErrItemNotFound
	ErrInsufficientStock = dao.ErrInsufficientStock
)

type ItemDAO interface {
	Insert(ctx context.Context, item dao.Item) (dao.Item, error)
	FindByID(ctx context.Context, id uint) (dao.Item, error)
	FindAll(ctx context.Context) ([]dao.Item, error)
	Update(ctx context.Context, item dao.Item) (dao.Item, error)
	Delete(ctx context.Context, id uint) error
	DecrementStock(ctx context.Context, id uint, by int) (int, error)
	IncrementStock(ctx context.Context, id uint, by int) error
	SetStock(ctx context.Context, id uint, value int) error
	TotalStock(ctx context.Context) (int, error)
}

type ItemRepository struct {
	dao ItemDAO
}

func NewItemRepository(dao ItemDAO) *ItemRepository {
	return &ItemRepository{
		dao: dao,
	}
}

func (r *ItemRepository) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	created, err := r.dao.Insert(ctx, itemDomainToDAO(item))
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return itemDAOToDomain(created), nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id uint) (domain.Item, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return itemDAOToDomain(found), nil
}

func (r *ItemRepository) FindAll(ctx context.Context) ([]domain.Item, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	items := make([]domain.Item, len(found))
	for i, item := range found {
		items[i] = itemDAOToDomain(item)
	}

	return items, nil
}

func (r *ItemRepository) Update(ctx context.Context, item domain.Item) (domain.Item, error) {
	updated, err := r.dao.Update(ctx, itemDomainToDAO(item))
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return itemDAOToDomain(updated), nil
}

func (r *ItemRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ItemRepository) DecrementStock(ctx context.Context, id uint, by int) (int, error) {
	newStock, err := r.dao.DecrementStock(ctx, id, by)
	if err != nil {
		// Keep the sentinel unwrapped so callers can match it, but record the
		// remaining stock for the insufficient case.
		return newStock, err
	}

	return newStock, nil
}

func (r *ItemRepository) IncrementStock(ctx context.Context, id uint, by int) error {
	if err := r.dao.IncrementStock(ctx, id, by); err != nil {
		return fmt.Errorf("r.dao.IncrementStock -> %w", err)
	}

	return nil
}

func (r *ItemRepository) SetStock(ctx context.Context, id uint, value int) error {
	if err := r.dao.SetStock(ctx, id, value); err != nil {
		return fmt.Errorf("r.dao.SetStock -> %w", err)
	}

	return nil
}

func (r *ItemRepository) TotalStock(ctx context.Context) (int, error) {
	total, err := r.dao.TotalStock(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.TotalStock -> %w", err)
	}

	return total, nil
}

func itemDomainToDAO(item domain.Item) dao.Item {
	return dao.Item{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Stock:       item.Stock,
		Description: item.Description,
		Image:       item.Image,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func itemDAOToDomain(item dao.Item) domain.Item {
	return domain.Item{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Stock:       item.Stock,
		Description: item.Description,
		Image:       item.Image,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
