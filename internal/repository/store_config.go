package repository

import (
	"context"
	"fmt"

	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/repository/dao"
)

type StoreConfigDAO interface {
	Get(ctx context.Context) (dao.StoreConfig, error)
	Save(ctx context.Context, conf dao.StoreConfig) (dao.StoreConfig, error)
	CreditBalance(ctx context.Context, amount int64) (int64, error)
	DebitBalance(ctx context.Context, amount int64) (int64, error)
}

type StoreConfigRepository struct {
	dao StoreConfigDAO
}

func NewStoreConfigRepository(dao StoreConfigDAO) *StoreConfigRepository {
	return &StoreConfigRepository{
		dao: dao,
	}
}

func (r *StoreConfigRepository) Get(ctx context.Context) (domain.StoreConfig, error) {
	conf, err := r.dao.Get(ctx)
	if err != nil {
		return domain.StoreConfig{}, fmt.Errorf("r.dao.Get -> %w", err)
	}

	return storeConfigDAOToDomain(conf), nil
}

func (r *StoreConfigRepository) Save(ctx context.Context, conf domain.StoreConfig) (domain.StoreConfig, error) {
	saved, err := r.dao.Save(ctx, dao.StoreConfig{
		Name: conf.Name,
		Logo: conf.Logo,
	})
	if err != nil {
		return domain.StoreConfig{}, fmt.Errorf("r.dao.Save -> %w", err)
	}

	return storeConfigDAOToDomain(saved), nil
}

func (r *StoreConfigRepository) CreditBalance(ctx context.Context, amount int64) (int64, error) {
	balance, err := r.dao.CreditBalance(ctx, amount)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CreditBalance -> %w", err)
	}

	return balance, nil
}

func (r *StoreConfigRepository) DebitBalance(ctx context.Context, amount int64) (int64, error) {
	balance, err := r.dao.DebitBalance(ctx, amount)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DebitBalance -> %w", err)
	}

	return balance, nil
}

func storeConfigDAOToDomain(c dao.StoreConfig) domain.StoreConfig {
	return domain.StoreConfig{
		Name:      c.Name,
		Logo:      c.Logo,
		Balance:   c.Balance,
		UpdatedAt: c.UpdatedAt,
	}
}
