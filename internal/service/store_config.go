package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/astralshopid/astral-api/internal/domain"
)

type StoreConfigRepository interface {
	Get(ctx context.Context) (domain.StoreConfig, error)
	Save(ctx context.Context, conf domain.StoreConfig) (domain.StoreConfig, error)
}

type TransactionReader interface {
	FindAll(ctx context.Context) ([]domain.Transaction, error)
	Count(ctx context.Context) (int64, error)
}

type StockCounter interface {
	TotalStock(ctx context.Context) (int, error)
}

type StoreConfigService struct {
	repo         StoreConfigRepository
	transactions TransactionReader
	stock        StockCounter
}

func NewStoreConfigService(repo StoreConfigRepository, transactions TransactionReader, stock StockCounter) *StoreConfigService {
	return &StoreConfigService{
		repo:         repo,
		transactions: transactions,
		stock:        stock,
	}
}

func (s *StoreConfigService) GetConfig(ctx context.Context) (domain.StoreConfig, error) {
	conf, err := s.repo.Get(ctx)
	if err != nil {
		return domain.StoreConfig{}, fmt.Errorf("s.repo.Get -> %w", err)
	}

	return conf, nil
}

// SaveConfig overwrites the store name and logo. The balance is not part of
// the settings form; only the settlement engine moves it.
func (s *StoreConfigService) SaveConfig(ctx context.Context, conf domain.StoreConfig) (domain.StoreConfig, error) {
	if strings.TrimSpace(conf.Name) == "" {
		return domain.StoreConfig{}, ErrEmptyName
	}

	saved, err := s.repo.Save(ctx, conf)
	if err != nil {
		return domain.StoreConfig{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return saved, nil
}

func (s *StoreConfigService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	transactions, err := s.transactions.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.transactions.FindAll -> %w", err)
	}

	return transactions, nil
}

func (s *StoreConfigService) Stats(ctx context.Context) (domain.StoreStats, error) {
	conf, err := s.repo.Get(ctx)
	if err != nil {
		return domain.StoreStats{}, fmt.Errorf("s.repo.Get -> %w", err)
	}

	count, err := s.transactions.Count(ctx)
	if err != nil {
		return domain.StoreStats{}, fmt.Errorf("s.transactions.Count -> %w", err)
	}

	total, err := s.stock.TotalStock(ctx)
	if err != nil {
		return domain.StoreStats{}, fmt.Errorf("s.stock.TotalStock -> %w", err)
	}

	return domain.StoreStats{
		Balance:      conf.Balance,
		Transactions: count,
		TotalStock:   total,
	}, nil
}
