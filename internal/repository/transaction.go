package repository

import (
	"context"
	"fmt"

	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/repository/dao"
)

type TransactionDAO interface {
	Insert(ctx context.Context, transaction dao.Transaction) (dao.Transaction, error)
	FindAll(ctx context.Context) ([]dao.Transaction, error)
	Count(ctx context.Context) (int64, error)
}

type TransactionRepository struct {
	dao TransactionDAO
}

func NewTransactionRepository(dao TransactionDAO) *TransactionRepository {
	return &TransactionRepository{
		dao: dao,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	created, err := r.dao.Insert(ctx, transactionDomainToDAO(transaction))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return transactionDAOToDomain(created), nil
}

func (r *TransactionRepository) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	transactions := make([]domain.Transaction, len(found))
	for i, t := range found {
		transactions[i] = transactionDAOToDomain(t)
	}

	return transactions, nil
}

func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func transactionDomainToDAO(t domain.Transaction) dao.Transaction {
	return dao.Transaction{
		ID:        t.ID,
		ItemID:    t.ItemID,
		ItemName:  t.ItemName,
		BuyerID:   t.BuyerID,
		BuyerName: t.BuyerName,
		Price:     t.Price,
		Timestamp: t.Timestamp,
	}
}

func transactionDAOToDomain(t dao.Transaction) domain.Transaction {
	return domain.Transaction{
		ID:        t.ID,
		ItemID:    t.ItemID,
		ItemName:  t.ItemName,
		BuyerID:   t.BuyerID,
		BuyerName: t.BuyerName,
		Price:     t.Price,
		Timestamp: t.Timestamp,
	}
}
