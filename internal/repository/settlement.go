package repository

import (
	"context"
	"fmt"

	"github.com/astralshopid/astral-api/internal/domain"
	"github.com/astralshopid/astral-api/internal/repository/dao"
)

type SettlementDAO interface {
	Settle(ctx context.Context, transaction dao.Transaction, confirmation dao.Message) (dao.SettlementResult, error)
}

// SettlementRepository exposes the atomic settlement path. The backing store
// here (Postgres) has real transactions, so the engine never needs the
// compensating fallback when wired against it.
type SettlementRepository struct {
	dao SettlementDAO
}

func NewSettlementRepository(dao SettlementDAO) *SettlementRepository {
	return &SettlementRepository{
		dao: dao,
	}
}

type SettlementOutcome struct {
	Transaction  domain.Transaction
	Confirmation domain.Message
	NewStock     int
	NewBalance   int64
}

func (r *SettlementRepository) Settle(ctx context.Context, transaction domain.Transaction, confirmation domain.Message) (SettlementOutcome, error) {
	res, err := r.dao.Settle(ctx, transactionDomainToDAO(transaction), messageDomainToDAO(confirmation))
	if err != nil {
		// Sentinels (ErrInsufficientStock, ErrItemNotFound) must survive
		// unwrapped matching at the service layer.
		return SettlementOutcome{}, fmt.Errorf("r.dao.Settle -> %w", err)
	}

	return SettlementOutcome{
		Transaction:  transactionDAOToDomain(res.Transaction),
		Confirmation: messageDAOToDomain(res.Confirmation),
		NewStock:     res.NewStock,
		NewBalance:   res.NewBalance,
	}, nil
}
