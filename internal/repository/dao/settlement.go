package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettlementDAO runs the whole sale finalization inside one database
// transaction: stock decrement, balance credit, transaction append and
// confirmation message either all commit or none do. Item and config rows are
// locked FOR UPDATE so concurrent settlements on the same item serialize.
type SettlementDAO struct {
	db           *gorm.DB
	items        *ItemDAO
	config       *StoreConfigDAO
	transactions *TransactionDAO
	messages     *MessageDAO
}

func NewSettlementDAO(db *gorm.DB, items *ItemDAO, config *StoreConfigDAO, transactions *TransactionDAO, messages *MessageDAO) *SettlementDAO {
	return &SettlementDAO{
		db:           db,
		items:        items,
		config:       config,
		transactions: transactions,
		messages:     messages,
	}
}

type SettlementResult struct {
	Transaction  Transaction
	Confirmation Message
	NewStock     int
	NewBalance   int64
}

func (d *SettlementDAO) Settle(ctx context.Context, transaction Transaction, confirmation Message) (SettlementResult, error) {
	// Make sure the singleton config row exists before trying to lock it.
	if _, err := d.config.Get(ctx); err != nil {
		return SettlementResult{}, err
	}

	var res SettlementResult

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, transaction.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		newStock, err := d.items.decrementStock(tx, transaction.ItemID, 1)
		if err != nil {
			return err
		}
		res.NewStock = newStock

		var conf StoreConfig
		if err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&conf, storeConfigID).Error; err != nil {
			return err
		}

		newBalance, err := d.config.creditBalance(tx, transaction.Price)
		if err != nil {
			return err
		}
		res.NewBalance = newBalance

		created, err := d.transactions.insert(tx, transaction)
		if err != nil {
			return err
		}
		res.Transaction = created

		sent, err := d.messages.insert(tx, confirmation)
		if err != nil {
			return err
		}
		res.Confirmation = sent

		return nil
	})
	if err != nil {
		return SettlementResult{}, wrapBackendErr(err)
	}

	return res, nil
}
