package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Transaction struct {
	ID uint `gorm:"primaryKey"`

	ItemID    uint   `gorm:"not null"`
	ItemName  string `gorm:"not null"`
	BuyerID   uint   `gorm:"not null"`
	BuyerName string `gorm:"not null"`
	Price     int64  `gorm:"not null"`

	Timestamp time.Time `gorm:"index;not null"`
}

func (Transaction) TableName() string {
	return "transactions"
}

type TransactionDAO struct {
	db *gorm.DB
}

func NewTransactionDAO(db *gorm.DB) *TransactionDAO {
	return &TransactionDAO{
		db: db,
	}
}

func (d *TransactionDAO) Insert(ctx context.Context, transaction Transaction) (Transaction, error) {
	return d.insert(d.db.WithContext(ctx), transaction)
}

func (d *TransactionDAO) insert(db *gorm.DB, transaction Transaction) (Transaction, error) {
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now().UTC()
	}

	result := db.Create(&transaction)
	if result.Error != nil {
		return Transaction{}, wrapBackendErr(result.Error)
	}

	return transaction, nil
}

func (d *TransactionDAO) FindAll(ctx context.Context) ([]Transaction, error) {
	var transactions []Transaction

	result := d.db.WithContext(ctx).Order("timestamp DESC").Find(&transactions)
	if result.Error != nil {
		return nil, wrapBackendErr(result.Error)
	}

	return transactions, nil
}

func (d *TransactionDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Transaction{}).Count(&count)
	if result.Error != nil {
		return 0, wrapBackendErr(result.Error)
	}

	return count, nil
}
