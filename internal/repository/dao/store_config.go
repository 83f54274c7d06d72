package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// storeConfigID pins the config to a single row, mirroring the one
// config/store document the storefront reads.
const storeConfigID = 1

type StoreConfig struct {
	ID uint `gorm:"primaryKey"`

	Name    string `gorm:"not null"`
	Logo    string
	Balance int64 `gorm:"not null;default:0"`

	UpdatedAt time.Time `gorm:"not null"`
}

func (StoreConfig) TableName() string {
	return "store_configs"
}

type StoreConfigDAO struct {
	db *gorm.DB
}

func NewStoreConfigDAO(db *gorm.DB) *StoreConfigDAO {
	return &StoreConfigDAO{
		db: db,
	}
}

// Get returns the singleton config row, creating it on first read.
func (d *StoreConfigDAO) Get(ctx context.Context) (StoreConfig, error) {
	var conf StoreConfig

	result := d.db.WithContext(ctx).First(&conf, storeConfigID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			conf = StoreConfig{ID: storeConfigID, Name: "AstralShop"}
			if err := d.db.WithContext(ctx).Create(&conf).Error; err != nil {
				return StoreConfig{}, wrapBackendErr(err)
			}

			return conf, nil
		}

		return StoreConfig{}, wrapBackendErr(result.Error)
	}

	return conf, nil
}

// Save overwrites name and logo. Balance is deliberately excluded; only the
// settlement engine credits it.
func (d *StoreConfigDAO) Save(ctx context.Context, conf StoreConfig) (StoreConfig, error) {
	if _, err := d.Get(ctx); err != nil {
		return StoreConfig{}, err
	}

	result := d.db.WithContext(ctx).
		Model(&StoreConfig{ID: storeConfigID}).
		Updates(map[string]interface{}{
			"name": conf.Name,
			"logo": conf.Logo,
		})
	if result.Error != nil {
		return StoreConfig{}, wrapBackendErr(result.Error)
	}

	return d.Get(ctx)
}

func (d *StoreConfigDAO) CreditBalance(ctx context.Context, amount int64) (int64, error) {
	return d.creditBalance(d.db.WithContext(ctx), amount)
}

func (d *StoreConfigDAO) creditBalance(db *gorm.DB, amount int64) (int64, error) {
	result := db.
		Model(&StoreConfig{}).
		Where("id = ?", storeConfigID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return 0, wrapBackendErr(result.Error)
	}

	var conf StoreConfig
	if err := db.First(&conf, storeConfigID).Error; err != nil {
		return 0, wrapBackendErr(err)
	}

	return conf.Balance, nil
}

// DebitBalance is the compensation path for a failed settlement.
func (d *StoreConfigDAO) DebitBalance(ctx context.Context, amount int64) (int64, error) {
	return d.creditBalance(d.db.WithContext(ctx), -amount)
}
