package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Item struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"not null"`
	Price       int64  `gorm:"not null"`
	Stock       int    `gorm:"not null;default:0"`
	Description string
	Image       string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Item) TableName() string {
	return "shop_items"
}

type ItemDAO struct {
	db *gorm.DB
}

func NewItemDAO(db *gorm.DB) *ItemDAO {
	return &ItemDAO{
		db: db,
	}
}

func (d *ItemDAO) Insert(ctx context.Context, item Item) (Item, error) {
	result := d.db.WithContext(ctx).Create(&item)
	if result.Error != nil {
		return Item{}, wrapBackendErr(result.Error)
	}

	return item, nil
}

func (d *ItemDAO) FindByID(ctx context.Context, id uint) (Item, error) {
	var item Item

	result := d.db.WithContext(ctx).First(&item, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Item{}, ErrItemNotFound
		}

		return Item{}, wrapBackendErr(result.Error)
	}

	return item, nil
}

func (d *ItemDAO) FindAll(ctx context.Context) ([]Item, error) {
	var items []Item

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&items)
	if result.Error != nil {
		return nil, wrapBackendErr(result.Error)
	}

	return items, nil
}

func (d *ItemDAO) Update(ctx context.Context, item Item) (Item, error) {
	result := d.db.WithContext(ctx).
		Model(&Item{ID: item.ID}).
		Updates(map[string]interface{}{
			"name":        item.Name,
			"price":       item.Price,
			"stock":       item.Stock,
			"description": item.Description,
			"image":       item.Image,
		})
	if result.Error != nil {
		return Item{}, wrapBackendErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return Item{}, ErrItemNotFound
	}

	return d.FindByID(ctx, item.ID)
}

func (d *ItemDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Item{}, id)
	if result.Error != nil {
		return wrapBackendErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// DecrementStock takes `by` units off the item in a single conditional
// statement, so concurrent decrements can never drive stock negative.
func (d *ItemDAO) DecrementStock(ctx context.Context, id uint, by int) (int, error) {
	return d.decrementStock(d.db.WithContext(ctx), id, by)
}

func (d *ItemDAO) decrementStock(db *gorm.DB, id uint, by int) (int, error) {
	result := db.
		Model(&Item{}).
		Where("id = ? AND stock >= ?", id, by).
		UpdateColumn("stock", gorm.Expr("stock - ?", by))
	if result.Error != nil {
		return 0, wrapBackendErr(result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the item is missing or stock was too low.
		var item Item
		if err := db.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrItemNotFound
			}
			return 0, wrapBackendErr(err)
		}

		return item.Stock, ErrInsufficientStock
	}

	var item Item
	if err := db.First(&item, id).Error; err != nil {
		return 0, wrapBackendErr(err)
	}

	return item.Stock, nil
}

// IncrementStock is the compensation path for a failed settlement.
func (d *ItemDAO) IncrementStock(ctx context.Context, id uint, by int) error {
	result := d.db.WithContext(ctx).
		Model(&Item{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", by))
	if result.Error != nil {
		return wrapBackendErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (d *ItemDAO) SetStock(ctx context.Context, id uint, value int) error {
	result := d.db.WithContext(ctx).
		Model(&Item{}).
		Where("id = ?", id).
		Update("stock", value)
	if result.Error != nil {
		return wrapBackendErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (d *ItemDAO) TotalStock(ctx context.Context) (int, error) {
	var total *int

	err := d.db.WithContext(ctx).
		Model(&Item{}).
		Select("SUM(stock)").
		Scan(&total).Error
	if err != nil {
		return 0, wrapBackendErr(err)
	}
	if total == nil {
		return 0, nil
	}

	return *total, nil
}
