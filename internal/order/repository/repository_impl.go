// Package repository implements order persistence on gorm.
package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/smallbiznis/warung/internal/order/domain"
)

type repo struct{}

// Provide returns the order repository implementation.
func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) CreateItems(ctx context.Context, db *gorm.DB, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) UpdateHeader(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Omit("Items").Save(order).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID, includeDeleted bool) (*domain.Order, error) {
	q := db.WithContext(ctx)
	if includeDeleted {
		q = q.Unscoped()
	}
	var order domain.Order
	err := q.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.created_at asc, order_items.id asc") }).
		Preload("Items.Modifiers").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Order, error) {
	q := db.WithContext(ctx).Model(&domain.Order{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("customer_name LIKE ? OR customer_phone LIKE ?", like, like)
	}
	if filter.Start != nil {
		q = q.Where("created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("created_at < ?", *filter.End)
	}
	if len(filter.ProductIDs) > 0 {
		q = q.Where("id IN (?)",
			db.Model(&domain.OrderItem{}).
				Select("order_id").
				Where("product_id IN ?", filter.ProductIDs),
		)
	}
	if filter.HasDiscount != nil {
		if *filter.HasDiscount {
			q = q.Where("discount_percent > 0")
		} else {
			q = q.Where("discount_percent = 0")
		}
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var orders []domain.Order
	err := q.
		Preload("Items").
		Preload("Items.Modifiers").
		Order("created_at desc, id desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Order{}, "id = ?", id).Error
}
