package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, order *Order) error
	CreateItems(ctx context.Context, db *gorm.DB, items []OrderItem) error
	UpdateHeader(ctx context.Context, db *gorm.DB, order *Order) error
	// FindByID preloads items and their modifier snapshots. With
	// includeDeleted the lookup bypasses the soft-delete filter so callers
	// can distinguish "gone" from "deleted".
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID, includeDeleted bool) (*Order, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Order, error)
	SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
