package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	CreateProduct(ctx context.Context, db *gorm.DB, product *Product) error
	UpdateProduct(ctx context.Context, db *gorm.DB, product *Product) error
	FindProductByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	ListProducts(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Product, error)
	FindActiveProducts(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Product, error)

	CreateModifier(ctx context.Context, db *gorm.DB, modifier *Modifier) error
	UpdateModifier(ctx context.Context, db *gorm.DB, modifier *Modifier) error
	FindModifierByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Modifier, error)
	ListModifiers(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Modifier, error)
	ListActiveModifiers(ctx context.Context, db *gorm.DB) ([]Modifier, error)
}
