package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, req UpdateProductRequest) (*Product, error)
	ListProducts(ctx context.Context, req ListRequest) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)

	CreateModifier(ctx context.Context, req CreateModifierRequest) (*Modifier, error)
	UpdateModifier(ctx context.Context, req UpdateModifierRequest) (*Modifier, error)
	ListModifiers(ctx context.Context, req ListRequest) ([]Modifier, error)
	DeactivateModifier(ctx context.Context, id string) (*Modifier, error)

	LoadPricingCatalog(ctx context.Context, productIDs []snowflake.ID) (*PricingCatalog, error)
}

type ListRequest struct {
	Active *bool
}

type CreateProductRequest struct {
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	HasModifiers *bool           `json:"has_modifiers"`
	Metadata     map[string]any  `json:"metadata"`
}

type UpdateProductRequest struct {
	ID           string           `json:"-"`
	Name         *string          `json:"name"`
	Price        *decimal.Decimal `json:"price"`
	Cost         *decimal.Decimal `json:"cost"`
	IsActive     *bool            `json:"is_active"`
	HasModifiers *bool            `json:"has_modifiers"`
	Metadata     map[string]any   `json:"metadata"`
}

type CreateModifierRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
	Type     string          `json:"type"`
	Metadata map[string]any  `json:"metadata"`
}

type UpdateModifierRequest struct {
	ID       string           `json:"-"`
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Cost     *decimal.Decimal `json:"cost"`
	Type     *string          `json:"type"`
	IsActive *bool            `json:"is_active"`
	Metadata map[string]any   `json:"metadata"`
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrInvalidCost  = errors.New("invalid_cost")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
