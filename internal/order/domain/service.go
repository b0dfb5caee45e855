package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Order, error)
	Update(ctx context.Context, req UpdateRequest) (*Order, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req ListRequest) ([]Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
}

// LineItemRequest references catalog rows by id; unknown modifier ids are
// silently dropped, an unknown product id fails the whole submission.
type LineItemRequest struct {
	ProductID   string   `json:"product_id"`
	Quantity    int64    `json:"quantity"`
	ModifierIDs []string `json:"modifier_ids"`
}

type CreateRequest struct {
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone"`
	Items           []LineItemRequest `json:"items"`
	DiscountPercent decimal.Decimal   `json:"discount_percent"`
	DiscountNote    string            `json:"discount_note"`
}

// UpdateRequest may change header fields and append items. Existing items are
// immutable; there is no removal operation.
type UpdateRequest struct {
	ID              string            `json:"-"`
	CustomerName    *string           `json:"customer_name"`
	CustomerPhone   *string           `json:"customer_phone"`
	DiscountPercent *decimal.Decimal  `json:"discount_percent"`
	DiscountNote    *string           `json:"discount_note"`
	AddItems        []LineItemRequest `json:"add_items"`
}

type ListRequest struct {
	Search      string
	Start       *time.Time
	End         *time.Time
	ProductIDs  []snowflake.ID
	HasDiscount *bool
	Limit       int
}

var (
	ErrInvalidCustomerName = errors.New("invalid_customer_name")
	ErrNoItems             = errors.New("invalid_items")
	ErrUnknownProduct      = errors.New("unknown_product")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrOrderDeleted        = errors.New("order_deleted")
)
