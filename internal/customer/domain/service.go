package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	orderdomain "github.com/smallbiznis/warung/internal/order/domain"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Customer, error)
	List(ctx context.Context, req ListRequest) ([]Customer, error)
	GetByID(ctx context.Context, id string) (*Detail, error)
	Update(ctx context.Context, req UpdateRequest) (*Customer, error)

	// ReconcileTx applies one order's contribution to the ledger inside the
	// caller's transaction: create-or-update by phone, orderCount+1,
	// totalSpent+amount, lastOrderAt=now. Name is last-write-wins.
	ReconcileTx(ctx context.Context, tx *gorm.DB, phone, name string, amount decimal.Decimal, now time.Time) (*Customer, error)

	// ReverseTx undoes one order's contribution inside the caller's
	// transaction.
	ReverseTx(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, amount decimal.Decimal) error

	// AttachOrder is the best-effort post-commit reconciliation: it upserts
	// the customer for the phone and links the order row to it, in its own
	// transaction.
	AttachOrder(ctx context.Context, orderID snowflake.ID, phone, name string, amount decimal.Decimal) error
}

type CreateRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type ListRequest struct {
	Search string
	Limit  int
}

type UpdateRequest struct {
	ID    string  `json:"-"`
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// Detail is a customer with its non-deleted order history.
type Detail struct {
	Customer
	Orders []orderdomain.Order `json:"orders"`
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPhone = errors.New("invalid_phone")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
	ErrPhoneTaken   = errors.New("phone_taken")
)
