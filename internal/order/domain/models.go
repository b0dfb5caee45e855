// Package domain contains the order aggregate models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order owns its items and carries a frozen price snapshot taken at creation
// time. CustomerName/CustomerPhone are denormalized from the submission and
// may drift from the linked Customer row. A non-null DeletedAt marks logical
// deletion; every read path filters it out.
type Order struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	CustomerName    string          `gorm:"type:text;not null" json:"customer_name"`
	CustomerPhone   string          `gorm:"type:text;not null;default:''" json:"customer_phone"`
	CustomerID      *snowflake.ID   `gorm:"index" json:"customer_id,omitempty"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"subtotal"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_percent"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"discount_amount"`
	DiscountNote    *string         `gorm:"type:text" json:"discount_note,omitempty"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

// OrderItem is one priced line. UnitPrice and LineTotal are snapshots and
// never change after creation, regardless of later catalog edits.
type OrderItem struct {
	ID        snowflake.ID        `gorm:"primaryKey" json:"id"`
	OrderID   snowflake.ID        `gorm:"not null;index" json:"order_id"`
	ProductID snowflake.ID        `gorm:"not null;index" json:"product_id"`
	Quantity  int64               `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal     `gorm:"type:numeric(14,2);not null" json:"line_total"`
	Modifiers []OrderItemModifier `gorm:"foreignKey:OrderItemID" json:"modifiers,omitempty"`
	CreatedAt time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (OrderItem) TableName() string { return "order_items" }

// OrderItemModifier freezes the applied modifier's name/price/cost so catalog
// changes are never retroactive.
type OrderItemModifier struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrderItemID snowflake.ID    `gorm:"not null;index" json:"order_item_id"`
	ModifierID  snowflake.ID    `gorm:"not null;index" json:"modifier_id"`
	NameAtTime  string          `gorm:"type:text;not null" json:"name_at_time"`
	PriceAtTime decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_at_time"`
	CostAtTime  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost_at_time"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (OrderItemModifier) TableName() string { return "order_item_modifiers" }
