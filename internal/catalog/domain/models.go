// Package domain contains persistence models for the menu catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ModifierTypeTopping is the default modifier kind.
const ModifierTypeTopping = "topping"

// Product is a sellable menu item. Deletion is logical (IsActive=false) so
// historical orders keep a valid reference.
type Product struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name         string            `gorm:"type:text;not null" json:"name"`
	Price        decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"price"`
	Cost         decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"cost"`
	IsActive     bool              `gorm:"not null;default:true" json:"is_active"`
	HasModifiers bool              `gorm:"not null;default:false" json:"has_modifiers"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }

// Modifier is an optional add-on ("topping") with its own price/cost pair.
// Same logical-deletion rules as Product.
type Modifier struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"type:text;not null" json:"name"`
	Price     decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"price"`
	Cost      decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"cost"`
	Type      string            `gorm:"type:text;not null;default:'topping'" json:"type"`
	IsActive  bool              `gorm:"not null;default:true" json:"is_active"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Modifier) TableName() string { return "modifiers" }

// PricingCatalog is the snapshot of active catalog rows handed to the order
// pricing engine. It is loaded per request, never cached.
type PricingCatalog struct {
	Products  map[snowflake.ID]Product
	Modifiers map[snowflake.ID]Modifier
}
