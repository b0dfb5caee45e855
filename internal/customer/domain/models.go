// Package domain contains the customer ledger models.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Customer is keyed by its 10-digit phone number. OrderCount, TotalSpent and
// LastOrderAt are running aggregates maintained incrementally by order
// create/edit/delete, never recomputed from scratch.
type Customer struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	Phone       string          `gorm:"type:text;not null;uniqueIndex:ux_customers_phone" json:"phone"`
	Name        string          `gorm:"type:text;not null" json:"name"`
	OrderCount  int64           `gorm:"not null;default:0" json:"order_count"`
	TotalSpent  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"total_spent"`
	LastOrderAt *time.Time      `json:"last_order_at,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

// NormalizePhone strips everything but digits.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsLinkablePhone reports whether a normalized phone can key a customer row.
// The business convention is exactly 10 digits.
func IsLinkablePhone(phone string) bool {
	return len(phone) == 10
}
