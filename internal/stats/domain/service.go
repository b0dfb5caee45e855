// Package domain defines the read-side sales statistics.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Service interface {
	// Summary recomputes the rollups from the live orders in the window.
	// Deleted orders never count.
	Summary(ctx context.Context, req SummaryRequest) (*Summary, error)
	// Latest reports the most recent live order time, if any.
	Latest(ctx context.Context) (*Latest, error)
}

type SummaryRequest struct {
	Start *time.Time
	End   *time.Time
}

type Summary struct {
	TotalOrders         int64             `json:"total_orders"`
	TotalRevenue        decimal.Decimal   `json:"total_revenue"`
	TotalCost           decimal.Decimal   `json:"total_cost"`
	TotalProfit         decimal.Decimal   `json:"total_profit"`
	AverageOrderValue   decimal.Decimal   `json:"average_order_value"`
	ProfitMarginPercent decimal.Decimal   `json:"profit_margin_percent"`
	ItemsSold           int64             `json:"items_sold"`
	TopProducts         []ProductSale     `json:"top_products"`
	TopToppings         []ToppingUsage    `json:"top_toppings"`
	Discounts           DiscountBreakdown `json:"discounts"`
	Days                []DayBucket       `json:"days"`
}

// ProductSale aggregates snapshot line totals per product. Name and cost come
// from the current catalog; revenue comes from the frozen line totals.
type ProductSale struct {
	ProductID snowflake.ID    `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// ToppingUsage counts how often a topping was charged, weighted by the
// quantity of the line it was applied to.
type ToppingUsage struct {
	ModifierID snowflake.ID `json:"modifier_id"`
	Name       string       `json:"name"`
	Count      int64        `json:"count"`
}

type DiscountBreakdown struct {
	Count          int64             `json:"count"`
	TotalDiscount  decimal.Decimal   `json:"total_discount"`
	AveragePercent decimal.Decimal   `json:"average_percent"`
	Orders         []DiscountedOrder `json:"orders"`
}

type DiscountedOrder struct {
	OrderID         snowflake.ID    `json:"order_id"`
	CustomerName    string          `json:"customer_name"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Note            *string         `json:"note,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	CreatedAt       time.Time       `json:"created_at"`
}

type DayBucket struct {
	Date       string          `json:"date"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type Latest struct {
	LatestOrderAt *time.Time `json:"latest_order_at"`
}
