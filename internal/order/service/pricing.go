package service

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/smallbiznis/warung/internal/catalog/domain"
	"github.com/smallbiznis/warung/internal/order/domain"
)

var oneHundred = decimal.NewFromInt(100)

// modifierSnapshot captures a modifier's pricing at checkout time.
type modifierSnapshot struct {
	ModifierID snowflake.ID
	Name       string
	Price      decimal.Decimal
	Cost       decimal.Decimal
}

// pricedLine is one resolved line before it is turned into rows.
type pricedLine struct {
	ProductID snowflake.ID
	Quantity  int64
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	Modifiers []modifierSnapshot
}

// resolveLine prices a requested line against the active catalog. The unit
// price is the product price plus the sum of the selected modifier prices.
// Modifier ids that do not resolve to an active modifier are skipped; a
// product id that does not resolve fails the line.
func resolveLine(catalog *catalogdomain.PricingCatalog, req domain.LineItemRequest) (*pricedLine, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, domain.ErrUnknownProduct
	}
	product, ok := catalog.Products[productID]
	if !ok {
		return nil, domain.ErrUnknownProduct
	}

	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}

	unitPrice := product.Price
	var snapshots []modifierSnapshot
	for _, raw := range req.ModifierIDs {
		modifierID, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		modifier, ok := catalog.Modifiers[modifierID]
		if !ok {
			continue
		}
		unitPrice = unitPrice.Add(modifier.Price)
		snapshots = append(snapshots, modifierSnapshot{
			ModifierID: modifier.ID,
			Name:       modifier.Name,
			Price:      modifier.Price,
			Cost:       modifier.Cost,
		})
	}

	return &pricedLine{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: unitPrice,
		LineTotal: unitPrice.Mul(decimal.NewFromInt(qty)),
		Modifiers: snapshots,
	}, nil
}

// clampPercent bounds a discount percentage to [0, 100].
func clampPercent(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(oneHundred) {
		return oneHundred
	}
	return pct
}

// computeTotals derives the discount amount and the final amount from a
// subtotal and a clamped percentage, rounded to cents.
func computeTotals(subtotal, pct decimal.Decimal) (discountAmount, amount decimal.Decimal) {
	discountAmount = subtotal.Mul(pct).Div(oneHundred).Round(2)
	amount = subtotal.Sub(discountAmount)
	return discountAmount, amount
}
