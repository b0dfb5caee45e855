package service

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/smallbiznis/warung/internal/catalog/domain"
	"github.com/smallbiznis/warung/internal/order/domain"
)

func testCatalog(t *testing.T) (*catalogdomain.PricingCatalog, catalogdomain.Product, catalogdomain.Modifier) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	product := catalogdomain.Product{
		ID:    node.Generate(),
		Name:  "Nasi Goreng",
		Price: decimal.NewFromInt(100),
		Cost:  decimal.NewFromInt(40),
	}
	modifier := catalogdomain.Modifier{
		ID:    node.Generate(),
		Name:  "Telur",
		Price: decimal.NewFromInt(20),
		Cost:  decimal.NewFromInt(8),
	}

	return &catalogdomain.PricingCatalog{
		Products:  map[snowflake.ID]catalogdomain.Product{product.ID: product},
		Modifiers: map[snowflake.ID]catalogdomain.Modifier{modifier.ID: modifier},
	}, product, modifier
}

func TestResolveLineAddsModifierPrices(t *testing.T) {
	catalog, product, modifier := testCatalog(t)

	line, err := resolveLine(catalog, domain.LineItemRequest{
		ProductID:   product.ID.String(),
		Quantity:    2,
		ModifierIDs: []string{modifier.ID.String()},
	})
	require.NoError(t, err)

	assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(120)))
	assert.True(t, line.LineTotal.Equal(decimal.NewFromInt(240)))
	require.Len(t, line.Modifiers, 1)
	assert.Equal(t, "Telur", line.Modifiers[0].Name)
	assert.True(t, line.Modifiers[0].Price.Equal(modifier.Price))
	assert.True(t, line.Modifiers[0].Cost.Equal(modifier.Cost))
}

func TestResolveLineCoercesQuantity(t *testing.T) {
	catalog, product, _ := testCatalog(t)

	for _, qty := range []int64{0, -3} {
		line, err := resolveLine(catalog, domain.LineItemRequest{
			ProductID: product.ID.String(),
			Quantity:  qty,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), line.Quantity)
		assert.True(t, line.LineTotal.Equal(product.Price))
	}
}

func TestResolveLineUnknownProduct(t *testing.T) {
	catalog, _, _ := testCatalog(t)

	_, err := resolveLine(catalog, domain.LineItemRequest{ProductID: "999999"})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)

	_, err = resolveLine(catalog, domain.LineItemRequest{ProductID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
}

func TestResolveLineSkipsUnknownModifiers(t *testing.T) {
	catalog, product, _ := testCatalog(t)

	line, err := resolveLine(catalog, domain.LineItemRequest{
		ProductID:   product.ID.String(),
		Quantity:    1,
		ModifierIDs: []string{"999999", "garbage"},
	})
	require.NoError(t, err)
	assert.Empty(t, line.Modifiers)
	assert.True(t, line.UnitPrice.Equal(product.Price))
}

func TestClampPercent(t *testing.T) {
	assert.True(t, clampPercent(decimal.NewFromInt(-5)).IsZero())
	assert.True(t, clampPercent(decimal.NewFromInt(150)).Equal(decimal.NewFromInt(100)))
	assert.True(t, clampPercent(decimal.NewFromInt(35)).Equal(decimal.NewFromInt(35)))
}

func TestComputeTotals(t *testing.T) {
	subtotal := decimal.NewFromInt(240)

	discountAmount, amount := computeTotals(subtotal, decimal.NewFromInt(10))
	assert.True(t, discountAmount.Equal(decimal.NewFromInt(24)))
	assert.True(t, amount.Equal(decimal.NewFromInt(216)))

	discountAmount, amount = computeTotals(subtotal, decimal.Zero)
	assert.True(t, discountAmount.IsZero())
	assert.True(t, amount.Equal(subtotal))
}

func TestComputeTotalsRoundsToCents(t *testing.T) {
	subtotal := decimal.RequireFromString("99.99")

	discountAmount, amount := computeTotals(subtotal, decimal.NewFromInt(33))
	assert.True(t, discountAmount.Equal(decimal.RequireFromString("33.00")), discountAmount.String())
	assert.True(t, amount.Equal(decimal.RequireFromString("66.99")), amount.String())
}
