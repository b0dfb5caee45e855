package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/smallbiznis/warung/internal/catalog/domain"
	catalogrepository "github.com/smallbiznis/warung/internal/catalog/repository"
	"github.com/smallbiznis/warung/internal/migration"
	orderdomain "github.com/smallbiznis/warung/internal/order/domain"
	orderrepository "github.com/smallbiznis/warung/internal/order/repository"
	"github.com/smallbiznis/warung/internal/stats/domain"
)

type fixture struct {
	db   *gorm.DB
	node *snowflake.Node
	svc  domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		OrderRepo:   orderrepository.Provide(),
		CatalogRepo: catalogrepository.Provide(),
	})
	return &fixture{db: db, node: node, svc: svc}
}

func (f *fixture) product(t *testing.T, name string, price, cost int64) *catalogdomain.Product {
	t.Helper()
	product := &catalogdomain.Product{
		ID:       f.node.Generate(),
		Name:     name,
		Price:    decimal.NewFromInt(price),
		Cost:     decimal.NewFromInt(cost),
		IsActive: true,
	}
	require.NoError(t, f.db.Create(product).Error)
	return product
}

type line struct {
	product  *catalogdomain.Product
	qty      int64
	toppings []orderdomain.OrderItemModifier
}

func (f *fixture) order(t *testing.T, createdAt time.Time, discount int64, note string, lines ...line) *orderdomain.Order {
	t.Helper()

	subtotal := decimal.Zero
	var items []orderdomain.OrderItem
	for _, l := range lines {
		unitPrice := l.product.Price
		for i := range l.toppings {
			l.toppings[i].ID = f.node.Generate()
			unitPrice = unitPrice.Add(l.toppings[i].PriceAtTime)
		}
		lineTotal := unitPrice.Mul(decimal.NewFromInt(l.qty))
		items = append(items, orderdomain.OrderItem{
			ID:        f.node.Generate(),
			ProductID: l.product.ID,
			Quantity:  l.qty,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
			Modifiers: l.toppings,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	discountAmount := subtotal.Mul(decimal.NewFromInt(discount)).Div(decimal.NewFromInt(100)).Round(2)
	order := &orderdomain.Order{
		ID:              f.node.Generate(),
		CustomerName:    "Budi",
		Subtotal:        subtotal,
		DiscountPercent: decimal.NewFromInt(discount),
		DiscountAmount:  discountAmount,
		Amount:          subtotal.Sub(discountAmount),
		Items:           items,
		CreatedAt:       createdAt,
	}
	if note != "" {
		order.DiscountNote = &note
	}
	require.NoError(t, f.db.Create(order).Error)
	return order
}

func topping(node *snowflake.Node, name string, price, cost int64) orderdomain.OrderItemModifier {
	return orderdomain.OrderItemModifier{
		ModifierID:  node.Generate(),
		NameAtTime:  name,
		PriceAtTime: decimal.NewFromInt(price),
		CostAtTime:  decimal.NewFromInt(cost),
	}
}

func TestSummaryRollups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	nasi := f.product(t, "Nasi Goreng", 100, 40)
	teh := f.product(t, "Es Teh", 100, 10)
	telur := topping(f.node, "Telur", 20, 8)

	day1 := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)

	// day1: 2x nasi+telur, no discount. Subtotal 240.
	f.order(t, day1, 0, "", line{product: nasi, qty: 2, toppings: []orderdomain.OrderItemModifier{telur}})
	// day2: 1x nasi, 3x teh, 10% off. Subtotal 400, amount 360.
	f.order(t, day2, 10, "promo", line{product: nasi, qty: 1}, line{product: teh, qty: 3})

	summary, err := f.svc.Summary(ctx, domain.SummaryRequest{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.TotalOrders)
	assert.Equal(t, int64(6), summary.ItemsSold)
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(600)), summary.TotalRevenue.String())
	// cost: nasi 3x40 + teh 3x10 + telur 2x8
	assert.True(t, summary.TotalCost.Equal(decimal.NewFromInt(166)), summary.TotalCost.String())
	assert.True(t, summary.TotalProfit.Equal(decimal.NewFromInt(434)))
	assert.True(t, summary.AverageOrderValue.Equal(decimal.NewFromInt(300)))
	assert.True(t, summary.ProfitMarginPercent.Equal(decimal.RequireFromString("72.33")), summary.ProfitMarginPercent.String())

	require.Len(t, summary.TopProducts, 2)
	assert.Equal(t, "Nasi Goreng", summary.TopProducts[0].Name)
	assert.Equal(t, int64(3), summary.TopProducts[0].Quantity)
	assert.True(t, summary.TopProducts[0].Revenue.Equal(decimal.NewFromInt(340)))
	assert.Equal(t, "Es Teh", summary.TopProducts[1].Name)

	require.Len(t, summary.TopToppings, 1)
	assert.Equal(t, "Telur", summary.TopToppings[0].Name)
	assert.Equal(t, int64(2), summary.TopToppings[0].Count)

	assert.Equal(t, int64(1), summary.Discounts.Count)
	assert.True(t, summary.Discounts.TotalDiscount.Equal(decimal.NewFromInt(40)))
	assert.True(t, summary.Discounts.AveragePercent.Equal(decimal.NewFromInt(10)))
	require.Len(t, summary.Discounts.Orders, 1)
	require.NotNil(t, summary.Discounts.Orders[0].Note)
	assert.Equal(t, "promo", *summary.Discounts.Orders[0].Note)

	require.Len(t, summary.Days, 2)
	assert.Equal(t, "2026-08-29", summary.Days[0].Date)
	assert.Equal(t, int64(1), summary.Days[0].OrderCount)
	assert.Equal(t, "2026-08-30", summary.Days[1].Date)
	assert.True(t, summary.Days[1].Revenue.Equal(decimal.NewFromInt(360)))
}

func TestSummaryWindowAndDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	nasi := f.product(t, "Nasi Goreng", 100, 40)
	day1 := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)

	f.order(t, day1, 0, "", line{product: nasi, qty: 1})
	inWindow := f.order(t, day2, 0, "", line{product: nasi, qty: 1})
	deleted := f.order(t, day2, 0, "", line{product: nasi, qty: 5})
	require.NoError(t, f.db.Delete(deleted).Error)

	start := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	summary, err := f.svc.Summary(ctx, domain.SummaryRequest{Start: &start})
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.TotalOrders)
	assert.True(t, summary.TotalRevenue.Equal(inWindow.Amount))
	assert.Equal(t, int64(1), summary.ItemsSold)
}

func TestSummaryEmpty(t *testing.T) {
	f := newFixture(t)

	summary, err := f.svc.Summary(context.Background(), domain.SummaryRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalOrders)
	assert.True(t, summary.TotalRevenue.IsZero())
	assert.True(t, summary.AverageOrderValue.IsZero())
	assert.True(t, summary.ProfitMarginPercent.IsZero())
	assert.Empty(t, summary.TopProducts)
	assert.Empty(t, summary.Days)
}

func TestLatest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	latest, err := f.svc.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest.LatestOrderAt)

	nasi := f.product(t, "Nasi Goreng", 100, 40)
	day1 := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)
	f.order(t, day1, 0, "", line{product: nasi, qty: 1})
	newest := f.order(t, day2, 0, "", line{product: nasi, qty: 1})
	deletedLater := f.order(t, day2.Add(time.Hour), 0, "", line{product: nasi, qty: 1})
	require.NoError(t, f.db.Delete(deletedLater).Error)

	latest, err = f.svc.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest.LatestOrderAt)
	assert.True(t, latest.LatestOrderAt.Equal(newest.CreatedAt))
}
