// Package service computes sales rollups from the order snapshots.
package service

import (
	"context"
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/smallbiznis/warung/internal/catalog/domain"
	orderdomain "github.com/smallbiznis/warung/internal/order/domain"
	"github.com/smallbiznis/warung/internal/stats/domain"
)

const topN = 5

var oneHundred = decimal.NewFromInt(100)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	OrderRepo   orderdomain.Repository
	CatalogRepo catalogdomain.Repository
}

type service struct {
	db          *gorm.DB
	log         *zap.Logger
	orderRepo   orderdomain.Repository
	catalogRepo catalogdomain.Repository
}

// New constructs the stats service.
func New(p Params) domain.Service {
	return &service{
		db:          p.DB,
		log:         p.Log.Named("stats.service"),
		orderRepo:   p.OrderRepo,
		catalogRepo: p.CatalogRepo,
	}
}

func (s *service) Summary(ctx context.Context, req domain.SummaryRequest) (*domain.Summary, error) {
	orders, err := s.orderRepo.List(ctx, s.db, orderdomain.ListRequest{
		Start: req.Start,
		End:   req.End,
	})
	if err != nil {
		s.log.Error("failed to load orders for summary", zap.Error(err))
		return nil, err
	}

	products, err := s.catalogRepo.ListProducts(ctx, s.db, catalogdomain.ListRequest{})
	if err != nil {
		s.log.Error("failed to load products for summary", zap.Error(err))
		return nil, err
	}
	productByID := make(map[snowflake.ID]catalogdomain.Product, len(products))
	for _, product := range products {
		productByID[product.ID] = product
	}

	summary := &domain.Summary{
		TotalRevenue:        decimal.Zero,
		TotalCost:           decimal.Zero,
		TotalProfit:         decimal.Zero,
		AverageOrderValue:   decimal.Zero,
		ProfitMarginPercent: decimal.Zero,
		Discounts: domain.DiscountBreakdown{
			TotalDiscount:  decimal.Zero,
			AveragePercent: decimal.Zero,
		},
	}

	productQty := map[snowflake.ID]int64{}
	productRevenue := map[snowflake.ID]decimal.Decimal{}
	toppingCount := map[snowflake.ID]int64{}
	toppingName := map[snowflake.ID]string{}
	dayCount := map[string]int64{}
	dayRevenue := map[string]decimal.Decimal{}
	discountPctSum := decimal.Zero

	for i := range orders {
		order := &orders[i]
		summary.TotalOrders++
		summary.TotalRevenue = summary.TotalRevenue.Add(order.Amount)

		day := order.CreatedAt.Format("2006-01-02")
		dayCount[day]++
		dayRevenue[day] = dayRevenue[day].Add(order.Amount)

		if order.DiscountPercent.IsPositive() {
			summary.Discounts.Count++
			summary.Discounts.TotalDiscount = summary.Discounts.TotalDiscount.Add(order.DiscountAmount)
			discountPctSum = discountPctSum.Add(order.DiscountPercent)
			summary.Discounts.Orders = append(summary.Discounts.Orders, domain.DiscountedOrder{
				OrderID:         order.ID,
				CustomerName:    order.CustomerName,
				DiscountPercent: order.DiscountPercent,
				DiscountAmount:  order.DiscountAmount,
				Note:            order.DiscountNote,
				Amount:          order.Amount,
				CreatedAt:       order.CreatedAt,
			})
		}

		for _, item := range order.Items {
			qty := decimal.NewFromInt(item.Quantity)
			summary.ItemsSold += item.Quantity
			productQty[item.ProductID] += item.Quantity
			productRevenue[item.ProductID] = productRevenue[item.ProductID].Add(item.LineTotal)

			if product, ok := productByID[item.ProductID]; ok {
				summary.TotalCost = summary.TotalCost.Add(product.Cost.Mul(qty))
			}
			for _, modifier := range item.Modifiers {
				summary.TotalCost = summary.TotalCost.Add(modifier.CostAtTime.Mul(qty))
				toppingCount[modifier.ModifierID] += item.Quantity
				toppingName[modifier.ModifierID] = modifier.NameAtTime
			}
		}
	}

	summary.TotalProfit = summary.TotalRevenue.Sub(summary.TotalCost)
	if summary.TotalOrders > 0 {
		summary.AverageOrderValue = summary.TotalRevenue.
			Div(decimal.NewFromInt(summary.TotalOrders)).Round(2)
	}
	if summary.TotalRevenue.IsPositive() {
		summary.ProfitMarginPercent = summary.TotalProfit.
			Div(summary.TotalRevenue).Mul(oneHundred).Round(2)
	}
	if summary.Discounts.Count > 0 {
		summary.Discounts.AveragePercent = discountPctSum.
			Div(decimal.NewFromInt(summary.Discounts.Count)).Round(2)
	}

	summary.TopProducts = topProducts(productQty, productRevenue, productByID)
	summary.TopToppings = topToppings(toppingCount, toppingName)

	summary.Days = make([]domain.DayBucket, 0, len(dayCount))
	for day, count := range dayCount {
		summary.Days = append(summary.Days, domain.DayBucket{
			Date:       day,
			OrderCount: count,
			Revenue:    dayRevenue[day],
		})
	}
	sort.Slice(summary.Days, func(i, j int) bool {
		return summary.Days[i].Date < summary.Days[j].Date
	})

	return summary, nil
}

func (s *service) Latest(ctx context.Context) (*domain.Latest, error) {
	orders, err := s.orderRepo.List(ctx, s.db, orderdomain.ListRequest{Limit: 1})
	if err != nil {
		s.log.Error("failed to load latest order", zap.Error(err))
		return nil, err
	}
	latest := &domain.Latest{}
	if len(orders) > 0 {
		createdAt := orders[0].CreatedAt
		latest.LatestOrderAt = &createdAt
	}
	return latest, nil
}

func topProducts(qty map[snowflake.ID]int64, revenue map[snowflake.ID]decimal.Decimal, catalog map[snowflake.ID]catalogdomain.Product) []domain.ProductSale {
	sales := make([]domain.ProductSale, 0, len(qty))
	for productID, quantity := range qty {
		sale := domain.ProductSale{
			ProductID: productID,
			Quantity:  quantity,
			Revenue:   revenue[productID],
		}
		if product, ok := catalog[productID]; ok {
			sale.Name = product.Name
		}
		sales = append(sales, sale)
	}
	sort.Slice(sales, func(i, j int) bool {
		if sales[i].Quantity != sales[j].Quantity {
			return sales[i].Quantity > sales[j].Quantity
		}
		return sales[i].ProductID < sales[j].ProductID
	})
	if len(sales) > topN {
		sales = sales[:topN]
	}
	return sales
}

func topToppings(count map[snowflake.ID]int64, names map[snowflake.ID]string) []domain.ToppingUsage {
	usages := make([]domain.ToppingUsage, 0, len(count))
	for modifierID, n := range count {
		usages = append(usages, domain.ToppingUsage{
			ModifierID: modifierID,
			Name:       names[modifierID],
			Count:      n,
		})
	}
	sort.Slice(usages, func(i, j int) bool {
		if usages[i].Count != usages[j].Count {
			return usages[i].Count > usages[j].Count
		}
		return usages[i].ModifierID < usages[j].ModifierID
	})
	if len(usages) > topN {
		usages = usages[:topN]
	}
	return usages
}
