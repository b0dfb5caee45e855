// Package service implements checkout, order edits and the ledger hooks
// around them.
package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/smallbiznis/warung/internal/catalog/domain"
	customerdomain "github.com/smallbiznis/warung/internal/customer/domain"
	"github.com/smallbiznis/warung/internal/order/domain"
	"github.com/smallbiznis/warung/internal/reconcile"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Catalog    catalogdomain.Service
	Customers  customerdomain.Service
	Dispatcher *reconcile.Dispatcher
}

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	catalog    catalogdomain.Service
	customers  customerdomain.Service
	dispatcher *reconcile.Dispatcher
}

// New constructs the order service.
func New(p Params) domain.Service {
	return &service{
		db:         p.DB,
		log:        p.Log.Named("order.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		catalog:    p.Catalog,
		customers:  p.Customers,
		dispatcher: p.Dispatcher,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Order, error) {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, domain.ErrInvalidCustomerName
	}
	if len(req.Items) == 0 {
		return nil, domain.ErrNoItems
	}
	phone := customerdomain.NormalizePhone(req.CustomerPhone)

	productIDs, err := collectProductIDs(req.Items)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.LoadPricingCatalog(ctx, productIDs)
	if err != nil {
		s.log.Error("failed to load pricing catalog", zap.Error(err))
		return nil, err
	}

	orderID := s.genID.Generate()
	subtotal := decimal.Zero
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, lineReq := range req.Items {
		line, err := resolveLine(catalog, lineReq)
		if err != nil {
			return nil, err
		}
		items = append(items, s.buildItem(orderID, line))
		subtotal = subtotal.Add(line.LineTotal)
	}

	pct := clampPercent(req.DiscountPercent)
	discountAmount, amount := computeTotals(subtotal, pct)

	order := &domain.Order{
		ID:              orderID,
		CustomerName:    name,
		CustomerPhone:   phone,
		Subtotal:        subtotal,
		DiscountPercent: pct,
		DiscountAmount:  discountAmount,
		DiscountNote:    discountNote(pct, strings.TrimSpace(req.DiscountNote)),
		Amount:          amount,
		Items:           items,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, order)
	})
	if err != nil {
		s.log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	// The ledger update happens off the request path so checkout never waits
	// on it.
	if customerdomain.IsLinkablePhone(phone) {
		s.dispatcher.Enqueue(reconcile.Job{
			OrderID: order.ID,
			Phone:   phone,
			Name:    order.CustomerName,
			Amount:  order.Amount,
		})
	}

	return order, nil
}

func (s *service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Order, error) {
	orderID, err := parseID(req.ID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var catalog *catalogdomain.PricingCatalog
	if len(req.AddItems) > 0 {
		productIDs, err := collectProductIDs(req.AddItems)
		if err != nil {
			return nil, err
		}
		catalog, err = s.catalog.LoadPricingCatalog(ctx, productIDs)
		if err != nil {
			s.log.Error("failed to load pricing catalog", zap.Error(err))
			return nil, err
		}
	}

	var out *domain.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindByID(ctx, tx, orderID, true)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.DeletedAt.Valid {
			return domain.ErrOrderDeleted
		}

		oldAmount := order.Amount
		oldPhone := order.CustomerPhone
		oldCustomerID := order.CustomerID

		if req.CustomerName != nil {
			name := strings.TrimSpace(*req.CustomerName)
			if name == "" {
				return domain.ErrInvalidCustomerName
			}
			order.CustomerName = name
		}
		if req.CustomerPhone != nil {
			order.CustomerPhone = customerdomain.NormalizePhone(*req.CustomerPhone)
		}

		if len(req.AddItems) > 0 {
			newItems := make([]domain.OrderItem, 0, len(req.AddItems))
			for _, lineReq := range req.AddItems {
				line, err := resolveLine(catalog, lineReq)
				if err != nil {
					return err
				}
				item := s.buildItem(order.ID, line)
				newItems = append(newItems, item)
				order.Subtotal = order.Subtotal.Add(line.LineTotal)
			}
			if err := s.repo.CreateItems(ctx, tx, newItems); err != nil {
				return err
			}
			order.Items = append(order.Items, newItems...)
		}

		pct := order.DiscountPercent
		if req.DiscountPercent != nil {
			pct = clampPercent(*req.DiscountPercent)
		}
		order.DiscountPercent = pct
		order.DiscountAmount, order.Amount = computeTotals(order.Subtotal, pct)

		if req.DiscountNote != nil {
			order.DiscountNote = discountNote(pct, strings.TrimSpace(*req.DiscountNote))
		} else {
			order.DiscountNote = carryNote(pct, order.DiscountNote)
		}

		// The ledger follows the order: any change to the charged amount or
		// the phone moves the contribution from the old customer to the one
		// the order now belongs to, in the same transaction.
		amountChanged := !order.Amount.Equal(oldAmount)
		phoneChanged := order.CustomerPhone != oldPhone
		if amountChanged || phoneChanged {
			if oldCustomerID != nil {
				if err := s.customers.ReverseTx(ctx, tx, *oldCustomerID, oldAmount); err != nil {
					return err
				}
				order.CustomerID = nil
			}
			if customerdomain.IsLinkablePhone(order.CustomerPhone) {
				customer, err := s.customers.ReconcileTx(ctx, tx, order.CustomerPhone, order.CustomerName, order.Amount, order.CreatedAt)
				if err != nil {
					return err
				}
				order.CustomerID = &customer.ID
			}
		}

		if err := s.repo.UpdateHeader(ctx, tx, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	orderID, err := parseID(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindByID(ctx, tx, orderID, true)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.DeletedAt.Valid {
			// Already gone; the reversal ran on the first delete.
			return nil
		}

		if err := s.repo.SoftDelete(ctx, tx, orderID); err != nil {
			return err
		}
		if order.CustomerID != nil {
			return s.customers.ReverseTx(ctx, tx, *order.CustomerID, order.Amount)
		}
		return nil
	})
}

func (s *service) List(ctx context.Context, req domain.ListRequest) ([]domain.Order, error) {
	orders, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		s.log.Error("failed to list orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	orderID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	order, err := s.repo.FindByID(ctx, s.db, orderID, false)
	if err != nil {
		s.log.Error("failed to find order", zap.Error(err))
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (s *service) buildItem(orderID snowflake.ID, line *pricedLine) domain.OrderItem {
	item := domain.OrderItem{
		ID:        s.genID.Generate(),
		OrderID:   orderID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
		LineTotal: line.LineTotal,
	}
	for _, snap := range line.Modifiers {
		item.Modifiers = append(item.Modifiers, domain.OrderItemModifier{
			ID:          s.genID.Generate(),
			OrderItemID: item.ID,
			ModifierID:  snap.ModifierID,
			NameAtTime:  snap.Name,
			PriceAtTime: snap.Price,
			CostAtTime:  snap.Cost,
		})
	}
	return item
}

// discountNote keeps a note only alongside a non-zero discount.
func discountNote(pct decimal.Decimal, note string) *string {
	if pct.IsZero() || note == "" {
		return nil
	}
	return &note
}

func carryNote(pct decimal.Decimal, note *string) *string {
	if pct.IsZero() {
		return nil
	}
	return note
}

func collectProductIDs(items []domain.LineItemRequest) ([]snowflake.ID, error) {
	ids := make([]snowflake.ID, 0, len(items))
	for _, item := range items {
		id, err := snowflake.ParseString(strings.TrimSpace(item.ProductID))
		if err != nil {
			return nil, domain.ErrUnknownProduct
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(id string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(id))
}
