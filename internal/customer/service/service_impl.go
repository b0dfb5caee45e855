// Package service implements the customer ledger.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/warung/internal/customer/domain"
	orderdomain "github.com/smallbiznis/warung/internal/order/domain"
	pkgdb "github.com/smallbiznis/warung/pkg/db"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	OrderRepo orderdomain.Repository
}

type service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	orderRepo orderdomain.Repository
}

// New constructs the customer service.
func New(p Params) domain.Service {
	return &service{
		db:        p.DB,
		log:       p.Log.Named("customer.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		orderRepo: p.OrderRepo,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	phone := domain.NormalizePhone(req.Phone)
	if !domain.IsLinkablePhone(phone) {
		return nil, domain.ErrInvalidPhone
	}

	customer := &domain.Customer{
		ID:         s.genID.Generate(),
		Phone:      phone,
		Name:       name,
		TotalSpent: decimal.Zero,
	}
	if err := s.repo.Insert(ctx, s.db, customer); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrPhoneTaken
		}
		s.log.Error("failed to create customer", zap.Error(err))
		return nil, err
	}
	return customer, nil
}

func (s *service) List(ctx context.Context, req domain.ListRequest) ([]domain.Customer, error) {
	customers, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		s.log.Error("failed to list customers", zap.Error(err))
		return nil, err
	}
	return customers, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.Detail, error) {
	customerID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	customer, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		s.log.Error("failed to find customer", zap.Error(err))
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	var orders []orderdomain.Order
	err = s.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Modifiers").
		Where("customer_id = ?", customerID).
		Order("created_at desc, id desc").
		Find(&orders).Error
	if err != nil {
		s.log.Error("failed to load customer orders", zap.Error(err))
		return nil, err
	}

	return &domain.Detail{Customer: *customer, Orders: orders}, nil
}

func (s *service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Customer, error) {
	customerID, err := parseID(req.ID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var out *domain.Customer
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.repo.FindByID(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return domain.ErrInvalidName
			}
			customer.Name = name
		}
		if req.Phone != nil {
			phone := domain.NormalizePhone(*req.Phone)
			if !domain.IsLinkablePhone(phone) {
				return domain.ErrInvalidPhone
			}
			if phone != customer.Phone {
				existing, err := s.repo.FindByPhone(ctx, tx, phone)
				if err != nil {
					return err
				}
				if existing != nil && existing.ID != customer.ID {
					return domain.ErrPhoneTaken
				}
				customer.Phone = phone
			}
		}

		if err := s.repo.Update(ctx, tx, customer); err != nil {
			if pkgdb.IsDuplicateKeyErr(err) {
				return domain.ErrPhoneTaken
			}
			return err
		}

		// Linked orders keep a copy of the contact fields for display and
		// search. Keep them in step with the ledger row.
		err = tx.Model(&orderdomain.Order{}).
			Where("customer_id = ?", customer.ID).
			Updates(map[string]interface{}{
				"customer_name":  customer.Name,
				"customer_phone": customer.Phone,
			}).Error
		if err != nil {
			return err
		}

		out = customer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) ReconcileTx(ctx context.Context, tx *gorm.DB, phone, name string, amount decimal.Decimal, now time.Time) (*domain.Customer, error) {
	customer, err := s.repo.FindByPhone(ctx, tx, phone)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		customer = &domain.Customer{
			ID:          s.genID.Generate(),
			Phone:       phone,
			Name:        strings.TrimSpace(name),
			OrderCount:  1,
			TotalSpent:  amount,
			LastOrderAt: &now,
		}
		if err := s.repo.Insert(ctx, tx, customer); err != nil {
			return nil, err
		}
		return customer, nil
	}

	customer.OrderCount++
	customer.TotalSpent = customer.TotalSpent.Add(amount)
	if customer.LastOrderAt == nil || now.After(*customer.LastOrderAt) {
		customer.LastOrderAt = &now
	}
	if name = strings.TrimSpace(name); name != "" {
		customer.Name = name
	}
	if err := s.repo.Update(ctx, tx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *service) ReverseTx(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, amount decimal.Decimal) error {
	customer, err := s.repo.FindByID(ctx, tx, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return nil
	}

	if customer.OrderCount > 0 {
		customer.OrderCount--
	}
	customer.TotalSpent = customer.TotalSpent.Sub(amount)
	if customer.TotalSpent.IsNegative() {
		customer.TotalSpent = decimal.Zero
	}
	return s.repo.Update(ctx, tx, customer)
}

func (s *service) AttachOrder(ctx context.Context, orderID snowflake.ID, phone, name string, amount decimal.Decimal) error {
	phone = domain.NormalizePhone(phone)
	if !domain.IsLinkablePhone(phone) {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByID(ctx, tx, orderID, false)
		if err != nil {
			return err
		}
		// Deleted or already linked in the meantime: nothing to apply.
		if order == nil || order.CustomerID != nil {
			return nil
		}

		customer, err := s.ReconcileTx(ctx, tx, phone, name, amount, order.CreatedAt)
		if err != nil {
			return err
		}

		return tx.Model(&orderdomain.Order{}).
			Where("id = ?", orderID).
			Update("customer_id", customer.ID).Error
	})
}

func parseID(id string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(id))
}
