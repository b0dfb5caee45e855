package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/warung/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}
	if req.Cost.IsNegative() {
		return nil, domain.ErrInvalidCost
	}

	hasModifiers := false
	if req.HasModifiers != nil {
		hasModifiers = *req.HasModifiers
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:           s.genID.Generate(),
		Name:         name,
		Price:        req.Price,
		Cost:         req.Cost,
		IsActive:     true,
		HasModifiers: hasModifiers,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Metadata != nil {
		product.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.CreateProduct(ctx, s.db, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, req domain.UpdateProductRequest) (*domain.Product, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.FindProductByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		product.Name = name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, domain.ErrInvalidPrice
		}
		product.Price = *req.Price
	}
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, domain.ErrInvalidCost
		}
		product.Cost = *req.Cost
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.HasModifiers != nil {
		product.HasModifiers = *req.HasModifiers
	}
	if req.Metadata != nil {
		product.Metadata = datatypes.JSONMap(req.Metadata)
	}

	product.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateProduct(ctx, s.db, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, req domain.ListRequest) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, s.db, req)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.FindProductByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (s *Service) CreateModifier(ctx context.Context, req domain.CreateModifierRequest) (*domain.Modifier, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}
	if req.Cost.IsNegative() {
		return nil, domain.ErrInvalidCost
	}

	kind := strings.TrimSpace(req.Type)
	if kind == "" {
		kind = domain.ModifierTypeTopping
	}

	now := time.Now().UTC()
	modifier := &domain.Modifier{
		ID:        s.genID.Generate(),
		Name:      name,
		Price:     req.Price,
		Cost:      req.Cost,
		Type:      kind,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Metadata != nil {
		modifier.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.CreateModifier(ctx, s.db, modifier); err != nil {
		return nil, err
	}
	return modifier, nil
}

func (s *Service) UpdateModifier(ctx context.Context, req domain.UpdateModifierRequest) (*domain.Modifier, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return nil, err
	}

	modifier, err := s.repo.FindModifierByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if modifier == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		modifier.Name = name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, domain.ErrInvalidPrice
		}
		modifier.Price = *req.Price
	}
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, domain.ErrInvalidCost
		}
		modifier.Cost = *req.Cost
	}
	if req.Type != nil {
		kind := strings.TrimSpace(*req.Type)
		if kind == "" {
			kind = domain.ModifierTypeTopping
		}
		modifier.Type = kind
	}
	if req.IsActive != nil {
		modifier.IsActive = *req.IsActive
	}
	if req.Metadata != nil {
		modifier.Metadata = datatypes.JSONMap(req.Metadata)
	}

	modifier.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateModifier(ctx, s.db, modifier); err != nil {
		return nil, err
	}
	return modifier, nil
}

func (s *Service) ListModifiers(ctx context.Context, req domain.ListRequest) ([]domain.Modifier, error) {
	return s.repo.ListModifiers(ctx, s.db, req)
}

func (s *Service) DeactivateModifier(ctx context.Context, id string) (*domain.Modifier, error) {
	modifierID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	modifier, err := s.repo.FindModifierByID(ctx, s.db, modifierID)
	if err != nil {
		return nil, err
	}
	if modifier == nil {
		return nil, domain.ErrNotFound
	}

	modifier.IsActive = false
	modifier.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateModifier(ctx, s.db, modifier); err != nil {
		return nil, err
	}
	return modifier, nil
}

// LoadPricingCatalog snapshots the active catalog rows needed to price an
// order. The snapshot is loaded fresh per request.
func (s *Service) LoadPricingCatalog(ctx context.Context, productIDs []snowflake.ID) (*domain.PricingCatalog, error) {
	products, err := s.repo.FindActiveProducts(ctx, s.db, productIDs)
	if err != nil {
		return nil, err
	}
	modifiers, err := s.repo.ListActiveModifiers(ctx, s.db)
	if err != nil {
		return nil, err
	}

	catalog := &domain.PricingCatalog{
		Products:  make(map[snowflake.ID]domain.Product, len(products)),
		Modifiers: make(map[snowflake.ID]domain.Modifier, len(modifiers)),
	}
	for _, product := range products {
		catalog.Products[product.ID] = product
	}
	for _, modifier := range modifiers {
		catalog.Modifiers[modifier.ID] = modifier
	}
	return catalog, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
