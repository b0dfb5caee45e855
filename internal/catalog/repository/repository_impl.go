package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/warung/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateProduct(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) UpdateProduct(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Save(product).Error
}

func (r *repo) FindProductByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repo) ListProducts(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Product, error) {
	var products []domain.Product
	stmt := db.WithContext(ctx).Model(&domain.Product{})
	if filter.Active != nil {
		stmt = stmt.Where("is_active = ?", *filter.Active)
	}
	err := stmt.Order("created_at desc, id desc").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) FindActiveProducts(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []domain.Product
	err := db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) CreateModifier(ctx context.Context, db *gorm.DB, modifier *domain.Modifier) error {
	return db.WithContext(ctx).Create(modifier).Error
}

func (r *repo) UpdateModifier(ctx context.Context, db *gorm.DB, modifier *domain.Modifier) error {
	return db.WithContext(ctx).Save(modifier).Error
}

func (r *repo) FindModifierByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Modifier, error) {
	var modifier domain.Modifier
	err := db.WithContext(ctx).First(&modifier, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &modifier, nil
}

func (r *repo) ListModifiers(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Modifier, error) {
	var modifiers []domain.Modifier
	stmt := db.WithContext(ctx).Model(&domain.Modifier{})
	if filter.Active != nil {
		stmt = stmt.Where("is_active = ?", *filter.Active)
	}
	err := stmt.Order("created_at desc, id desc").Find(&modifiers).Error
	if err != nil {
		return nil, err
	}
	return modifiers, nil
}

func (r *repo) ListActiveModifiers(ctx context.Context, db *gorm.DB) ([]domain.Modifier, error) {
	var modifiers []domain.Modifier
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&modifiers).Error
	if err != nil {
		return nil, err
	}
	return modifiers, nil
}
