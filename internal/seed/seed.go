// Package seed loads a small demo catalog in development environments.
package seed

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/smallbiznis/warung/internal/catalog/domain"
	"github.com/smallbiznis/warung/internal/config"
)

// Run inserts demo products and toppings when the catalog is empty. It is a
// no-op outside development.
func Run(cfg config.Config, db *gorm.DB, genID *snowflake.Node, log *zap.Logger) error {
	if !cfg.IsDev() {
		return nil
	}
	log = log.Named("seed")

	var count int64
	if err := db.Model(&catalogdomain.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []catalogdomain.Product{
		{ID: genID.Generate(), Name: "Nasi Goreng", Price: price(25000), Cost: price(12000), IsActive: true, HasModifiers: true},
		{ID: genID.Generate(), Name: "Mie Ayam", Price: price(20000), Cost: price(9000), IsActive: true, HasModifiers: true},
		{ID: genID.Generate(), Name: "Es Teh", Price: price(5000), Cost: price(1500), IsActive: true},
	}
	modifiers := []catalogdomain.Modifier{
		{ID: genID.Generate(), Name: "Telur", Price: price(4000), Cost: price(2000), Type: catalogdomain.ModifierTypeTopping, IsActive: true},
		{ID: genID.Generate(), Name: "Bakso", Price: price(6000), Cost: price(3000), Type: catalogdomain.ModifierTypeTopping, IsActive: true},
		{ID: genID.Generate(), Name: "Keju", Price: price(5000), Cost: price(2500), Type: catalogdomain.ModifierTypeTopping, IsActive: true},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&products).Error; err != nil {
			return err
		}
		if err := tx.Create(&modifiers).Error; err != nil {
			return err
		}
		log.Info("seeded demo catalog",
			zap.Int("products", len(products)),
			zap.Int("modifiers", len(modifiers)),
		)
		return nil
	})
}

func price(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// Module runs the seeder after migrations.
var Module = fx.Module("seed",
	fx.Invoke(Run),
)
