// Package migration brings the schema up to date at startup. Postgres runs
// the versioned SQL files; other drivers fall back to gorm's AutoMigrate,
// which is what the sqlite-backed tests use.
package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/smallbiznis/warung/internal/catalog/domain"
	"github.com/smallbiznis/warung/internal/config"
	customerdomain "github.com/smallbiznis/warung/internal/customer/domain"
	orderdomain "github.com/smallbiznis/warung/internal/order/domain"
)

//go:embed sql/*.sql
var migrationFS embed.FS

// Run applies pending migrations.
func Run(cfg config.Config, db *gorm.DB, log *zap.Logger) error {
	log = log.Named("migration")

	if cfg.DBType == "postgres" {
		return runVersioned(db, log)
	}
	return AutoMigrate(db)
}

// AutoMigrate creates the schema from the models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalogdomain.Product{},
		&catalogdomain.Modifier{},
		&customerdomain.Customer{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&orderdomain.OrderItemModifier{},
	)
}

func runVersioned(db *gorm.DB, log *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	source, err := iofs.New(migrationFS, "sql")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("schema up to date")
			return nil
		}
		return err
	}

	version, _, _ := m.Version()
	log.Info("schema migrated", zap.Uint("version", version))
	return nil
}

// Module runs migrations during startup.
var Module = fx.Module("migration",
	fx.Invoke(Run),
)
