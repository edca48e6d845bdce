// Package database opens the catalog store and keeps its schema current.
package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pierres.shop/app/internal/modules/categories"
	"pierres.shop/app/internal/modules/products"
	"pierres.shop/app/internal/modules/users"
)

// Open connects with driver "mysql" (production) or "sqlite" (local runs, tests).
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return db, nil
}

// Models lists every table owned by the application, parents first.
func Models() []any {
	return []any{
		&categories.Category{},
		&products.Product{},
		&users.User{},
		&users.EmailVerification{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
