package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"pierres.shop/app/internal/modules/categories"
	"pierres.shop/app/internal/modules/products"
	"pierres.shop/app/internal/modules/users"
	"pierres.shop/app/pkg/view"
)

// GormFinder resolves existence against the catalog tables.
type GormFinder struct{ db *gorm.DB }

func NewGormFinder(db *gorm.DB) *GormFinder { return &GormFinder{db: db} }

func (f *GormFinder) ExistsBySlug(ctx context.Context, kind view.ResourceKind, slug string) (bool, error) {
	var model any
	switch kind {
	case view.KindCategory:
		model = &categories.Category{}
	case view.KindProduct:
		model = &products.Product{}
	case view.KindUser:
		model = &users.User{}
	default:
		return false, fmt.Errorf("no collection for kind %q", kind)
	}

	var n int64
	if err := f.db.WithContext(ctx).Model(model).Where("slug = ?", slug).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
