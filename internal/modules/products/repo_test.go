package products_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pierres.shop/app/internal/database/dbtest"
	"pierres.shop/app/internal/modules/categories"
	"pierres.shop/app/internal/modules/products"
	"pierres.shop/app/internal/shared/dberr"
)

func seedCategory(t *testing.T, db *gorm.DB) categories.Category {
	t.Helper()
	c, err := categories.NewRepo(db).Create(context.Background(), "Crops", "crops", "")
	require.NoError(t, err)
	return c
}

func TestRepo_CreateAndGetBySlug(t *testing.T) {
	db := dbtest.Open(t)
	cat := seedCategory(t, db)
	repo := products.NewRepo(db)
	ctx := context.Background()

	p, err := repo.Create(ctx, "blue-scarf", products.Fields{
		Name:        "Blue Scarf",
		Description: "Warm",
		PriceCents:  1250,
		InStock:     3,
		Quality:     products.QualityGold,
		CategoryID:  cat.ID,
		Seasons:     []string{"spring", "fall"},
	})
	require.NoError(t, err)
	assert.Equal(t, "blue-scarf", p.Slug)
	assert.Equal(t, "crops", p.Category.Slug)
	assert.Equal(t, []string{"spring", "fall"}, []string(p.Seasons))

	_, err = repo.GetBySlug(ctx, "red-scarf")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepo_CreateDuplicateSlug(t *testing.T) {
	db := dbtest.Open(t)
	cat := seedCategory(t, db)
	repo := products.NewRepo(db)
	ctx := context.Background()

	f := products.Fields{Name: "Parsnip", Description: "Root", Quality: products.QualityRegular, CategoryID: cat.ID}
	_, err := repo.Create(ctx, "parsnip", f)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "parsnip", f)
	require.Error(t, err)
	assert.True(t, dberr.IsDuplicateKey(err))
}

func TestRepo_UpdateKeepsSlug(t *testing.T) {
	db := dbtest.Open(t)
	cat := seedCategory(t, db)
	repo := products.NewRepo(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, "melon", products.Fields{Name: "Melon", Description: "Sweet", CategoryID: cat.ID, Quality: products.QualityRegular})
	require.NoError(t, err)

	n, err := repo.Update(ctx, "melon", products.Fields{
		Name: "Golden Melon", Description: "Sweeter", PriceCents: 900,
		Quality: products.QualitySilver, CategoryID: cat.ID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.GetBySlug(ctx, "melon")
	require.NoError(t, err)
	assert.Equal(t, "Golden Melon", got.Name)
	assert.EqualValues(t, 900, got.PriceCents)
	assert.Empty(t, got.Seasons)

	n, err = repo.Update(ctx, "gone", products.Fields{Name: "x"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRepo_ListPages(t *testing.T) {
	db := dbtest.Open(t)
	cat := seedCategory(t, db)
	repo := products.NewRepo(db)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := repo.Create(ctx, fmt.Sprintf("item-%02d", i), products.Fields{
			Name: fmt.Sprintf("Item %d", i), Description: "d", CategoryID: cat.ID, Quality: products.QualityRegular,
		})
		require.NoError(t, err)
	}

	res, err := repo.List(ctx, 1, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 12, res.Total)
	assert.Len(t, res.Items, 5)

	res, err = repo.List(ctx, 3, 5)
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, "crops", res.Items[0].Category.Slug)
}
