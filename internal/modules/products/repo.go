package products

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type ListResult struct {
	Items []Product
	Total int64
}

// List returns one page of products, newest first. page is 1-based.
func (r *Repo) List(ctx context.Context, page, limit int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	base := r.db.WithContext(ctx).Model(&Product{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return ListResult{}, err
	}

	var items []Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC").
		Order("id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&items).Error
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}

// GetBySlug returns gorm.ErrRecordNotFound when no product has slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (Product, error) {
	var p Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&p, "slug = ?", slug).Error
	return p, err
}

func (r *Repo) Create(ctx context.Context, slug string, f Fields) (Product, error) {
	now := time.Now()
	p := Product{
		ID:        uuid.NewString(),
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(&p, f)
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return Product{}, err
	}
	return r.GetBySlug(ctx, slug)
}

// Update rewrites every editable field of the product identified by slug and
// reports how many rows matched; zero means it vanished since it was looked up.
func (r *Repo) Update(ctx context.Context, slug string, f Fields) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Product{}).
		Where("slug = ?", slug).
		Updates(map[string]any{
			"name":        f.Name,
			"description": f.Description,
			"price_cents": f.PriceCents,
			"in_stock":    f.InStock,
			"quality":     f.Quality,
			"sold":        f.Sold,
			"category_id": f.CategoryID,
			"size":        f.Size,
			"seasons":     datatypes.JSONSlice[string](nonNil(f.Seasons)),
			"image_key":   f.ImageKey,
			"image_url":   f.ImageURL,
			"updated_at":  time.Now(),
		})
	return res.RowsAffected, res.Error
}

func apply(p *Product, f Fields) {
	p.Name = f.Name
	p.Description = f.Description
	p.PriceCents = f.PriceCents
	p.InStock = f.InStock
	p.Quality = f.Quality
	p.Sold = f.Sold
	p.CategoryID = f.CategoryID
	p.Size = f.Size
	p.Seasons = datatypes.JSONSlice[string](nonNil(f.Seasons))
	p.ImageKey = f.ImageKey
	p.ImageURL = f.ImageURL
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
