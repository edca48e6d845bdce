package categories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) List(ctx context.Context) ([]Category, error) {
	var items []Category
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

// GetBySlug returns gorm.ErrRecordNotFound when no category has slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (Category, error) {
	var c Category
	err := r.db.WithContext(ctx).First(&c, "slug = ?", slug).Error
	return c, err
}

func (r *Repo) Create(ctx context.Context, name, slug, desc string) (Category, error) {
	now := time.Now()
	c := Category{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug,
		Description: desc,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return Category{}, err
	}
	return c, nil
}

// Update rewrites name and description; the slug is immutable.
func (r *Repo) Update(ctx context.Context, slug, name, desc string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Category{}).
		Where("slug = ?", slug).
		Updates(map[string]any{
			"name":        name,
			"description": desc,
			"updated_at":  time.Now(),
		})
	return res.RowsAffected, res.Error
}
