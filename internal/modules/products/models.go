package products

import (
	"time"

	"gorm.io/datatypes"

	"pierres.shop/app/internal/modules/categories"
)

const (
	QualityRegular = "Regular"
	QualitySilver  = "Silver"
	QualityGold    = "Gold"
	QualityIridium = "Iridium"
)

// Seasons in canonical display order.
var Seasons = []string{"spring", "summer", "fall", "winter"}

type Product struct {
	ID          string                      `gorm:"primaryKey;type:char(36)"`
	Name        string                      `gorm:"type:varchar(255);not null"`
	Slug        string                      `gorm:"type:varchar(255);not null;uniqueIndex:ux_products_slug"`
	Description string                      `gorm:"type:text;not null"`
	PriceCents  int64                       `gorm:"not null"`
	InStock     int                         `gorm:"not null"`
	Quality     string                      `gorm:"type:varchar(16);not null"`
	Sold        int                         `gorm:"not null"`
	CategoryID  string                      `gorm:"type:char(36);not null;index:ix_products_category_id"`
	Category    categories.Category         `gorm:"foreignKey:CategoryID"`
	Size        string                      `gorm:"type:varchar(16)"`
	Seasons     datatypes.JSONSlice[string] `gorm:"type:json"`
	ImageKey    string                      `gorm:"type:varchar(255)"`
	ImageURL    string                      `gorm:"type:varchar(512)"`
	CreatedAt   time.Time                   `gorm:"not null"`
	UpdatedAt   time.Time                   `gorm:"not null"`
}

func (Product) TableName() string { return "products" }

// Fields is the editable part of a product. The slug is set once at creation.
type Fields struct {
	Name        string
	Description string
	PriceCents  int64
	InStock     int
	Quality     string
	Sold        int
	CategoryID  string
	Size        string
	Seasons     []string
	ImageKey    string
	ImageURL    string
}
