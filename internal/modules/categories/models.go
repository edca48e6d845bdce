package categories

import "time"

type Category struct {
	ID          string    `gorm:"primaryKey;type:char(36)"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Slug        string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_categories_slug"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (Category) TableName() string { return "categories" }
