package users

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID              string     `gorm:"primaryKey;type:char(36)"`
	Slug            string     `gorm:"type:varchar(255);not null;uniqueIndex:ux_users_slug"`
	Email           string     `gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash    []byte     `gorm:"type:varbinary(72);not null"`
	Role            string     `gorm:"type:varchar(16);not null"`
	FirstName       string     `gorm:"type:varchar(100)"`
	LastName        string     `gorm:"type:varchar(100)"`
	EmailVerifiedAt *time.Time `gorm:"type:datetime(3)"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

func (User) TableName() string { return "users" }

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
