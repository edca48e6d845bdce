package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type CreateInput struct {
	Slug         string
	Email        string
	PasswordHash []byte
	Role         string
	FirstName    string
	LastName     string
}

func (r *Repo) Create(ctx context.Context, in CreateInput) (User, error) {
	now := time.Now()
	role := in.Role
	if role == "" {
		role = RoleCustomer
	}
	u := User{
		ID:           uuid.NewString(),
		Slug:         in.Slug,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: in.PasswordHash,
		Role:         role,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		return User{}, err
	}
	return u, nil
}

// GetBySlug returns gorm.ErrRecordNotFound when no user has slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "slug = ?", slug).Error
	return u, err
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db.WithContext(ctx).
		First(&u, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	return u, err
}

func (r *Repo) GetByID(ctx context.Context, id string) (User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return u, err
}
