package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pierres.shop/app/internal/catalog"
	"pierres.shop/app/internal/http/middleware"
	"pierres.shop/app/internal/http/validation"
	"pierres.shop/app/internal/modules/categories"
	"pierres.shop/app/internal/modules/products"
	"pierres.shop/app/internal/modules/users"
	"pierres.shop/app/internal/shared/apperr"
	"pierres.shop/app/pkg/view"
)

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// notFound builds the same 404 the existence guard produces, for misses found
// after the guard (lookups inside a handler, or a row deleted since the check).
func notFound(kind view.ResourceKind, slug string) error {
	nf := &catalog.NotFoundError{Kind: kind, Slug: slug}
	return &apperr.AppError{Kind: apperr.NotFound, PublicMsg: nf.Error(), Err: nf}
}

func failBind(c *gin.Context, err error, dst any) {
	middleware.Fail(c, &apperr.AppError{
		Kind:      apperr.Invalid,
		PublicMsg: "Form data is invalid.",
		Fields:    validation.FromBindError(err, dst),
		Err:       err,
	})
}

func mutation(msg string, outcome view.Outcome, item any) (view.MutationResponse, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return view.MutationResponse{}, err
	}
	return view.MutationResponse{Message: msg, Outcome: outcome, Item: raw}, nil
}

func toCategoryView(c categories.Category) view.Category {
	return view.Category{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toProductView(p products.Product) view.Product {
	season := append([]string{}, p.Seasons...)
	return view.Product{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       view.PriceFromCents(p.PriceCents),
		InStock:     p.InStock,
		Quality:     p.Quality,
		Sold:        p.Sold,
		Category: view.CategoryRef{
			ID:   p.Category.ID,
			Name: p.Category.Name,
			Slug: p.Category.Slug,
		},
		Size:      p.Size,
		Season:    season,
		Image:     p.ImageURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toUserView(u users.User) view.UserProfile {
	return view.UserProfile{
		ID:            u.ID,
		Slug:          u.Slug,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          u.Role,
		EmailVerified: u.EmailVerifiedAt != nil,
		VerifiedAt:    u.EmailVerifiedAt,
	}
}
