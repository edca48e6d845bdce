package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pierres.shop/app/internal/http/middleware"
	"pierres.shop/app/internal/modules/categories"
	"pierres.shop/app/internal/shared/apperr"
	"pierres.shop/app/internal/shared/dberr"
	"pierres.shop/app/internal/shared/slug"
	"pierres.shop/app/pkg/view"
)

type categoryInput struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=2000"`
}

type CategoriesHandler struct {
	repo *categories.Repo
}

func NewCategoriesHandler(db *gorm.DB) *CategoriesHandler {
	return &CategoriesHandler{repo: categories.NewRepo(db)}
}

func (h *CategoriesHandler) List(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	out := view.CategoryList{Items: make([]view.Category, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, toCategoryView(it))
	}
	c.JSON(http.StatusOK, out)
}

// Detail runs behind RequireExisting.
func (h *CategoriesHandler) Detail(c *gin.Context) {
	s := middleware.GuardedSlug(c)
	cat, err := h.repo.GetBySlug(c.Request.Context(), s)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.Fail(c, notFound(view.KindCategory, s))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, toCategoryView(cat))
}

func (h *CategoriesHandler) Create(c *gin.Context) {
	var in categoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err, &in)
		return
	}

	name := strings.TrimSpace(in.Name)
	cat, err := h.repo.Create(c.Request.Context(), name, slug.FromName(name, "category"), strings.TrimSpace(in.Description))
	if err != nil {
		if dberr.IsDuplicateKey(err) {
			middleware.Fail(c, apperr.ConflictErr("A category with this name already exists."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	resp, err := mutation("Category created successfully", view.OutcomeCreated, toCategoryView(cat))
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update runs behind RequireExisting; the slug is immutable.
func (h *CategoriesHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	s := middleware.GuardedSlug(c)

	var in categoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err, &in)
		return
	}

	n, err := h.repo.Update(ctx, s, strings.TrimSpace(in.Name), strings.TrimSpace(in.Description))
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	if n == 0 {
		middleware.Fail(c, notFound(view.KindCategory, s))
		return
	}

	cat, err := h.repo.GetBySlug(ctx, s)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	resp, err := mutation("Category updated successfully", view.OutcomeUpdated, toCategoryView(cat))
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}
