package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pierres.shop/app/internal/http/middleware"
	"pierres.shop/app/internal/modules/categories"
	"pierres.shop/app/internal/modules/products"
	"pierres.shop/app/internal/shared/apperr"
	"pierres.shop/app/internal/shared/dberr"
	"pierres.shop/app/internal/shared/slug"
	"pierres.shop/app/internal/storage"
	"pierres.shop/app/pkg/view"
)

// productForm is the multipart body of create and edit. The image travels as
// a separate file part named "image".
type productForm struct {
	Name        string  `form:"name" binding:"required,max=255"`
	Description string  `form:"description" binding:"required"`
	Price       float64 `form:"price" binding:"gte=0,lte=1000000"`
	InStock     int     `form:"inStock" binding:"gte=0"`
	Quality     string  `form:"quality" binding:"omitempty,oneof=Regular Silver Gold Iridium"`
	Sold        int     `form:"sold" binding:"gte=0"`
	Category    string  `form:"category" binding:"required"`
	Size        string  `form:"size" binding:"omitempty,oneof=Regular Large Deluxe"`
	Season      string  `form:"season"`
}

type ProductsHandler struct {
	repo       *products.Repo
	categories *categories.Repo
	storage    storage.Storage
	log        *slog.Logger
}

func NewProductsHandler(db *gorm.DB, st storage.Storage, l *slog.Logger) *ProductsHandler {
	return &ProductsHandler{
		repo:       products.NewRepo(db),
		categories: categories.NewRepo(db),
		storage:    st,
		log:        l,
	}
}

// List serves one page of products. limit must be one of view.Limits.
func (h *ProductsHandler) List(c *gin.Context) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		middleware.Fail(c, apperr.InvalidErr("Invalid page.", map[string]string{"page": "Must be a number."}))
		return
	}
	limit, ok := queryInt(c, "limit", view.DefaultLimit)
	if !ok || !view.ValidLimit(limit) {
		middleware.Fail(c, apperr.InvalidErr("Invalid page size.", map[string]string{"limit": "Must be one of: 30, 20, 10, 5."}))
		return
	}

	ctx := c.Request.Context()
	res, err := h.repo.List(ctx, page, limit)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	pg := view.NewPagination(page, limit, res.Total)
	if pg.CurrentPage != max(page, 1) {
		// requested page is past the end; serve the clamped one
		if res, err = h.repo.List(ctx, pg.CurrentPage, limit); err != nil {
			middleware.Fail(c, apperr.Wrap(err))
			return
		}
	}

	out := view.ProductList{Items: make([]view.Product, 0, len(res.Items)), Pagination: pg}
	for _, p := range res.Items {
		out.Items = append(out.Items, toProductView(p))
	}
	c.JSON(http.StatusOK, out)
}

// Detail runs behind RequireExisting.
func (h *ProductsHandler) Detail(c *gin.Context) {
	s := middleware.GuardedSlug(c)
	p, err := h.repo.GetBySlug(c.Request.Context(), s)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.Fail(c, notFound(view.KindProduct, s))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, toProductView(p))
}

func (h *ProductsHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var in productForm
	if err := c.ShouldBind(&in); err != nil {
		failBind(c, err, &in)
		return
	}
	fields, err := h.fieldsFrom(c, in)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	img, err := h.storeImage(c)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	if img != nil {
		fields.ImageKey, fields.ImageURL = img.Key, img.URL
	}

	p, err := h.repo.Create(ctx, slug.FromName(in.Name, "product"), fields)
	if err != nil {
		h.discardImage(c, img)
		if dberr.IsDuplicateKey(err) {
			middleware.Fail(c, apperr.ConflictErr("A product with this name already exists."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	resp, err := mutation("Product created successfully", view.OutcomeCreated, toProductView(p))
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update runs behind RequireExisting. The slug never changes, even when the
// name does.
func (h *ProductsHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	s := middleware.GuardedSlug(c)

	existing, err := h.repo.GetBySlug(ctx, s)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.Fail(c, notFound(view.KindProduct, s))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	var in productForm
	if err := c.ShouldBind(&in); err != nil {
		failBind(c, err, &in)
		return
	}
	fields, err := h.fieldsFrom(c, in)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	img, err := h.storeImage(c)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	fields.ImageKey, fields.ImageURL = existing.ImageKey, existing.ImageURL
	if img != nil {
		fields.ImageKey, fields.ImageURL = img.Key, img.URL
	}

	n, err := h.repo.Update(ctx, s, fields)
	if err != nil || n == 0 {
		h.discardImage(c, img)
		if err != nil {
			middleware.Fail(c, apperr.Wrap(err))
		} else {
			middleware.Fail(c, notFound(view.KindProduct, s))
		}
		return
	}
	if img != nil && existing.ImageKey != "" {
		h.discardImage(c, &storage.PutResult{Key: existing.ImageKey})
	}

	p, err := h.repo.GetBySlug(ctx, s)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	resp, err := mutation("Product updated successfully", view.OutcomeUpdated, toProductView(p))
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// fieldsFrom resolves the category reference and the season list.
func (h *ProductsHandler) fieldsFrom(c *gin.Context, in productForm) (products.Fields, error) {
	seasons, err := parseSeasons(in.Season)
	if err != nil {
		return products.Fields{}, apperr.InvalidErr("Form data is invalid.", map[string]string{"season": err.Error()})
	}

	catSlug := slug.Normalize(in.Category)
	cat, err := h.categories.GetBySlug(c.Request.Context(), catSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return products.Fields{}, notFound(view.KindCategory, catSlug)
		}
		return products.Fields{}, apperr.Wrap(err)
	}

	quality := in.Quality
	if quality == "" {
		quality = products.QualityRegular
	}
	return products.Fields{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		PriceCents:  view.CentsFromPrice(in.Price),
		InStock:     in.InStock,
		Quality:     quality,
		Sold:        in.Sold,
		CategoryID:  cat.ID,
		Size:        in.Size,
		Seasons:     seasons,
	}, nil
}

// storeImage saves the optional "image" file part. nil means none was sent.
func (h *ProductsHandler) storeImage(c *gin.Context) (*storage.PutResult, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.InvalidErr("Image upload failed.", map[string]string{"image": "Could not read the file."})
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	defer f.Close()

	res, err := h.storage.Put(c.Request.Context(), f, storage.PutInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return nil, apperr.InvalidErr("Form data is invalid.", map[string]string{"image": "Must be a PNG, JPEG, WebP or GIF image."})
		}
		return nil, apperr.Wrap(err)
	}
	return &res, nil
}

func (h *ProductsHandler) discardImage(c *gin.Context, img *storage.PutResult) {
	if img == nil {
		return
	}
	if err := h.storage.Delete(c.Request.Context(), img.Key); err != nil {
		h.log.LogAttrs(c.Request.Context(), slog.LevelWarn, "image_delete_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("key", img.Key),
			slog.Any("err", err),
		)
	}
}

// parseSeasons reads the comma-joined season field. Duplicates collapse and
// the result is in canonical order.
func parseSeasons(raw string) ([]string, error) {
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		s := strings.ToLower(strings.TrimSpace(part))
		if s == "" {
			continue
		}
		if !slices.Contains(products.Seasons, s) {
			return nil, fmt.Errorf("Unknown season %q.", part)
		}
		seen[s] = true
	}
	out := make([]string, 0, len(seen))
	for _, s := range products.Seasons {
		if seen[s] {
			out = append(out, s)
		}
	}
	return out, nil
}
