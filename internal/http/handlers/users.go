package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pierres.shop/app/internal/http/middleware"
	"pierres.shop/app/internal/modules/users"
	"pierres.shop/app/internal/shared/apperr"
	"pierres.shop/app/pkg/view"
)

type UsersHandler struct {
	repo *users.Repo
}

func NewUsersHandler(db *gorm.DB) *UsersHandler {
	return &UsersHandler{repo: users.NewRepo(db)}
}

// Detail runs behind RequireExisting.
func (h *UsersHandler) Detail(c *gin.Context) {
	s := middleware.GuardedSlug(c)
	u, err := h.repo.GetBySlug(c.Request.Context(), s)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.Fail(c, notFound(view.KindUser, s))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, toUserView(u))
}
