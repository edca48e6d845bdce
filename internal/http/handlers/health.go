package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pierres.shop/app/internal/http/middleware"
	"pierres.shop/app/internal/shared/apperr"
)

// Health pings the store.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			middleware.Fail(c, &apperr.AppError{Kind: apperr.Internal, PublicMsg: "Store unavailable.", Err: err})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
