package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pierres.shop/app/internal/catalog"
	"pierres.shop/app/internal/http/handlers"
	"pierres.shop/app/internal/http/middleware"
	"pierres.shop/app/internal/mailer"
	"pierres.shop/app/internal/metrics"
	"pierres.shop/app/internal/modules/auth"
	"pierres.shop/app/internal/modules/users"
	"pierres.shop/app/internal/storage"
	"pierres.shop/app/pkg/view"
)

type Deps struct {
	Logger  *slog.Logger
	DB      *gorm.DB
	Storage storage.Storage
	Tokens  *auth.Tokens

	// AppBaseURL is the storefront origin verification links point at.
	AppBaseURL string
	// MediaDir, when set, is served under MediaPrefix (local image storage).
	MediaDir    string
	MediaPrefix string

	// Mailer defaults to logging messages through Logger.
	Mailer   mailer.Service
	MailFrom mailer.Sender
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.ErrorHandler(d.Logger),
		middleware.Recovery(d.Logger),
	)

	guard := catalog.NewGuard(catalog.NewGormFinder(d.DB))
	verify := users.NewVerifyService(d.DB, d.Logger, d.AppBaseURL)

	productsH := handlers.NewProductsHandler(d.DB, d.Storage, d.Logger)
	categoriesH := handlers.NewCategoriesHandler(d.DB)
	usersH := handlers.NewUsersHandler(d.DB)
	mail := d.Mailer
	if mail == nil {
		mail = mailer.Log{Logger: d.Logger}
	}
	authH := handlers.NewAuthHandler(d.DB, d.Tokens, verify, mail, d.MailFrom, d.Logger)

	r.GET("/healthz", handlers.Health(d.DB))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if d.MediaDir != "" && d.MediaPrefix != "" {
		r.Static(d.MediaPrefix, d.MediaDir)
	}

	api := r.Group("/api/v1")

	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.GET("/auth/verify", authH.Verify)

	api.GET("/products", productsH.List)
	api.GET("/products/detail", middleware.RequireExisting(guard, view.KindProduct), productsH.Detail)
	api.GET("/categories", categoriesH.List)
	api.GET("/categories/detail", middleware.RequireExisting(guard, view.KindCategory), categoriesH.Detail)

	admin := api.Group("", middleware.RequireAuth(d.Tokens), middleware.RequireAdmin())
	admin.POST("/products", productsH.Create)
	admin.PUT("/products", middleware.RequireExisting(guard, view.KindProduct), productsH.Update)
	admin.POST("/categories", categoriesH.Create)
	admin.PUT("/categories", middleware.RequireExisting(guard, view.KindCategory), categoriesH.Update)
	admin.GET("/users/detail", middleware.RequireExisting(guard, view.KindUser), usersH.Detail)

	return r
}
