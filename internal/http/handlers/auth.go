package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"pierres.shop/app/internal/http/middleware"
	"pierres.shop/app/internal/mailer"
	"pierres.shop/app/internal/modules/auth"
	"pierres.shop/app/internal/modules/users"
	"pierres.shop/app/internal/shared/apperr"
	"pierres.shop/app/internal/shared/dberr"
	"pierres.shop/app/internal/shared/slug"
	"pierres.shop/app/pkg/view"
)

type AuthHandler struct {
	svc    *auth.Service
	users  *users.Repo
	verify *users.VerifyService
	mail   mailer.Service
	from   mailer.Sender
	log    *slog.Logger
}

func NewAuthHandler(db *gorm.DB, tokens *auth.Tokens, verify *users.VerifyService, mail mailer.Service, from mailer.Sender, l *slog.Logger) *AuthHandler {
	repo := users.NewRepo(db)
	return &AuthHandler{
		svc:    auth.NewService(repo, tokens),
		users:  repo,
		verify: verify,
		mail:   mail,
		from:   from,
		log:    l,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in view.LoginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err, &in)
		return
	}

	tok, u, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		middleware.Fail(c, apperr.UnauthorizedErr("Invalid email or password."))
		return
	case errors.Is(err, auth.ErrEmailNotVerified):
		middleware.Fail(c, apperr.UnauthorizedErr("Please verify your email before signing in."))
		return
	case err != nil:
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, view.LoginResponse{AccessToken: tok, User: toUserView(u)})
}

// Register creates an unverified customer and mails the verification link.
// A mail failure is logged; the account stays and the response is still 201.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var in view.RegisterRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		failBind(c, err, &in)
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	s, err := h.freeUserSlug(ctx, strings.TrimSpace(first+" "+last))
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	u, err := h.users.Create(ctx, users.CreateInput{
		Slug:         s,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         users.RoleCustomer,
		FirstName:    first,
		LastName:     last,
	})
	if err != nil {
		if dberr.IsDuplicateKey(err) {
			middleware.Fail(c, apperr.ConflictErr("An account with this email already exists."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	_, link, err := h.verify.Issue(ctx, u.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	if err := h.mail.Send(ctx, mailer.VerificationEmail(h.from, u.Email, u.FirstName, link)); err != nil {
		h.log.LogAttrs(ctx, slog.LevelError, "verification_mail_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("user_id", u.ID),
			slog.Any("err", err),
		)
	}

	resp, err := mutation("Registration successful. Check your email to verify your account.", view.OutcomeRegistered, toUserView(u))
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// freeUserSlug derives a slug from the display name, suffixed when taken.
func (h *AuthHandler) freeUserSlug(ctx context.Context, name string) (string, error) {
	base := slug.FromName(name, "user")
	_, err := h.users.GetBySlug(ctx, base)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return base, nil
	case err != nil:
		return "", err
	}
	return base + "-" + uuid.NewString()[:8], nil
}

// Verify consumes the email verification token from the "token" query parameter.
func (h *AuthHandler) Verify(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		middleware.Fail(c, apperr.InvalidErr("Verification token is required.", map[string]string{"token": "This field is required."}))
		return
	}

	_, err := h.verify.Verify(c.Request.Context(), token)
	switch {
	case errors.Is(err, users.ErrVerificationInvalid):
		middleware.Fail(c, apperr.InvalidErr("Verification link is invalid or already used.", nil))
		return
	case errors.Is(err, users.ErrVerificationExpired):
		middleware.Fail(c, apperr.InvalidErr("Verification link has expired.", nil))
		return
	case err != nil:
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, view.MutationResponse{
		Message: "Email verified successfully. You can now sign in.",
		Outcome: view.OutcomeVerified,
	})
}
