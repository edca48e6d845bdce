package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"pierres.shop/app/internal/modules/auth"
	"pierres.shop/app/internal/shared/apperr"
)

const ctxKeyUser = "auth_user"

// ContextUser is the authenticated caller, taken from the access token.
type ContextUser struct {
	ID    string
	Email string
	Role  string
}

// RequireAuth accepts "Authorization: Bearer <token>".
// A missing token is 401; an expired or invalid one is 403, which clients
// treat as "sign out and sign in again".
func RequireAuth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			Fail(c, apperr.UnauthorizedErr("Authentication required."))
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			msg := "Invalid access token."
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "Your session has expired. Please sign in again."
			}
			Fail(c, &apperr.AppError{Kind: apperr.Forbidden, PublicMsg: msg, Err: err})
			return
		}

		c.Set(ctxKeyUser, ContextUser{ID: claims.Subject, Email: claims.Email, Role: claims.Role})
		c.Next()
	}
}

// CurrentUser returns the caller set by RequireAuth.
func CurrentUser(c *gin.Context) (ContextUser, bool) {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return ContextUser{}, false
	}
	u, ok := v.(ContextUser)
	return u, ok && u.ID != ""
}

func bearerToken(header string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
