package middleware

import (
	"github.com/gin-gonic/gin"

	"pierres.shop/app/internal/catalog"
	"pierres.shop/app/internal/metrics"
	"pierres.shop/app/internal/shared/apperr"
	"pierres.shop/app/internal/shared/slug"
	"pierres.shop/app/pkg/view"
)

const (
	ctxKeyGuardedSlug = "guarded_slug"
	ctxKeyGuardedKind = "guarded_kind"
)

// RequireExisting lets the request through only when the slug in the "name"
// query parameter (or the :slug route parameter) exists under kind.
//
// A miss becomes a 404 naming kind and slug; a store failure becomes a 500.
// Both go to ErrorHandler and the guarded handler never runs.
func RequireExisting(g *catalog.Guard, kind view.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := c.Query("name")
		if s == "" {
			s = c.Param("slug")
		}

		err := g.Require(c.Request.Context(), kind, s)
		switch {
		case err == nil:
			metrics.RecordGuardCheck(string(kind), metrics.GuardFound)
		case catalog.IsNotFound(err):
			metrics.RecordGuardCheck(string(kind), metrics.GuardNotFound)
			Fail(c, &apperr.AppError{Kind: apperr.NotFound, PublicMsg: err.Error(), Err: err})
			return
		default:
			metrics.RecordGuardCheck(string(kind), metrics.GuardError)
			Fail(c, apperr.Wrap(err))
			return
		}

		c.Set(ctxKeyGuardedSlug, slug.Normalize(s))
		c.Set(ctxKeyGuardedKind, kind)
		c.Next()
	}
}

// GuardedSlug returns the slug RequireExisting admitted.
func GuardedSlug(c *gin.Context) string {
	return c.GetString(ctxKeyGuardedSlug)
}

// GuardedKind returns the resource kind RequireExisting checked, if any.
func GuardedKind(c *gin.Context) (view.ResourceKind, bool) {
	v, ok := c.Get(ctxKeyGuardedKind)
	if !ok {
		return "", false
	}
	k, ok := v.(view.ResourceKind)
	return k, ok
}
