// Package catalog answers whether a category, product or user exists by slug.
//
// An existence check is an advisory precondition, not a reservation: a
// resource can disappear between Check and the guarded action. Callers that
// mutate must still handle a zero-row update as not found.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"pierres.shop/app/internal/shared/slug"
	"pierres.shop/app/pkg/view"
)

// ErrLookup marks a failure of the backing store, as opposed to a miss.
var ErrLookup = errors.New("existence lookup failed")

// Finder performs a single lookup of slug in the collection for kind.
type Finder interface {
	ExistsBySlug(ctx context.Context, kind view.ResourceKind, slug string) (bool, error)
}

// NotFoundError is the user-visible miss for one kind and slug.
type NotFoundError struct {
	Kind view.ResourceKind
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("A %s '%s' does not exist.", e.Kind, e.Slug)
}

type Guard struct {
	finder Finder
}

func NewGuard(f Finder) *Guard { return &Guard{finder: f} }

// Check reports whether slug exists under kind. Blank slugs are never looked
// up and report false.
func (g *Guard) Check(ctx context.Context, kind view.ResourceKind, s string) (bool, error) {
	if !kind.Valid() {
		return false, fmt.Errorf("catalog: unknown kind %q", kind)
	}
	s = slug.Normalize(s)
	if s == "" {
		return false, nil
	}
	found, err := g.finder.ExistsBySlug(ctx, kind, s)
	if err != nil {
		return false, fmt.Errorf("%w: %s %q: %w", ErrLookup, kind, s, err)
	}
	return found, nil
}

// Require is Check with a miss turned into *NotFoundError.
func (g *Guard) Require(ctx context.Context, kind view.ResourceKind, s string) error {
	found, err := g.Check(ctx, kind, s)
	if err != nil {
		return err
	}
	if !found {
		return &NotFoundError{Kind: kind, Slug: slug.Normalize(s)}
	}
	return nil
}

// IsNotFound reports whether err is a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
