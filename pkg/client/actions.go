package client

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"pierres.shop/app/pkg/view"
)

// InvalidURLMessage is shown when a verification link carries no token.
const InvalidURLMessage = "Invalid URL"

var ErrInvalidURL = errors.New("client: verification link has no token")

// VerifyTokenFromURL extracts the "token" query parameter of a verification
// link.
func VerifyTokenFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}
	tok := strings.TrimSpace(u.Query().Get("token"))
	if tok == "" {
		return "", ErrInvalidURL
	}
	return tok, nil
}

// ListProductsAction fetches one page into dst.
func (c *Client) ListProductsAction(page, limit int, dst *view.ProductList) Action {
	return func(ctx context.Context) (Result, error) {
		list, err := c.ListProducts(ctx, page, limit)
		if err != nil {
			return Result{}, err
		}
		*dst = list
		return Result{Outcome: view.OutcomeListed}, nil
	}
}

// ListCategoriesAction fetches every category into dst.
func (c *Client) ListCategoriesAction(dst *view.CategoryList) Action {
	return func(ctx context.Context) (Result, error) {
		list, err := c.ListCategories(ctx)
		if err != nil {
			return Result{}, err
		}
		*dst = list
		return Result{Outcome: view.OutcomeListed}, nil
	}
}

func (c *Client) SubmitProductAction(r ProductRequest) Action {
	return func(ctx context.Context) (Result, error) {
		resp, err := c.SubmitProduct(ctx, r)
		if err != nil {
			return Result{}, err
		}
		return Result{Message: resp.Message, Outcome: resp.Outcome}, nil
	}
}

func (c *Client) VerifyAction(token string) Action {
	return func(ctx context.Context) (Result, error) {
		resp, err := c.Verify(ctx, token)
		if err != nil {
			return Result{}, err
		}
		return Result{Message: resp.Message, Outcome: resp.Outcome}, nil
	}
}

// VerifyLink runs the verification for the link the user opened on l. A link
// without a token fails with ErrInvalidURL and nothing is dispatched.
func (c *Client) VerifyLink(ctx context.Context, l *Lifecycle, link string) (State, error) {
	tok, err := VerifyTokenFromURL(link)
	if err != nil {
		return l.State(), err
	}
	return l.Dispatch(ctx, c.VerifyAction(tok))
}
