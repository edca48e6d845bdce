// Package client talks to the storefront API and holds the request state the
// storefront screens render from.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pierres.shop/app/pkg/view"
)

// APIError is a non-2xx API response.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Token is sent as a bearer token when set.
	Token string
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) ListProducts(ctx context.Context, page, limit int) (view.ProductList, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out view.ProductList
	err := c.do(ctx, http.MethodGet, "/api/v1/products?"+q.Encode(), "", nil, &out)
	return out, err
}

func (c *Client) Product(ctx context.Context, slug string) (view.Product, error) {
	var out view.Product
	err := c.do(ctx, http.MethodGet, "/api/v1/products/detail?name="+url.QueryEscape(slug), "", nil, &out)
	return out, err
}

func (c *Client) ListCategories(ctx context.Context) (view.CategoryList, error) {
	var out view.CategoryList
	err := c.do(ctx, http.MethodGet, "/api/v1/categories", "", nil, &out)
	return out, err
}

// SubmitProduct sends a create or edit request depending on r.IsEdit.
func (c *Client) SubmitProduct(ctx context.Context, r ProductRequest) (view.MutationResponse, error) {
	ct, body, err := r.Payload.Encode()
	if err != nil {
		return view.MutationResponse{}, err
	}
	method, path := http.MethodPost, "/api/v1/products"
	if r.IsEdit() {
		method, path = http.MethodPut, "/api/v1/products?name="+url.QueryEscape(r.Slug)
	}
	var out view.MutationResponse
	err = c.do(ctx, method, path, ct, body, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, p Payload) (view.MutationResponse, error) {
	return c.SubmitProduct(ctx, ProductRequest{Payload: p})
}

func (c *Client) EditProduct(ctx context.Context, slug string, p Payload) (view.MutationResponse, error) {
	if slug == "" {
		return view.MutationResponse{}, &FieldError{Fields: map[string]string{"slug": "This field is required."}}
	}
	return c.SubmitProduct(ctx, ProductRequest{Slug: slug, Payload: p})
}

func (c *Client) Verify(ctx context.Context, token string) (view.MutationResponse, error) {
	var out view.MutationResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/auth/verify?token="+url.QueryEscape(token), "", nil, &out)
	return out, err
}

// Login stores the returned access token on c.
func (c *Client) Login(ctx context.Context, email, password string) (view.LoginResponse, error) {
	raw, err := json.Marshal(view.LoginRequest{Email: email, Password: password})
	if err != nil {
		return view.LoginResponse{}, err
	}
	var out view.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", "application/json", bytes.NewReader(raw), &out); err != nil {
		return view.LoginResponse{}, err
	}
	c.Token = out.AccessToken
	return out, nil
}

func (c *Client) SignOut() { c.Token = "" }

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body view.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.RequestID = body.RequestID
		apiErr.Fields = body.Fields
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
