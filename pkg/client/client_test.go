package client_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pierres.shop/app/internal/database/dbtest"
	apphttp "pierres.shop/app/internal/http"
	"pierres.shop/app/internal/modules/auth"
	"pierres.shop/app/internal/modules/categories"
	"pierres.shop/app/internal/modules/users"
	"pierres.shop/app/internal/storage"
	"pierres.shop/app/pkg/client"
	"pierres.shop/app/pkg/view"
)

func init() { gin.SetMode(gin.TestMode) }

type storefront struct {
	srv    *httptest.Server
	verify *users.VerifyService
	tokens *auth.Tokens
}

func newStorefront(t *testing.T) *storefront {
	t.Helper()
	db := dbtest.Open(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokens([]byte("client-secret"), time.Hour)

	srv := httptest.NewServer(apphttp.NewRouter(apphttp.Deps{
		Logger:     logger,
		DB:         db,
		Storage:    storage.NewLocal(t.TempDir(), "/media"),
		Tokens:     tokens,
		AppBaseURL: "http://shop.test",
	}))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	_, err := categories.NewRepo(db).Create(ctx, "Accessories", "accessories", "")
	require.NoError(t, err)

	hash, err := auth.HashPassword("hunter22")
	require.NoError(t, err)
	admin, err := users.NewRepo(db).Create(ctx, users.CreateInput{Slug: "pierre", Email: "pierre@example.com", PasswordHash: hash, Role: users.RoleAdmin})
	require.NoError(t, err)

	verify := users.NewVerifyService(db, logger, "http://shop.test")
	_, link, err := verify.Issue(ctx, admin.ID)
	require.NoError(t, err)
	tok, err := client.VerifyTokenFromURL(link)
	require.NoError(t, err)
	_, err = verify.Verify(ctx, tok)
	require.NoError(t, err)

	return &storefront{srv: srv, verify: verify, tokens: tokens}
}

func TestClient_CreateListEdit(t *testing.T) {
	sf := newStorefront(t)
	ctx := context.Background()
	c := client.New(sf.srv.URL)

	navigated := make(chan string, 4)
	signedOut := 0
	ls := client.NewLifecycles(client.WithEffects(client.Effects{
		SignOut:  func() { signedOut++; c.SignOut() },
		Navigate: func(p string) { navigated <- p },
	}))
	defer ls.Close()
	products := ls.For(view.KindProduct)

	_, err := c.Login(ctx, "pierre@example.com", "hunter22")
	require.NoError(t, err)

	draft := client.Draft{
		Name:        "Blue Scarf",
		Description: "Warm",
		Price:       12,
		InStock:     2,
		Quality:     "Silver",
		Category:    "accessories",
		Season:      client.NewSeasonSet(client.Spring, client.Fall),
		Image:       &client.Attachment{Filename: "s.png", ContentType: "image/png", Data: []byte("png")},
	}
	req, err := client.CreateRequest(draft)
	require.NoError(t, err)

	st, err := products.Dispatch(ctx, c.SubmitProductAction(req))
	require.NoError(t, err)
	require.Equal(t, client.StatusSuccess, st.Status, st.Message)
	assert.Equal(t, view.OutcomeCreated, st.Outcome)
	assert.Equal(t, "Product created successfully", st.Message)
	assert.Equal(t, client.DefaultListingPath, <-navigated)

	var list view.ProductList
	st, err = products.Dispatch(ctx, c.ListProductsAction(1, 10, &list))
	require.NoError(t, err)
	assert.Equal(t, client.StatusSuccess, st.Status)
	require.Len(t, list.Items, 1)
	assert.Equal(t, []string{"spring", "fall"}, list.Items[0].Season)
	assert.Equal(t, view.Pagination{CurrentPage: 1, TotalPages: 1, Limit: 10}, list.Pagination)

	var cats view.CategoryList
	st, err = ls.For(view.KindCategory).Dispatch(ctx, c.ListCategoriesAction(&cats))
	require.NoError(t, err)
	assert.Equal(t, view.OutcomeListed, st.Outcome)
	require.Len(t, cats.Items, 1)
	assert.Equal(t, "accessories", cats.Items[0].Slug)

	draft.Name = "Navy Scarf"
	draft.Image = nil
	edit, err := client.EditRequest("blue-scarf", draft)
	require.NoError(t, err)
	st, err = products.Dispatch(ctx, c.SubmitProductAction(edit))
	require.NoError(t, err)
	assert.Equal(t, view.OutcomeUpdated, st.Outcome)
	assert.Empty(t, navigated)

	missing, err := client.EditRequest("red-scarf", draft)
	require.NoError(t, err)
	st, err = products.Dispatch(ctx, c.SubmitProductAction(missing))
	require.NoError(t, err)
	assert.Equal(t, client.StatusError, st.Status)
	assert.Equal(t, http.StatusNotFound, st.StatusCode)
	assert.Equal(t, "A product 'red-scarf' does not exist.", st.Message)
	assert.Zero(t, signedOut)
}

func TestClient_ExpiredTokenSignsOut(t *testing.T) {
	sf := newStorefront(t)
	ctx := context.Background()
	c := client.New(sf.srv.URL)

	expired, err := auth.NewTokens([]byte("client-secret"), -time.Minute).Issue("u-1", "pierre@example.com", users.RoleAdmin)
	require.NoError(t, err)
	c.Token = expired

	signedOut := 0
	l := client.NewLifecycle(view.KindProduct, client.WithEffects(client.Effects{SignOut: func() { signedOut++; c.SignOut() }}))

	req, err := client.EditRequest("blue-scarf", client.Draft{Name: "x", Description: "y", Category: "accessories"})
	require.NoError(t, err)
	st, err := l.Dispatch(ctx, c.SubmitProductAction(req))
	require.NoError(t, err)

	assert.Equal(t, client.StatusError, st.Status)
	assert.Equal(t, http.StatusForbidden, st.StatusCode)
	assert.Equal(t, 1, signedOut)
	assert.Empty(t, c.Token)
}

func TestClient_VerifyLink(t *testing.T) {
	sf := newStorefront(t)
	ctx := context.Background()
	c := client.New(sf.srv.URL)
	l := client.NewLifecycle(view.KindUser)

	st, err := c.VerifyLink(ctx, l, "http://shop.test/verify")
	assert.ErrorIs(t, err, client.ErrInvalidURL)
	assert.Equal(t, client.StatusIdle, st.Status)

	st, err = c.VerifyLink(ctx, l, "http://shop.test/verify?token=deadbeef")
	require.NoError(t, err)
	assert.Equal(t, client.StatusError, st.Status)
	assert.Equal(t, http.StatusBadRequest, st.StatusCode)

	tk, err := l.Begin()
	require.NoError(t, err)
	_, err = c.VerifyLink(ctx, l, "http://shop.test/verify?token=deadbeef")
	assert.ErrorIs(t, err, client.ErrBusy)
	assert.NotErrorIs(t, err, client.ErrInvalidURL)
	tk.Resolve(client.Result{}, nil)
}

func TestClient_APIErrorWithoutJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).ListCategories(context.Background())
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
