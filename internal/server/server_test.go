package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/shopctl/internal/api"
	"github.com/matthieukhl/shopctl/internal/config"
	"github.com/matthieukhl/shopctl/internal/models"
	"github.com/matthieukhl/shopctl/internal/session"
)

func newTestServer(t *testing.T, accessTTL time.Duration) *httptest.Server {
	t.Helper()

	srv := NewServer(&config.DevConfig{
		JWTSecret: "test-secret",
		AccessTTL: accessTTL,
		Seed:      true,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newLoggedInClient(t *testing.T, ts *httptest.Server) *api.Client {
	t.Helper()

	store, err := session.Open(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	client := api.NewClient(ts.URL+"/dashboard", 0, store)
	_, err = client.Auth.Login(context.Background(), api.LoginInput{
		Email:    "admin@example.com",
		Password: "admin123",
	})
	require.NoError(t, err)
	return client
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t, time.Minute)

	store, err := session.Open(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	client := api.NewClient(ts.URL+"/dashboard", 0, store)

	_, err = client.Auth.Login(context.Background(), api.LoginInput{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.False(t, store.Authenticated())
}

func TestSeededCatalogFlow(t *testing.T) {
	ts := newTestServer(t, time.Minute)
	client := newLoggedInClient(t, ts)
	ctx := context.Background()

	products, total, err := client.Products.List(ctx, api.ProductListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, products, 3)

	// search narrows the list
	products, _, err = client.Products.List(ctx, api.ProductListOptions{ListOptions: api.ListOptions{Search: "mug"}})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Stoneware Mug", products[0].Name)

	created, err := client.Categories.Create(ctx, api.CategoryInput{Name: "Homeware", Slug: "homeware"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	// A category that still has children cannot be deleted.
	categories, _, err := client.Categories.List(ctx, api.ListOptions{})
	require.NoError(t, err)
	var clothingID string
	for _, c := range categories {
		if c.Name == "Clothing" {
			clothingID = c.ID
		}
	}
	require.NotEmpty(t, clothingID)
	err = client.Categories.Delete(ctx, clothingID)
	assert.ErrorIs(t, err, api.ErrConflict)
}

func TestOrderLifecycleAgainstServer(t *testing.T) {
	ts := newTestServer(t, time.Minute)
	client := newLoggedInClient(t, ts)
	ctx := context.Background()

	orders, _, err := client.Orders.List(ctx, api.OrderListOptions{
		ListOptions: api.ListOptions{Search: "SO-1001"},
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	pending := orders[0]
	require.Equal(t, models.OrderPending, pending.Status)

	confirmed, err := client.Orders.UpdateStatus(ctx, &pending, models.OrderConfirmed, models.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, confirmed.Status)
	assert.Equal(t, models.PaymentPaid, confirmed.PaymentStatus)

	shipped, err := client.Orders.UpdateStatus(ctx, confirmed, models.OrderShipped, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, shipped.Status)

	stats, err := client.Orders.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 1, stats.ShippedOrders)
}

// The server re-checks transitions independently of the client, so a
// raw request with an illegal move must be rejected with 400.
func TestServerRejectsIllegalTransition(t *testing.T) {
	ts := newTestServer(t, time.Minute)
	client := newLoggedInClient(t, ts)
	ctx := context.Background()

	orders, _, err := client.Orders.List(ctx, api.OrderListOptions{
		ListOptions: api.ListOptions{Search: "SO-1002"},
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	confirmed := orders[0]

	payload, _ := json.Marshal(map[string]string{"status": "delivered"})
	req, err := http.NewRequest(http.MethodPatch,
		ts.URL+"/dashboard/orders/"+confirmed.ID+"/status/", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+client.Session().AccessToken())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExpiredTokenIsRefreshedTransparently(t *testing.T) {
	ts := newTestServer(t, time.Second)
	client := newLoggedInClient(t, ts)

	firstToken := client.Session().AccessToken()
	require.NotEmpty(t, firstToken)

	// Let the access token expire; the refresh token stays valid.
	time.Sleep(1500 * time.Millisecond)

	user, err := client.Auth.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.NotEqual(t, firstToken, client.Session().AccessToken())
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	ts := newTestServer(t, time.Minute)
	client := newLoggedInClient(t, ts)
	ctx := context.Background()

	refresh := client.Session().RefreshToken()
	require.NoError(t, client.Auth.Logout(ctx))
	assert.False(t, client.Session().Authenticated())

	// The revoked token must no longer mint access tokens.
	payload, _ := json.Marshal(map[string]string{"refresh": refresh})
	resp, err := http.Post(ts.URL+"/dashboard/auth/token/refresh/", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCouponValidation(t *testing.T) {
	ts := newTestServer(t, time.Minute)
	client := newLoggedInClient(t, ts)
	ctx := context.Background()

	v, err := client.Coupons.Validate(ctx, "WELCOME10", 100)
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.InDelta(t, 10.0, v.Discount, 0.001)

	v, err = client.Coupons.Validate(ctx, "NOPE", 100)
	require.NoError(t, err)
	assert.False(t, v.Valid)
}

func TestNotificationsAndUnreadCount(t *testing.T) {
	ts := newTestServer(t, time.Minute)
	client := newLoggedInClient(t, ts)
	ctx := context.Background()

	count, err := client.Notifications.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	notifications, _, err := client.Notifications.List(ctx, api.ListOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, notifications)

	require.NoError(t, client.Notifications.MarkRead(ctx, notifications[0].ID))
	count, err = client.Notifications.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, client.Notifications.MarkAllRead(ctx))
	count, err = client.Notifications.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestInventoryAlerts(t *testing.T) {
	ts := newTestServer(t, time.Minute)
	client := newLoggedInClient(t, ts)
	ctx := context.Background()

	// Seeded: mug stock 2 (low), poster stock 0 (out), shirt variants 4
	// (low) and 8 (ok).
	alerts, err := client.Dashboard.InventoryAlerts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, alerts, 3)

	out, err := client.Dashboard.InventoryAlerts(ctx, "out")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "City Map Poster", out[0].ProductName)

	low, err := client.Dashboard.InventoryAlerts(ctx, "low")
	require.NoError(t, err)
	assert.Len(t, low, 2)
}

func TestVariantStockUpdate(t *testing.T) {
	ts := newTestServer(t, time.Minute)
	client := newLoggedInClient(t, ts)
	ctx := context.Background()

	products, _, err := client.Products.List(ctx, api.ProductListOptions{ListOptions: api.ListOptions{Search: "linen"}})
	require.NoError(t, err)
	require.Len(t, products, 1)
	shirt := products[0]

	variants, err := client.Products.Variants(ctx, shirt.ID)
	require.NoError(t, err)
	require.Len(t, variants, 2)

	updated, err := client.Products.UpdateVariantStock(ctx, shirt.ID, variants[0].ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Stock)

	_, err = client.Products.UpdateVariantStock(ctx, shirt.ID, variants[0].ID, -1)
	assert.ErrorIs(t, err, api.ErrValidation)
}
