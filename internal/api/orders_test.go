package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/shopctl/internal/models"
)

func TestUpdateStatusRejectsIllegalTransitionLocally(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer ts.Close()

	store := newTestSession(t, "token", "refresh-1")
	client := NewClient(ts.URL, 0, store)
	ctx := context.Background()

	order := &models.Order{ID: "o1", Status: models.OrderPending}

	// pending cannot jump straight to delivered.
	_, err := client.Orders.UpdateStatus(ctx, order, models.OrderDelivered, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Terminal states allow nothing.
	order.Status = models.OrderCancelled
	_, err = client.Orders.UpdateStatus(ctx, order, models.OrderConfirmed, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Unknown target status.
	order.Status = models.OrderPending
	_, err = client.Orders.UpdateStatus(ctx, order, "archived", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.Equal(t, int32(0), hits.Load(), "illegal transitions must not reach the network")
}

func TestUpdateStatusSendsPatch(t *testing.T) {
	var got statusUpdate

	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /orders/o1/status/", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(models.Order{ID: "o1", Status: got.Status, PaymentStatus: got.PaymentStatus})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := newTestSession(t, "token", "refresh-1")
	client := NewClient(ts.URL, 0, store)

	order := &models.Order{ID: "o1", Status: models.OrderConfirmed}
	updated, err := client.Orders.UpdateStatus(context.Background(), order, models.OrderShipped, models.PaymentPaid)
	require.NoError(t, err)

	assert.Equal(t, models.OrderShipped, got.Status)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, models.OrderShipped, updated.Status)
}

func TestOrderListFilters(t *testing.T) {
	var query map[string][]string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders/", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{
			"count":   1,
			"results": []models.Order{{ID: "o1", Status: models.OrderPending}},
		})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := newTestSession(t, "token", "refresh-1")
	client := NewClient(ts.URL, 0, store)

	orders, total, err := client.Orders.List(context.Background(), OrderListOptions{
		ListOptions: ListOptions{Search: "SO-1001", Page: 2, PageSize: 10},
		Status:      models.OrderPending,
	})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 1, total)

	assert.Equal(t, "SO-1001", query["search"][0])
	assert.Equal(t, "2", query["page"][0])
	assert.Equal(t, "10", query["page_size"][0])
	assert.Equal(t, "pending", query["status"][0])
}
