package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/matthieukhl/shopctl/internal/models"
)

// OrdersService lists orders and drives the status lifecycle.
type OrdersService struct {
	client *Client
}

type OrderListOptions struct {
	ListOptions
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
}

func (o OrderListOptions) values() url.Values {
	q := o.ListOptions.values()
	if o.Status != "" {
		q.Set("status", string(o.Status))
	}
	if o.PaymentStatus != "" {
		q.Set("payment_status", string(o.PaymentStatus))
	}
	return q
}

func (s *OrdersService) List(ctx context.Context, opts OrderListOptions) ([]models.Order, int, error) {
	raw, err := s.client.do(ctx, request{method: "GET", path: "/orders/", query: opts.values()})
	if err != nil {
		return nil, 0, err
	}
	return decodeList[models.Order](raw)
}

func (s *OrdersService) Get(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := s.client.get(ctx, "/orders/"+id+"/", nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

type statusUpdate struct {
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"payment_status,omitempty"`
}

// UpdateStatus moves an order to target, optionally setting the
// payment status in the same call. The transition is checked against
// the status graph before any request is issued; an illegal move
// returns ErrInvalidTransition without touching the network. Payment
// status is a free field and is never checked against the graph.
func (s *OrdersService) UpdateStatus(ctx context.Context, order *models.Order, target models.OrderStatus, paymentStatus models.PaymentStatus) (*models.Order, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}
	if !models.CanTransition(order.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
	}

	var updated models.Order
	body := statusUpdate{Status: target, PaymentStatus: paymentStatus}
	if err := s.client.patch(ctx, "/orders/"+order.ID+"/status/", body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *OrdersService) Stats(ctx context.Context) (*models.OrderStats, error) {
	var stats models.OrderStats
	if err := s.client.get(ctx, "/orders/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Export downloads the order export (CSV) for the given filters.
func (s *OrdersService) Export(ctx context.Context, opts OrderListOptions) ([]byte, error) {
	return s.client.raw(ctx, "/orders/export/", opts.values())
}
