package search

import (
	"context"

	"github.com/matthieukhl/shopctl/internal/api"
	"github.com/matthieukhl/shopctl/internal/models"
)

// ClientSources wires the aggregator to the live API: each resource
// lookup is its list endpoint filtered by the query and capped via
// page_size.
func ClientSources(c *api.Client) Sources {
	return Sources{
		Products: func(ctx context.Context, query string, limit int) ([]models.Product, error) {
			items, _, err := c.Products.List(ctx, api.ProductListOptions{
				ListOptions: api.ListOptions{Search: query, PageSize: limit},
			})
			return items, err
		},
		Orders: func(ctx context.Context, query string, limit int) ([]models.Order, error) {
			items, _, err := c.Orders.List(ctx, api.OrderListOptions{
				ListOptions: api.ListOptions{Search: query, PageSize: limit},
			})
			return items, err
		},
		Customers: func(ctx context.Context, query string, limit int) ([]models.Customer, error) {
			items, _, err := c.Customers.List(ctx, api.ListOptions{Search: query, PageSize: limit})
			return items, err
		},
	}
}
