package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/matthieukhl/shopctl/internal/models"
)

// DashboardService serves the analytics screens: headline stats,
// sales series and inventory alerts.
type DashboardService struct {
	client *Client
}

// Stats returns the headline numbers for the last periodDays days
// (30 when zero).
func (s *DashboardService) Stats(ctx context.Context, periodDays int) (*models.DashboardStats, error) {
	q := url.Values{}
	if periodDays > 0 {
		q.Set("period", strconv.Itoa(periodDays))
	}
	var stats models.DashboardStats
	if err := s.client.get(ctx, "/dashboard/stats/", q, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *DashboardService) Analytics(ctx context.Context, periodDays int) (*models.Analytics, error) {
	q := url.Values{}
	if periodDays > 0 {
		q.Set("period", strconv.Itoa(periodDays))
	}
	var a models.Analytics
	if err := s.client.get(ctx, "/dashboard/analytics/", q, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// InventoryAlerts lists products/variants at or below their stock
// threshold. alertType is "all", "low" or "out"; empty means all.
func (s *DashboardService) InventoryAlerts(ctx context.Context, alertType string) ([]models.InventoryAlert, error) {
	q := url.Values{}
	if alertType != "" {
		q.Set("type", alertType)
	}
	raw, err := s.client.do(ctx, request{method: "GET", path: "/dashboard/inventory-alerts/", query: q})
	if err != nil {
		return nil, err
	}
	alerts, _, err := decodeList[models.InventoryAlert](raw)
	return alerts, err
}
