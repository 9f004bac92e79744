package api

import (
	"context"

	"github.com/matthieukhl/shopctl/internal/models"
)

type NotificationsService struct {
	client *Client
}

func (s *NotificationsService) List(ctx context.Context, opts ListOptions) ([]models.Notification, int, error) {
	raw, err := s.client.do(ctx, request{method: "GET", path: "/notifications/", query: opts.values()})
	if err != nil {
		return nil, 0, err
	}
	return decodeList[models.Notification](raw)
}

func (s *NotificationsService) MarkRead(ctx context.Context, id string) error {
	return s.client.post(ctx, "/notifications/"+id+"/mark-read/", nil, nil)
}

func (s *NotificationsService) MarkAllRead(ctx context.Context) error {
	return s.client.post(ctx, "/notifications/mark-all-read/", nil, nil)
}

// UnreadCount fetches the server's current unread total.
func (s *NotificationsService) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := s.client.get(ctx, "/notifications/unread-count/", nil, &out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}

func (s *NotificationsService) ActivityLogs(ctx context.Context, opts ListOptions) ([]models.ActivityLog, int, error) {
	raw, err := s.client.do(ctx, request{method: "GET", path: "/activity-logs/", query: opts.values()})
	if err != nil {
		return nil, 0, err
	}
	return decodeList[models.ActivityLog](raw)
}
