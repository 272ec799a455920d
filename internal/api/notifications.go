package api

import (
	"context"

	"taskflow/internal/models"
)

// ListNotifications returns the user's notifications, most recent first.
func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := c.get(ctx, "/notifications", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flags one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID string) error {
	return c.put(ctx, "/notifications/"+notificationID+"/read", nil, nil)
}
