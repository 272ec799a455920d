package api

import (
	"context"

	"taskflow/internal/models"
)

// ProjectProgress returns per-project completion stats for the dashboard.
func (c *Client) ProjectProgress(ctx context.Context) ([]models.ProjectProgress, error) {
	var progress []models.ProjectProgress
	if err := c.get(ctx, "/analytics/progress", nil, &progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// Overview returns the cross-project analytics summary.
func (c *Client) Overview(ctx context.Context) (models.Overview, error) {
	var overview models.Overview
	if err := c.get(ctx, "/analytics/overview", nil, &overview); err != nil {
		return models.Overview{}, err
	}
	return overview, nil
}
