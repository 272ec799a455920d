package api

import (
	"context"
	"net/url"

	"taskflow/internal/models"
)

// ListComments returns all comments for a task in server order.
func (c *Client) ListComments(ctx context.Context, taskID string) ([]models.Comment, error) {
	query := url.Values{"task_id": {taskID}}

	var comments []models.Comment
	if err := c.get(ctx, "/comments", query, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment creates a comment on a task. An empty parentID makes a
// top-level comment; otherwise a reply under that comment.
func (c *Client) CreateComment(ctx context.Context, taskID, content, parentID string) (models.Comment, error) {
	body := map[string]string{"task_id": taskID, "content": content}
	if parentID != "" {
		body["parent_id"] = parentID
	}

	var comment models.Comment
	if err := c.post(ctx, "/comments", body, &comment); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// UpdateComment replaces a comment's content.
func (c *Client) UpdateComment(ctx context.Context, commentID, content string) (models.Comment, error) {
	body := map[string]string{"content": content}

	var comment models.Comment
	if err := c.put(ctx, "/comments/"+commentID, body, &comment); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// DeleteComment deletes a comment.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.delete(ctx, "/comments/"+commentID)
}
