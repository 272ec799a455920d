package api

import (
	"context"
	"net/url"
	"time"

	"taskflow/internal/models"
)

// TaskDraft is the payload for creating a task. Everything but the title,
// project, and status is optional and fixed at creation.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ProjectID   string     `json:"project_id"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status"`
}

// ListTasks returns the tasks for one project in server order.
func (c *Client) ListTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	query := url.Values{"project_id": {projectID}}

	var tasks []models.Task
	if err := c.get(ctx, "/tasks", query, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task on a project.
func (c *Client) CreateTask(ctx context.Context, draft TaskDraft) (models.Task, error) {
	if draft.Status == "" {
		draft.Status = models.StatusTodo
	}

	var task models.Task
	if err := c.post(ctx, "/tasks", draft, &task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// UpdateTaskStatus moves a task to a new status and returns the updated task.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID, status string) (models.Task, error) {
	body := map[string]string{"status": status}

	var task models.Task
	if err := c.put(ctx, "/tasks/"+taskID+"/status", body, &task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.delete(ctx, "/tasks/"+taskID)
}
