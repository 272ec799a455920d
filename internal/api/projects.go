package api

import (
	"context"

	"taskflow/internal/models"
)

// ListProjects returns the projects the session's identity can access,
// owned and member-of, in server order.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.get(ctx, "/projects/accessible", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject creates a new project owned by the session's identity.
func (c *Client) CreateProject(ctx context.Context, title, description string) (models.Project, error) {
	body := map[string]string{"title": title, "description": description}

	var project models.Project
	if err := c.post(ctx, "/projects", body, &project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// UpdateTeam replaces a project's member list. Owner-only; the server is the
// authority and rejects everyone else regardless of what the client thinks.
func (c *Client) UpdateTeam(ctx context.Context, projectID string, memberIDs []string) (models.Project, error) {
	if memberIDs == nil {
		memberIDs = []string{}
	}
	body := map[string][]string{"team_members": memberIDs}

	var project models.Project
	if err := c.put(ctx, "/projects/"+projectID+"/team", body, &project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}
