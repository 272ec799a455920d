package views

import "taskflow/internal/models"

// Cross-view navigation messages. Views emit these; the app routes.

// SignedIn signals a completed login, registration, or restore.
type SignedIn struct {
	User models.User
}

// SelectedProject opens a project's board.
type SelectedProject struct {
	Project models.Project
}

// BackToProjects signals to go back to the project list
type BackToProjects struct{}

// OpenTask opens the task detail screen.
type OpenTask struct {
	Task models.Task
}

// OpenTeam opens the team management screen for a project.
type OpenTeam struct {
	Project models.Project
}

// OpenDashboard opens the analytics dashboard.
type OpenDashboard struct{}

// OpenNotifications opens the notification panel.
type OpenNotifications struct{}

// CloseOverlay returns from a secondary screen to the one beneath it.
type CloseOverlay struct{}

// ThemeChanged tells every view to rebuild its styles from the active theme.
type ThemeChanged struct{}
