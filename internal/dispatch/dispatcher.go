// Package dispatch translates user intents into remote calls plus local
// cache reconciliation. An intent method applies any optimistic patch
// immediately, on the event loop, and returns a command that performs the
// remote call; Resolve consumes the command's result message and settles
// the cache, rolling optimistic state back when the call failed.
package dispatch

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"taskflow/internal/api"
	"taskflow/internal/board"
	"taskflow/internal/cache"
	"taskflow/internal/models"
)

// Refusal is a client-side policy rejection. No remote call was made; the
// message is shown at the point of action.
type Refusal struct {
	Message string
}

func (r *Refusal) Error() string { return r.Message }

// Dispatcher owns the resource caches and the API client they sync from.
type Dispatcher struct {
	api *api.Client
	log zerolog.Logger

	Projects      *cache.Cache[models.Project]
	Tasks         *cache.Cache[models.Task]
	Comments      *cache.Cache[models.Comment]
	Files         *cache.Cache[models.FileAttachment]
	Notifications *cache.Notifications
}

// New creates a dispatcher with empty caches.
func New(client *api.Client, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		api:           client,
		log:           log,
		Projects:      cache.New(func(p models.Project) string { return p.ID }),
		Tasks:         cache.New(func(t models.Task) string { return t.ID }),
		Comments:      cache.New(func(c models.Comment) string { return c.ID }),
		Files:         cache.New(func(f models.FileAttachment) string { return f.ID }),
		Notifications: cache.NewNotifications(),
	}
}

// ClearAll empties every cache. Called on logout; cached resources must not
// survive the credential.
func (d *Dispatcher) ClearAll() {
	d.Projects.Clear()
	d.Tasks.Clear()
	d.Comments.Clear()
	d.Files.Clear()
	d.Notifications.Clear()
}

// Refreshes. Each begins a scoped request; the response is applied in
// Resolve only if no newer request for the scope was issued meanwhile.

func (d *Dispatcher) RefreshProjects() tea.Cmd {
	tok := d.Projects.Begin("projects")
	return func() tea.Msg {
		projects, err := d.api.ListProjects(context.Background())
		return ProjectsRefreshedMsg{Token: tok, Projects: projects, Err: err}
	}
}

func (d *Dispatcher) RefreshTasks(projectID string) tea.Cmd {
	tok := d.Tasks.Begin(projectID)
	return func() tea.Msg {
		tasks, err := d.api.ListTasks(context.Background(), projectID)
		return TasksRefreshedMsg{Token: tok, Tasks: tasks, Err: err}
	}
}

func (d *Dispatcher) RefreshComments(taskID string) tea.Cmd {
	tok := d.Comments.Begin(taskID)
	return func() tea.Msg {
		comments, err := d.api.ListComments(context.Background(), taskID)
		return CommentsRefreshedMsg{Token: tok, Comments: comments, Err: err}
	}
}

func (d *Dispatcher) RefreshFiles(taskID string) tea.Cmd {
	tok := d.Files.Begin(taskID)
	return func() tea.Msg {
		files, err := d.api.ListFiles(context.Background(), taskID)
		return FilesRefreshedMsg{Token: tok, Files: files, Err: err}
	}
}

// RefreshNotifications runs one poll iteration. gen is the session
// generation the poll belongs to; the app drops results from other epochs.
func (d *Dispatcher) RefreshNotifications(gen uint64) tea.Cmd {
	tok := d.Notifications.Begin("notifications")
	return func() tea.Msg {
		notifications, err := d.api.ListNotifications(context.Background())
		return NotificationsRefreshedMsg{Token: tok, Gen: gen, Notifications: notifications, Err: err}
	}
}

func (d *Dispatcher) LoadAnalytics() tea.Cmd {
	return func() tea.Msg {
		progress, err := d.api.ProjectProgress(context.Background())
		if err != nil {
			return AnalyticsLoadedMsg{Err: err}
		}
		overview, err := d.api.Overview(context.Background())
		return AnalyticsLoadedMsg{Progress: progress, Overview: overview, Err: err}
	}
}

func (d *Dispatcher) LoadUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := d.api.ListUsers(context.Background())
		return UsersLoadedMsg{Users: users, Err: err}
	}
}

// Mutations.

func (d *Dispatcher) CreateProject(title, description string) tea.Cmd {
	return func() tea.Msg {
		project, err := d.api.CreateProject(context.Background(), title, description)
		return ProjectCreatedMsg{Project: project, Err: err}
	}
}

// UpdateTeam replaces a project's member list. Owner-only; refused locally
// for anyone else without a remote call.
func (d *Dispatcher) UpdateTeam(user models.User, project models.Project, memberIDs []string) (tea.Cmd, error) {
	if !board.CanManageTeam(user, project) {
		return nil, &Refusal{Message: "Only the project owner can manage the team"}
	}
	return func() tea.Msg {
		updated, err := d.api.UpdateTeam(context.Background(), project.ID, memberIDs)
		return TeamUpdatedMsg{Project: updated, Err: err}
	}, nil
}

// CreateTask creates a task on a project. Owner-only, same gate as the team.
func (d *Dispatcher) CreateTask(user models.User, project models.Project, draft api.TaskDraft) (tea.Cmd, error) {
	if !board.CanCreateTask(user, project) {
		return nil, &Refusal{Message: "Only the project owner can create tasks"}
	}
	draft.ProjectID = project.ID
	return func() tea.Msg {
		task, err := d.api.CreateTask(context.Background(), draft)
		return TaskCreatedMsg{Task: task, Err: err}
	}, nil
}

// MoveTask plans a status transition for the cached task. A drop onto the
// task's current bucket plans nothing and returns nil: zero remote calls.
// Otherwise the cache is patched optimistically before the call is issued,
// so the board reflects the move immediately; Resolve reverts the patch if
// the server rejects it.
func (d *Dispatcher) MoveTask(taskID, to string) tea.Cmd {
	task, ok := d.Tasks.Get(taskID)
	if !ok {
		return nil
	}
	move, ok := board.PlanMove(task, to)
	if !ok {
		return nil
	}

	d.Tasks.Patch(move.TaskID, func(t *models.Task) { t.Status = move.To })

	return func() tea.Msg {
		updated, err := d.api.UpdateTaskStatus(context.Background(), move.TaskID, move.To)
		return TaskMovedMsg{Move: move, Task: updated, Err: err}
	}
}

func (d *Dispatcher) DeleteTask(taskID string) tea.Cmd {
	return func() tea.Msg {
		err := d.api.DeleteTask(context.Background(), taskID)
		return TaskDeletedMsg{TaskID: taskID, Err: err}
	}
}

// CreateComment adds a comment. Replying to a reply is flattened to the
// reply's top-level parent so threads stay one level deep.
func (d *Dispatcher) CreateComment(taskID, content, parentID string) tea.Cmd {
	if parentID != "" {
		parentID = board.ReplyTarget(d.Comments.Items(), parentID)
	}
	return func() tea.Msg {
		comment, err := d.api.CreateComment(context.Background(), taskID, content, parentID)
		return CommentCreatedMsg{Comment: comment, Err: err}
	}
}

// UpdateComment edits a comment's content. Author-only.
func (d *Dispatcher) UpdateComment(user models.User, comment models.Comment, content string) (tea.Cmd, error) {
	if !board.CanEditComment(user, comment) {
		return nil, &Refusal{Message: "You can only edit your own comments"}
	}
	return func() tea.Msg {
		updated, err := d.api.UpdateComment(context.Background(), comment.ID, content)
		return CommentUpdatedMsg{Comment: updated, Err: err}
	}, nil
}

// DeleteComment removes a comment. Author-only.
func (d *Dispatcher) DeleteComment(user models.User, comment models.Comment) (tea.Cmd, error) {
	if !board.CanEditComment(user, comment) {
		return nil, &Refusal{Message: "You can only delete your own comments"}
	}
	return func() tea.Msg {
		err := d.api.DeleteComment(context.Background(), comment.ID)
		return CommentDeletedMsg{CommentID: comment.ID, Err: err}
	}, nil
}

// UploadFile attaches a file to a task. Oversized payloads are refused here,
// before any request exists.
func (d *Dispatcher) UploadFile(taskID, filename, contentType string, data []byte) (tea.Cmd, error) {
	if !board.CheckAttachment(int64(len(data))) {
		return nil, &Refusal{Message: "File is larger than the 10 MiB limit"}
	}
	return func() tea.Msg {
		file, err := d.api.UploadFile(context.Background(), taskID, filename, contentType, data)
		return FileUploadedMsg{File: file, Err: err}
	}, nil
}

func (d *Dispatcher) DeleteFile(fileID string) tea.Cmd {
	return func() tea.Msg {
		err := d.api.DeleteFile(context.Background(), fileID)
		return FileDeletedMsg{FileID: fileID, Err: err}
	}
}

// MarkNotificationRead flips the read flag optimistically and confirms with
// the server. The flip is reverted if the call fails.
func (d *Dispatcher) MarkNotificationRead(notificationID string) tea.Cmd {
	changed := d.Notifications.MarkRead(notificationID)
	return func() tea.Msg {
		err := d.api.MarkNotificationRead(context.Background(), notificationID)
		return NotificationReadMsg{NotificationID: notificationID, Reverted: err != nil && changed, Err: err}
	}
}
