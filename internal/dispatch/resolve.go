package dispatch

import (
	tea "github.com/charmbracelet/bubbletea"

	"taskflow/internal/api"
	"taskflow/internal/models"
)

// AuthExpired reports whether a result message carries a credential
// rejection. Any call made with the stored token can come back 401 when the
// token expires server-side; the app demotes the session when it does.
func AuthExpired(msg tea.Msg) bool {
	return api.IsAuth(resultErr(msg))
}

func resultErr(msg tea.Msg) error {
	switch msg := msg.(type) {
	case ProjectsRefreshedMsg:
		return msg.Err
	case TasksRefreshedMsg:
		return msg.Err
	case CommentsRefreshedMsg:
		return msg.Err
	case FilesRefreshedMsg:
		return msg.Err
	case NotificationsRefreshedMsg:
		return msg.Err
	case ProjectCreatedMsg:
		return msg.Err
	case TeamUpdatedMsg:
		return msg.Err
	case TaskCreatedMsg:
		return msg.Err
	case TaskMovedMsg:
		return msg.Err
	case TaskDeletedMsg:
		return msg.Err
	case CommentCreatedMsg:
		return msg.Err
	case CommentUpdatedMsg:
		return msg.Err
	case CommentDeletedMsg:
		return msg.Err
	case FileUploadedMsg:
		return msg.Err
	case FileDeletedMsg:
		return msg.Err
	case NotificationReadMsg:
		return msg.Err
	case AnalyticsLoadedMsg:
		return msg.Err
	case UsersLoadedMsg:
		return msg.Err
	}
	return nil
}

// Resolve settles a command result against the caches. It reports whether
// the message was one of the dispatcher's; views still see the message
// afterwards for their own state (closing forms, error banners).
//
// Read failures leave the stale cache in place and are only logged here;
// write failures roll back any optimistic patch and leave surfacing the
// error to the view that triggered the action.
func (d *Dispatcher) Resolve(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case ProjectsRefreshedMsg:
		if msg.Err != nil {
			d.log.Warn().Err(msg.Err).Msg("project refresh failed, keeping stale cache")
			return true
		}
		if !d.Projects.Apply(msg.Token, msg.Projects) {
			d.log.Debug().Msg("dropped stale project refresh")
		}
		return true

	case TasksRefreshedMsg:
		if msg.Err != nil {
			d.log.Warn().Err(msg.Err).Msg("task refresh failed, keeping stale cache")
			return true
		}
		if !d.Tasks.Apply(msg.Token, msg.Tasks) {
			d.log.Debug().Str("scope", msg.Token.Scope).Msg("dropped stale task refresh")
		}
		return true

	case CommentsRefreshedMsg:
		if msg.Err != nil {
			d.log.Warn().Err(msg.Err).Msg("comment refresh failed, keeping stale cache")
			return true
		}
		d.Comments.Apply(msg.Token, msg.Comments)
		return true

	case FilesRefreshedMsg:
		if msg.Err != nil {
			d.log.Warn().Err(msg.Err).Msg("file refresh failed, keeping stale cache")
			return true
		}
		d.Files.Apply(msg.Token, msg.Files)
		return true

	case NotificationsRefreshedMsg:
		if msg.Err != nil {
			d.log.Warn().Err(msg.Err).Msg("notification poll failed, keeping stale cache")
			return true
		}
		d.Notifications.Apply(msg.Token, msg.Notifications)
		return true

	case ProjectCreatedMsg:
		if msg.Err == nil {
			d.Projects.Upsert(msg.Project)
		}
		return true

	case TeamUpdatedMsg:
		if msg.Err == nil {
			d.Projects.Upsert(msg.Project)
		}
		return true

	case TaskCreatedMsg:
		if msg.Err == nil && msg.Task.ProjectID == d.Tasks.Scope() {
			d.Tasks.Upsert(msg.Task)
		}
		return true

	case TaskMovedMsg:
		if msg.Err != nil {
			// Revert the optimistic patch, but only while it is still the
			// one on display. A later move of the same task may have
			// settled meanwhile; its status wins, not this stale From.
			if task, ok := d.Tasks.Get(msg.Move.TaskID); ok && task.Status == msg.Move.To {
				d.Tasks.Patch(msg.Move.TaskID, func(t *models.Task) { t.Status = msg.Move.From })
			}
			d.log.Warn().
				Str("task_id", msg.Move.TaskID).
				Str("from", msg.Move.From).
				Str("to", msg.Move.To).
				Err(msg.Err).
				Msg("status move rejected, reverted")
			return true
		}
		d.Tasks.Upsert(msg.Task)
		return true

	case TaskDeletedMsg:
		if msg.Err == nil {
			d.Tasks.Remove(msg.TaskID)
		}
		return true

	case CommentCreatedMsg:
		if msg.Err == nil && msg.Comment.TaskID == d.Comments.Scope() {
			d.Comments.Upsert(msg.Comment)
		}
		return true

	case CommentUpdatedMsg:
		if msg.Err == nil {
			d.Comments.Upsert(msg.Comment)
		}
		return true

	case CommentDeletedMsg:
		if msg.Err == nil {
			d.Comments.Remove(msg.CommentID)
		}
		return true

	case FileUploadedMsg:
		if msg.Err == nil && msg.File.TaskID == d.Files.Scope() {
			d.Files.Upsert(msg.File)
		}
		return true

	case FileDeletedMsg:
		if msg.Err == nil {
			d.Files.Remove(msg.FileID)
		}
		return true

	case NotificationReadMsg:
		if msg.Reverted {
			d.Notifications.Patch(msg.NotificationID, func(n *models.Notification) { n.Read = false })
		}
		return true
	}

	return false
}
