package dispatch

import (
	"taskflow/internal/board"
	"taskflow/internal/cache"
	"taskflow/internal/models"
)

// Refresh results. Each carries the token issued when the refresh began;
// the dispatcher applies the payload only if the token is still the latest
// for its scope.

type ProjectsRefreshedMsg struct {
	Token    cache.Token
	Projects []models.Project
	Err      error
}

type TasksRefreshedMsg struct {
	Token cache.Token
	Tasks []models.Task
	Err   error
}

type CommentsRefreshedMsg struct {
	Token    cache.Token
	Comments []models.Comment
	Err      error
}

type FilesRefreshedMsg struct {
	Token cache.Token
	Files []models.FileAttachment
	Err   error
}

// NotificationsRefreshedMsg carries the session generation the poll was
// scheduled under so ticks from a dead session can be dropped.
type NotificationsRefreshedMsg struct {
	Token         cache.Token
	Gen           uint64
	Notifications []models.Notification
	Err           error
}

// Mutation results.

type ProjectCreatedMsg struct {
	Project models.Project
	Err     error
}

type TeamUpdatedMsg struct {
	Project models.Project
	Err     error
}

type TaskCreatedMsg struct {
	Task models.Task
	Err  error
}

// TaskMovedMsg resolves an optimistic status move. On error the dispatcher
// reverts the task to Move.From.
type TaskMovedMsg struct {
	Move board.Move
	Task models.Task
	Err  error
}

type TaskDeletedMsg struct {
	TaskID string
	Err    error
}

type CommentCreatedMsg struct {
	Comment models.Comment
	Err     error
}

type CommentUpdatedMsg struct {
	Comment models.Comment
	Err     error
}

type CommentDeletedMsg struct {
	CommentID string
	Err       error
}

type FileUploadedMsg struct {
	File models.FileAttachment
	Err  error
}

type FileDeletedMsg struct {
	FileID string
	Err    error
}

// NotificationReadMsg resolves an optimistic read-flag toggle. Reverted
// when the remote call fails and the flag had actually flipped.
type NotificationReadMsg struct {
	NotificationID string
	Reverted       bool
	Err            error
}

type AnalyticsLoadedMsg struct {
	Progress []models.ProjectProgress
	Overview models.Overview
	Err      error
}

type UsersLoadedMsg struct {
	Users []models.User
	Err   error
}
