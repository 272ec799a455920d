package models

import "time"

// Task statuses recognized by the board. The server stores status as a free
// string; anything outside this set is kept in the cache but not bucketed.
const (
	StatusTodo       = "To Do"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
)

// Statuses lists the board buckets in display order.
var Statuses = []string{StatusTodo, StatusInProgress, StatusDone}

// MaxAttachmentSize is the largest file payload accepted for upload.
// Anything over this is rejected before a request is made.
const MaxAttachmentSize = 10 << 20 // 10 MiB

// User represents an identity known to the server
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Session pairs the authenticated identity with its bearer credential
type Session struct {
	User  User
	Token string
}

// Project represents a task management project
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	TeamMembers []string  `json:"team_members"`
	CreatedAt   time.Time `json:"created_at"`
}

// Task represents a single task on a project board
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ProjectID   string     `json:"project_id"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Comment represents a comment on a task. ParentID is empty for top-level
// comments and set to a top-level comment's ID for replies; threads never
// nest deeper than one level.
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Content   string    `json:"content"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileAttachment represents a file attached to a task. FileData carries the
// base64-encoded payload on upload and is omitted in list responses.
type FileAttachment struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	FileData    string    `json:"file_data,omitempty"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notification kinds emitted by the server
const (
	NotifyTaskAssignment = "task_assignment"
	NotifyDueDate        = "due_date"
	NotifyStatusChange   = "status_change"
	NotifyComment        = "comment"
	NotifyFileUpload     = "file_upload"
)

// Notification represents an alert surfaced to the user. Read is the only
// field the client ever mutates.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	TaskID    string    `json:"task_id,omitempty"`
	ProjectID string    `json:"project_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ProgressStats summarizes task completion for one project
type ProgressStats struct {
	TotalTasks      int     `json:"total_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	InProgressTasks int     `json:"in_progress_tasks"`
	TodoTasks       int     `json:"todo_tasks"`
	CompletionRate  float64 `json:"completion_rate"`
}

// ProjectProgress is one row of the per-project analytics report
type ProjectProgress struct {
	ProjectID    string        `json:"project_id"`
	ProjectTitle string        `json:"project_title"`
	Stats        ProgressStats `json:"stats"`
}

// TrendPoint is one day of task creation activity
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Overview is the cross-project analytics summary
type Overview struct {
	TotalProjects      int            `json:"total_projects"`
	TotalTasks         int            `json:"total_tasks"`
	CompletedTasks     int            `json:"completed_tasks"`
	CompletionRate     float64        `json:"completion_rate"`
	StatusDistribution map[string]int `json:"status_distribution"`
	RecentTasksTrend   []TrendPoint   `json:"recent_tasks_trend"`
}
