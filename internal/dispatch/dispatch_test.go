package dispatch

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/api"
	"taskflow/internal/board"
	"taskflow/internal/models"
)

type fixture struct {
	dispatch *Dispatcher
	requests *int
}

func newFixture(t *testing.T, handler http.HandlerFunc) fixture {
	t.Helper()

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if handler != nil {
			handler(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	client := api.New(api.Options{
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
		Logger:            zerolog.Nop(),
	})
	return fixture{dispatch: New(client, zerolog.Nop()), requests: &requests}
}

func seedTasks(t *testing.T, d *Dispatcher, projectID string, tasks []models.Task) {
	t.Helper()
	tok := d.Tasks.Begin(projectID)
	require.True(t, d.Tasks.Apply(tok, tasks))
}

func taskStatus(t *testing.T, d *Dispatcher, id string) string {
	t.Helper()
	task, ok := d.Tasks.Get(id)
	require.True(t, ok)
	return task.Status
}

func TestMoveTaskOptimisticThenConfirmed(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Task{ID: "t1", ProjectID: "p1", Status: models.StatusInProgress})
	})
	seedTasks(t, f.dispatch, "p1", []models.Task{{ID: "t1", ProjectID: "p1", Status: models.StatusTodo}})

	cmd := f.dispatch.MoveTask("t1", models.StatusInProgress)
	require.NotNil(t, cmd)

	// The bucket flips before the server answers.
	assert.Equal(t, models.StatusInProgress, taskStatus(t, f.dispatch, "t1"))

	msg := cmd()
	moved, ok := msg.(TaskMovedMsg)
	require.True(t, ok)
	require.NoError(t, moved.Err)

	require.True(t, f.dispatch.Resolve(msg))
	assert.Equal(t, models.StatusInProgress, taskStatus(t, f.dispatch, "t1"))
	assert.Equal(t, 1, *f.requests)
}

func TestMoveTaskRollsBackOnRejection(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"Not authorized to update this task"}`))
	})
	seedTasks(t, f.dispatch, "p1", []models.Task{{ID: "t1", ProjectID: "p1", Status: models.StatusTodo}})

	cmd := f.dispatch.MoveTask("t1", models.StatusDone)
	require.NotNil(t, cmd)
	assert.Equal(t, models.StatusDone, taskStatus(t, f.dispatch, "t1"))

	msg := cmd()
	moved, ok := msg.(TaskMovedMsg)
	require.True(t, ok)
	require.Error(t, moved.Err)

	require.True(t, f.dispatch.Resolve(msg))

	// Back in the bucket of the last successful status.
	assert.Equal(t, models.StatusTodo, taskStatus(t, f.dispatch, "t1"))
}

func TestMoveRejectionAfterLaterSuccessDoesNotRevert(t *testing.T) {
	f := newFixture(t, nil)
	seedTasks(t, f.dispatch, "p1", []models.Task{{ID: "t1", ProjectID: "p1", Status: models.StatusTodo}})

	// Two moves of the same task in flight.
	require.NotNil(t, f.dispatch.MoveTask("t1", models.StatusInProgress))
	require.NotNil(t, f.dispatch.MoveTask("t1", models.StatusDone))

	// The later move settles first.
	require.True(t, f.dispatch.Resolve(TaskMovedMsg{
		Move: board.Move{TaskID: "t1", From: models.StatusInProgress, To: models.StatusDone},
		Task: models.Task{ID: "t1", ProjectID: "p1", Status: models.StatusDone},
	}))
	require.Equal(t, models.StatusDone, taskStatus(t, f.dispatch, "t1"))

	// The earlier move's rejection arrives late. It must not clobber the
	// status the last successful update settled on.
	require.True(t, f.dispatch.Resolve(TaskMovedMsg{
		Move: board.Move{TaskID: "t1", From: models.StatusTodo, To: models.StatusInProgress},
		Err:  errors.New("not authorized"),
	}))

	assert.Equal(t, models.StatusDone, taskStatus(t, f.dispatch, "t1"))
}

func TestMoveTaskToSameBucketMakesNoCall(t *testing.T) {
	f := newFixture(t, nil)
	seedTasks(t, f.dispatch, "p1", []models.Task{{ID: "t1", ProjectID: "p1", Status: models.StatusTodo}})

	assert.Nil(t, f.dispatch.MoveTask("t1", models.StatusTodo))
	assert.Nil(t, f.dispatch.MoveTask("t1", "Archived"))
	assert.Nil(t, f.dispatch.MoveTask("missing", models.StatusDone))

	assert.Equal(t, models.StatusTodo, taskStatus(t, f.dispatch, "t1"))
	assert.Equal(t, 0, *f.requests)
}

func TestCreateTaskRefusedForNonOwner(t *testing.T) {
	f := newFixture(t, nil)
	project := models.Project{ID: "p1", OwnerID: "owner"}
	outsider := models.User{ID: "someone-else", Role: "Admin"}

	cmd, err := f.dispatch.CreateTask(outsider, project, api.TaskDraft{Title: "nope"})
	require.Error(t, err)
	assert.Nil(t, cmd)

	var refusal *Refusal
	require.True(t, errors.As(err, &refusal))
	assert.Equal(t, "Only the project owner can create tasks", refusal.Message)
	assert.Equal(t, 0, *f.requests)
}

func TestUpdateTeamRefusedForNonOwner(t *testing.T) {
	f := newFixture(t, nil)
	project := models.Project{ID: "p1", OwnerID: "owner"}
	outsider := models.User{ID: "someone-else"}

	cmd, err := f.dispatch.UpdateTeam(outsider, project, []string{"u2"})
	require.Error(t, err)
	assert.Nil(t, cmd)

	var refusal *Refusal
	require.True(t, errors.As(err, &refusal))
	assert.Equal(t, 0, *f.requests)
}

func TestCommentEditRefusedForNonAuthor(t *testing.T) {
	f := newFixture(t, nil)
	comment := models.Comment{ID: "c1", UserID: "author"}
	other := models.User{ID: "someone-else"}

	cmd, err := f.dispatch.UpdateComment(other, comment, "hijacked")
	require.Error(t, err)
	assert.Nil(t, cmd)

	cmd, err = f.dispatch.DeleteComment(other, comment)
	require.Error(t, err)
	assert.Nil(t, cmd)

	assert.Equal(t, 0, *f.requests)
}

func TestUploadFileRefusedOverLimit(t *testing.T) {
	f := newFixture(t, nil)

	data := make([]byte, models.MaxAttachmentSize+1)
	cmd, err := f.dispatch.UploadFile("t1", "huge.bin", "application/octet-stream", data)
	require.Error(t, err)
	assert.Nil(t, cmd)

	var refusal *Refusal
	require.True(t, errors.As(err, &refusal))
	assert.Equal(t, 0, *f.requests)
}

func TestOverlappingRefreshesLatestWins(t *testing.T) {
	f := newFixture(t, nil)

	// Two refreshes for different projects; the first response arrives
	// after the second request was issued and must be dropped.
	tokA := f.dispatch.Tasks.Begin("p1")
	tokB := f.dispatch.Tasks.Begin("p2")

	late := TasksRefreshedMsg{Token: tokA, Tasks: []models.Task{{ID: "from-p1", ProjectID: "p1", Status: models.StatusTodo}}}
	current := TasksRefreshedMsg{Token: tokB, Tasks: []models.Task{{ID: "from-p2", ProjectID: "p2", Status: models.StatusTodo}}}

	require.True(t, f.dispatch.Resolve(current))
	require.True(t, f.dispatch.Resolve(late))

	_, ok := f.dispatch.Tasks.Get("from-p1")
	assert.False(t, ok)
	_, ok = f.dispatch.Tasks.Get("from-p2")
	assert.True(t, ok)
}

func TestRefreshFailureKeepsStaleCache(t *testing.T) {
	f := newFixture(t, nil)
	seedTasks(t, f.dispatch, "p1", []models.Task{{ID: "t1", ProjectID: "p1", Status: models.StatusTodo}})

	tok := f.dispatch.Tasks.Begin("p1")
	require.True(t, f.dispatch.Resolve(TasksRefreshedMsg{Token: tok, Err: errors.New("connection refused")}))

	assert.Equal(t, 1, f.dispatch.Tasks.Len())
}

func TestCreateCommentFlattensReplyToReply(t *testing.T) {
	var gotParent string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		gotParent = body["parent_id"]
		json.NewEncoder(w).Encode(models.Comment{ID: "c3", TaskID: "t1", ParentID: body["parent_id"]})
	})

	tok := f.dispatch.Comments.Begin("t1")
	require.True(t, f.dispatch.Comments.Apply(tok, []models.Comment{
		{ID: "top", TaskID: "t1"},
		{ID: "reply", TaskID: "t1", ParentID: "top"},
	}))

	cmd := f.dispatch.CreateComment("t1", "me too", "reply")
	require.NotNil(t, cmd)
	msg := cmd()
	created, ok := msg.(CommentCreatedMsg)
	require.True(t, ok)
	require.NoError(t, created.Err)

	// The reply was attached to the thread's top-level comment.
	assert.Equal(t, "top", gotParent)

	require.True(t, f.dispatch.Resolve(msg))
	threads := board.Threads(f.dispatch.Comments.Items())
	require.Len(t, threads, 1)
	assert.Len(t, threads[0].Replies, 2)
}

func TestMarkNotificationRead(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	tok := f.dispatch.Notifications.Begin("notifications")
	require.True(t, f.dispatch.Notifications.Apply(tok, []models.Notification{
		{ID: "n1", Read: false},
		{ID: "n2", Read: false},
	}))

	cmd := f.dispatch.MarkNotificationRead("n1")
	require.NotNil(t, cmd)

	// Optimistic: unread count drops before the server answers.
	assert.Equal(t, 1, f.dispatch.Notifications.UnreadCount())

	msg := cmd()
	read, ok := msg.(NotificationReadMsg)
	require.True(t, ok)
	require.NoError(t, read.Err)
	assert.False(t, read.Reverted)

	require.True(t, f.dispatch.Resolve(msg))
	assert.Equal(t, 1, f.dispatch.Notifications.UnreadCount())
}

func TestMarkNotificationReadRevertsOnFailure(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	tok := f.dispatch.Notifications.Begin("notifications")
	require.True(t, f.dispatch.Notifications.Apply(tok, []models.Notification{{ID: "n1", Read: false}}))

	cmd := f.dispatch.MarkNotificationRead("n1")
	require.NotNil(t, cmd)
	assert.Equal(t, 0, f.dispatch.Notifications.UnreadCount())

	msg := cmd()
	read, ok := msg.(NotificationReadMsg)
	require.True(t, ok)
	require.Error(t, read.Err)
	assert.True(t, read.Reverted)

	require.True(t, f.dispatch.Resolve(msg))
	assert.Equal(t, 1, f.dispatch.Notifications.UnreadCount())
}

func TestClearAllEmptiesEveryCache(t *testing.T) {
	f := newFixture(t, nil)

	seedTasks(t, f.dispatch, "p1", []models.Task{{ID: "t1", Status: models.StatusTodo}})
	ptok := f.dispatch.Projects.Begin("projects")
	require.True(t, f.dispatch.Projects.Apply(ptok, []models.Project{{ID: "p1"}}))
	ntok := f.dispatch.Notifications.Begin("notifications")
	require.True(t, f.dispatch.Notifications.Apply(ntok, []models.Notification{{ID: "n1"}}))

	f.dispatch.ClearAll()

	assert.Equal(t, 0, f.dispatch.Projects.Len())
	assert.Equal(t, 0, f.dispatch.Tasks.Len())
	assert.Equal(t, 0, f.dispatch.Comments.Len())
	assert.Equal(t, 0, f.dispatch.Files.Len())
	assert.Equal(t, 0, f.dispatch.Notifications.Len())
}

func TestTaskCreatedForOtherProjectNotUpserted(t *testing.T) {
	f := newFixture(t, nil)
	seedTasks(t, f.dispatch, "p1", []models.Task{{ID: "t1", ProjectID: "p1", Status: models.StatusTodo}})

	require.True(t, f.dispatch.Resolve(TaskCreatedMsg{
		Task: models.Task{ID: "t9", ProjectID: "p2", Status: models.StatusTodo},
	}))

	_, ok := f.dispatch.Tasks.Get("t9")
	assert.False(t, ok)
	assert.Equal(t, 1, f.dispatch.Tasks.Len())
}

func TestUnknownMessageIsNotResolved(t *testing.T) {
	f := newFixture(t, nil)
	assert.False(t, f.dispatch.Resolve("not one of ours"))
}

func TestFileDeletedRemovesFromCache(t *testing.T) {
	f := newFixture(t, nil)

	tok := f.dispatch.Files.Begin("t1")
	require.True(t, f.dispatch.Files.Apply(tok, []models.FileAttachment{
		{ID: "f1", TaskID: "t1"},
		{ID: "f2", TaskID: "t1"},
	}))

	require.True(t, f.dispatch.Resolve(FileDeletedMsg{FileID: "f1"}))

	_, ok := f.dispatch.Files.Get("f1")
	assert.False(t, ok)
	assert.Equal(t, 1, f.dispatch.Files.Len())
}

func TestAuthExpiredDetectsRejectedCredential(t *testing.T) {
	expired := &api.StatusError{Code: http.StatusUnauthorized, Detail: "token expired"}

	tests := []struct {
		name string
		msg  tea.Msg
		want bool
	}{
		{"tasks refresh 401", TasksRefreshedMsg{Err: expired}, true},
		{"comment post 401", CommentCreatedMsg{Err: expired}, true},
		{"notification poll 401", NotificationsRefreshedMsg{Err: expired}, true},
		{"forbidden is not expiry", TasksRefreshedMsg{Err: &api.StatusError{Code: http.StatusForbidden}}, false},
		{"plain error", TasksRefreshedMsg{Err: errors.New("boom")}, false},
		{"successful result", TasksRefreshedMsg{}, false},
		{"foreign message", "not one of ours", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AuthExpired(tc.msg))
		})
	}
}
