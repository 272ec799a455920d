package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/models"
)

func TestListNotificationsKeepsServerOrder(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Notification{
			{ID: "newest", Type: models.NotifyComment},
			{ID: "older", Type: models.NotifyTaskAssignment},
		})
	}), "tok")

	notifications, err := client.ListNotifications(context.Background())
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "newest", notifications[0].ID)
	assert.Equal(t, "older", notifications[1].ID)
}

func TestMarkNotificationRead(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}), "tok")

	require.NoError(t, client.MarkNotificationRead(context.Background(), "n1"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/notifications/n1/read", gotPath)
}
