package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/models"
)

func TestPartition(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Status: models.StatusTodo},
		{ID: "2", Status: models.StatusDone},
		{ID: "3", Status: models.StatusTodo},
		{ID: "4", Status: models.StatusInProgress},
	}

	b := Partition(tasks)

	require.Len(t, b.Todo, 2)
	assert.Equal(t, "1", b.Todo[0].ID)
	assert.Equal(t, "3", b.Todo[1].ID)
	require.Len(t, b.InProgress, 1)
	require.Len(t, b.Done, 1)
	assert.Equal(t, 0, b.Hidden)
}

func TestPartitionHidesUnknownStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{"unrecognized value", "Blocked"},
		{"case mismatch", "to do"},
		{"whitespace", " To Do"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Partition([]models.Task{{ID: "1", Status: tt.status}})

			assert.Empty(t, b.Todo)
			assert.Empty(t, b.InProgress)
			assert.Empty(t, b.Done)
			assert.Equal(t, 1, b.Hidden)
		})
	}
}

func TestPlanMove(t *testing.T) {
	task := models.Task{ID: "t1", Status: models.StatusTodo}

	tests := []struct {
		name   string
		to     string
		wantOK bool
	}{
		{"forward", models.StatusInProgress, true},
		{"skip a column", models.StatusDone, true},
		{"same bucket", models.StatusTodo, false},
		{"unknown bucket", "Archived", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			move, ok := PlanMove(task, tt.to)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, "t1", move.TaskID)
				assert.Equal(t, models.StatusTodo, move.From)
				assert.Equal(t, tt.to, move.To)
			}
		})
	}
}

func TestColumn(t *testing.T) {
	b := Partition([]models.Task{
		{ID: "1", Status: models.StatusTodo},
		{ID: "2", Status: models.StatusDone},
	})

	assert.Len(t, b.Column(models.StatusTodo), 1)
	assert.Empty(t, b.Column(models.StatusInProgress))
	assert.Len(t, b.Column(models.StatusDone), 1)
	assert.Nil(t, b.Column("Archived"))
}
