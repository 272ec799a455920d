// Package board holds the client-side rules of the kanban board: bucket
// partitioning, move planning, ownership gating, and comment threading.
// Everything here is pure; remote calls and cache patches belong to the
// dispatcher.
package board

import "taskflow/internal/models"

// Board partitions a project's tasks into the three fixed status buckets.
// Hidden counts tasks whose status matched no bucket; they are dropped from
// display, not coerced into a default column.
type Board struct {
	Todo       []models.Task
	InProgress []models.Task
	Done       []models.Task
	Hidden     int
}

// Partition buckets tasks by exact status match, preserving input order
// within each bucket.
func Partition(tasks []models.Task) Board {
	var b Board
	for _, task := range tasks {
		switch task.Status {
		case models.StatusTodo:
			b.Todo = append(b.Todo, task)
		case models.StatusInProgress:
			b.InProgress = append(b.InProgress, task)
		case models.StatusDone:
			b.Done = append(b.Done, task)
		default:
			b.Hidden++
		}
	}
	return b
}

// Column returns the bucket for a status, nil for an unknown one.
func (b Board) Column(status string) []models.Task {
	switch status {
	case models.StatusTodo:
		return b.Todo
	case models.StatusInProgress:
		return b.InProgress
	case models.StatusDone:
		return b.Done
	}
	return nil
}

// Move describes a planned status transition. From is kept so a failed
// remote update can revert the optimistic patch.
type Move struct {
	TaskID string
	From   string
	To     string
}

// PlanMove validates a status transition. Dropping a task onto its current
// bucket, or onto no recognized bucket, plans nothing; no call may be made.
func PlanMove(task models.Task, to string) (Move, bool) {
	if task.Status == to {
		return Move{}, false
	}
	if !validStatus(to) {
		return Move{}, false
	}
	return Move{TaskID: task.ID, From: task.Status, To: to}, true
}

func validStatus(status string) bool {
	for _, s := range models.Statuses {
		if s == status {
			return true
		}
	}
	return false
}
