// Package service defines the backend-agnostic interface for
// authenticated task operations. Commands and the task store consume
// this interface and never build HTTP requests themselves.
package service

import (
	"context"

	"dotask/internal/api"
)

// Service is the authenticated surface of the task backend.
type Service interface {
	// User returns the signed-in user's profile.
	User(ctx context.Context) (api.User, error)

	// Tasks returns the full task list in server order.
	Tasks(ctx context.Context) ([]api.Task, error)

	// CreateTask creates a task and returns the server's copy with the
	// assigned id.
	CreateTask(ctx context.Context, draft api.TaskDraft) (api.Task, error)

	// UpdateTask replaces description, due date and flag by id.
	UpdateTask(ctx context.Context, id string, draft api.TaskDraft) (api.Task, error)

	// CompleteTask updates only the completion state.
	CompleteTask(ctx context.Context, id string, isComplete bool) (api.Task, error)

	// FlagTask updates only the flag state.
	FlagTask(ctx context.Context, id string, isFlagged bool) (api.Task, error)

	// DeleteTask deletes a task by id.
	DeleteTask(ctx context.Context, id string) error
}
