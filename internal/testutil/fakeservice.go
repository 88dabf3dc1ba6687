// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"dotask/internal/api"
)

// ErrNotFound is returned when a task id is not found.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for
// testing. Tasks are returned in insertion order, like the server.
type FakeService struct {
	mu    sync.RWMutex
	user  api.User
	tasks []api.Task

	// Now supplies completed_at timestamps. Defaults to time.Now.
	Now func() time.Time

	// Error injection for testing
	UserErr     error
	TasksErr    error
	CreateErr   error
	UpdateErr   error
	CompleteErr error
	FlagErr     error
	DeleteErr   error
}

// NewFakeService creates a FakeService with a signed-in user.
func NewFakeService() *FakeService {
	return &FakeService{
		user: api.User{
			ID:    uuid.NewString(),
			Name:  "Nick Test",
			Email: "nicktest@gmail.com",
		},
		Now: time.Now,
	}
}

// SetUser overrides the signed-in user.
func (f *FakeService) SetUser(user api.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = user
}

// AddTask seeds a task and returns its id.
func (f *FakeService) AddTask(description string, dueAt *time.Time, flagged, complete bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	task := api.Task{
		ID:          uuid.NewString(),
		Description: description,
		IsFlagged:   flagged,
		IsComplete:  complete,
	}
	if dueAt != nil {
		task.DueAt = api.NewTimestamp(*dueAt)
	}
	if complete {
		task.CompletedAt = api.NewTimestamp(f.Now())
	}
	f.tasks = append(f.tasks, task)
	return task.ID
}

// TaskByID returns the current state of a seeded task.
func (f *FakeService) TaskByID(id string) (api.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return api.Task{}, false
}

// User implements service.Service.
func (f *FakeService) User(ctx context.Context) (api.User, error) {
	if f.UserErr != nil {
		return api.User{}, f.UserErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.user, nil
}

// Tasks implements service.Service.
func (f *FakeService) Tasks(ctx context.Context) ([]api.Task, error) {
	if f.TasksErr != nil {
		return nil, f.TasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]api.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, draft api.TaskDraft) (api.Task, error) {
	if f.CreateErr != nil {
		return api.Task{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	task := api.Task{
		ID:          uuid.NewString(),
		Description: draft.Description,
		IsFlagged:   draft.IsFlagged,
		DueAt:       draft.DueAt,
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, draft api.TaskDraft) (api.Task, error) {
	if f.UpdateErr != nil {
		return api.Task{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Description = draft.Description
			f.tasks[i].DueAt = draft.DueAt
			f.tasks[i].IsFlagged = draft.IsFlagged
			return f.tasks[i], nil
		}
	}
	return api.Task{}, ErrNotFound
}

// CompleteTask implements service.Service.
func (f *FakeService) CompleteTask(ctx context.Context, id string, isComplete bool) (api.Task, error) {
	if f.CompleteErr != nil {
		return api.Task{}, f.CompleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].IsComplete = isComplete
			if isComplete {
				f.tasks[i].CompletedAt = api.NewTimestamp(f.Now())
			} else {
				f.tasks[i].CompletedAt = nil
			}
			return f.tasks[i], nil
		}
	}
	return api.Task{}, ErrNotFound
}

// FlagTask implements service.Service.
func (f *FakeService) FlagTask(ctx context.Context, id string, isFlagged bool) (api.Task, error) {
	if f.FlagErr != nil {
		return api.Task{}, f.FlagErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].IsFlagged = isFlagged
			return f.tasks[i], nil
		}
	}
	return api.Task{}, ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
