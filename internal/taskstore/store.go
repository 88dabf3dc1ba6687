// Package taskstore maintains the client-side copy of the signed-in
// user's task list and keeps it consistent with the server after every
// mutation. The server response is authoritative: nothing is applied
// locally until the call succeeded.
package taskstore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"dotask/internal/api"
	"dotask/internal/logger"
	"dotask/internal/service"
)

// ErrEmptyDescription rejects drafts with a blank description before
// any network call is made.
var ErrEmptyDescription = errors.New("task description must not be empty")

// ErrTaskNotFound is returned when an id has no entry in the list.
var ErrTaskNotFound = errors.New("task not found")

// Store holds the in-memory task list. The list invariant is ascending
// due date with undated tasks last; it is maintained by sortedInsert
// and sortedReplace, never re-established ad hoc.
type Store struct {
	svc service.Service
	now func() time.Time

	mu      sync.Mutex
	tasks   []api.Task
	user    api.User
	hasUser bool
}

// New creates a Store over svc.
func New(svc service.Service) *Store {
	return &Store{svc: svc, now: time.Now}
}

// Load fetches the task list and the user profile concurrently and
// replaces local state wholesale. A single attempt; either fetch
// failing fails the load.
func (s *Store) Load(ctx context.Context) error {
	var (
		tasks []api.Task
		user  api.User
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.svc.Tasks(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		user, err = s.svc.User(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error("failed to load task list", err)
		return err
	}

	sorted := make([]api.Task, 0, len(tasks))
	for _, t := range tasks {
		sorted = sortedInsert(sorted, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = sorted
	s.user = user
	s.hasUser = true
	return nil
}

// Create submits a new task and inserts the server's copy in due-date
// order. The local list is untouched on failure.
func (s *Store) Create(ctx context.Context, draft api.TaskDraft) (api.Task, error) {
	if strings.TrimSpace(draft.Description) == "" {
		return api.Task{}, ErrEmptyDescription
	}

	created, err := s.svc.CreateTask(ctx, draft)
	if err != nil {
		logger.Error("failed to create task", err)
		return api.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = sortedInsert(s.tasks, created)
	return created, nil
}

// Update replaces description, due date and flag by id and re-slots the
// entry according to its new due date.
func (s *Store) Update(ctx context.Context, id string, draft api.TaskDraft) (api.Task, error) {
	updated, err := s.svc.UpdateTask(ctx, id, draft)
	if err != nil {
		logger.Error("failed to update task", err)
		return api.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = sortedReplace(s.tasks, updated)
	return updated, nil
}

// SetCompletion flips completion state through the dedicated endpoint
// and merges only is_complete and completed_at into the local entry.
// Order is unaffected; due dates do not change on completion.
func (s *Store) SetCompletion(ctx context.Context, id string, isComplete bool) (api.Task, error) {
	resp, err := s.svc.CompleteTask(ctx, id, isComplete)
	if err != nil {
		logger.Error("failed to update task completion", err)
		return api.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].IsComplete = resp.IsComplete
			s.tasks[i].CompletedAt = resp.CompletedAt
			return s.tasks[i], nil
		}
	}
	return resp, nil
}

// SetFlagged flips the flag through the dedicated endpoint and merges
// only is_flagged into the local entry.
func (s *Store) SetFlagged(ctx context.Context, id string, isFlagged bool) (api.Task, error) {
	resp, err := s.svc.FlagTask(ctx, id, isFlagged)
	if err != nil {
		logger.Error("failed to update task flag", err)
		return api.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].IsFlagged = resp.IsFlagged
			return s.tasks[i], nil
		}
	}
	return resp, nil
}

// Remove deletes by id. The entry leaves the local list only after the
// server confirmed the delete.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.svc.DeleteTask(ctx, id); err != nil {
		logger.Error("failed to delete task", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

// Tasks returns a copy of the list in due-date order.
func (s *Store) Tasks() []api.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (api.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return api.Task{}, ErrTaskNotFound
}

// User returns the loaded profile; ok is false before a successful Load.
func (s *Store) User() (api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.hasUser
}

// dueBefore orders tasks by ascending due date; tasks without a due
// date sort after every dated task.
func dueBefore(a, b api.Task) bool {
	switch {
	case a.DueAt == nil:
		return false
	case b.DueAt == nil:
		return true
	default:
		return a.DueAt.Time.Before(b.DueAt.Time)
	}
}

// sortedInsert inserts t keeping the ordering invariant. Equal due
// dates keep insertion order.
func sortedInsert(tasks []api.Task, t api.Task) []api.Task {
	at := len(tasks)
	for i := range tasks {
		if dueBefore(t, tasks[i]) {
			at = i
			break
		}
	}
	tasks = append(tasks, api.Task{})
	copy(tasks[at+1:], tasks[at:])
	tasks[at] = t
	return tasks
}

// sortedReplace removes any entry with t's id and re-inserts t in
// order, so a due-date change re-slots the entry.
func sortedReplace(tasks []api.Task, t api.Task) []api.Task {
	for i := range tasks {
		if tasks[i].ID == t.ID {
			tasks = append(tasks[:i], tasks[i+1:]...)
			break
		}
	}
	return sortedInsert(tasks, t)
}
