package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dotask/internal/api"
)

// FakeAPI is an httptest server speaking the task API's wire contract.
// It issues and rotates token pairs, can expire the current access
// token on demand, and counts refresh calls so tests can assert the
// single-flight property.
type FakeAPI struct {
	Server *httptest.Server

	// SecretKey accepted by register and reset.
	SecretKey string

	// FailRefresh makes the refresh endpoint reject every attempt.
	FailRefresh bool

	// RefreshDelay widens the refresh window so concurrent 401 paths
	// overlap in tests.
	RefreshDelay time.Duration

	mu            sync.Mutex
	email         string
	password      string
	accessToken   string
	refreshToken  string
	accessExpired bool
	tasks         []api.Task
	user          api.User
	refreshCalls  int
	logoutCalls   int
}

type fakeCredentials struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	SecretKey string `json:"secret_key"`
}

type fakeRefreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

// NewFakeAPI starts a FakeAPI with one registered account
// (nicktest@gmail.com / Nicktest123!). Callers must Close it.
func NewFakeAPI() *FakeAPI {
	f := &FakeAPI{
		SecretKey: "letmein",
		email:     "nicktest@gmail.com",
		password:  "Nicktest123!",
		user: api.User{
			ID:    uuid.NewString(),
			Name:  "Nick Test",
			Email: "nicktest@gmail.com",
		},
	}

	r := chi.NewRouter()
	r.Post("/api/auth/login", f.handleLogin)
	r.Post("/api/auth/register", f.handleRegister)
	r.Post("/api/auth/reset", f.handleReset)
	r.Post("/api/auth/refresh", f.handleRefresh)
	r.Post("/api/auth/logout", f.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(f.requireAuth)
		r.Get("/api/user", f.handleUser)
		r.Get("/api/tasks", f.handleTasks)
		r.Post("/api/tasks", f.handleCreateTask)
		r.Put("/api/tasks/{id}", f.handleUpdateTask)
		r.Patch("/api/tasks/{id}/complete", f.handleComplete)
		r.Patch("/api/tasks/{id}/flag", f.handleFlag)
		r.Delete("/api/tasks/{id}", f.handleDeleteTask)
	})

	f.Server = httptest.NewServer(r)
	return f
}

// URL returns the server's base URL.
func (f *FakeAPI) URL() string { return f.Server.URL }

// Close shuts the server down.
func (f *FakeAPI) Close() { f.Server.Close() }

// Tokens returns the currently valid pair.
func (f *FakeAPI) Tokens() (access, refresh string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accessToken, f.refreshToken
}

// IssueTokens mints a fresh valid pair, as a successful login would.
func (f *FakeAPI) IssueTokens() (access, refresh string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rotateLocked()
	return f.accessToken, f.refreshToken
}

// ExpireAccess invalidates the current access token. The next
// authenticated request gets a 401 until a refresh rotates the pair.
func (f *FakeAPI) ExpireAccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accessExpired = true
}

// RefreshCalls reports how many refresh requests the server saw.
func (f *FakeAPI) RefreshCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

// LogoutCalls reports how many logout requests the server saw.
func (f *FakeAPI) LogoutCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logoutCalls
}

// AddTask seeds a task server-side and returns its id.
func (f *FakeAPI) AddTask(description string, dueAt *time.Time, flagged, complete bool) string {
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
		task.CompletedAt = api.NewTimestamp(time.Now())
	}
	f.tasks = append(f.tasks, task)
	return task.ID
}

func (f *FakeAPI) rotateLocked() {
	f.accessToken = "access-" + uuid.NewString()
	f.refreshToken = "refresh-" + uuid.NewString()
	f.accessExpired = false
}

func (f *FakeAPI) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		token := f.accessToken
		expired := f.accessExpired
		f.mu.Unlock()

		auth := r.Header.Get("Authorization")
		bearer := strings.TrimPrefix(auth, "Bearer ")
		if token == "" || bearer != token || expired {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds fakeCredentials
	json.NewDecoder(r.Body).Decode(&creds)

	f.mu.Lock()
	defer f.mu.Unlock()
	if creds.Email != f.email || creds.Password != f.password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials."})
		return
	}
	f.rotateLocked()
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Logged in.",
		"authTokens": map[string]string{
			"accessToken":  f.accessToken,
			"refreshToken": f.refreshToken,
		},
	})
}

func (f *FakeAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds fakeCredentials
	json.NewDecoder(r.Body).Decode(&creds)

	f.mu.Lock()
	defer f.mu.Unlock()
	if creds.SecretKey != f.SecretKey {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Invalid secret key."})
		return
	}
	f.email = creds.Email
	f.password = creds.Password
	f.user = api.User{ID: uuid.NewString(), Name: creds.Name, Email: creds.Email}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Account created."})
}

func (f *FakeAPI) handleReset(w http.ResponseWriter, r *http.Request) {
	var creds fakeCredentials
	json.NewDecoder(r.Body).Decode(&creds)

	f.mu.Lock()
	defer f.mu.Unlock()
	if creds.SecretKey != f.SecretKey {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Invalid secret key."})
		return
	}
	if creds.Email != f.email {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No such account."})
		return
	}
	f.password = creds.Password
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset."})
}

func (f *FakeAPI) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body fakeRefreshBody
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.refreshCalls++
	fail := f.FailRefresh
	current := f.refreshToken
	delay := f.RefreshDelay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if fail || body.RefreshToken == "" || body.RefreshToken != current {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid refresh token."})
		return
	}
	f.rotateLocked()
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token":  f.accessToken,
		"refresh_token": f.refreshToken,
	})
}

func (f *FakeAPI) handleLogout(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	f.accessToken = ""
	f.refreshToken = ""
	writeJSON(w, http.StatusOK, map[string]string{})
}

func (f *FakeAPI) handleUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"user": f.user})
}

func (f *FakeAPI) handleTasks(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks := make([]api.Task, len(f.tasks))
	copy(tasks, f.tasks)
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (f *FakeAPI) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var draft api.TaskDraft
	json.NewDecoder(r.Body).Decode(&draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	task := api.Task{
		ID:          uuid.NewString(),
		Description: draft.Description,
		IsFlagged:   draft.IsFlagged,
		DueAt:       draft.DueAt,
	}
	f.tasks = append(f.tasks, task)
	writeJSON(w, http.StatusCreated, map[string]any{"task": task})
}

func (f *FakeAPI) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var draft api.TaskDraft
	json.NewDecoder(r.Body).Decode(&draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Description = draft.Description
			f.tasks[i].DueAt = draft.DueAt
			f.tasks[i].IsFlagged = draft.IsFlagged
			writeJSON(w, http.StatusOK, map[string]any{"task": f.tasks[i]})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found."})
}

func (f *FakeAPI) handleComplete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsComplete bool `json:"is_complete"`
	}
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].IsComplete = body.IsComplete
			if body.IsComplete {
				f.tasks[i].CompletedAt = api.NewTimestamp(time.Now())
			} else {
				f.tasks[i].CompletedAt = nil
			}
			writeJSON(w, http.StatusOK, map[string]any{"task": f.tasks[i]})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found."})
}

func (f *FakeAPI) handleFlag(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsFlagged bool `json:"is_flagged"`
	}
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].IsFlagged = body.IsFlagged
			writeJSON(w, http.StatusOK, map[string]any{"task": f.tasks[i]})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found."})
}

func (f *FakeAPI) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := chi.URLParam(r, "id")
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found."})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
