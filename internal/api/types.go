package api

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp is a time.Time that tolerates the backend's zone-less
// timestamp layout on the way in and emits RFC 3339 on the way out.
type Timestamp struct {
	time.Time
}

// timeLayouts are tried in order when decoding.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// NewTimestamp wraps a time.Time.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.Format(time.RFC3339Nano))), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("invalid timestamp %q: %w", s, lastErr)
}

// Task is a single task as the API represents it.
type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	IsFlagged   bool       `json:"is_flagged"`
	IsComplete  bool       `json:"is_complete"`
	DueAt       *Timestamp `json:"due_at,omitempty"`
	CompletedAt *Timestamp `json:"completed_at,omitempty"`
}

// User is the signed-in user's profile.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthTokens is the access/refresh credential pair as issued by login.
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TaskDraft carries the client-supplied task fields for create and
// full-field update calls.
type TaskDraft struct {
	Description string     `json:"description"`
	DueAt       *Timestamp `json:"due_at,omitempty"`
	IsFlagged   bool       `json:"is_flagged"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	SecretKey string `json:"secret_key"`
}

type resetRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	SecretKey string `json:"secret_key"`
}

// refreshRequest carries the refresh token under both spellings the
// backend has accepted across versions.
type refreshRequest struct {
	RefreshToken      string `json:"refresh_token"`
	RefreshTokenCamel string `json:"refreshToken"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type completeRequest struct {
	IsComplete bool `json:"is_complete"`
}

type flagRequest struct {
	IsFlagged bool `json:"is_flagged"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Message    string     `json:"message"`
	AuthTokens AuthTokens `json:"authTokens"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type userResponse struct {
	User User `json:"user"`
}

type tasksResponse struct {
	Tasks []Task `json:"tasks"`
}

type taskResponse struct {
	Task Task `json:"task"`
}
