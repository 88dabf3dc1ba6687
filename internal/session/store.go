// Package session owns the access/refresh token lifecycle: persistence,
// header attachment and the silent refresh-on-401 path.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Tokens is the persisted credential pair. Both fields are replaced
// together; the pair is never valid half-filled.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Valid reports whether both credentials are present.
func (t Tokens) Valid() bool {
	return t.AccessToken != "" && t.RefreshToken != ""
}

// persistedState is the on-disk shape of token.json.
type persistedState struct {
	AuthTokens Tokens `json:"authTokens"`
}

// Store persists the token pair as a single JSON file with mode 0600.
type Store struct {
	path string
}

// NewStore creates a Store writing to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted pair. ok is false when no pair is stored.
func (s *Store) Load() (tokens Tokens, ok bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Tokens{}, false, nil
		}
		return Tokens{}, false, fmt.Errorf("failed to read token file: %w", err)
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return Tokens{}, false, fmt.Errorf("invalid token file: %w", err)
	}
	if !state.AuthTokens.Valid() {
		return Tokens{}, false, nil
	}
	return state.AuthTokens, true, nil
}

// Save writes the pair atomically (temp file + rename) with mode 0600.
func (s *Store) Save(tokens Tokens) error {
	data, err := json.MarshalIndent(persistedState{AuthTokens: tokens}, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "token-*.json")
	if err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}

// Clear removes the persisted pair. Missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
