// Package session holds the signed-in user and bearer token of the
// client. A Provider is built once in main and passed to whatever
// performs authenticated calls; nothing reads it through globals.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// User is the part of the account the client keeps locally.
type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Provider exposes the current session.
type Provider interface {
	Token() (string, bool)
	User() (*User, bool)
	Clear() error
}

// Saver is implemented by providers that can persist a new session.
type Saver interface {
	Save(user User, token string) error
}

type state struct {
	User  *User  `json:"user,omitempty"`
	Token string `json:"token,omitempty"`
}

// Memory is an in-process session, used by tests and one-shot commands.
type Memory struct {
	mu sync.RWMutex
	st state
}

// NewMemory returns a session pre-filled with user and token.
// Pass a nil user and empty token for a signed-out session.
func NewMemory(user *User, token string) *Memory {
	return &Memory{st: state{User: user, Token: token}}
}

func (m *Memory) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.Token, m.st.Token != ""
}

func (m *Memory) User() (*User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.st.User == nil {
		return nil, false
	}
	u := *m.st.User
	return &u, true
}

func (m *Memory) Save(user User, token string) error {
	m.mu.Lock()
	m.st = state{User: &user, Token: token}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	m.st = state{}
	m.mu.Unlock()
	return nil
}

// FileStore persists the session as JSON (mode 0600).
type FileStore struct {
	path string
	mu   sync.RWMutex
	st   state
}

// OpenFile loads the session stored at path. A missing file yields an
// empty, signed-out session.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(data, &s.st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", path, err)
	}
	return s, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Token, s.st.Token != ""
}

func (s *FileStore) User() (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.st.User == nil {
		return nil, false
	}
	u := *s.st.User
	return &u, true
}

// Save replaces the stored session and writes it to disk.
func (s *FileStore) Save(user User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := state{User: &user, Token: token}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	s.st = st
	return nil
}

// Clear forgets the session and removes the file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = state{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
