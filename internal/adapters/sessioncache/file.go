// Package sessioncache provides persistence backends for the session store:
// a JSON file under the user's config directory for single-operator
// installs, and redis for shared kiosk terminals.
package sessioncache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clearance-asce/portal/internal/domain"
	apperrors "github.com/clearance-asce/portal/internal/errors"
)

// fileState is the on-disk shape. The remembered matric number lives beside
// the session so it survives logout.
type fileState struct {
	Session          *domain.Session `json:"session,omitempty"`
	RememberedMatric string          `json:"remembered_matric_no,omitempty"`
}

// FileStore persists the session as a JSON file. The zero path resolves to
// clearance-portal/session.json under os.UserConfigDir.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed session cache at the given path. An
// empty path uses the default location under the user config directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "clearance-portal", "session.json")
	}
	return &FileStore{path: path}, nil
}

// Path returns the resolved file location.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(_ context.Context) (domain.Session, error) {
	state, err := f.read()
	if err != nil {
		return domain.Session{}, err
	}
	if state.Session == nil {
		return domain.Session{}, apperrors.NotFound("no cached session")
	}
	return *state.Session, nil
}

func (f *FileStore) Save(_ context.Context, sess domain.Session) error {
	state, err := f.readOrEmpty()
	if err != nil {
		return err
	}
	state.Session = &sess
	return f.write(state)
}

// Clear removes the cached session but keeps the remembered matric number.
func (f *FileStore) Clear(_ context.Context) error {
	state, err := f.readOrEmpty()
	if err != nil {
		return err
	}
	if state.Session == nil {
		return nil
	}
	state.Session = nil
	return f.write(state)
}

// RememberMatric stores a matric number to pre-fill the student lookup. An
// empty value forgets it.
func (f *FileStore) RememberMatric(matricNo string) error {
	state, err := f.readOrEmpty()
	if err != nil {
		return err
	}
	state.RememberedMatric = matricNo
	return f.write(state)
}

// RememberedMatric returns the stored matric number, or empty when none.
func (f *FileStore) RememberedMatric() string {
	state, err := f.read()
	if err != nil {
		return ""
	}
	return state.RememberedMatric
}

func (f *FileStore) read() (fileState, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileState{}, apperrors.NotFound("no cached session")
		}
		return fileState{}, fmt.Errorf("read session cache: %w", err)
	}
	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return fileState{}, fmt.Errorf("decode session cache: %w", err)
	}
	return state, nil
}

func (f *FileStore) readOrEmpty() (fileState, error) {
	state, err := f.read()
	if err != nil {
		if apperrors.IsNotFound(err) {
			return fileState{}, nil
		}
		return fileState{}, err
	}
	return state, nil
}

// write replaces the file atomically. The token is a credential, so the
// file and its directory are restricted to the owning user.
func (f *FileStore) write(state fileState) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session cache dir: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session cache: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session cache: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace session cache: %w", err)
	}
	return nil
}
