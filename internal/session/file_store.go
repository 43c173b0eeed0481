package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yigit/interviewportal/internal/app/models"
)

// FileStore keeps the signed-in user of the command line tool as a JSON blob on disk
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore writing to path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFilePath is the per-user location of the CLI session blob
func DefaultFilePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "interview-portal", "session.json")
}

// Save stores user as the current blob
func (s *FileStore) Save(user models.SessionUser) error {
	blob, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return os.WriteFile(s.path, blob, 0o600)
}

// Load returns the stored user. A missing file resolves to RoleNone without error.
func (s *FileStore) Load() (models.SessionUser, models.Role, error) {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.SessionUser{}, models.RoleNone, nil
		}
		return models.SessionUser{}, models.RoleNone, fmt.Errorf("read session: %w", err)
	}
	user, role := ResolveBlob(blob)
	return user, role, nil
}

// Clear removes the stored blob
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
