package credential

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// tokenFileVersion is the current version of the token cache format.
const tokenFileVersion = 1

// tokenFile is the on-disk token cache format.
type tokenFile struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
	Token   string    `json:"token"`
}

// FileStore persists a credential to a JSON file so CLI sessions
// survive restarts. The file is written with mode 0600.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the credential to disk, creating parent directories as
// needed.
func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(tokenFile{
		Version: tokenFileVersion,
		SavedAt: time.Now(),
		Token:   token,
	}, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}

// Load reads the credential from disk.
// Returns "", nil if the file doesn't exist (no cached token).
func (s *FileStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var f tokenFile
	if err := json.Unmarshal(data, &f); err != nil {
		return "", err
	}
	return f.Token, nil
}

// Clear removes the token cache file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
