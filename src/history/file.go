package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"career_assistant/pkg"
	"career_assistant/src/logger"

	"github.com/bytedance/sonic"
)

// FileStore keeps the log as a single pretty-printed JSON array
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the history file location
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the log. A missing file is an empty log. A file that cannot be
// parsed is moved aside so the next Save does not destroy it, and an empty
// log is returned.
func (f *FileStore) Load(ctx context.Context) ([]pkg.Turn, error) {
	data, err := f.read()
	if err != nil {
		return nil, err
	}

	turns, err := decode(data)
	if err != nil {
		quarantine := fmt.Sprintf("%s.corrupt-%d", f.path, time.Now().Unix())
		if renameErr := os.Rename(f.path, quarantine); renameErr != nil {
			return nil, fmt.Errorf("history file is corrupt and could not be moved aside: %w", errors.Join(err, renameErr))
		}
		logger.Error().
			Err(err).
			Str("path", f.path).
			Str("moved_to", quarantine).
			Msg("History file is corrupt, starting with empty history")
		return []pkg.Turn{}, nil
	}
	return turns, nil
}

// Peek reads the log without moving a corrupt file
func (f *FileStore) Peek(ctx context.Context) ([]pkg.Turn, error) {
	data, err := f.read()
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// read returns "null" for a missing file, which decodes to an empty log
func (f *FileStore) read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []byte("null"), nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	return data, nil
}

// Save overwrites the file with the full log
func (f *FileStore) Save(ctx context.Context, turns []pkg.Turn) error {
	if turns == nil {
		turns = []pkg.Turn{}
	}

	data, err := sonic.ConfigStd.MarshalIndent(turns, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace history file: %w", err)
	}

	return nil
}
