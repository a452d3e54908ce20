// Package history persists the ordered log of chat turns.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"career_assistant/pkg"
	"career_assistant/src/model"

	"github.com/bytedance/sonic"
)

// ErrNotConfigured is returned when a backend is selected without its settings
var ErrNotConfigured = errors.New("history backend not configured")

// Store persists the whole log on every mutation. There is no incremental
// append at the storage layer: the last Save wins.
type Store interface {
	Load(ctx context.Context) ([]pkg.Turn, error)
	Save(ctx context.Context, turns []pkg.Turn) error
	// Peek is a read-only Load: a corrupt log is reported, never moved aside
	Peek(ctx context.Context) ([]pkg.Turn, error)
}

// NewStore builds the backend named by config.HistoryBackend
func NewStore(ctx context.Context, config model.StorageConfig) (Store, error) {
	switch strings.ToLower(config.HistoryBackend) {
	case "", "file":
		return NewFileStore(config.HistoryFile), nil
	case "redis":
		return NewRedisStore(ctx, config.RedisURL, config.RedisKey, config.RedisTTL)
	default:
		return nil, fmt.Errorf("unknown history backend %q", config.HistoryBackend)
	}
}

// ErrCorrupt is returned by Peek when the stored log cannot be parsed
var ErrCorrupt = errors.New("history is corrupt")

// decode parses a stored log. "null" is an empty log.
func decode(data []byte) ([]pkg.Turn, error) {
	var turns []pkg.Turn
	if err := sonic.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if turns == nil {
		turns = []pkg.Turn{}
	}
	return turns, nil
}

// AppendAndSave appends turn to log and persists the result
func AppendAndSave(ctx context.Context, store Store, log []pkg.Turn, turn pkg.Turn) ([]pkg.Turn, error) {
	log = append(log, turn)
	if err := store.Save(ctx, log); err != nil {
		return log, fmt.Errorf("failed to save history: %w", err)
	}
	return log, nil
}

// ClearAndSave persists an empty log and returns it
func ClearAndSave(ctx context.Context, store Store) ([]pkg.Turn, error) {
	log := []pkg.Turn{}
	if err := store.Save(ctx, log); err != nil {
		return log, fmt.Errorf("failed to save cleared history: %w", err)
	}
	return log, nil
}
