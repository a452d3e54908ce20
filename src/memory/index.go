// Package memory indexes past turns by their question so similar earlier
// exchanges can be replayed as conversational context.
package memory

import (
	"context"
	"fmt"
	"strconv"

	"career_assistant/pkg"
	"career_assistant/src/logger"
	"career_assistant/src/vectorstore"

	"github.com/cloudwego/eino/components/embedding"
)

const (
	metaUser = "user"
	metaBot  = "bot"
)

// Index builds, persists and searches the chat memory index. There is no
// incremental update: every rebuild re-embeds the whole log.
type Index struct {
	dir      string
	embedder embedding.Embedder
}

// NewIndex persists into dir and embeds with embedder
func NewIndex(dir string, embedder embedding.Embedder) *Index {
	return &Index{
		dir:      dir,
		embedder: embedder,
	}
}

// Rebuild returns nil for an empty log. Otherwise it embeds every Turn.User,
// attaches the turn as metadata and overwrites the persisted index.
func (m *Index) Rebuild(ctx context.Context, log []pkg.Turn) (*vectorstore.Store, error) {
	if len(log) == 0 {
		return nil, nil
	}

	ids := make([]string, len(log))
	texts := make([]string, len(log))
	metadata := make([]map[string]string, len(log))
	for i, turn := range log {
		ids[i] = strconv.Itoa(i)
		texts[i] = turn.User
		metadata[i] = map[string]string{metaUser: turn.User, metaBot: turn.Bot}
	}

	store, err := vectorstore.FromTexts(ctx, m.embedder, ids, texts, metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to build chat memory index: %w", err)
	}

	if err := store.Save(m.dir); err != nil {
		return nil, fmt.Errorf("failed to persist chat memory index: %w", err)
	}

	logger.Debug().Int("turns", len(log)).Str("dir", m.dir).Msg("Chat memory index rebuilt")
	return store, nil
}

// LoadExisting returns the persisted index, or nil when none exists
func (m *Index) LoadExisting(ctx context.Context) (*vectorstore.Store, error) {
	if !vectorstore.Exists(m.dir) {
		return nil, nil
	}

	store, err := vectorstore.Load(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat memory index: %w", err)
	}
	return store, nil
}

// Drop removes the persisted index
func (m *Index) Drop(ctx context.Context) error {
	return vectorstore.Remove(m.dir)
}

// Search returns up to k past turns nearest to query. A nil index yields none.
func (m *Index) Search(ctx context.Context, index *vectorstore.Store, query string, k int) ([]pkg.Turn, error) {
	if index == nil {
		return []pkg.Turn{}, nil
	}

	results, err := vectorstore.SimilaritySearch(ctx, index, m.embedder, query, k)
	if err != nil {
		return nil, fmt.Errorf("chat memory search failed: %w", err)
	}

	turns := make([]pkg.Turn, 0, len(results))
	for _, result := range results {
		turns = append(turns, pkg.Turn{
			User: result.Metadata[metaUser],
			Bot:  result.Metadata[metaBot],
		})
	}
	return turns, nil
}
