// Package vectorstore is a flat similarity index with on-disk persistence.
// Search is brute-force cosine similarity, which is fine for the few
// thousand entries a document folder and a chat history produce.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/embedding"
	"gonum.org/v1/gonum/floats"
)

const (
	// MarkerFile is the file whose presence means a persisted index exists
	MarkerFile = "index.json"
	// EmbedBatchSize bounds the number of texts sent per embedding request
	EmbedBatchSize = 64
)

var (
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrEmbeddingCount    = errors.New("embedder returned wrong number of vectors")
)

// Entry is one indexed text with its vector and metadata
type Entry struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Vector   []float64         `json:"vector"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Result is an entry with its similarity to the query (higher is closer)
type Result struct {
	Entry
	Score float64 `json:"score"`
}

// Store holds the entries of one index
type Store struct {
	Dimension int     `json:"dimension"`
	Entries   []Entry `json:"entries"`
}

// New validates that all entries share one dimension
func New(entries []Entry) (*Store, error) {
	store := &Store{Entries: entries}
	for i, entry := range entries {
		if i == 0 {
			store.Dimension = len(entry.Vector)
			continue
		}
		if len(entry.Vector) != store.Dimension {
			return nil, fmt.Errorf("entry %s: %w: expected %d, got %d", entry.ID, ErrDimensionMismatch, store.Dimension, len(entry.Vector))
		}
	}
	return store, nil
}

// FromTexts embeds texts in batches and pairs them with ids and metadata.
// metadata may be nil or must have the same length as texts.
func FromTexts(ctx context.Context, embedder embedding.Embedder, ids, texts []string, metadata []map[string]string) (*Store, error) {
	if len(ids) != len(texts) {
		return nil, fmt.Errorf("ids and texts differ in length: %d != %d", len(ids), len(texts))
	}
	if metadata != nil && len(metadata) != len(texts) {
		return nil, fmt.Errorf("metadata and texts differ in length: %d != %d", len(metadata), len(texts))
	}
	if len(texts) == 0 {
		return &Store{Entries: []Entry{}}, nil
	}

	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += EmbedBatchSize {
		end := min(start+EmbedBatchSize, len(texts))
		batch, err := embedder.EmbedStrings(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to embed texts: %w", err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCount, end-start, len(batch))
		}
		vectors = append(vectors, batch...)
	}

	entries := make([]Entry, len(texts))
	for i := range texts {
		entries[i] = Entry{ID: ids[i], Text: texts[i], Vector: vectors[i]}
		if metadata != nil {
			entries[i].Metadata = metadata[i]
		}
	}

	return New(entries)
}

// Len returns the number of entries
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// Search returns up to k entries ordered by descending cosine similarity.
// Ties keep insertion order.
func (s *Store) Search(query []float64, k int) ([]Result, error) {
	if s == nil || k <= 0 || len(s.Entries) == 0 {
		return []Result{}, nil
	}
	if len(query) != s.Dimension {
		return nil, fmt.Errorf("query: %w: expected %d, got %d", ErrDimensionMismatch, s.Dimension, len(query))
	}

	results := make([]Result, len(s.Entries))
	for i, entry := range s.Entries {
		results[i] = Result{Entry: entry, Score: cosineSimilarity(query, entry.Vector)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Save writes the index into dir, replacing any previous index there
func (s *Store) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	data, err := sonic.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	path := filepath.Join(dir, MarkerFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace index: %w", err)
	}
	return nil
}

// Exists reports whether dir holds a persisted index
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, MarkerFile))
	return err == nil && !info.IsDir()
}

// Load reads the index persisted in dir
func Load(dir string) (*Store, error) {
	data, err := os.ReadFile(filepath.Join(dir, MarkerFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	var stored Store
	if err := sonic.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}

	return New(stored.Entries)
}

// Remove deletes the persisted index in dir. A missing index is not an error.
func Remove(dir string) error {
	err := os.Remove(filepath.Join(dir, MarkerFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove index: %w", err)
	}
	return nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}

	return floats.Dot(a, b) / (normA * normB)
}
