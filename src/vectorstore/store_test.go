package vectorstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"career_assistant/internal/testutil"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsMixedDimensions(t *testing.T) {
	_, err := New([]Entry{
		{ID: "a", Vector: []float64{1, 0}},
		{ID: "b", Vector: []float64{1, 0, 0}},
	})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSearchOrdersByCosineSimilarity(t *testing.T) {
	store, err := New([]Entry{
		{ID: "x", Text: "x axis", Vector: []float64{1, 0}},
		{ID: "y", Text: "y axis", Vector: []float64{0, 1}},
		{ID: "xy", Text: "diagonal", Vector: []float64{1, 1}},
	})
	require.NoError(t, err)

	results, err := store.Search([]float64{1, 0.1}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "x", results[0].ID)
	assert.Equal(t, "xy", results[1].ID)
	assert.Greater(t, results[0].Score, results[1].Score)

	all, err := store.Search([]float64{0, 1}, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = store.Search([]float64{1, 2, 3}, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSearchOnNilStoreIsEmpty(t *testing.T) {
	var store *Store
	results, err := store.Search([]float64{1}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	assert.False(t, Exists(dir))

	embedder := &testutil.HashEmbedder{}
	store, err := FromTexts(context.Background(), embedder,
		[]string{"1", "2"},
		[]string{"go developer", "python developer"},
		[]map[string]string{{"source": "cv.pdf"}, {"source": "cover.pdf"}},
	)
	require.NoError(t, err)
	require.NoError(t, store.Save(dir))
	assert.True(t, Exists(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, store.Dimension, loaded.Dimension)
	assert.Equal(t, store.Entries, loaded.Entries)

	require.NoError(t, Remove(dir))
	assert.False(t, Exists(dir))
	assert.NoError(t, Remove(dir))
}

func TestFromTextsValidatesLengths(t *testing.T) {
	embedder := &testutil.HashEmbedder{}
	_, err := FromTexts(context.Background(), embedder, []string{"1"}, []string{"a", "b"}, nil)
	assert.Error(t, err)

	store, err := FromTexts(context.Background(), embedder, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, embedder.Calls())
}

func TestRetrieverReturnsDocuments(t *testing.T) {
	embedder := &testutil.HashEmbedder{}
	store, err := FromTexts(context.Background(), embedder,
		[]string{"go", "cooking", "kubernetes"},
		[]string{
			"Five years of Go backend development",
			"Enjoys cooking Italian food",
			"Operated Kubernetes clusters in production",
		},
		[]map[string]string{{"page": "1"}, {"page": "2"}, {"page": "3"}},
	)
	require.NoError(t, err)

	r := NewRetriever(store, embedder, 1)
	docs, err := r.Retrieve(context.Background(), "Go development experience")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "go", docs[0].ID)
	assert.Equal(t, "1", docs[0].MetaData["page"])
	assert.Greater(t, docs[0].Score(), 0.0)

	docs, err = r.Retrieve(context.Background(), "Go development experience", retriever.WithTopK(3))
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestOllamaEmbedder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"nomic-embed-text","embeddings":[[0.5,0.25],[1,0]]}`))
	}))
	defer server.Close()

	embedder, err := NewOllamaEmbedder(server.URL, "nomic-embed-text", server.Client())
	require.NoError(t, err)

	vectors, err := embedder.EmbedStrings(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.5, 0.25}, {1, 0}}, vectors)

	empty, err := embedder.EmbedStrings(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
