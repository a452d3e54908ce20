package vectorstore

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
)

// Retriever exposes a Store as an eino retriever
type Retriever struct {
	store    *Store
	embedder embedding.Embedder
	topK     int
}

var _ retriever.Retriever = (*Retriever)(nil)

// NewRetriever wraps store; topK is used unless overridden per call
func NewRetriever(store *Store, embedder embedding.Embedder, topK int) *Retriever {
	return &Retriever{
		store:    store,
		embedder: embedder,
		topK:     topK,
	}
}

// SimilaritySearch embeds query and returns up to k nearest entries.
// A nil store yields no results without calling the embedder.
func SimilaritySearch(ctx context.Context, store *Store, embedder embedding.Embedder, query string, k int) ([]Result, error) {
	if store.Len() == 0 || k <= 0 {
		return []Result{}, nil
	}

	vectors, err := embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: expected 1, got %d", ErrEmbeddingCount, len(vectors))
	}

	return store.Search(vectors[0], k)
}

func (r *Retriever) Retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	topK := r.topK
	options := retriever.GetCommonOptions(&retriever.Options{TopK: &topK}, opts...)
	if options.TopK != nil {
		topK = *options.TopK
	}

	results, err := SimilaritySearch(ctx, r.store, r.embedder, query, topK)
	if err != nil {
		return nil, err
	}

	docs := make([]*schema.Document, 0, len(results))
	for _, result := range results {
		meta := make(map[string]any, len(result.Metadata))
		for k, v := range result.Metadata {
			meta[k] = v
		}
		doc := &schema.Document{
			ID:       result.ID,
			Content:  result.Text,
			MetaData: meta,
		}
		docs = append(docs, doc.WithScore(result.Score))
	}

	return docs, nil
}
