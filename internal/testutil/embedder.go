// Package testutil holds deterministic stand-ins for the model services.
package testutil

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"
	"unicode"

	"github.com/cloudwego/eino/components/embedding"
)

// Dimension of the vectors produced by HashEmbedder
const Dimension = 64

// HashEmbedder maps each lower-cased word to a bucket, producing a
// bag-of-words vector. Texts that share words are close under cosine.
type HashEmbedder struct {
	mu    sync.Mutex
	calls int
	texts []string
	Err   error
}

var _ embedding.Embedder = (*HashEmbedder)(nil)

func (h *HashEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	h.mu.Lock()
	h.calls++
	h.texts = append(h.texts, texts...)
	err := h.Err
	h.mu.Unlock()

	if err != nil {
		return nil, err
	}

	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = Vector(text)
	}
	return vectors, nil
}

// Calls returns how many EmbedStrings calls were made
func (h *HashEmbedder) Calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

// Texts returns every text embedded so far, in call order
func (h *HashEmbedder) Texts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.texts...)
}

// Vector is the embedding HashEmbedder produces for text
func Vector(text string) []float64 {
	vector := make([]float64, Dimension)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, word := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		vector[h.Sum32()%Dimension]++
	}
	return vector
}

// ErrUnavailable simulates an unreachable model service
var ErrUnavailable = errors.New("service unavailable")
