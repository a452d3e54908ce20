package vectorstore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/ollama/ollama/api"
)

// OllamaEmbedder calls the Ollama /api/embed endpoint
type OllamaEmbedder struct {
	client *api.Client
	model  string
}

var _ embedding.Embedder = (*OllamaEmbedder)(nil)

// NewOllamaEmbedder creates an embedder for model served at baseURL
func NewOllamaEmbedder(baseURL, model string, httpClient *http.Client) (*OllamaEmbedder, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &OllamaEmbedder{
		client: api.NewClient(u, httpClient),
		model:  model,
	}, nil
}

func (o *OllamaEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	model := o.model
	options := embedding.GetCommonOptions(&embedding.Options{Model: &model}, opts...)
	if options.Model != nil {
		model = *options.Model
	}

	resp, err := o.client.Embed(ctx, &api.EmbedRequest{
		Model: model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed failed: %w", err)
	}

	vectors := make([][]float64, len(resp.Embeddings))
	for i, values := range resp.Embeddings {
		vector := make([]float64, len(values))
		for j, v := range values {
			vector[j] = float64(v)
		}
		vectors[i] = vector
	}

	return vectors, nil
}
