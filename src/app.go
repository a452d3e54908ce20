package src

import (
	"context"
	"errors"
	"fmt"
	"io"

	"career_assistant/src/assistant"
	"career_assistant/src/documents"
	"career_assistant/src/history"
	"career_assistant/src/llm"
	"career_assistant/src/memory"
	"career_assistant/src/notify"
	"career_assistant/src/vectorstore"

	"github.com/cloudwego/eino/components/embedding"
)

// App is the wired assistant with the resources it holds open
type App struct {
	Assistant *assistant.Assistant
	closers   []io.Closer
}

// NewEmbedder creates the Ollama embedder shared by both indexes
func NewEmbedder(config *Config) (embedding.Embedder, error) {
	return vectorstore.NewOllamaEmbedder(config.EmbeddingConfig.BaseURL, config.EmbeddingConfig.Model, nil)
}

// NewDocumentBuilder creates the builder for the document index
func NewDocumentBuilder(config *Config, embedder embedding.Embedder) *documents.Builder {
	retrieval := config.RetrievalConfig
	return documents.NewBuilder(
		config.StorageConfig.DocumentIndexDir,
		embedder,
		documents.NewSplitter(retrieval.ChunkSize, retrieval.ChunkOverlap),
		documents.WithWorkers(retrieval.IngestWorkers),
	)
}

// NewMemoryIndex creates the chat memory index
func NewMemoryIndex(config *Config, embedder embedding.Embedder) *memory.Index {
	return memory.NewIndex(config.StorageConfig.ChatIndexDir, embedder)
}

// NewApp loads or builds the document index, connects the chat model and
// the history backend, and restores the conversation state
func NewApp(ctx context.Context, config *Config) (*App, error) {
	fileConfig, err := LoadFileConfig(config.RetrievalConfig.PromptsFile)
	if err != nil {
		return nil, err
	}

	embedder, err := NewEmbedder(config)
	if err != nil {
		return nil, err
	}

	docs, err := NewDocumentBuilder(config, embedder).LoadOrBuild(ctx, config.StorageConfig.DocumentsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare document index: %w", err)
	}

	chatModel, err := llm.NewChatModel(ctx, config.LLMConfig)
	if err != nil {
		return nil, err
	}

	answerer, err := llm.NewAnswerer(ctx, chatModel,
		vectorstore.NewRetriever(docs, embedder, config.RetrievalConfig.DocumentTopK),
		fileConfig.Prompts,
		config.RetrievalConfig.CondenseQuestion,
	)
	if err != nil {
		return nil, err
	}

	store, err := history.NewStore(ctx, config.StorageConfig)
	if err != nil {
		return nil, err
	}

	app := &App{}
	if closer, ok := store.(io.Closer); ok {
		app.closers = append(app.closers, closer)
	}

	app.Assistant = assistant.New(ctx, assistant.Components{
		History:  store,
		Memory:   NewMemoryIndex(config, embedder),
		Answerer: answerer,
		Notifier: notify.NewTelegram(config.NotifyConfig, nil),
		MaxTurns: config.RetrievalConfig.MemoryTopK,
	})

	return app, nil
}

// Close releases the history backend connection
func (a *App) Close() error {
	var errs []error
	for _, closer := range a.closers {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}
