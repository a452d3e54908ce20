package documents

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"career_assistant/src/logger"
	"career_assistant/src/vectorstore"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

// Chunk is one piece of a page ready for embedding
type Chunk struct {
	ID     string
	Source string
	Page   int
	Index  int
	Text   string
}

// Builder loads the persisted document index or builds it from a folder
type Builder struct {
	dir      string
	embedder embedding.Embedder
	splitter *Splitter
	extract  Extractor
	workers  int
}

// Option configures a Builder
type Option func(*Builder)

// WithExtractor replaces the PDF text extractor
func WithExtractor(extract Extractor) Option {
	return func(b *Builder) {
		b.extract = extract
	}
}

// WithWorkers bounds how many documents are read concurrently
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// NewBuilder persists the index into dir
func NewBuilder(dir string, embedder embedding.Embedder, splitter *Splitter, opts ...Option) *Builder {
	b := &Builder{
		dir:      dir,
		embedder: embedder,
		splitter: splitter,
		extract:  ExtractPDF,
		workers:  4,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// LoadOrBuild reuses the persisted index when its marker exists and only
// reads folder otherwise
func (b *Builder) LoadOrBuild(ctx context.Context, folder string) (*vectorstore.Store, error) {
	if vectorstore.Exists(b.dir) {
		logger.Info().Str("dir", b.dir).Msg("Loading document index from disk")
		return vectorstore.Load(b.dir)
	}

	logger.Info().Str("folder", folder).Msg("Creating document index from PDFs")
	return b.Build(ctx, folder)
}

// Build reads every PDF in folder, chunks and embeds it, and overwrites the
// persisted index. A folder without documents yields an empty index that is
// not persisted, so the next start tries again.
func (b *Builder) Build(ctx context.Context, folder string) (*vectorstore.Store, error) {
	files, err := filepath.Glob(filepath.Join(folder, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("invalid documents folder %q: %w", folder, err)
	}

	chunks, err := b.chunkFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		logger.Warn().Str("folder", folder).Msg("No document text found, answering without documents")
		return &vectorstore.Store{Entries: []vectorstore.Entry{}}, nil
	}

	ids := make([]string, len(chunks))
	texts := make([]string, len(chunks))
	metadata := make([]map[string]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.ID
		texts[i] = chunk.Text
		metadata[i] = map[string]string{
			"source": filepath.Base(chunk.Source),
			"page":   strconv.Itoa(chunk.Page),
		}
	}

	store, err := vectorstore.FromTexts(ctx, b.embedder, ids, texts, metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to embed documents: %w", err)
	}
	if err := store.Save(b.dir); err != nil {
		return nil, err
	}

	logger.Info().
		Int("files", len(files)).
		Int("chunks", len(chunks)).
		Str("dir", b.dir).
		Msg("Document index created")

	return store, nil
}

func (b *Builder) chunkFiles(ctx context.Context, files []string) ([]Chunk, error) {
	p := pool.NewWithResults[[]Chunk]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(b.workers)

	for _, file := range files {
		p.Go(func(ctx context.Context) ([]Chunk, error) {
			pages, err := b.extract(file)
			if err != nil {
				return nil, err
			}
			return b.chunkPages(pages), nil
		})
	}

	perFile, err := p.Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}

	var chunks []Chunk
	for _, fileChunks := range perFile {
		chunks = append(chunks, fileChunks...)
	}

	// workers finish in any order
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Source != chunks[j].Source {
			return chunks[i].Source < chunks[j].Source
		}
		if chunks[i].Page != chunks[j].Page {
			return chunks[i].Page < chunks[j].Page
		}
		return chunks[i].Index < chunks[j].Index
	})

	return chunks, nil
}

func (b *Builder) chunkPages(pages []Page) []Chunk {
	var chunks []Chunk
	for _, page := range pages {
		for i, text := range b.splitter.Split(page.Text) {
			chunks = append(chunks, Chunk{
				ID:     uuid.NewString(),
				Source: page.Source,
				Page:   page.Number,
				Index:  i,
				Text:   text,
			})
		}
	}
	return chunks
}
