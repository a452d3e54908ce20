// Package assistant drives one conversation turn: stage past turns, answer,
// record, reindex and notify.
package assistant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"career_assistant/pkg"
	"career_assistant/src/conversation"
	"career_assistant/src/history"
	"career_assistant/src/llm"
	"career_assistant/src/logger"
	"career_assistant/src/vectorstore"

	"github.com/cloudwego/eino/schema"
)

// Answerer produces the raw model output for a question and staged memory
type Answerer interface {
	Answer(ctx context.Context, question string, memory []*schema.Message) (string, error)
}

// Notifier forwards a finished turn. Failures never reach the caller.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// MemoryIndex rebuilds the similarity index over past turns
type MemoryIndex interface {
	conversation.Searcher
	Rebuild(ctx context.Context, log []pkg.Turn) (*vectorstore.Store, error)
	LoadExisting(ctx context.Context) (*vectorstore.Store, error)
	Drop(ctx context.Context) error
}

// Components are the collaborators an Assistant is built from
type Components struct {
	History  history.Store
	Memory   MemoryIndex
	Answerer Answerer
	Notifier Notifier
	MaxTurns int
}

// Assistant owns the history log and the chat memory index. Answer and
// Clear hold one lock for their whole duration, so turns never interleave.
type Assistant struct {
	mu       sync.Mutex
	store    history.Store
	memory   MemoryIndex
	context  *conversation.ContextBuilder
	answerer Answerer
	notifier Notifier

	log   []pkg.Turn
	index *vectorstore.Store
}

// New loads the history log and rebuilds the chat memory index from it.
// Neither step is fatal: an unreadable log starts empty and a failed rebuild
// falls back to the persisted index, if any.
func New(ctx context.Context, c Components) *Assistant {
	a := &Assistant{
		store:    c.History,
		memory:   c.Memory,
		context:  conversation.NewContextBuilder(c.Memory, c.MaxTurns),
		answerer: c.Answerer,
		notifier: c.Notifier,
		log:      []pkg.Turn{},
	}

	turns, err := a.store.Load(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load chat history, starting empty")
	} else {
		a.log = turns
	}

	// the index is derived from the log, so an empty log never replays a
	// persisted index left over from cleared turns
	index, err := a.memory.Rebuild(ctx, a.log)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to rebuild chat memory index, trying persisted index")
		if index, err = a.memory.LoadExisting(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to load chat memory index")
		}
	}
	a.index = index

	logger.Info().Int("turns", len(a.log)).Bool("memory_index", a.index != nil).Msg("Assistant ready")
	return a
}

// Answer runs one turn and returns the cleaned answer. An empty query is a
// no-op. Only staging and answering errors are returned, in which case
// nothing is recorded.
func (a *Assistant) Answer(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "", nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()

	staged, err := a.context.Stage(ctx, query, a.index)
	if err != nil {
		return "", err
	}

	raw, err := a.answerer.Answer(ctx, query, conversation.Messages(staged))
	if err != nil {
		return "", fmt.Errorf("failed to answer: %w", err)
	}
	result := pkg.AnswerResult{Raw: raw, Cleaned: llm.CleanAnswer(raw)}

	a.log, err = history.AppendAndSave(ctx, a.store, a.log, pkg.Turn{User: query, Bot: result.Cleaned})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to persist chat history")
	}

	index, err := a.memory.Rebuild(ctx, a.log)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to rebuild chat memory index, keeping previous index")
	} else {
		a.index = index
	}

	if err := a.notifier.Send(ctx, FormatNotification(query, result.Cleaned)); err != nil {
		// the notifier already logged each failed chunk
		logger.Debug().Err(err).Msg("Notification not delivered")
	}

	logger.Info().
		Int("context_turns", len(staged)).
		Int("raw_length", len(result.Raw)).
		Int("turns", len(a.log)).
		Dur("duration", time.Since(start)).
		Msg("Turn completed")

	return result.Cleaned, nil
}

// Clear empties and persists the history log. The memory index is dropped
// with it so cleared turns are never replayed.
func (a *Assistant) Clear(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var err error
	a.log, err = history.ClearAndSave(ctx, a.store)
	a.index = nil

	if dropErr := a.memory.Drop(ctx); dropErr != nil {
		logger.Warn().Err(dropErr).Msg("Failed to remove chat memory index")
	}

	if err != nil {
		return err
	}
	logger.Info().Msg("Chat history cleared")
	return nil
}

// History returns a copy of the log
func (a *Assistant) History() []pkg.Turn {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]pkg.Turn{}, a.log...)
}

// FormatNotification renders a turn for the notification channel
func FormatNotification(query, answer string) string {
	return "📥 User prompt:\n" + query + "\n\n📤 Bot answer:\n" + answer
}
