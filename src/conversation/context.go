// Package conversation stages past turns as context for the next answer.
package conversation

import (
	"context"
	"fmt"

	"career_assistant/pkg"
	"career_assistant/src/vectorstore"

	"github.com/cloudwego/eino/schema"
)

// DefaultMaxTurns is how many past turns are replayed per query
const DefaultMaxTurns = 3

// Searcher finds past turns similar to a query
type Searcher interface {
	Search(ctx context.Context, index *vectorstore.Store, query string, k int) ([]pkg.Turn, error)
}

// ContextBuilder selects the past turns replayed for a query. It keeps no
// state between calls, so every query starts from an empty context.
type ContextBuilder struct {
	searcher Searcher
	maxTurns int
}

func NewContextBuilder(searcher Searcher, maxTurns int) *ContextBuilder {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &ContextBuilder{
		searcher: searcher,
		maxTurns: maxTurns,
	}
}

// Stage returns up to maxTurns past turns for query in search order,
// skipping any without both a question and an answer. A nil index means
// there is no history yet and the context is empty.
func (b *ContextBuilder) Stage(ctx context.Context, query string, index *vectorstore.Store) ([]pkg.Turn, error) {
	staged := []pkg.Turn{}
	if index == nil {
		return staged, nil
	}

	found, err := b.searcher.Search(ctx, index, query, b.maxTurns)
	if err != nil {
		return nil, fmt.Errorf("failed to stage conversation context: %w", err)
	}

	for _, turn := range found {
		if !turn.Complete() {
			continue
		}
		staged = append(staged, turn)
	}
	return staged, nil
}

// Messages renders turns as alternating user and assistant messages
func Messages(turns []pkg.Turn) []*schema.Message {
	messages := make([]*schema.Message, 0, len(turns)*2)
	for _, turn := range turns {
		messages = append(messages,
			schema.UserMessage(turn.User),
			schema.AssistantMessage(turn.Bot, nil),
		)
	}
	return messages
}
