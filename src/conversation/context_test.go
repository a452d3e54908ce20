package conversation

import (
	"context"
	"errors"
	"testing"

	"career_assistant/pkg"
	"career_assistant/src/vectorstore"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	turns []pkg.Turn
	err   error
	gotK  int
	calls int
}

func (s *stubSearcher) Search(ctx context.Context, index *vectorstore.Store, query string, k int) ([]pkg.Turn, error) {
	s.calls++
	s.gotK = k
	if s.err != nil {
		return nil, s.err
	}
	if len(s.turns) > k {
		return s.turns[:k], nil
	}
	return s.turns, nil
}

func TestStageWithoutIndexIsEmpty(t *testing.T) {
	searcher := &stubSearcher{turns: []pkg.Turn{{User: "q", Bot: "a"}}}
	builder := NewContextBuilder(searcher, 3)

	staged, err := builder.Stage(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Empty(t, staged)
	assert.Equal(t, 0, searcher.calls)
}

func TestStageFiltersIncompleteTurnsAndKeepsOrder(t *testing.T) {
	searcher := &stubSearcher{turns: []pkg.Turn{
		{User: "second best", Bot: "b"},
		{User: "", Bot: "orphan answer"},
		{User: "best", Bot: "a"},
	}}
	builder := NewContextBuilder(searcher, 3)

	staged, err := builder.Stage(context.Background(), "q", &vectorstore.Store{})
	require.NoError(t, err)
	assert.Equal(t, 3, searcher.gotK)
	assert.Equal(t, []pkg.Turn{
		{User: "second best", Bot: "b"},
		{User: "best", Bot: "a"},
	}, staged)
}

func TestStageIsFreshPerCall(t *testing.T) {
	searcher := &stubSearcher{turns: []pkg.Turn{{User: "q1", Bot: "a1"}}}
	builder := NewContextBuilder(searcher, 3)

	first, err := builder.Stage(context.Background(), "q", &vectorstore.Store{})
	require.NoError(t, err)
	assert.Len(t, first, 1)

	searcher.turns = []pkg.Turn{{User: "q2", Bot: "a2"}}
	second, err := builder.Stage(context.Background(), "q", &vectorstore.Store{})
	require.NoError(t, err)
	assert.Equal(t, []pkg.Turn{{User: "q2", Bot: "a2"}}, second)
}

func TestStagePropagatesSearchErrors(t *testing.T) {
	boom := errors.New("embedding service down")
	builder := NewContextBuilder(&stubSearcher{err: boom}, 3)

	_, err := builder.Stage(context.Background(), "q", &vectorstore.Store{})
	assert.ErrorIs(t, err, boom)
}

func TestNewContextBuilderDefaultsMaxTurns(t *testing.T) {
	searcher := &stubSearcher{}
	builder := NewContextBuilder(searcher, 0)

	_, err := builder.Stage(context.Background(), "q", &vectorstore.Store{})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTurns, searcher.gotK)
}

func TestMessagesAlternate(t *testing.T) {
	messages := Messages([]pkg.Turn{
		{User: "q1", Bot: "a1"},
		{User: "q2", Bot: "a2"},
	})

	require.Len(t, messages, 4)
	assert.Equal(t, schema.User, messages[0].Role)
	assert.Equal(t, "q1", messages[0].Content)
	assert.Equal(t, schema.Assistant, messages[1].Role)
	assert.Equal(t, "a1", messages[1].Content)
	assert.Equal(t, schema.User, messages[2].Role)
	assert.Equal(t, schema.Assistant, messages[3].Role)

	assert.Empty(t, Messages(nil))
}

func TestTranscript(t *testing.T) {
	transcript := Transcript([]*schema.Message{
		schema.SystemMessage("ignored"),
		schema.UserMessage("Where do you work?"),
		schema.AssistantMessage("At Acme.", nil),
	})
	assert.Equal(t, "Human: Where do you work?\nAssistant: At Acme.", transcript)
}
