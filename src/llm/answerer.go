// Package llm answers questions from retrieved documents with an eino chain.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"career_assistant/src/conversation"
	"career_assistant/src/logger"
	"career_assistant/src/model"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// Answerer runs retrieval-augmented generation over the document index.
// The staged conversation is passed in on every call and never stored.
type Answerer struct {
	retriever     retriever.Retriever
	answerChain   compose.Runnable[map[string]any, *schema.Message]
	condenseChain compose.Runnable[map[string]any, *schema.Message]
}

// NewAnswerer compiles the answer chain. When condense is set, questions
// asked with a non-empty history are first rewritten into a standalone
// question, which is then used for both retrieval and answering.
func NewAnswerer(ctx context.Context, chatModel einomodel.BaseChatModel, docs retriever.Retriever, prompts model.PromptConfig, condense bool) (*Answerer, error) {
	prompts = ResolvePrompts(prompts)
	a := &Answerer{retriever: docs}

	answerChain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendLambda(compose.InvokableLambda(a.attachContext)).
		AppendChatTemplate(createAnswerTemplate(prompts)).
		AppendChatModel(chatModel).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile answer chain: %w", err)
	}
	a.answerChain = answerChain

	if condense {
		condenseChain, err := compose.NewChain[map[string]any, *schema.Message]().
			AppendChatTemplate(createCondenseTemplate(prompts)).
			AppendChatModel(chatModel).
			Compile(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to compile condense chain: %w", err)
		}
		a.condenseChain = condenseChain
	}

	return a, nil
}

// Answer returns the raw model output for question given the staged memory
func (a *Answerer) Answer(ctx context.Context, question string, memory []*schema.Message) (string, error) {
	start := time.Now()

	standalone, err := a.condense(ctx, question, memory)
	if err != nil {
		return "", err
	}

	out, err := a.answerChain.Invoke(ctx, map[string]any{
		KeyQuestion:    standalone,
		KeyChatHistory: memory,
	})
	if err != nil {
		return "", fmt.Errorf("error generating answer: %w", err)
	}

	logger.Debug().
		Int("memory_messages", len(memory)).
		Int("answer_length", len(out.Content)).
		Dur("duration", time.Since(start)).
		Msg("Answer generated")

	return out.Content, nil
}

func (a *Answerer) condense(ctx context.Context, question string, memory []*schema.Message) (string, error) {
	if a.condenseChain == nil || len(memory) == 0 {
		return question, nil
	}

	out, err := a.condenseChain.Invoke(ctx, map[string]any{
		KeyQuestion:    question,
		KeyChatHistory: conversation.Transcript(memory),
	})
	if err != nil {
		return "", fmt.Errorf("error condensing question: %w", err)
	}

	standalone := strings.TrimSpace(out.Content)
	if standalone == "" {
		return question, nil
	}
	logger.Debug().Str("question", question).Str("standalone", standalone).Msg("Question condensed")
	return standalone, nil
}

// attachContext retrieves documents for the question and adds them as the
// context variable
func (a *Answerer) attachContext(ctx context.Context, input map[string]any) (map[string]any, error) {
	question, _ := input[KeyQuestion].(string)

	docs, err := a.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve documents: %w", err)
	}

	output := make(map[string]any, len(input)+1)
	for k, v := range input {
		output[k] = v
	}
	output[KeyContext] = formatDocuments(docs)
	return output, nil
}

func formatDocuments(docs []*schema.Document) string {
	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.Content)
	}
	return strings.Join(contents, "\n\n")
}

// CleanAnswer keeps the text after the last answer marker, trimmed. Output
// without a marker is only trimmed.
func CleanAnswer(raw string) string {
	if i := strings.LastIndex(raw, AnswerMarker); i >= 0 {
		raw = raw[i+len(AnswerMarker):]
	}
	return strings.TrimSpace(raw)
}
