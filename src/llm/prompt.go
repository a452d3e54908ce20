package llm

import (
	"career_assistant/src/model"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// Template variables
const (
	KeyContext     = "context"
	KeyQuestion    = "question"
	KeyChatHistory = "chat_history"
)

// AnswerMarker is the cue the question template ends with. Completion style
// models often echo the prompt up to and including it.
const AnswerMarker = "Helpful Answer:"

func getSystemTemplate() string {
	return `Use the following pieces of context to answer the question at the end.
If you don't know the answer, just say that you don't know.
Keep the answer concise. Avoid follow-up questions. Always say 'thanks for asking!' at the end.
{context}`
}

func getQuestionTemplate() string {
	return `Question: {question}
` + AnswerMarker
}

func getCondenseTemplate() string {
	return `Given the following conversation and a follow up question, rephrase the follow up question to be a standalone question, in its original language.

Chat History:
{chat_history}
Follow Up Input: {question}
Standalone question:`
}

// ResolvePrompts fills every empty field of cfg with the built-in template
func ResolvePrompts(cfg model.PromptConfig) model.PromptConfig {
	if cfg.System == "" {
		cfg.System = getSystemTemplate()
	}
	if cfg.Question == "" {
		cfg.Question = getQuestionTemplate()
	}
	if cfg.Condense == "" {
		cfg.Condense = getCondenseTemplate()
	}
	return cfg
}

// createAnswerTemplate renders the retrieved context into the system message,
// replays the staged turns and asks the question last
func createAnswerTemplate(prompts model.PromptConfig) prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(prompts.System),
		schema.MessagesPlaceholder(KeyChatHistory, true),
		schema.UserMessage(prompts.Question),
	)
}

func createCondenseTemplate(prompts model.PromptConfig) prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.UserMessage(prompts.Condense),
	)
}
