package conversation

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Transcript flattens messages into "Human:"/"Assistant:" lines for prompts
// that take the history as plain text
func Transcript(messages []*schema.Message) string {
	var builder strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case schema.User:
			builder.WriteString("Human: " + msg.Content + "\n")
		case schema.Assistant:
			builder.WriteString("Assistant: " + msg.Content + "\n")
		}
	}
	return strings.TrimSuffix(builder.String(), "\n")
}
