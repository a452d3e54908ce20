package pkg

// Core types shared by the assistant pipeline

// Turn is one user query paired with the answer it produced.
// Turns are ordered by append order only.
type Turn struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

// Complete reports whether both sides of the turn carry text
func (t Turn) Complete() bool {
	return t.User != "" && t.Bot != ""
}

// AnswerResult holds the model output before and after prompt-echo removal
type AnswerResult struct {
	Raw     string `json:"raw"`
	Cleaned string `json:"cleaned"`
}

// ConversationMessage represents a message in a rendered transcript
type ConversationMessage struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}
