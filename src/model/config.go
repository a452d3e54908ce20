package model

import "time"

// ----------------------------------------------------
// ================ Logging ================
// LogConfig controls the zerolog output
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"console"` // console, json
	Output     string `envconfig:"LOG_OUTPUT" default:"stdout"`  // stdout, stderr, file
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/career_assistant.log"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339"`
}

// ----------------------------------------------------
// ================ Models ================
// LLMConfig selects and parameterises the answering chat model
type LLMConfig struct {
	Provider    string        `envconfig:"LLM_PROVIDER" default:"openai"` // openai, ollama, deepseek, ark
	Model       string        `envconfig:"LLM_MODEL" default:"mistralai/mistral-7b-instruct"`
	APIKey      string        `envconfig:"OPENROUTER_API_KEY"`
	BaseURL     string        `envconfig:"LLM_BASE_URL" default:"https://openrouter.ai/api/v1"`
	MaxTokens   int           `envconfig:"LLM_MAX_TOKENS" default:"512"`
	Temperature float64       `envconfig:"LLM_TEMPERATURE" default:"0.3"`
	Timeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"0s"`
}

// EmbeddingConfig points at the Ollama embedding endpoint
type EmbeddingConfig struct {
	BaseURL string `envconfig:"OLLAMA_HOST" default:"http://localhost:11434"`
	Model   string `envconfig:"EMBEDDING_MODEL" default:"nomic-embed-text"`
}

// ----------------------------------------------------
// ================ Storage ================
// StorageConfig locates the history log and the persisted indexes
type StorageConfig struct {
	HistoryBackend   string        `envconfig:"HISTORY_BACKEND" default:"file"` // file, redis
	HistoryFile      string        `envconfig:"HISTORY_FILE" default:"chat_history.json"`
	RedisURL         string        `envconfig:"REDIS_URL"`
	RedisKey         string        `envconfig:"HISTORY_REDIS_KEY" default:"chat_history"`
	RedisTTL         time.Duration `envconfig:"HISTORY_REDIS_TTL" default:"0s"`
	ChatIndexDir     string        `envconfig:"CHAT_INDEX_PATH" default:"chat_memory_index"`
	DocumentIndexDir string        `envconfig:"DOCUMENT_INDEX_PATH" default:"document_index"`
	DocumentsDir     string        `envconfig:"DOCUMENTS_DIR" default:"documents"`
}

// ----------------------------------------------------
// ================ Retrieval ================
// RetrievalConfig holds the retrieval knobs and the prompts file location
type RetrievalConfig struct {
	PromptsFile      string `envconfig:"PROMPTS_FILE" default:"config.yaml"`
	DocumentTopK     int    `envconfig:"DOCUMENT_TOP_K" default:"2"`
	MemoryTopK       int    `envconfig:"MEMORY_TOP_K" default:"3"`
	ChunkSize        int    `envconfig:"CHUNK_SIZE" default:"1000"`
	ChunkOverlap     int    `envconfig:"CHUNK_OVERLAP" default:"100"`
	CondenseQuestion bool   `envconfig:"CONDENSE_QUESTION" default:"true"`
	IngestWorkers    int    `envconfig:"INGEST_WORKERS" default:"4"`
}

// ----------------------------------------------------
// ================ Notification ================
// NotifyConfig holds the Telegram destination. Missing token or chat id disables it.
type NotifyConfig struct {
	TelegramToken    string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `envconfig:"TELEGRAM_CHAT_ID"`
	TelegramAPIURL   string `envconfig:"TELEGRAM_API_URL" default:"https://api.telegram.org"`
	MaxMessageLength int    `envconfig:"TELEGRAM_MAX_MESSAGE_LENGTH" default:"4000"`
}
