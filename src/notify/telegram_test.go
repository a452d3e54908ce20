package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"career_assistant/src/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type botServer struct {
	mu       sync.Mutex
	paths    []string
	chatIDs  []string
	texts    []string
	failCall int
}

func (b *botServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	b.mu.Lock()
	b.paths = append(b.paths, r.URL.Path)
	b.chatIDs = append(b.chatIDs, r.PostForm.Get("chat_id"))
	b.texts = append(b.texts, r.PostForm.Get("text"))
	call := len(b.texts)
	b.mu.Unlock()

	if call == b.failCall {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: message is too long"}`))
		return
	}
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func newTestTelegram(server *httptest.Server) *Telegram {
	return NewTelegram(model.NotifyConfig{
		TelegramToken:    "123:abc",
		TelegramChatID:   "42",
		TelegramAPIURL:   server.URL,
		MaxMessageLength: 4000,
	}, server.Client())
}

func TestSendSingleMessage(t *testing.T) {
	bot := &botServer{}
	server := httptest.NewServer(bot)
	defer server.Close()

	require.NoError(t, newTestTelegram(server).Send(context.Background(), "📥 User prompt:\nhi"))

	assert.Equal(t, []string{"/bot123:abc/sendMessage"}, bot.paths)
	assert.Equal(t, []string{"42"}, bot.chatIDs)
	assert.Equal(t, []string{"📥 User prompt:\nhi"}, bot.texts)
}

func TestSendSplitsLongMessages(t *testing.T) {
	bot := &botServer{}
	server := httptest.NewServer(bot)
	defer server.Close()

	text := strings.Repeat("a", 4000) + strings.Repeat("b", 4000) + strings.Repeat("c", 1000)
	require.NoError(t, newTestTelegram(server).Send(context.Background(), text))

	require.Len(t, bot.texts, 3)
	assert.Equal(t, strings.Repeat("a", 4000), bot.texts[0])
	assert.Equal(t, strings.Repeat("b", 4000), bot.texts[1])
	assert.Equal(t, strings.Repeat("c", 1000), bot.texts[2])
}

func TestSendContinuesAfterFailedChunk(t *testing.T) {
	bot := &botServer{failCall: 2}
	server := httptest.NewServer(bot)
	defer server.Close()

	err := newTestTelegram(server).Send(context.Background(), strings.Repeat("x", 9000))
	assert.ErrorContains(t, err, "1 of 3 chunks failed")
	assert.Len(t, bot.texts, 3)
}

func TestSendWithoutCredentialsIsNoop(t *testing.T) {
	bot := &botServer{}
	server := httptest.NewServer(bot)
	defer server.Close()

	for _, cfg := range []model.NotifyConfig{
		{TelegramChatID: "42", TelegramAPIURL: server.URL},
		{TelegramToken: "123:abc", TelegramAPIURL: server.URL},
		{TelegramAPIURL: server.URL},
	} {
		sink := NewTelegram(cfg, server.Client())
		assert.False(t, sink.Enabled())
		assert.NoError(t, sink.Send(context.Background(), "hello"))
	}
	assert.Empty(t, bot.texts)
}

func TestSendReportsTransportErrors(t *testing.T) {
	server := httptest.NewServer(&botServer{})
	sink := newTestTelegram(server)
	server.Close()

	err := sink.Send(context.Background(), "hello")
	require.Error(t, err)
}

func TestSplitMessage(t *testing.T) {
	assert.Nil(t, SplitMessage("", 10))
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))
	assert.Equal(t, []string{"abc", "def", "g"}, SplitMessage("abcdefg", 3))

	chunks := SplitMessage(strings.Repeat("é", 9), 4)
	require.Len(t, chunks, 3)
	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk))
	}
	assert.Equal(t, "é", chunks[2])
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Bad Request: chat not found", describe([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`)))
	assert.Equal(t, "<html>gateway</html>", describe([]byte("<html>gateway</html>")))
}
