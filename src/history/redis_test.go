package history

import (
	"context"
	"strings"
	"testing"
	"time"

	"career_assistant/pkg"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisStoreTestSuite struct {
	suite.Suite
	ctx    context.Context
	server *miniredis.Miniredis
	store  *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreTestSuite))
}

func (s *RedisStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.server = miniredis.RunT(s.T())

	store, err := NewRedisStore(s.ctx, "redis://"+s.server.Addr(), "chat_history", 0)
	s.Require().NoError(err)
	s.store = store
	s.T().Cleanup(func() { _ = s.store.Close() })
}

func (s *RedisStoreTestSuite) TestKeyLayout() {
	s.Equal("history:chat_history", s.store.Key())
}

func (s *RedisStoreTestSuite) TestLoadMissingKeyIsEmpty() {
	turns, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.NotNil(turns)
	s.Empty(turns)
}

func (s *RedisStoreTestSuite) TestSaveLoadRoundTrip() {
	log := []pkg.Turn{{User: "q1", Bot: "a1"}, {User: "Wo arbeitet Jürgen?", Bot: "In Zürich"}}
	s.Require().NoError(s.store.Save(s.ctx, log))

	raw, err := s.server.Get("history:chat_history")
	s.Require().NoError(err)
	s.JSONEq(`[{"user":"q1","bot":"a1"},{"user":"Wo arbeitet Jürgen?","bot":"In Zürich"}]`, raw)
	s.Equal(time.Duration(0), s.server.TTL("history:chat_history"))

	loaded, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(log, loaded)

	cleared, err := ClearAndSave(s.ctx, s.store)
	s.Require().NoError(err)
	s.Empty(cleared)

	raw, err = s.server.Get("history:chat_history")
	s.Require().NoError(err)
	s.JSONEq(`[]`, raw)
}

func (s *RedisStoreTestSuite) TestSaveAppliesTTL() {
	store := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: s.server.Addr()}), "session", time.Hour)
	defer store.Close()

	s.Require().NoError(store.Save(s.ctx, []pkg.Turn{{User: "q", Bot: "a"}}))
	s.Equal(time.Hour, s.server.TTL("history:session"))
}

func (s *RedisStoreTestSuite) TestCorruptValueIsMovedAside() {
	s.Require().NoError(s.server.Set("history:chat_history", "{bad"))

	turns, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Empty(turns)
	s.False(s.server.Exists("history:chat_history"))

	var quarantined []string
	for _, key := range s.server.Keys() {
		if strings.HasPrefix(key, "history:chat_history.corrupt-") {
			quarantined = append(quarantined, key)
		}
	}
	s.Require().Len(quarantined, 1)
	raw, err := s.server.Get(quarantined[0])
	s.Require().NoError(err)
	s.Equal("{bad", raw)

	// the next turn is written next to the preserved value, not over it
	_, err = AppendAndSave(s.ctx, s.store, turns, pkg.Turn{User: "q", Bot: "a"})
	s.Require().NoError(err)
	raw, err = s.server.Get(quarantined[0])
	s.Require().NoError(err)
	s.Equal("{bad", raw)
}

func (s *RedisStoreTestSuite) TestPeekReportsCorruptionWithoutMoving() {
	s.Require().NoError(s.server.Set("history:chat_history", "{bad"))

	_, err := s.store.Peek(s.ctx)
	s.ErrorIs(err, ErrCorrupt)
	s.True(s.server.Exists("history:chat_history"))
	s.Len(s.server.Keys(), 1)
}

func (s *RedisStoreTestSuite) TestPeekMissingKeyIsEmpty() {
	turns, err := s.store.Peek(s.ctx)
	s.Require().NoError(err)
	s.Empty(turns)
}

func (s *RedisStoreTestSuite) TestNewRedisStoreRequiresURL() {
	_, err := NewRedisStore(s.ctx, "", "chat_history", 0)
	s.ErrorIs(err, ErrNotConfigured)
}
