//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"avbot/api/internal/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	store *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	client, err := Connect(context.Background(), containers.Redis(s.T()))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = client.Close() })
	s.store = NewRedisStore(client, WithPrefix("test:"))
}

func (s *RedisStoreSuite) TestGetAfterSet() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "k", []byte("v"), time.Minute))

	got, ok, err := s.store.Get(ctx, "k")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]byte("v"), got)
}

func (s *RedisStoreSuite) TestMissIsNotAnError() {
	_, ok, err := s.store.Get(context.Background(), "absent")
	s.NoError(err)
	s.False(ok)
}

func (s *RedisStoreSuite) TestExpiry() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "short", []byte("v"), time.Second))
	s.Eventually(func() bool {
		_, ok, err := s.store.Get(ctx, "short")
		return err == nil && !ok
	}, 5*time.Second, 100*time.Millisecond)
}
