//go:build integration

package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avbot/api/internal/cache"
	"avbot/api/internal/testutil/containers"
)

func TestRedisQueue(t *testing.T) {
	ctx := context.Background()
	client, err := cache.Connect(ctx, containers.Redis(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	q := NewRedisQueue(client, "test:jobs")
	require.NoError(t, q.Push(ctx, Job{ID: "a", QueryID: 1}))
	require.NoError(t, q.Push(ctx, Job{ID: "b", QueryID: 2, Edit: true}))

	first, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", first.ID)

	second, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", second.ID)
	assert.True(t, second.Edit)

	require.NoError(t, client.LPush(ctx, "test:jobs", "{not json").Err())
	_, err = q.Pop(ctx)
	assert.ErrorIs(t, err, ErrMalformedJob)

	pctx, cancel := context.WithTimeout(ctx, 1500*time.Millisecond)
	defer cancel()
	_, err = q.Pop(pctx)
	assert.Error(t, err)

	require.NoError(t, q.Close())
	_, err = q.Pop(ctx)
	assert.ErrorIs(t, err, ErrQueueClosed)
	assert.ErrorIs(t, q.Push(ctx, Job{}), ErrQueueClosed)
}
