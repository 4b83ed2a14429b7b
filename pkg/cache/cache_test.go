package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NilClientIsNoop(t *testing.T) {
	c := New(nil, "eventify")

	_, ok := c.(Noop)
	require.True(t, ok)

	require.NoError(t, c.SetJSON(context.Background(), "k", map[string]int{"a": 1}, time.Minute))

	var dst map[string]int
	found, err := c.GetJSON(context.Background(), "k", &dst)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Delete(context.Background(), "k"))
}

func TestRedisCache_KeyPrefix(t *testing.T) {
	c := &RedisCache{prefix: "eventify"}
	assert.Equal(t, "eventify:events:published", c.key("events:published"))

	c.prefix = ""
	assert.Equal(t, "events:published", c.key("events:published"))
}

func TestRedisCache_UnreachableServerReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := New(client, "eventify")

	var dst []string
	found, err := c.GetJSON(context.Background(), "events:published", &dst)
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, c.SetJSON(context.Background(), "events:published", []string{"a"}, time.Minute))
}
