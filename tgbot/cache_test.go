package tgbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kompas-ai/kompas/api"
)

func Test_cache_per_chat_history(t *testing.T) {
	cache := NewCache()

	sc := cache.Get(1)
	sc.Add(api.NewTextMessage("user", "hello"))
	sc.Add(api.NewTextMessage("assistant", "hi"))

	assert.Equal(t, 2, cache.CountMessages(1))
	assert.Equal(t, 0, cache.CountMessages(2))

	msgs := cache.Get(1).Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Text())
}

func Test_cache_clear(t *testing.T) {
	cache := NewCache()

	cache.Get(7).Add(api.NewTextMessage("user", "hello"))
	require.Equal(t, 1, cache.CountMessages(7))

	cache.Clear(7)
	assert.Equal(t, 0, cache.CountMessages(7))
}
