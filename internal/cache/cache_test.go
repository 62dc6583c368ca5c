package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreecache_SetGet(t *testing.T) {
	c := New(1, 60)
	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("today:2025-01-01", []byte(`{"gameNumber":1}`))
	v, ok := c.Get("today:2025-01-01")
	assert.True(t, ok)
	assert.Equal(t, `{"gameNumber":1}`, string(v))
}

func TestNew_DisabledIsNoop(t *testing.T) {
	c := New(0, 60)
	c.Set("k", []byte("v"))
	_, ok := c.Get("k")
	assert.False(t, ok)
}
