package cache

import (
	"github.com/coocood/freecache"
	"github.com/rs/zerolog/log"
)

// Cache stores small serialized values.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// Freecache is a Cache backed by a fixed-size freecache ring.
type Freecache struct {
	cache *freecache.Cache
	ttl   int
}

// New returns a freecache-backed Cache of sizeMB megabytes whose entries
// expire after ttlSeconds, or a no-op cache when sizeMB <= 0.
func New(sizeMB, ttlSeconds int) Cache {
	if sizeMB <= 0 {
		log.Info().Msg("cache disabled")
		return noopCache{}
	}
	log.Info().Int("sizeMB", sizeMB).Int("ttl", ttlSeconds).Msg("cache initialized")
	return &Freecache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   ttlSeconds,
	}
}

func (c *Freecache) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *Freecache) Set(key string, value []byte) {
	_ = c.cache.Set([]byte(key), value, c.ttl)
}

type noopCache struct{}

func (noopCache) Get(string) ([]byte, bool) { return nil, false }
func (noopCache) Set(string, []byte)        {}
