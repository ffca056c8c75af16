package tmdb

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const cacheCleanupInterval = 10 * time.Minute

// cache holds decoded details and genre lists keyed by request.
type cache struct {
	c *gocache.Cache
}

func newCache(ttl time.Duration) *cache {
	return &cache{c: gocache.New(ttl, cacheCleanupInterval)}
}

func detailsKey(mt MediaType, id string) string { return "details:" + string(mt) + ":" + id }

func genresKey(mt MediaType) string { return "genres:" + string(mt) }

func (c *cache) details(mt MediaType, id string) (*Details, bool) {
	v, ok := c.c.Get(detailsKey(mt, id))
	if !ok {
		return nil, false
	}
	return v.(*Details), true
}

func (c *cache) setDetails(mt MediaType, id string, d *Details) {
	c.c.Set(detailsKey(mt, id), d, gocache.DefaultExpiration)
}

func (c *cache) genres(mt MediaType) ([]Genre, bool) {
	v, ok := c.c.Get(genresKey(mt))
	if !ok {
		return nil, false
	}
	return v.([]Genre), true
}

func (c *cache) setGenres(mt MediaType, g []Genre) {
	c.c.Set(genresKey(mt), g, gocache.DefaultExpiration)
}
