// Package cifcache provides a bounded LRU cache for name normalization,
// grounded on ssh_agent.go's `lru.New(size)` usage of
// github.com/hashicorp/golang-lru.
package cifcache

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/jbcif/cif/normalize"
)

// defaultSize bounds each cache; large loop-heavy documents repeat the
// same column/category spellings across thousands of packets, so a
// modest cache absorbs most of the renormalization cost.
const defaultSize = 4096

// NameCache memoizes normalize.Name results keyed by the un-normalized
// original spelling and CIF version, so repeated lookups of the same
// item/category/block spelling in a large document skip renormalization.
type NameCache struct {
	cache *lru.Cache
}

type nameKey struct {
	text    string
	version normalize.Version
}

// NewNameCache creates a NameCache bounded to size entries (defaultSize
// when size <= 0).
func NewNameCache(size int) (*NameCache, error) {
	if size <= 0 {
		size = defaultSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &NameCache{cache: c}, nil
}

// Name returns normalize.Name(text, version), serving from cache when
// possible.
func (nc *NameCache) Name(text string, version normalize.Version) (string, error) {
	key := nameKey{text, version}
	if v, ok := nc.cache.Get(key); ok {
		entry := v.(cachedName)
		return entry.norm, entry.err
	}
	norm, err := normalize.Name(text, version)
	nc.cache.Add(key, cachedName{norm: norm, err: err})
	return norm, err
}

type cachedName struct {
	norm string
	err  error
}

// Len reports the number of cached entries.
func (nc *NameCache) Len() int { return nc.cache.Len() }

// Purge empties the cache.
func (nc *NameCache) Purge() { nc.cache.Purge() }
