package members

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
)

// CacheKey identifies a cached table. Trust must be comparable.
type CacheKey struct {
	Type  hosttype.Type
	Trust TrustContext
}

// Store holds published tables. Implementations must be safe for concurrent use.
type Store interface {
	Load(key CacheKey) (*Table, bool)
	Store(key CacheKey, table *Table)
	Reset()
	Len() int
}

// MapStore is an unbounded Store backed by sync.Map.
type MapStore struct {
	m sync.Map
}

// NewMapStore returns an empty MapStore.
func NewMapStore() *MapStore { return &MapStore{} }

func (s *MapStore) Load(key CacheKey) (*Table, bool) {
	v, ok := s.m.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*Table), true
}

func (s *MapStore) Store(key CacheKey, table *Table) { s.m.Store(key, table) }

func (s *MapStore) Reset() { s.m.Clear() }

func (s *MapStore) Len() int {
	n := 0
	s.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// LRUStore is a bounded Store that evicts the least recently used table.
type LRUStore struct {
	c *lru.Cache
}

// NewLRUStore returns a store holding at most size tables.
func NewLRUStore(size int) (*LRUStore, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU store: %w", err)
	}
	return &LRUStore{c: c}, nil
}

func (s *LRUStore) Load(key CacheKey) (*Table, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*Table), true
}

func (s *LRUStore) Store(key CacheKey, table *Table) { s.c.Add(key, table) }

func (s *LRUStore) Reset() { s.c.Purge() }

func (s *LRUStore) Len() int { return s.c.Len() }

// Cache builds and shares member tables per (type, trust context).
//
// Lookups are lock-free: two goroutines missing the same key both build, and
// the last publication wins. Tables are never mutated after publication, so
// either result is equivalent.
type Cache struct {
	builder *Builder
	store   Store
	root    hosttype.Type
	logger  *zap.Logger
	enabled atomic.Bool
}

// NewCache returns a cache building tables with opts.
func NewCache(opts Options) *Cache {
	b := NewBuilder(opts)
	c := &Cache{
		builder: b,
		store:   b.opts.Store,
		root:    b.opts.RootType,
		logger:  b.opts.Logger,
	}
	c.enabled.Store(!opts.CachingDisabled)
	return c
}

// Builder returns the builder used on cache misses.
func (c *Cache) Builder() *Builder { return c.builder }

// Lookup returns the table for dynamicType under trust. staticType is the
// declared type known to the caller, or nil.
//
// When the host denies reflective access to dynamicType, Lookup retries with
// staticType if it is an interface (once), then walks the superclass chain,
// and for interfaces finally tries the root type. The table found is also
// published under dynamicType.
func (c *Cache) Lookup(dynamicType, staticType hosttype.Type, trust TrustContext) (*Table, error) {
	t := dynamicType
	for {
		if table, ok := c.store.Load(CacheKey{Type: t, Trust: trust}); ok {
			c.logger.Debug("member table cache hit", zap.String("type", t.Name()))
			if t != dynamicType {
				c.publish(CacheKey{Type: dynamicType, Trust: trust}, table)
			}
			return table, nil
		}
		c.logger.Debug("member table cache miss", zap.String("type", t.Name()))

		table, err := c.builder.Build(t)
		if err == nil {
			c.publish(CacheKey{Type: t, Trust: trust}, table)
			if t != dynamicType {
				c.publish(CacheKey{Type: dynamicType, Trust: trust}, table)
			}
			return table, nil
		}
		if !errors.Is(err, hosttype.ErrAccessDenied) {
			return nil, err
		}

		next := c.fallback(t, staticType)
		if next == nil {
			return nil, err
		}
		if next == staticType {
			staticType = nil
		}
		c.logger.Debug("reflective access denied, retrying with ancestor",
			zap.String("type", t.Name()),
			zap.String("next", next.Name()),
		)
		t = next
	}
}

// fallback picks the next type to try after access to t was denied.
func (c *Cache) fallback(t, staticType hosttype.Type) hosttype.Type {
	if staticType != nil && staticType.IsInterface() {
		return staticType
	}
	if s := t.Super(); s != nil {
		return s
	}
	if t.IsInterface() && c.root != nil && t != c.root {
		return c.root
	}
	return nil
}

func (c *Cache) publish(key CacheKey, table *Table) {
	if !c.enabled.Load() {
		return
	}
	c.store.Store(key, table)
}

// Reset discards every cached table.
func (c *Cache) Reset() { c.store.Reset() }

// Len returns the number of cached entries.
func (c *Cache) Len() int { return c.store.Len() }

// CachingEnabled reports whether built tables are published.
func (c *Cache) CachingEnabled() bool { return c.enabled.Load() }

// SetCachingEnabled turns publication on or off. Disabling discards every
// cached table.
func (c *Cache) SetCachingEnabled(enabled bool) {
	if c.enabled.Swap(enabled) && !enabled {
		c.store.Reset()
	}
}

var (
	defaultMu    sync.Mutex
	defaultCache *Cache
)

// Default returns the process-wide cache, creating it with zero Options on
// first use.
func Default() *Cache {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultCache == nil {
		defaultCache = NewCache(Options{})
	}
	return defaultCache
}

// SetDefault replaces the process-wide cache.
func SetDefault(c *Cache) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCache = c
}

// ResetDefault discards the process-wide cache (used for testing).
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCache = nil
}
