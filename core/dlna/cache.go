package dlna

import (
	"sync"

	"melisma/metrics"
)

// folderCache memoizes expensive listing queries per named region. Regions
// are invalidated whole, never per key. Concurrent misses on one key share
// a single compute; unrelated keys and regions never contend.
type folderCache struct {
	mu      sync.Mutex
	regions map[string]*cacheRegion
}

type cacheRegion struct {
	mu       sync.Mutex
	entries  map[string]interface{}
	inflight map[string]*inflightCall
}

type inflightCall struct {
	done chan struct{}
	val  interface{}
	err  error
}

func newFolderCache() *folderCache {
	return &folderCache{regions: make(map[string]*cacheRegion)}
}

func (c *folderCache) region(name string) *cacheRegion {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.regions[name]
	if !ok {
		r = &cacheRegion{
			entries:  make(map[string]interface{}),
			inflight: make(map[string]*inflightCall),
		}
		c.regions[name] = r
	}
	return r
}

// Get returns the cached value for key in region, computing and storing it
// on a miss. Compute errors are returned to every waiter and never cached.
func (c *folderCache) Get(region, key string, compute func() (interface{}, error)) (interface{}, error) {
	r := c.region(region)

	r.mu.Lock()
	if v, ok := r.entries[key]; ok {
		r.mu.Unlock()
		metrics.FolderCacheHits.WithLabelValues(region).Inc()
		return v, nil
	}
	if call, ok := r.inflight[key]; ok {
		r.mu.Unlock()
		<-call.done
		return call.val, call.err
	}
	call := &inflightCall{done: make(chan struct{})}
	r.inflight[key] = call
	r.mu.Unlock()

	metrics.FolderCacheMisses.WithLabelValues(region).Inc()
	call.val, call.err = compute()

	r.mu.Lock()
	delete(r.inflight, key)
	if call.err == nil {
		r.entries[key] = call.val
	}
	r.mu.Unlock()
	close(call.done)

	return call.val, call.err
}

// ClearRegion drops every entry in one region.
func (c *folderCache) ClearRegion(name string) {
	c.mu.Lock()
	r, ok := c.regions[name]
	c.mu.Unlock()
	if !ok {
		return
	}
	r.mu.Lock()
	r.entries = make(map[string]interface{})
	r.mu.Unlock()
}

// Clear drops every region.
func (c *folderCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regions = make(map[string]*cacheRegion)
}
