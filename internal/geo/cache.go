package geo

import (
	"strings"
	"sync"
)

// Result is the outcome of a postal-code lookup. Found is false when the
// provider has no entry for the code.
type Result struct {
	Coordinates *Coordinates
	Found       bool
}

// Cache memoizes lookup results for the lifetime of a processing run. It is
// scoped per run and passed explicitly, so test runs stay isolated. Writes are
// first-writer-wins, which keeps concurrent population safe.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Result
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]Result)}
}

func (c *Cache) Get(code string) (Result, bool) {
	if c == nil {
		return Result{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[normalizeCode(code)]
	return res, ok
}

func (c *Cache) Set(code string, res Result) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := normalizeCode(code)
	if _, ok := c.entries[key]; ok {
		return
	}
	c.entries[key] = res
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func normalizeCode(code string) string {
	return strings.TrimSpace(code)
}
