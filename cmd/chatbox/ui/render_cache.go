package ui

import (
	"encoding/binary"
	"hash/fnv"
	"sync"
)

// RenderCache memoizes rendered output (markdown replies mostly) keyed by a
// hash of whatever the rendering depended on.
type RenderCache struct {
	mu      sync.Mutex
	entries map[uint64]string
	maxSize int
}

// NewRenderCache creates a new render cache holding at most maxSize entries.
func NewRenderCache(maxSize int) *RenderCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &RenderCache{
		entries: make(map[uint64]string),
		maxSize: maxSize,
	}
}

// ComputeKey generates a cache key from strings, ints and bools.
// Other types are ignored.
func ComputeKey(inputs ...interface{}) uint64 {
	h := fnv.New64a()
	var b [8]byte

	for _, input := range inputs {
		switch v := input.(type) {
		case string:
			binary.LittleEndian.PutUint64(b[:], uint64(len(v)))
			h.Write(b[:])
			h.Write([]byte(v))
		case int:
			binary.LittleEndian.PutUint64(b[:], uint64(v))
			h.Write(b[:])
		case bool:
			if v {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}

	return h.Sum64()
}

// Get retrieves cached content if available.
func (rc *RenderCache) Get(key uint64) (string, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	content, ok := rc.entries[key]
	return content, ok
}

// Set stores rendered content. A full cache is emptied first.
func (rc *RenderCache) Set(key uint64, content string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if _, exists := rc.entries[key]; !exists && len(rc.entries) >= rc.maxSize {
		rc.entries = make(map[uint64]string)
	}
	rc.entries[key] = content
}

// Len returns the number of cached entries.
func (rc *RenderCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries)
}

// GetOrCompute retrieves from cache or computes if missing.
func (rc *RenderCache) GetOrCompute(key uint64, compute func() string) string {
	if content, ok := rc.Get(key); ok {
		return content
	}

	content := compute()
	rc.Set(key, content)
	return content
}
