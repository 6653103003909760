// Package cache memoizes language model verdicts keyed by prompt content.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Store holds serialized values by key.
type Store interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte)
}

// Key hashes the given parts into a stable cache key.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Memory is a process-local Store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
	hits    int
	misses  int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		m.misses++
		return nil, false
	}
	m.hits++
	return append([]byte(nil), v...), true
}

// Put stores a copy of value under key.
func (m *Memory) Put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]byte(nil), value...)
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Stats returns hit and miss counts since creation.
func (m *Memory) Stats() (hits, misses int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits, m.misses
}
