package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is an in-process Store used in tests and as a fallback when
// no Redis is configured. Expiry is checked lazily on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (ms *MemoryStore) Get(_ context.Context, key string) (string, error) {
	ms.mu.RLock()
	entry, ok := ms.entries[key]
	ms.mu.RUnlock()

	if !ok {
		return "", nil
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		ms.mu.Lock()
		delete(ms.entries, key)
		ms.mu.Unlock()
		return "", nil
	}

	return entry.value, nil
}

func (ms *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode cache value: %w", err)
		}
		raw = string(data)
	}

	entry := memoryEntry{value: raw}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	ms.mu.Lock()
	ms.entries[key] = entry
	ms.mu.Unlock()
	return nil
}

func (ms *MemoryStore) Delete(_ context.Context, keys ...string) error {
	ms.mu.Lock()
	for _, key := range keys {
		delete(ms.entries, key)
	}
	ms.mu.Unlock()
	return nil
}

func (ms *MemoryStore) DeletePattern(_ context.Context, pattern string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for key := range ms.entries {
		if matchGlob(pattern, key) {
			delete(ms.entries, key)
		}
	}
	return nil
}

// matchGlob matches a key against a Redis-style glob: * spans any run of
// characters, including separators like / and :, and ? matches exactly one.
func matchGlob(pattern, s string) bool {
	p, k := 0, 0
	starP, starK := -1, 0

	for k < len(s) {
		switch {
		case p < len(pattern) && (pattern[p] == '?' || pattern[p] == s[k]):
			p++
			k++
		case p < len(pattern) && pattern[p] == '*':
			starP, starK = p, k
			p++
		case starP >= 0:
			starK++
			p, k = starP+1, starK
		default:
			return false
		}
	}

	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}

func (ms *MemoryStore) Increment(_ context.Context, key string, ttl time.Duration) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	entry, ok := ms.entries[key]
	if ok && !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		ok = false
	}

	count := 1
	if ok {
		if _, err := fmt.Sscanf(entry.value, "%d", &count); err != nil {
			return 0, fmt.Errorf("counter key %q holds a non-integer value", key)
		}
		count++
		entry.value = fmt.Sprintf("%d", count)
	} else {
		entry = memoryEntry{value: "1"}
		if ttl > 0 {
			entry.expiresAt = time.Now().Add(ttl)
		}
	}

	ms.entries[key] = entry
	return count, nil
}

func (ms *MemoryStore) Ping(context.Context) error {
	return nil
}

func (ms *MemoryStore) Close() error {
	return nil
}

// Len reports the number of live entries, expired ones included until read.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.entries)
}
