package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryArchiver keeps exports in memory. It backs local runs without a bucket
// and tests.
type MemoryArchiver struct {
	Prefix string

	mu      sync.Mutex
	objects map[string][]byte
	now     func() time.Time
}

// NewMemoryArchiver creates an empty MemoryArchiver
func NewMemoryArchiver(prefix string) *MemoryArchiver {
	return &MemoryArchiver{
		Prefix:  prefix,
		objects: make(map[string][]byte),
		now:     time.Now,
	}
}

var _ Archiver = (*MemoryArchiver)(nil)

// Archive stores a copy of data
func (m *MemoryArchiver) Archive(_ context.Context, name string, data []byte) (string, error) {
	key, err := ExportKey(m.Prefix, name, m.now())
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return key, nil
}

// Object returns the stored export for key
func (m *MemoryArchiver) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}

// Keys lists stored keys in order
func (m *MemoryArchiver) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
