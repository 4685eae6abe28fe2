package testutil

import "sync"

// MemStorage is an in-memory apiclient.Storage.
type MemStorage struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemStorage(seed map[string]string) *MemStorage {
	items := make(map[string]string, len(seed))
	for k, v := range seed {
		items[k] = v
	}
	return &MemStorage{items: items}
}

func (m *MemStorage) GetItem(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *MemStorage) SetItem(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func (m *MemStorage) RemoveItem(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

func (m *MemStorage) Has(key string) bool {
	_, ok := m.GetItem(key)
	return ok
}

// Navigator records requested navigations.
type Navigator struct {
	mu    sync.Mutex
	Paths []string
}

func (n *Navigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Paths = append(n.Paths, path)
}
