package registry

import (
	"context"
	"errors"
	"sync"
)

// StorageKey 為 snapshot 在各 backend 中使用的固定 key
const StorageKey = "userDataStorage"

// ErrSnapshotNotFound 由 Persister.Load 在尚無資料時回傳
var ErrSnapshotNotFound = errors.New("registry snapshot not found")

// Persister 為 snapshot 的 key-value 持久層
type Persister interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// MemoryPersister 僅存在於行程內，供測試與 dry-run 使用
type MemoryPersister struct {
	mu    sync.RWMutex
	data  map[string][]byte
	saves int
	err   error
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{data: make(map[string][]byte)}
}

func (m *MemoryPersister) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[key]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *MemoryPersister) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = append([]byte(nil), data...)
	m.saves++
	return nil
}

// FailWith 讓之後的 Save 回傳 err（nil 代表恢復正常）
func (m *MemoryPersister) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Saves 回傳成功寫入次數
func (m *MemoryPersister) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Put 直接寫入原始資料（模擬既有或損毀的 snapshot）
func (m *MemoryPersister) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
}
