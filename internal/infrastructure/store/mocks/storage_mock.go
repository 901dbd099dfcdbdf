package mocks

import (
	"context"
	"sync"
)

// MockStorage is a mock implementation of store.Storage for testing
type MockStorage struct {
	mu   sync.RWMutex
	data map[string][]byte

	// For tracking calls in tests
	SetCalls    []SetCall
	GetCalls    []string
	DeleteCalls []string

	// Errors returned by the next calls when set
	GetErr    error
	SetErr    error
	DeleteErr error
}

// SetCall records parameters passed to Set
type SetCall struct {
	Key   string
	Value []byte
}

// NewMockStorage creates a new MockStorage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		data:        make(map[string][]byte),
		SetCalls:    make([]SetCall, 0),
		GetCalls:    make([]string, 0),
		DeleteCalls: make([]string, 0),
	}
}

// Get retrieves a value by key
func (m *MockStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, key)
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	value, ok := m.data[key]
	return value, ok, nil
}

// Set stores a value
func (m *MockStorage) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: append([]byte(nil), value...)})
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes a value
func (m *MockStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, key)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.data, key)
	return nil
}

// SetData seeds a value directly for testing
func (m *MockStorage) SetData(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Data returns the stored value for assertions
func (m *MockStorage) Data(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok
}

// LastSet returns the most recent Set call for key
func (m *MockStorage) LastSet(key string) (SetCall, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.SetCalls) - 1; i >= 0; i-- {
		if m.SetCalls[i].Key == key {
			return m.SetCalls[i], true
		}
	}
	return SetCall{}, false
}

// Reset clears all data and recorded calls
func (m *MockStorage) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	m.SetCalls = make([]SetCall, 0)
	m.GetCalls = make([]string, 0)
	m.DeleteCalls = make([]string, 0)
	m.GetErr = nil
	m.SetErr = nil
	m.DeleteErr = nil
}
