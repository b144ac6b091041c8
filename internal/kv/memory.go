package kv

import (
	"errors"
	"sync"
)

var errInjected = errors.New("injected failure")

// Memory is an in-process backend. Reads and writes can be made to fail
// to exercise callers' recovery paths.
type Memory struct {
	mu         sync.Mutex
	data       map[string][]byte
	failReads  bool
	failWrites bool
	writes     int
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// FailReads makes every Get return ErrUnavailable while on is true.
func (m *Memory) FailReads(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failReads = on
}

// FailWrites makes every Set and Remove return ErrUnavailable while on is true.
func (m *Memory) FailWrites(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = on
}

// Writes returns the number of successful Set calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *Memory) Get(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return nil, unavailable("read", key, errInjected)
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return unavailable("write", key, errInjected)
	}
	m.data[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

func (m *Memory) Remove(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return unavailable("remove", key, errInjected)
	}
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
