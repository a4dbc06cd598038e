// Package testutil provides mock host pieces for testing contracts without an engine
package testutil

import (
	"bytes"
	"sync"

	"github.com/govm-net/counter/core"
)

// DefaultContract is the contract address used by MockEnv
const DefaultContract core.Address = "cosmos2contract"

// MockStorage is a map backed core.Storage
type MockStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMockStorage returns an empty MockStorage
func NewMockStorage() *MockStorage {
	return &MockStorage{data: make(map[string][]byte)}
}

func (s *MockStorage) Get(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.data[string(key)]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(value), nil
}

func (s *MockStorage) Set(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[string(key)] = bytes.Clone(value)
	return nil
}

func (s *MockStorage) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, string(key))
	return nil
}

// Len returns the number of stored keys
func (s *MockStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// MockEnv returns an environment at height 12345 for DefaultContract
func MockEnv() core.Env {
	return core.Env{
		Block: core.BlockInfo{
			Height:  12345,
			Time:    1571797419,
			ChainID: "cosmos-testnet-14002",
		},
		Contract: core.ContractInfo{Address: DefaultContract},
	}
}

// MockInfo returns message info for sender
func MockInfo(sender core.Address) core.MessageInfo {
	return core.MessageInfo{Sender: sender}
}
