// Package cache buffers the writes of a single invocation on top of a
// backend so they can be committed atomically or thrown away.
package cache

import (
	"errors"
	"sort"

	"github.com/govm-net/counter/types"
)

// ErrReadOnly is returned when a read-only view is written to
var ErrReadOnly = errors.New("storage is read-only")

// Reader is the read side of a backend
type Reader interface {
	Get(key []byte) ([]byte, error)
}

type entry struct {
	value   []byte
	deleted bool
}

// Store is a core.Storage that keeps pending changes in memory
type Store struct {
	parent   Reader
	pending  map[string]entry
	readOnly bool
}

// New returns a writable overlay over parent
func New(parent Reader) *Store {
	return &Store{
		parent:  parent,
		pending: make(map[string]entry),
	}
}

// NewReadOnly returns an overlay that rejects every write
func NewReadOnly(parent Reader) *Store {
	s := New(parent)
	s.readOnly = true
	return s
}

func (s *Store) Get(key []byte) ([]byte, error) {
	if e, ok := s.pending[string(key)]; ok {
		if e.deleted {
			return nil, nil
		}
		return clone(e.value), nil
	}
	return s.parent.Get(key)
}

func (s *Store) Set(key, value []byte) error {
	if s.readOnly {
		return ErrReadOnly
	}
	s.pending[string(key)] = entry{value: clone(value)}
	return nil
}

func (s *Store) Delete(key []byte) error {
	if s.readOnly {
		return ErrReadOnly
	}
	s.pending[string(key)] = entry{deleted: true}
	return nil
}

// Writes returns the pending changes sorted by key
func (s *Store) Writes() []types.Write {
	keys := make([]string, 0, len(s.pending))
	for k := range s.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	writes := make([]types.Write, 0, len(keys))
	for _, k := range keys {
		e := s.pending[k]
		writes = append(writes, types.Write{
			Key:    []byte(k),
			Value:  e.value,
			Delete: e.deleted,
		})
	}
	return writes
}

// Discard drops all pending changes
func (s *Store) Discard() {
	s.pending = make(map[string]entry)
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
