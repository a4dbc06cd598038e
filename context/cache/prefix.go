package cache

import (
	"github.com/govm-net/counter/core"
)

type prefixStore struct {
	parent core.Storage
	prefix []byte
}

// Prefix returns a view of parent where every key is prepended with prefix.
// Callers must pick prefixes that are not prefixes of each other.
func Prefix(parent core.Storage, prefix []byte) core.Storage {
	return &prefixStore{parent: parent, prefix: append([]byte(nil), prefix...)}
}

func (p *prefixStore) key(key []byte) []byte {
	out := make([]byte, 0, len(p.prefix)+len(key))
	out = append(out, p.prefix...)
	return append(out, key...)
}

func (p *prefixStore) Get(key []byte) ([]byte, error) {
	return p.parent.Get(p.key(key))
}

func (p *prefixStore) Set(key, value []byte) error {
	return p.parent.Set(p.key(key), value)
}

func (p *prefixStore) Delete(key []byte) error {
	return p.parent.Delete(p.key(key))
}
