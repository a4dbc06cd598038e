// Package types contains the host-facing definitions shared by the engine
// and the storage backends.
package types

import (
	"encoding/hex"
	"strings"

	"github.com/govm-net/counter/core"
)

// Hash is a 32 byte block or transaction hash
type Hash [32]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// HashFromString parses a hex hash, with or without 0x prefix.
// Invalid input yields the zero hash.
func HashFromString(str string) Hash {
	str = strings.TrimPrefix(str, "0x")
	h, err := hex.DecodeString(str)
	if err != nil {
		return Hash{}
	}
	var out Hash
	copy(out[:], h)
	return out
}

// Write is a single buffered mutation
type Write struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// EventRecord is an event emitted by a contract, as persisted by the host
type EventRecord struct {
	BlockHeight uint64           `json:"block_height"`
	TxIndex     uint64           `json:"tx_index"`
	Contract    core.Address     `json:"contract"`
	Type        string           `json:"type"`
	Attributes  []core.Attribute `json:"attributes"`
}

// Batch is the set of changes produced by one successful invocation
type Batch struct {
	Writes []Write
	Events []EventRecord
}

// IsEmpty reports whether the batch carries no change
func (b *Batch) IsEmpty() bool {
	return b == nil || (len(b.Writes) == 0 && len(b.Events) == 0)
}

// BlockchainContext is the persistent state a host runs contracts against
type BlockchainContext interface {
	// block info
	SetBlockInfo(height uint64, time int64, hash Hash) error
	BlockHeight() uint64
	BlockTime() int64
	BlockHash() Hash

	// Get returns nil, nil when the key is absent
	Get(key []byte) ([]byte, error)
	// Commit applies all writes and events of the batch, or none of them
	Commit(batch *Batch) error

	// Events returns the events emitted by contract in emission order
	Events(contract core.Address) ([]EventRecord, error)

	Close() error
}
