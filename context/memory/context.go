package memory

import (
	"log/slog"
	"sync"

	"github.com/govm-net/counter/context"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/types"
)

// defaultBlockchainContext keeps state, block info and events in memory
type defaultBlockchainContext struct {
	mu sync.RWMutex

	// Block information
	blockHeight uint64
	blockTime   int64
	blockHash   types.Hash

	state  map[string][]byte
	events map[core.Address][]types.EventRecord
	closed bool
}

func init() {
	if err := context.Register(context.MemoryContextType, NewBlockchainContext); err != nil {
		panic(err)
	}
}

// NewBlockchainContext creates an empty in-memory context; params are ignored
func NewBlockchainContext(params map[string]any) (types.BlockchainContext, error) {
	return &defaultBlockchainContext{
		state:  make(map[string][]byte),
		events: make(map[core.Address][]types.EventRecord),
	}, nil
}

func (ctx *defaultBlockchainContext) SetBlockInfo(height uint64, time int64, hash types.Hash) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.blockHeight = height
	ctx.blockTime = time
	ctx.blockHash = hash
	return nil
}

// BlockHeight gets the current block height
func (ctx *defaultBlockchainContext) BlockHeight() uint64 {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.blockHeight
}

// BlockTime gets the current block timestamp
func (ctx *defaultBlockchainContext) BlockTime() int64 {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.blockTime
}

// BlockHash gets the current block hash
func (ctx *defaultBlockchainContext) BlockHash() types.Hash {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.blockHash
}

func (ctx *defaultBlockchainContext) Get(key []byte) ([]byte, error) {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	if ctx.closed {
		return nil, errClosed
	}
	value, ok := ctx.state[string(key)]
	if !ok {
		return nil, nil
	}
	return clone(value), nil
}

func (ctx *defaultBlockchainContext) Commit(batch *types.Batch) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if ctx.closed {
		return errClosed
	}
	if batch.IsEmpty() {
		return nil
	}
	for _, w := range batch.Writes {
		if w.Delete {
			delete(ctx.state, string(w.Key))
			continue
		}
		ctx.state[string(w.Key)] = clone(w.Value)
	}
	for _, ev := range batch.Events {
		ctx.events[ev.Contract] = append(ctx.events[ev.Contract], ev)
		params := []any{
			"block", ev.BlockHeight,
			"contract", ev.Contract,
			"event", ev.Type,
		}
		for _, attr := range ev.Attributes {
			params = append(params, attr.Key, attr.Value)
		}
		slog.Info("Contract event", params...)
	}
	return nil
}

func (ctx *defaultBlockchainContext) Events(contract core.Address) ([]types.EventRecord, error) {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	events := ctx.events[contract]
	out := make([]types.EventRecord, len(events))
	copy(out, events)
	return out, nil
}

func (ctx *defaultBlockchainContext) Close() error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.closed = true
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
