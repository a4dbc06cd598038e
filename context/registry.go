// Package context keeps the registry of storage backends the engine can
// run contracts against.
package context

import (
	"fmt"
	"sort"
	"sync"

	"github.com/govm-net/counter/types"
)

// ContextType names a storage backend
type ContextType string

const (
	// MemoryContextType keeps all state in process memory
	MemoryContextType ContextType = "memory"
	// DBContextType keeps state in a SQLite database
	DBContextType ContextType = "db"
)

// ContextConstructor creates a backend from free-form parameters
type ContextConstructor func(params map[string]any) (types.BlockchainContext, error)

// Registry manages the known backends
type Registry interface {
	// Register adds a backend constructor
	Register(ct ContextType, constructor ContextConstructor) error
	// SetDefault sets the backend used when no type is given
	SetDefault(ct ContextType) error
	// Get creates a backend of the given type
	Get(ct ContextType, params map[string]any) (types.BlockchainContext, error)
	// GetDefault creates a backend of the default type
	GetDefault(params map[string]any) (types.BlockchainContext, error)
	// DefaultContextType returns the default type
	DefaultContextType() ContextType
	// ListRegistered returns the registered types in sorted order
	ListRegistered() []ContextType
}

type registry struct {
	mu        sync.RWMutex
	contexts  map[ContextType]ContextConstructor
	defaultCt ContextType
}

var defaultRegistry = NewRegistry()

// NewRegistry returns an empty registry whose default type is memory
func NewRegistry() Registry {
	return &registry{
		contexts:  make(map[ContextType]ContextConstructor),
		defaultCt: MemoryContextType,
	}
}

// GetRegistry returns the process wide registry backends register into
func GetRegistry() Registry {
	return defaultRegistry
}

func (r *registry) Register(ct ContextType, constructor ContextConstructor) error {
	if constructor == nil {
		return fmt.Errorf("nil constructor for context type %s", ct)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contexts[ct]; exists {
		return fmt.Errorf("context type %s already registered", ct)
	}
	r.contexts[ct] = constructor
	return nil
}

func (r *registry) SetDefault(ct ContextType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contexts[ct]; !exists {
		return fmt.Errorf("context type %s not registered", ct)
	}
	r.defaultCt = ct
	return nil
}

func (r *registry) Get(ct ContextType, params map[string]any) (types.BlockchainContext, error) {
	r.mu.RLock()
	constructor, exists := r.contexts[ct]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("context type %s not found", ct)
	}
	ctx, err := constructor(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s context: %w", ct, err)
	}
	return ctx, nil
}

func (r *registry) GetDefault(params map[string]any) (types.BlockchainContext, error) {
	return r.Get(r.DefaultContextType(), params)
}

func (r *registry) DefaultContextType() ContextType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultCt
}

func (r *registry) ListRegistered() []ContextType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]ContextType, 0, len(r.contexts))
	for ct := range r.contexts {
		list = append(list, ct)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

// Package level functions that delegate to the default registry

// Register adds a backend constructor to the default registry
func Register(ct ContextType, constructor ContextConstructor) error {
	return GetRegistry().Register(ct, constructor)
}

// SetDefault sets the default backend of the default registry
func SetDefault(ct ContextType) error {
	return GetRegistry().SetDefault(ct)
}

// Get creates a backend, falling back to the default type when ct is empty
func Get(ct ContextType, params map[string]any) (types.BlockchainContext, error) {
	if ct == "" {
		ct = GetRegistry().DefaultContextType()
	}
	return GetRegistry().Get(ct, params)
}

// GetDefault creates a backend of the default type
func GetDefault(params map[string]any) (types.BlockchainContext, error) {
	return GetRegistry().GetDefault(params)
}

// DefaultContextType returns the default type of the default registry
func DefaultContextType() ContextType {
	return GetRegistry().DefaultContextType()
}

// ListRegistered lists the types known to the default registry
func ListRegistered() []ContextType {
	return GetRegistry().ListRegistered()
}
