package vm

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/govm-net/counter/context"
	"github.com/govm-net/counter/context/cache"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/gas"
	"github.com/govm-net/counter/repository"
	"github.com/govm-net/counter/types"
)

var (
	ErrContractNotRegistered = errors.New("contract not registered")
	ErrCodeNotFound          = errors.New("code not found")
	ErrContractNotFound      = errors.New("contract not found")
	ErrExecutionPanic        = errors.New("contract panicked")
	ErrCodeTooLarge          = errors.New("code too large")
	ErrNoArtifact            = errors.New("no wasm artifact")
)

// Events emitted by the host for a contract response
const (
	EventTypeWasm          = "wasm"
	AttributeKeyContract   = "_contract_address"
	customEventTypePrefix  = "wasm-"
	defaultBlockTimeSecond = 5
)

// Engine is responsible for code storage and contract execution.
// Invocations are serialized; each one commits atomically or not at all.
type Engine struct {
	mu          sync.Mutex
	config      *Config
	ctx         types.BlockchainContext
	codeManager *repository.Manager
	contracts   map[string]Contract
	txIndex     uint64
}

// NewEngine creates an engine backed by the configured context type
func NewEngine(config *Config) (*Engine, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ctx, err := context.Get(context.ContextType(config.ContextType), config.ContextParams)
	if err != nil {
		return nil, fmt.Errorf("failed to get context: %w", err)
	}

	e := &Engine{
		config:    config,
		ctx:       ctx,
		contracts: make(map[string]Contract),
	}

	if config.CodeDir != "" {
		codeManager, err := repository.NewManager(config.CodeDir)
		if err != nil {
			ctx.Close()
			return nil, fmt.Errorf("failed to create code manager: %w", err)
		}
		e.codeManager = codeManager
	}
	return e, nil
}

// GetContext returns the backend the engine commits to
func (e *Engine) GetContext() types.BlockchainContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx
}

// RegisterContract makes a native contract implementation available to StoreCode
func (e *Engine) RegisterContract(name string, contract Contract) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if name == "" || contract == nil {
		return fmt.Errorf("%w: empty contract name or implementation", core.ErrInvalidArgument)
	}
	if _, exists := e.contracts[name]; exists {
		return fmt.Errorf("contract %s already registered", name)
	}
	e.contracts[name] = contract
	return nil
}

// NextBlock advances the backend to a new block
func (e *Engine) NextBlock() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	height := e.ctx.BlockHeight() + 1
	blockTime := e.ctx.BlockTime() + defaultBlockTimeSecond
	if e.ctx.BlockTime() == 0 {
		blockTime = time.Now().Unix()
	}
	buf := binary.BigEndian.AppendUint64(nil, height)
	buf = binary.BigEndian.AppendUint64(buf, uint64(blockTime))
	hash := sha256.Sum256(buf)

	if err := e.ctx.SetBlockInfo(height, blockTime, types.Hash(hash)); err != nil {
		return fmt.Errorf("failed to set block info: %w", err)
	}
	e.txIndex = 0
	slog.Debug("new block", "height", height, "time", blockTime)
	return nil
}

// StoreCode records code for the registered contract name. When wasmCode is
// given it must export the contract entry points and is archived.
func (e *Engine) StoreCode(name string, wasmCode []byte) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.contracts[name]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrContractNotRegistered, name)
	}

	code := CodeInfo{Name: name}
	if len(wasmCode) > 0 {
		if len(wasmCode) > e.config.MaxCodeSize {
			return 0, fmt.Errorf("%w: %d > %d bytes", ErrCodeTooLarge, len(wasmCode), e.config.MaxCodeSize)
		}
		info, err := InspectWasm(wasmCode)
		if err != nil {
			return 0, err
		}
		if err := ValidateEntryPoints(info); err != nil {
			return 0, err
		}
		checksum := repository.ChecksumOf(wasmCode)
		if e.codeManager != nil {
			if checksum, err = e.codeManager.RegisterCode(name, wasmCode, info.Exports()); err != nil {
				return 0, err
			}
		}
		code.Checksum = checksum.String()
		code.HasWasm = true
	} else {
		code.Checksum = repository.ChecksumOf([]byte("native:" + name)).String()
	}

	overlay := cache.New(e.ctx)
	codeID, err := nextSequence(overlay, sequenceCodeID)
	if err != nil {
		return 0, err
	}
	code.CodeID = codeID
	if err := core.NewItem[CodeInfo](string(CodeKey(codeID))).Save(overlay, &code); err != nil {
		return 0, err
	}
	if err := e.ctx.Commit(&types.Batch{Writes: overlay.Writes()}); err != nil {
		return 0, fmt.Errorf("failed to commit code: %w", err)
	}

	slog.Info("stored code", "code_id", codeID, "name", name, "checksum", code.Checksum, "wasm", code.HasWasm)
	return codeID, nil
}

// Instantiate creates a new contract instance from codeID
func (e *Engine) Instantiate(codeID uint64, sender core.Address, msg []byte, label string) (core.Address, *ExecutionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := sender.Validate(); err != nil {
		return "", nil, err
	}
	if err := e.config.Limits.ValidateMessage(msg); err != nil {
		return "", nil, err
	}

	overlay := cache.New(e.ctx)
	code, err := loadCode(overlay, codeID)
	if err != nil {
		return "", nil, err
	}
	impl, ok := e.contracts[code.Name]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrContractNotRegistered, code.Name)
	}

	instanceID, err := nextSequence(overlay, sequenceInstanceID)
	if err != nil {
		return "", nil, err
	}
	addr, err := BuildContractAddress(e.config.AddressPrefix, codeID, instanceID)
	if err != nil {
		return "", nil, err
	}
	info := ContractInfo{
		Address:       addr,
		CodeID:        codeID,
		Creator:       sender,
		Label:         label,
		CreatedHeight: e.ctx.BlockHeight(),
	}
	if err := core.NewItem[ContractInfo](string(ContractKey(addr))).Save(overlay, &info); err != nil {
		return "", nil, err
	}

	result, err := e.run(overlay, addr, "instantiate", func(store core.Storage, env core.Env) (*core.Response, error) {
		return impl.Instantiate(store, env, core.MessageInfo{Sender: sender}, msg)
	})
	if err != nil {
		return "", nil, err
	}
	return addr, result, nil
}

// Execute routes msg to the execute entry point of contract
func (e *Engine) Execute(contract core.Address, sender core.Address, msg []byte) (*ExecutionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := sender.Validate(); err != nil {
		return nil, err
	}
	if err := e.config.Limits.ValidateMessage(msg); err != nil {
		return nil, err
	}

	overlay := cache.New(e.ctx)
	impl, err := e.resolve(overlay, contract)
	if err != nil {
		return nil, err
	}
	return e.run(overlay, contract, "execute", func(store core.Storage, env core.Env) (*core.Response, error) {
		return impl.Execute(store, env, core.MessageInfo{Sender: sender}, msg)
	})
}

// Query routes msg to the query entry point of contract on a read-only view
func (e *Engine) Query(contract core.Address, msg []byte) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.config.Limits.ValidateMessage(msg); err != nil {
		return nil, err
	}

	view := cache.NewReadOnly(e.ctx)
	impl, err := e.resolve(view, contract)
	if err != nil {
		return nil, err
	}

	meter := gas.NewMeter(e.config.GasLimit)
	store := gas.NewStore(cache.Prefix(view, ContractStorePrefix(contract)), meter, e.config.KVGas)
	env := e.env(contract)

	var data []byte
	err = safeCall(func() error {
		var err error
		data, err = impl.Query(store, env, msg)
		return err
	})
	if err != nil {
		slog.Debug("query failed", "contract", contract, "error", err)
		return nil, err
	}
	return data, nil
}

// ContractInfo returns the host record of contract
func (e *Engine) ContractInfo(contract core.Address) (*ContractInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return loadContract(cache.NewReadOnly(e.ctx), contract)
}

// CodeInfo returns the host record of codeID
func (e *Engine) CodeInfo(codeID uint64) (*CodeInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return loadCode(cache.NewReadOnly(e.ctx), codeID)
}

// ReadContract calls fn with a read-only view of the storage of contract,
// without running the contract itself.
func (e *Engine) ReadContract(contract core.Address, fn func(store core.Storage) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := cache.NewReadOnly(e.ctx)
	if _, err := loadContract(view, contract); err != nil {
		return err
	}
	return fn(cache.Prefix(view, ContractStorePrefix(contract)))
}

// CodeMetadata returns the archive metadata of the wasm artifact of codeID
func (e *Engine) CodeMetadata(codeID uint64) (*repository.Metadata, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	checksum, err := e.archivedChecksum(codeID)
	if err != nil {
		return nil, err
	}
	return e.codeManager.GetMetadata(checksum)
}

// Code returns the archived wasm artifact of codeID
func (e *Engine) Code(codeID uint64) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	checksum, err := e.archivedChecksum(codeID)
	if err != nil {
		return nil, err
	}
	return e.codeManager.GetCode(checksum)
}

// Events returns the events emitted by contract
func (e *Engine) Events(contract core.Address) ([]types.EventRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Events(contract)
}

// Close closes the backend
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ctx.Close(); err != nil {
		return fmt.Errorf("failed to close context: %w", err)
	}
	return nil
}

func (e *Engine) archivedChecksum(codeID uint64) (repository.Checksum, error) {
	code, err := loadCode(cache.NewReadOnly(e.ctx), codeID)
	if err != nil {
		return repository.Checksum{}, err
	}
	if !code.HasWasm {
		return repository.Checksum{}, fmt.Errorf("%w: code %d is native", ErrNoArtifact, codeID)
	}
	if e.codeManager == nil {
		return repository.Checksum{}, fmt.Errorf("%w: code archive is disabled", ErrNoArtifact)
	}
	return repository.ParseChecksum(code.Checksum)
}

func (e *Engine) resolve(store core.Storage, contract core.Address) (Contract, error) {
	info, err := loadContract(store, contract)
	if err != nil {
		return nil, err
	}
	code, err := loadCode(store, info.CodeID)
	if err != nil {
		return nil, err
	}
	impl, ok := e.contracts[code.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContractNotRegistered, code.Name)
	}
	return impl, nil
}

func (e *Engine) env(contract core.Address) core.Env {
	return core.Env{
		Block: core.BlockInfo{
			Height:  e.ctx.BlockHeight(),
			Time:    e.ctx.BlockTime(),
			ChainID: e.config.ChainID,
		},
		Contract: core.ContractInfo{Address: contract},
	}
}

// run executes fn against the contract namespace of overlay and commits
// the overlay together with the emitted events when fn succeeds.
func (e *Engine) run(overlay *cache.Store, contract core.Address, entry string, fn func(core.Storage, core.Env) (*core.Response, error)) (*ExecutionResult, error) {
	meter := gas.NewMeter(e.config.GasLimit)
	store := gas.NewStore(cache.Prefix(overlay, ContractStorePrefix(contract)), meter, e.config.KVGas)
	env := e.env(contract)

	var resp *core.Response
	err := safeCall(func() error {
		var err error
		resp, err = fn(store, env)
		return err
	})
	if err == nil {
		err = e.config.Limits.ValidateResponse(resp)
	}
	if err != nil {
		overlay.Discard()
		slog.Warn("contract call failed", "contract", contract, "entry", entry, "gas_used", meter.GasConsumed(), "error", err)
		return nil, err
	}
	if resp == nil {
		resp = core.NewResponse()
	}

	txIndex := e.txIndex + 1
	events := buildEvents(contract, resp)
	batch := &types.Batch{Writes: overlay.Writes()}
	result := &ExecutionResult{
		Contract:   contract,
		Attributes: resp.Attributes,
		Data:       resp.Data,
		GasUsed:    meter.GasConsumed(),
	}
	for _, ev := range events {
		batch.Events = append(batch.Events, types.EventRecord{
			BlockHeight: e.ctx.BlockHeight(),
			TxIndex:     txIndex,
			Contract:    contract,
			Type:        ev.Type,
			Attributes:  ev.Attributes,
		})
		result.Events = append(result.Events, ev)
	}

	if err := e.ctx.Commit(batch); err != nil {
		return nil, fmt.Errorf("failed to commit %s: %w", entry, err)
	}
	e.txIndex = txIndex
	slog.Debug("contract call committed", "contract", contract, "entry", entry, "writes", len(batch.Writes), "gas_used", result.GasUsed)
	return result, nil
}

func buildEvents(contract core.Address, resp *core.Response) []EventView {
	contractAttr := core.Attribute{Key: AttributeKeyContract, Value: contract.String()}

	events := make([]EventView, 0, 1+len(resp.Events))
	if len(resp.Attributes) > 0 {
		attrs := append([]core.Attribute{contractAttr}, resp.Attributes...)
		events = append(events, EventView{Type: EventTypeWasm, Attributes: attrs})
	}
	for _, ev := range resp.Events {
		attrs := append([]core.Attribute{contractAttr}, ev.Attributes...)
		events = append(events, EventView{Type: customEventTypePrefix + ev.Type, Attributes: attrs})
	}
	return events
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrExecutionPanic, r)
		}
	}()
	return fn()
}

func nextSequence(store core.Storage, name string) (uint64, error) {
	item := core.NewItem[uint64](string(SequenceKey(name)))
	current, err := item.MayLoad(store)
	if err != nil {
		return 0, err
	}
	next := uint64(1)
	if current != nil {
		next = *current + 1
	}
	if err := item.Save(store, &next); err != nil {
		return 0, err
	}
	return next, nil
}

func loadCode(store core.Storage, codeID uint64) (*CodeInfo, error) {
	code, err := core.NewItem[CodeInfo](string(CodeKey(codeID))).MayLoad(store)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, fmt.Errorf("%w: %d", ErrCodeNotFound, codeID)
	}
	return code, nil
}

func loadContract(store core.Storage, contract core.Address) (*ContractInfo, error) {
	info, err := core.NewItem[ContractInfo](string(ContractKey(contract))).MayLoad(store)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, contract)
	}
	return info, nil
}
