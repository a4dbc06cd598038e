// Package vm is the host runtime: it stores code, creates contract
// instances and routes messages to their entry points.
package vm

import (
	"github.com/govm-net/counter/core"
)

// Contract is the set of entry points a host can call.
// Messages are passed through as raw JSON.
type Contract interface {
	Instantiate(store core.Storage, env core.Env, info core.MessageInfo, msg []byte) (*core.Response, error)
	Execute(store core.Storage, env core.Env, info core.MessageInfo, msg []byte) (*core.Response, error)
	Query(store core.Storage, env core.Env, msg []byte) ([]byte, error)
}

// CodeInfo is the host record of stored code
type CodeInfo struct {
	CodeID   uint64 `json:"code_id"`
	Name     string `json:"name"`
	Checksum string `json:"checksum"`
	HasWasm  bool   `json:"has_wasm"`
}

// ContractInfo is the host record of an instantiated contract
type ContractInfo struct {
	Address       core.Address `json:"address"`
	CodeID        uint64       `json:"code_id"`
	Creator       core.Address `json:"creator"`
	Label         string       `json:"label"`
	CreatedHeight uint64       `json:"created_height"`
}

// ExecutionResult is what a successful instantiate or execute produced
type ExecutionResult struct {
	Contract   core.Address     `json:"contract"`
	Attributes []core.Attribute `json:"attributes"`
	Events     []EventView      `json:"events"`
	Data       []byte           `json:"data,omitempty"`
	GasUsed    uint64           `json:"gas_used"`
}

// EventView is an emitted event as returned to the caller
type EventView struct {
	Type       string           `json:"type"`
	Attributes []core.Attribute `json:"attributes"`
}
