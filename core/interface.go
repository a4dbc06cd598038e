// Package core defines the interfaces a contract needs to talk to its host.
// Contract authors only need the types in this package to write a contract.
package core

import "strings"

// Address identifies an account or a contract on the chain.
type Address string

// String returns the address as a plain string
func (a Address) String() string {
	return string(a)
}

// Validate reports whether the address can be used as a sender or owner.
func (a Address) Validate() error {
	if strings.TrimSpace(string(a)) == "" {
		return ErrInvalidAddress
	}
	if strings.TrimSpace(string(a)) != string(a) {
		return ErrInvalidAddress
	}
	return nil
}

// Storage is the key-value store the host hands to every entry point.
// Get returns nil, nil when the key is absent.
type Storage interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
}

// BlockInfo describes the block the current transaction is executed in
type BlockInfo struct {
	Height  uint64 `json:"height"`
	Time    int64  `json:"time"`
	ChainID string `json:"chain_id"`
}

// ContractInfo describes the contract being executed
type ContractInfo struct {
	Address Address `json:"address"`
}

// Env is the environment of a single invocation
type Env struct {
	Block    BlockInfo    `json:"block"`
	Contract ContractInfo `json:"contract"`
}

// MessageInfo carries the authenticated data of the message envelope
type MessageInfo struct {
	Sender Address `json:"sender"`
}
