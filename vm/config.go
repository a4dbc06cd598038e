package vm

import (
	"fmt"

	"github.com/govm-net/counter/gas"
	"github.com/govm-net/counter/security"
)

// Config represents engine configuration
type Config struct {
	ContextType   string         // Blockchain context type, memory or db
	ContextParams map[string]any // Blockchain context parameters, e.g. db_path
	CodeDir       string         // Wasm artifact directory, empty disables archiving
	MaxCodeSize   int            // Maximum wasm artifact size
	GasLimit      uint64         // Gas limit of a single invocation
	ChainID       string
	AddressPrefix string // bech32 prefix of contract addresses
	Limits        security.Limits
	KVGas         gas.KVGasConfig
}

// DefaultConfig returns an in-memory configuration
func DefaultConfig() *Config {
	return &Config{
		ContextType:   "memory",
		MaxCodeSize:   800 * 1024,
		GasLimit:      10_000_000,
		ChainID:       "govm-local",
		AddressPrefix: "govm",
		Limits:        security.DefaultLimits(),
		KVGas:         gas.DefaultKVGasConfig(),
	}
}

func validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}
	if config.GasLimit == 0 {
		return fmt.Errorf("invalid gas limit: %d", config.GasLimit)
	}
	if config.MaxCodeSize <= 0 {
		return fmt.Errorf("invalid max code size: %d", config.MaxCodeSize)
	}
	if config.AddressPrefix == "" {
		return fmt.Errorf("address prefix is empty")
	}
	if config.ChainID == "" {
		return fmt.Errorf("chain id is empty")
	}
	return nil
}
