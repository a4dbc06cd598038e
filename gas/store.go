package gas

import (
	"github.com/govm-net/counter/core"
)

// KVGasConfig holds the price of each storage access
type KVGasConfig struct {
	DeleteCost       uint64
	ReadCostFlat     uint64
	ReadCostPerByte  uint64
	WriteCostFlat    uint64
	WriteCostPerByte uint64
}

// DefaultKVGasConfig returns the prices used by cosmos-sdk based chains
func DefaultKVGasConfig() KVGasConfig {
	return KVGasConfig{
		DeleteCost:       1000,
		ReadCostFlat:     1000,
		ReadCostPerByte:  3,
		WriteCostFlat:    2000,
		WriteCostPerByte: 30,
	}
}

const (
	descRead      = "ReadFlat"
	descReadByte  = "ReadPerByte"
	descWrite     = "WriteFlat"
	descWriteByte = "WritePerByte"
	descDelete    = "Delete"
)

// Store charges every access to parent against meter
type Store struct {
	parent core.Storage
	meter  *Meter
	config KVGasConfig
}

// NewStore wraps parent with gas accounting
func NewStore(parent core.Storage, meter *Meter, config KVGasConfig) *Store {
	return &Store{parent: parent, meter: meter, config: config}
}

func (s *Store) Get(key []byte) ([]byte, error) {
	if err := s.meter.ConsumeGas(s.config.ReadCostFlat, descRead); err != nil {
		return nil, err
	}
	value, err := s.parent.Get(key)
	if err != nil {
		return nil, err
	}
	cost := s.config.ReadCostPerByte * uint64(len(key)+len(value))
	if err := s.meter.ConsumeGas(cost, descReadByte); err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) Set(key, value []byte) error {
	if err := s.meter.ConsumeGas(s.config.WriteCostFlat, descWrite); err != nil {
		return err
	}
	cost := s.config.WriteCostPerByte * uint64(len(key)+len(value))
	if err := s.meter.ConsumeGas(cost, descWriteByte); err != nil {
		return err
	}
	return s.parent.Set(key, value)
}

func (s *Store) Delete(key []byte) error {
	if err := s.meter.ConsumeGas(s.config.DeleteCost, descDelete); err != nil {
		return err
	}
	return s.parent.Delete(key)
}
