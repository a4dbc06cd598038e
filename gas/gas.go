// Package gas meters the storage work done by a single contract invocation
package gas

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrOutOfGas is returned once the meter limit is exceeded
var ErrOutOfGas = errors.New("out of gas")

// Meter tracks gas consumption against a fixed limit
type Meter struct {
	mu       sync.Mutex
	limit    uint64
	consumed uint64
}

// NewMeter returns a meter allowing limit units
func NewMeter(limit uint64) *Meter {
	return &Meter{limit: limit}
}

// NewInfiniteMeter returns a meter that never runs out
func NewInfiniteMeter() *Meter {
	return &Meter{limit: math.MaxUint64}
}

// ConsumeGas charges amount units. On failure the meter is left at its limit.
func (m *Meter) ConsumeGas(amount uint64, descriptor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if amount == 0 {
		return nil
	}
	if amount > m.limit-m.consumed {
		m.consumed = m.limit
		return fmt.Errorf("%w: %s: limit=%d, need=%d", ErrOutOfGas, descriptor, m.limit, amount)
	}
	m.consumed += amount
	return nil
}

// RefundGas gives back previously consumed units
func (m *Meter) RefundGas(amount uint64, descriptor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if amount > m.consumed {
		return fmt.Errorf("invalid refund for %s: consumed=%d, refund=%d", descriptor, m.consumed, amount)
	}
	m.consumed -= amount
	return nil
}

// GasConsumed returns the units used so far
func (m *Meter) GasConsumed() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.consumed
}

// Limit returns the configured limit
func (m *Meter) Limit() uint64 {
	return m.limit
}

// Remaining returns the units still available
func (m *Meter) Remaining() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.limit - m.consumed
}
