package gas

import (
	"math"
	"testing"

	"github.com/govm-net/counter/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeter(t *testing.T) {
	m := NewMeter(100)
	assert.Equal(t, uint64(100), m.Limit())

	require.NoError(t, m.ConsumeGas(0, "noop"))
	require.NoError(t, m.ConsumeGas(60, "first"))
	assert.Equal(t, uint64(60), m.GasConsumed())
	assert.Equal(t, uint64(40), m.Remaining())

	require.NoError(t, m.RefundGas(10, "refund"))
	assert.Equal(t, uint64(50), m.GasConsumed())
	assert.Error(t, m.RefundGas(51, "too much"))

	err := m.ConsumeGas(51, "second")
	assert.ErrorIs(t, err, ErrOutOfGas)
	assert.Equal(t, uint64(100), m.GasConsumed())
	assert.Equal(t, uint64(0), m.Remaining())
}

func TestInfiniteMeter(t *testing.T) {
	m := NewInfiniteMeter()
	require.NoError(t, m.ConsumeGas(math.MaxUint64/2, "big"))
	require.NoError(t, m.ConsumeGas(math.MaxUint64/2, "big"))
	assert.ErrorIs(t, m.ConsumeGas(2, "overflow"), ErrOutOfGas)
}

func TestStoreCharges(t *testing.T) {
	config := DefaultKVGasConfig()
	m := NewInfiniteMeter()
	s := NewStore(testutil.NewMockStorage(), m, config)

	require.NoError(t, s.Set([]byte("key"), []byte("value")))
	writeCost := config.WriteCostFlat + config.WriteCostPerByte*8
	assert.Equal(t, writeCost, m.GasConsumed())

	value, err := s.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)
	readCost := config.ReadCostFlat + config.ReadCostPerByte*8
	assert.Equal(t, writeCost+readCost, m.GasConsumed())

	require.NoError(t, s.Delete([]byte("key")))
	assert.Equal(t, writeCost+readCost+config.DeleteCost, m.GasConsumed())
}

func TestStoreOutOfGas(t *testing.T) {
	config := DefaultKVGasConfig()
	parent := testutil.NewMockStorage()
	s := NewStore(parent, NewMeter(config.WriteCostFlat), config)

	err := s.Set([]byte("key"), []byte("value"))
	assert.ErrorIs(t, err, ErrOutOfGas)
	assert.Equal(t, 0, parent.Len())
}
