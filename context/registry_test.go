package context

import (
	"errors"
	"testing"

	"github.com/govm-net/counter/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopContext struct {
	types.BlockchainContext
	params map[string]any
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, MemoryContextType, r.DefaultContextType())

	_, err := r.GetDefault(nil)
	assert.Error(t, err)

	constructor := func(params map[string]any) (types.BlockchainContext, error) {
		return &nopContext{params: params}, nil
	}
	require.NoError(t, r.Register(MemoryContextType, constructor))
	assert.Error(t, r.Register(MemoryContextType, constructor))
	assert.Error(t, r.Register("nil", nil))

	ctx, err := r.GetDefault(map[string]any{"k": "v"})
	require.NoError(t, err)
	assert.Equal(t, "v", ctx.(*nopContext).params["k"])

	assert.Error(t, r.SetDefault(DBContextType))
	require.NoError(t, r.Register(DBContextType, func(map[string]any) (types.BlockchainContext, error) {
		return nil, errors.New("no database")
	}))
	require.NoError(t, r.SetDefault(DBContextType))
	assert.Equal(t, DBContextType, r.DefaultContextType())

	_, err = r.GetDefault(nil)
	assert.ErrorContains(t, err, "no database")

	_, err = r.Get("unknown", nil)
	assert.Error(t, err)

	assert.Equal(t, []ContextType{DBContextType, MemoryContextType}, r.ListRegistered())
}
