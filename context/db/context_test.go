package db

import (
	"path/filepath"
	"testing"

	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*Context, string) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx, err := NewContext(map[string]any{
		"db_path": dbPath,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx.Close()
	})
	return ctx.(*Context), dbPath
}

func TestBlockContext(t *testing.T) {
	ctx, dbPath := setupTestDB(t)

	assert.Equal(t, uint64(0), ctx.BlockHeight())

	hash := types.HashFromString("0x1234567890")
	require.NoError(t, ctx.SetBlockInfo(100, 1234567890, hash))
	assert.Equal(t, uint64(100), ctx.BlockHeight())
	assert.Equal(t, int64(1234567890), ctx.BlockTime())
	assert.Equal(t, hash, ctx.BlockHash())

	// same height again overwrites
	require.NoError(t, ctx.SetBlockInfo(100, 1234567891, hash))
	assert.Equal(t, int64(1234567891), ctx.BlockTime())
	require.NoError(t, ctx.Close())

	// reopening resumes from the latest block
	reopened, err := NewContext(map[string]any{"db_path": dbPath})
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, uint64(100), reopened.BlockHeight())
	assert.Equal(t, int64(1234567891), reopened.BlockTime())
}

func TestCommitAndGet(t *testing.T) {
	ctx, _ := setupTestDB(t)

	value, err := ctx.Get([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, ctx.Commit(&types.Batch{
		Writes: []types.Write{
			{Key: []byte("a"), Value: []byte("1")},
			{Key: []byte{0x00, 0xff}, Value: []byte("binary")},
		},
	}))

	value, err = ctx.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), value)

	value, err = ctx.Get([]byte{0x00, 0xff})
	require.NoError(t, err)
	assert.Equal(t, []byte("binary"), value)

	// overwrite and delete in one batch
	require.NoError(t, ctx.Commit(&types.Batch{
		Writes: []types.Write{
			{Key: []byte("a"), Value: []byte("2")},
			{Key: []byte{0x00, 0xff}, Delete: true},
		},
	}))

	value, err = ctx.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), value)

	value, err = ctx.Get([]byte{0x00, 0xff})
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestEventLogging(t *testing.T) {
	ctx, _ := setupTestDB(t)
	contract := core.Address("contract1")

	require.NoError(t, ctx.Commit(&types.Batch{
		Events: []types.EventRecord{
			{
				BlockHeight: 100,
				TxIndex:     1,
				Contract:    contract,
				Type:        "wasm",
				Attributes: []core.Attribute{
					{Key: "_contract_address", Value: "contract1"},
					{Key: "action", Value: "increment"},
				},
			},
			{BlockHeight: 100, TxIndex: 2, Contract: "other", Type: "wasm"},
		},
	}))

	events, err := ctx.Events(contract)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(100), events[0].BlockHeight)
	assert.Equal(t, uint64(1), events[0].TxIndex)
	assert.Equal(t, "wasm", events[0].Type)
	assert.Equal(t, core.Attribute{Key: "action", Value: "increment"}, events[0].Attributes[1])
}
