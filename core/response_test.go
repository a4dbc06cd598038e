package core_test

import (
	"testing"

	"github.com/govm-net/counter/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseAttributes(t *testing.T) {
	resp := core.NewResponse().
		AddAttribute("method", "instantiate").
		AddAttribute("owner", "alice")

	require.Len(t, resp.Attributes, 2)
	value, ok := resp.Attribute("owner")
	assert.True(t, ok)
	assert.Equal(t, "alice", value)

	_, ok = resp.Attribute("missing")
	assert.False(t, ok)
}

func TestUnmarshalStrict(t *testing.T) {
	var v struct {
		Count int32 `json:"count"`
	}
	require.NoError(t, core.Unmarshal([]byte(`{"count":7}`), &v))
	assert.Equal(t, int32(7), v.Count)

	assert.ErrorIs(t, core.Unmarshal([]byte(`{"count":7,"extra":1}`), &v), core.ErrSerialization)
	assert.ErrorIs(t, core.Unmarshal([]byte(`{"count":7}{"count":8}`), &v), core.ErrSerialization)
	assert.ErrorIs(t, core.Unmarshal([]byte(`{"count":"7"}`), &v), core.ErrSerialization)
}

func TestAddressValidate(t *testing.T) {
	assert.NoError(t, core.Address("alice").Validate())
	assert.ErrorIs(t, core.Address("").Validate(), core.ErrInvalidAddress)
	assert.ErrorIs(t, core.Address(" alice").Validate(), core.ErrInvalidAddress)
}
