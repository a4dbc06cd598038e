package security

import (
	"strings"
	"testing"

	"github.com/govm-net/counter/core"
	"github.com/stretchr/testify/assert"
)

func TestValidateMessage(t *testing.T) {
	l := Limits{MaxMsgSize: 8}
	assert.NoError(t, l.ValidateMessage([]byte(`{"a":1}`)))
	assert.ErrorIs(t, l.ValidateMessage([]byte(`{"a":123}`)), ErrMessageTooLarge)

	assert.NoError(t, Limits{}.ValidateMessage(make([]byte, 1<<20)))
}

func TestValidateResponse(t *testing.T) {
	l := DefaultLimits()

	tests := []struct {
		name    string
		resp    *core.Response
		wantErr error
	}{
		{"nil", nil, nil},
		{"ok", core.NewResponse().AddAttribute("action", "increment"), nil},
		{"empty key", core.NewResponse().AddAttribute("  ", "x"), ErrInvalidAttribute},
		{"reserved key", core.NewResponse().AddAttribute("_contract_address", "x"), ErrInvalidAttribute},
		{"long value", core.NewResponse().AddAttribute("k", strings.Repeat("v", 4097)), ErrInvalidAttribute},
		{"event reserved", core.NewResponse().AddEvent("custom", core.Attribute{Key: "_x"}), ErrInvalidAttribute},
		{"event no type", core.NewResponse().AddEvent(" "), ErrInvalidAttribute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.ValidateResponse(tt.resp)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	many := core.NewResponse()
	for i := 0; i < 65; i++ {
		many.AddAttribute("k", "v")
	}
	assert.ErrorIs(t, l.ValidateResponse(many), ErrTooManyAttributes)
}
