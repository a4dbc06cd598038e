package counter

import (
	"fmt"

	"github.com/govm-net/counter/core"
)

// InstantiateMsg is sent once when the contract is created
type InstantiateMsg struct {
	Count int32 `json:"count"`
}

// ExecuteMsg is a tagged union, exactly one field must be set
type ExecuteMsg struct {
	Increment *Increment `json:"increment,omitempty"`
	Reset     *Reset     `json:"reset,omitempty"`
}

type Increment struct{}

type Reset struct {
	Count int32 `json:"count"`
}

// requiredCount is the wire form of messages whose count must be present
type requiredCount struct {
	Count *int32 `json:"count"`
}

func (r requiredCount) value(msg string) (int32, error) {
	if r.Count == nil {
		return 0, fmt.Errorf("%w: %s: missing field count", core.ErrSerialization, msg)
	}
	return *r.Count, nil
}

// UnmarshalJSON rejects a missing or null count
func (m *InstantiateMsg) UnmarshalJSON(data []byte) error {
	var raw requiredCount
	if err := core.Unmarshal(data, &raw); err != nil {
		return err
	}
	count, err := raw.value("instantiate")
	if err != nil {
		return err
	}
	m.Count = count
	return nil
}

// UnmarshalJSON rejects a missing or null count
func (r *Reset) UnmarshalJSON(data []byte) error {
	var raw requiredCount
	if err := core.Unmarshal(data, &raw); err != nil {
		return err
	}
	count, err := raw.value("reset")
	if err != nil {
		return err
	}
	r.Count = count
	return nil
}

// QueryMsg is a tagged union, exactly one field must be set
type QueryMsg struct {
	GetCount *GetCount `json:"get_count,omitempty"`
}

type GetCount struct{}

// GetCountResponse is the answer to GetCount
type GetCountResponse struct {
	Count int32 `json:"count"`
}

// Validate checks that exactly one variant is set
func (m ExecuteMsg) Validate() error {
	n := 0
	if m.Increment != nil {
		n++
	}
	if m.Reset != nil {
		n++
	}
	if n != 1 {
		return fmt.Errorf("%w: execute message must set exactly one of increment, reset", core.ErrUnknownMessage)
	}
	return nil
}

// Validate checks that exactly one variant is set
func (m QueryMsg) Validate() error {
	if m.GetCount == nil {
		return fmt.Errorf("%w: query message must set get_count", core.ErrUnknownMessage)
	}
	return nil
}
