package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshal encodes v as JSON, wrapping failures in ErrSerialization
func Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// Unmarshal decodes strict JSON into v. Unknown fields and trailing data
// are rejected.
func Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after message", ErrSerialization)
	}
	return nil
}
