// Package security validates what goes into and comes out of a contract
package security

import (
	"errors"
	"fmt"
	"strings"

	"github.com/govm-net/counter/core"
)

var (
	ErrMessageTooLarge   = errors.New("message too large")
	ErrInvalidAttribute  = errors.New("invalid attribute")
	ErrTooManyAttributes = errors.New("too many attributes")
)

// ReservedPrefix marks attribute keys that only the host may emit
const ReservedPrefix = "_"

// Limits bounds the size of messages and responses
type Limits struct {
	MaxMsgSize           int
	MaxAttributes        int
	MaxAttributeKeyLen   int
	MaxAttributeValueLen int
}

// DefaultLimits returns limits suitable for small contracts
func DefaultLimits() Limits {
	return Limits{
		MaxMsgSize:           64 * 1024,
		MaxAttributes:        64,
		MaxAttributeKeyLen:   128,
		MaxAttributeValueLen: 4096,
	}
}

// ValidateMessage checks a raw message before it reaches a contract
func (l Limits) ValidateMessage(msg []byte) error {
	if l.MaxMsgSize > 0 && len(msg) > l.MaxMsgSize {
		return fmt.Errorf("%w: %d > %d bytes", ErrMessageTooLarge, len(msg), l.MaxMsgSize)
	}
	return nil
}

// ValidateResponse checks the attributes and events a contract returned
func (l Limits) ValidateResponse(resp *core.Response) error {
	if resp == nil {
		return nil
	}
	total := len(resp.Attributes)
	if err := l.validateAttributes(resp.Attributes); err != nil {
		return err
	}
	for _, ev := range resp.Events {
		if strings.TrimSpace(ev.Type) == "" {
			return fmt.Errorf("%w: empty event type", ErrInvalidAttribute)
		}
		total += len(ev.Attributes)
		if err := l.validateAttributes(ev.Attributes); err != nil {
			return fmt.Errorf("event %s: %w", ev.Type, err)
		}
	}
	if l.MaxAttributes > 0 && total > l.MaxAttributes {
		return fmt.Errorf("%w: %d > %d", ErrTooManyAttributes, total, l.MaxAttributes)
	}
	return nil
}

func (l Limits) validateAttributes(attrs []core.Attribute) error {
	for _, attr := range attrs {
		key := strings.TrimSpace(attr.Key)
		if key == "" {
			return fmt.Errorf("%w: empty key", ErrInvalidAttribute)
		}
		if strings.HasPrefix(key, ReservedPrefix) {
			return fmt.Errorf("%w: key %q uses reserved prefix %q", ErrInvalidAttribute, key, ReservedPrefix)
		}
		if l.MaxAttributeKeyLen > 0 && len(attr.Key) > l.MaxAttributeKeyLen {
			return fmt.Errorf("%w: key %q too long", ErrInvalidAttribute, key)
		}
		if l.MaxAttributeValueLen > 0 && len(attr.Value) > l.MaxAttributeValueLen {
			return fmt.Errorf("%w: value of %q too long", ErrInvalidAttribute, key)
		}
	}
	return nil
}
