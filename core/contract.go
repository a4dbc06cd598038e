package core

import (
	"errors"
)

// Common errors that can be returned by smart contracts
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidAddress  = errors.New("invalid address")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrSerialization   = errors.New("serialization error")
	ErrUnknownMessage  = errors.New("unknown message variant")
	ErrOverflow        = errors.New("overflow")
)
