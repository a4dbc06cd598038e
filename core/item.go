package core

import (
	"fmt"
)

// Item is a single typed value stored under a fixed key.
type Item[T any] struct {
	key string
}

// NewItem returns an Item bound to key
func NewItem[T any](key string) Item[T] {
	return Item[T]{key: key}
}

// Key returns the raw storage key
func (i Item[T]) Key() []byte {
	return []byte(i.key)
}

// Save encodes value and writes it to the store
func (i Item[T]) Save(store Storage, value *T) error {
	data, err := Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(i.Key(), data)
}

// Load reads the value, returning ErrNotFound if it was never saved
func (i Item[T]) Load(store Storage) (*T, error) {
	value, err := i.MayLoad(store)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, i.key)
	}
	return value, nil
}

// MayLoad reads the value, returning nil if it was never saved
func (i Item[T]) MayLoad(store Storage) (*T, error) {
	data, err := store.Get(i.Key())
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	value := new(T)
	if err := Unmarshal(data, value); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", i.key, err)
	}
	return value, nil
}

// Update loads the value, applies fn and saves the result.
// Nothing is written if fn returns an error.
func (i Item[T]) Update(store Storage, fn func(*T) error) (*T, error) {
	value, err := i.Load(store)
	if err != nil {
		return nil, err
	}
	if err := fn(value); err != nil {
		return nil, err
	}
	if err := i.Save(store, value); err != nil {
		return nil, err
	}
	return value, nil
}

// Remove deletes the value
func (i Item[T]) Remove(store Storage) error {
	return store.Delete(i.Key())
}
