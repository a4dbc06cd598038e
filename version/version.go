// Package version stores the name and version of a deployed contract so
// that migration tooling can tell which code wrote the current state.
package version

import (
	"fmt"

	"github.com/govm-net/counter/core"
)

// StorageKey is the fixed key holding the version record
const StorageKey = "contract_info"

// ContractVersion is the persisted version record
type ContractVersion struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

var item = core.NewItem[ContractVersion](StorageKey)

// Set records name and version, overwriting any previous record
func Set(store core.Storage, name, version string) error {
	if name == "" || version == "" {
		return fmt.Errorf("%w: empty contract name or version", core.ErrInvalidArgument)
	}
	return item.Save(store, &ContractVersion{Contract: name, Version: version})
}

// Get returns the stored version record
func Get(store core.Storage) (*ContractVersion, error) {
	return item.Load(store)
}

// Assert checks that the stored record matches the expected name and version
func Assert(store core.Storage, name, version string) error {
	info, err := Get(store)
	if err != nil {
		return err
	}
	if info.Contract != name {
		return fmt.Errorf("contract name mismatch: expected %s, got %s", name, info.Contract)
	}
	if info.Version != version {
		return fmt.Errorf("contract version mismatch: expected %s, got %s", version, info.Version)
	}
	return nil
}
