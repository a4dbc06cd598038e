package vm

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/govm-net/counter/core"
)

const addressModule = "module/wasm"

// BuildContractAddress derives a deterministic bech32 contract address from
// the code id and the global instance id.
func BuildContractAddress(prefix string, codeID, instanceID uint64) (core.Address, error) {
	buf := make([]byte, 0, len(addressModule)+16)
	buf = append(buf, addressModule...)
	buf = binary.BigEndian.AppendUint64(buf, codeID)
	buf = binary.BigEndian.AppendUint64(buf, instanceID)
	hash := sha256.Sum256(buf)

	conv, err := bech32.ConvertBits(hash[:], 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("failed to convert address bits: %w", err)
	}
	addr, err := bech32.Encode(prefix, conv)
	if err != nil {
		return "", fmt.Errorf("failed to encode address: %w", err)
	}
	return core.Address(addr), nil
}

// ValidateContractAddress checks that addr is a bech32 address with prefix
func ValidateContractAddress(prefix string, addr core.Address) error {
	hrp, data, err := bech32.Decode(addr.String())
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidAddress, err)
	}
	if hrp != prefix {
		return fmt.Errorf("%w: expected prefix %s, got %s", core.ErrInvalidAddress, prefix, hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidAddress, err)
	}
	if len(raw) != sha256.Size {
		return fmt.Errorf("%w: unexpected length %d", core.ErrInvalidAddress, len(raw))
	}
	return nil
}
