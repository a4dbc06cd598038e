package vm

import (
	"encoding/binary"

	"github.com/govm-net/counter/core"
)

// Key prefixes of host records. Contract storage lives under
// contractStorePrefix and can never collide with host records.
const (
	codeKeyPrefix       byte = 0x01
	contractKeyPrefix   byte = 0x02
	contractStorePrefix byte = 0x03
	sequenceKeyPrefix   byte = 0x04
)

const (
	sequenceCodeID     = "code_id"
	sequenceInstanceID = "instance_id"
)

// CodeKey is the key of the CodeInfo record.
// Format: 0x01 + big endian code id
func CodeKey(codeID uint64) []byte {
	key := make([]byte, 9)
	key[0] = codeKeyPrefix
	binary.BigEndian.PutUint64(key[1:], codeID)
	return key
}

// ContractKey is the key of the ContractInfo record.
// Format: 0x02 + address
func ContractKey(addr core.Address) []byte {
	return append([]byte{contractKeyPrefix}, addr...)
}

// ContractStorePrefix prefixes every key a contract writes.
// Format: 0x03 + len(address) + address
func ContractStorePrefix(addr core.Address) []byte {
	key := make([]byte, 0, 2+len(addr))
	key = append(key, contractStorePrefix, byte(len(addr)))
	return append(key, addr...)
}

// SequenceKey is the key of a named counter.
// Format: 0x04 + name
func SequenceKey(name string) []byte {
	return append([]byte{sequenceKeyPrefix}, name...)
}
