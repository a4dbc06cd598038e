// Package repository archives the wasm artifacts uploaded to the host
package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrCodeNotFound is returned for an unknown checksum
var ErrCodeNotFound = errors.New("code not found")

const (
	codeFile     = "code.wasm"
	metadataFile = "metadata.json"
)

// Checksum is the sha256 of a wasm artifact
type Checksum [32]byte

func (c Checksum) String() string {
	return hex.EncodeToString(c[:])
}

// ChecksumOf computes the checksum of code
func ChecksumOf(code []byte) Checksum {
	return sha256.Sum256(code)
}

// ParseChecksum decodes a hex checksum
func ParseChecksum(s string) (Checksum, error) {
	var c Checksum
	b, err := hex.DecodeString(s)
	if err != nil {
		return c, fmt.Errorf("invalid checksum %q: %w", s, err)
	}
	if len(b) != len(c) {
		return c, fmt.Errorf("invalid checksum length %d", len(b))
	}
	copy(c[:], b)
	return c, nil
}

// Metadata describes an archived artifact
type Metadata struct {
	Name       string    `json:"name"`
	Checksum   string    `json:"checksum"`
	Size       int       `json:"size"`
	Exports    []string  `json:"exports"`
	UpdateTime time.Time `json:"update_time"`
}

// Manager stores artifacts under rootDir/<checksum>/
type Manager struct {
	rootDir string
}

// NewManager creates rootDir if needed
func NewManager(rootDir string) (*Manager, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		slog.Error("failed to create root directory", "dir", rootDir, "error", err)
		return nil, fmt.Errorf("failed to create root directory: %w", err)
	}
	return &Manager{rootDir: rootDir}, nil
}

// RegisterCode archives code under its checksum. Registering identical
// code twice is a no-op that returns the same checksum.
func (m *Manager) RegisterCode(name string, code []byte, exports []string) (Checksum, error) {
	checksum := ChecksumOf(code)
	if m.HasCode(checksum) {
		return checksum, nil
	}

	dir := m.getCodeDir(checksum)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return checksum, fmt.Errorf("failed to create code directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, codeFile), code, 0644); err != nil {
		os.RemoveAll(dir)
		return checksum, fmt.Errorf("failed to save code: %w", err)
	}

	metadata := Metadata{
		Name:       name,
		Checksum:   checksum.String(),
		Size:       len(code),
		Exports:    exports,
		UpdateTime: time.Now().UTC(),
	}
	metadataBytes, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		os.RemoveAll(dir)
		return checksum, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, metadataFile), metadataBytes, 0644); err != nil {
		os.RemoveAll(dir)
		return checksum, fmt.Errorf("failed to save metadata: %w", err)
	}

	slog.Info("registered code", "name", name, "checksum", checksum, "size", len(code))
	return checksum, nil
}

// HasCode reports whether an artifact with checksum is archived
func (m *Manager) HasCode(checksum Checksum) bool {
	_, err := os.Stat(filepath.Join(m.getCodeDir(checksum), metadataFile))
	return err == nil
}

// GetCode returns the archived artifact
func (m *Manager) GetCode(checksum Checksum) ([]byte, error) {
	code, err := os.ReadFile(filepath.Join(m.getCodeDir(checksum), codeFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrCodeNotFound, checksum)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read code: %w", err)
	}
	if ChecksumOf(code) != checksum {
		return nil, fmt.Errorf("code %s is corrupted", checksum)
	}
	return code, nil
}

// GetMetadata returns the metadata of an archived artifact
func (m *Manager) GetMetadata(checksum Checksum) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(m.getCodeDir(checksum), metadataFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrCodeNotFound, checksum)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	var metadata Metadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &metadata, nil
}

func (m *Manager) getCodeDir(checksum Checksum) string {
	return filepath.Join(m.rootDir, checksum.String())
}
