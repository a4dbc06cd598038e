package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govm-net/counter/core"
)

func setupTestCLI(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	config := "db_path: " + filepath.Join(dir, "state.db") + "\n" +
		"code_dir: " + filepath.Join(dir, "code") + "\n" +
		"log:\n  level: warn\n  file: " + filepath.Join(dir, "cli.log") + "\n"
	require.NoError(t, os.WriteFile(configFile, []byte(config), 0644))
	return []string{"--config", configFile}
}

func runCLI(t *testing.T, base []string, args ...string) ([]byte, error) {
	t.Helper()
	defer slog.SetDefault(slog.Default())

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs(append(append([]string{}, args...), base...))
	err := root.Execute()
	return out.Bytes(), err
}

func TestCLIScenario(t *testing.T) {
	base := setupTestCLI(t)

	out, err := runCLI(t, base, "store")
	require.NoError(t, err)
	var code struct {
		CodeID uint64 `json:"code_id"`
	}
	require.NoError(t, json.Unmarshal(out, &code))
	assert.Equal(t, uint64(1), code.CodeID)

	out, err = runCLI(t, base, "instantiate", "--count", "17", "--sender", "alice")
	require.NoError(t, err)
	var inst instantiateOutput
	require.NoError(t, json.Unmarshal(out, &inst))
	contract := string(inst.Contract)
	require.NotEmpty(t, contract)

	queryCount := func() int32 {
		out, err := runCLI(t, base, "query", "count", "--contract", contract)
		require.NoError(t, err)
		var resp struct {
			Count int32 `json:"count"`
		}
		require.NoError(t, json.Unmarshal(out, &resp))
		return resp.Count
	}
	assert.Equal(t, int32(17), queryCount())

	for _, variant := range []string{"increment", "Increment", "INCREMENT"} {
		_, err = runCLI(t, base, "execute", variant, "--contract", contract, "--sender", "bob")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(20), queryCount())

	_, err = runCLI(t, base, "execute", "reset", "--contract", contract, "--sender", "bob", "--count", "0")
	assert.ErrorIs(t, err, core.ErrUnauthorized)
	assert.Equal(t, int32(20), queryCount())

	_, err = runCLI(t, base, "execute", "reset", "--contract", contract, "--sender", "alice", "--count", "5")
	require.NoError(t, err)
	assert.Equal(t, int32(5), queryCount())

	out, err = runCLI(t, base, "version", "--contract", contract)
	require.NoError(t, err)
	assert.JSONEq(t, `{"contract":"govm:counter","version":"0.1.0"}`, string(out))

	_, err = runCLI(t, base, "version", "--contract", contract, "--expect", "0.1.0")
	require.NoError(t, err)
	_, err = runCLI(t, base, "version", "--contract", contract, "--expect", "0.2.0")
	assert.Error(t, err)

	out, err = runCLI(t, base, "events", "--contract", contract)
	require.NoError(t, err)
	var events []json.RawMessage
	require.NoError(t, json.Unmarshal(out, &events))
	assert.Len(t, events, 5)
}

func TestCLIUnknownVariant(t *testing.T) {
	_, err := buildExecuteMsg("decrement", 0)
	assert.ErrorIs(t, err, core.ErrUnknownMessage)

	msg, err := buildExecuteMsg(" Reset ", 3)
	require.NoError(t, err)
	assert.JSONEq(t, `{"reset":{"count":3}}`, string(msg))
}

func TestLoadConfig(t *testing.T) {
	config, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), config)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gas_limit: 42\nchain_id: test-1\n"), 0644))
	config, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), config.GasLimit)
	assert.Equal(t, "test-1", config.ChainID)
	assert.Equal(t, "govm", config.AddressPrefix)

	engineConfig := config.engineConfig()
	assert.Equal(t, "db", engineConfig.ContextType)
	assert.Equal(t, uint64(42), engineConfig.GasLimit)

	require.NoError(t, os.WriteFile(path, []byte("unknown_key: 1\n"), 0644))
	_, err = loadConfig(path)
	assert.Error(t, err)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFlagsOverrideConfig(t *testing.T) {
	opts := &rootOptions{dbPath: "override.db", gasLimit: 7, logLevel: "debug"}
	config, err := opts.config()
	require.NoError(t, err)
	assert.Equal(t, "override.db", config.DBPath)
	assert.Equal(t, uint64(7), config.GasLimit)
	assert.Equal(t, "debug", config.Log.Level)
}

func TestSetupLoggerInvalidLevel(t *testing.T) {
	_, err := setupLogger(LogConfig{Level: "loud"})
	assert.Error(t, err)
}

// counterWasm exports empty instantiate, execute and query functions
var counterWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x04, 0x03, 0x00, 0x00, 0x00,
	0x07, 0x21, 0x03,
	0x0b, 'i', 'n', 's', 't', 'a', 'n', 't', 'i', 'a', 't', 'e', 0x00, 0x00,
	0x07, 'e', 'x', 'e', 'c', 'u', 't', 'e', 0x00, 0x01,
	0x05, 'q', 'u', 'e', 'r', 'y', 0x00, 0x02,
	0x0a, 0x0a, 0x03, 0x02, 0x00, 0x0b, 0x02, 0x00, 0x0b, 0x02, 0x00, 0x0b,
}

func TestCLICode(t *testing.T) {
	base := setupTestCLI(t)
	dir := t.TempDir()
	wasmFile := filepath.Join(dir, "counter.wasm")
	require.NoError(t, os.WriteFile(wasmFile, counterWasm, 0644))

	_, err := runCLI(t, base, "store")
	require.NoError(t, err)
	_, err = runCLI(t, base, "store", "--wasm", wasmFile)
	require.NoError(t, err)

	out, err := runCLI(t, base, "code", "--code-id", "1")
	require.NoError(t, err)
	var native map[string]any
	require.NoError(t, json.Unmarshal(out, &native))
	assert.Equal(t, false, native["has_wasm"])
	assert.NotContains(t, native, "artifact")

	exported := filepath.Join(dir, "exported.wasm")
	out, err = runCLI(t, base, "code", "--code-id", "2", "--out", exported)
	require.NoError(t, err)
	var stored struct {
		CodeID   uint64 `json:"code_id"`
		HasWasm  bool   `json:"has_wasm"`
		Artifact struct {
			Exports []string `json:"exports"`
			Size    int      `json:"size"`
		} `json:"artifact"`
	}
	require.NoError(t, json.Unmarshal(out, &stored))
	assert.Equal(t, uint64(2), stored.CodeID)
	assert.True(t, stored.HasWasm)
	assert.Equal(t, []string{"execute", "instantiate", "query"}, stored.Artifact.Exports)
	assert.Equal(t, len(counterWasm), stored.Artifact.Size)

	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Equal(t, counterWasm, data)

	_, err = runCLI(t, base, "code", "--code-id", "1", "--out", exported)
	assert.Error(t, err)

	out, err = runCLI(t, base, "inspect", wasmFile)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"valid": true`)
}
