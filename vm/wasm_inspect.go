package vm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// ErrMissingEntryPoint is returned when an artifact lacks a required export
var ErrMissingEntryPoint = errors.New("missing entry point")

// RequiredExports are the entry points every contract artifact must export
var RequiredExports = []string{"instantiate", "execute", "query"}

// WasmInfo summarizes a compiled wasm artifact
type WasmInfo struct {
	// Functions maps exported function names to their signature
	Functions map[string]string `json:"functions"`
	// Imports lists imported functions as module.name
	Imports []string `json:"imports"`
	// Memories lists exported memories
	Memories []string `json:"memories"`
}

// Exports returns the sorted exported function names
func (w *WasmInfo) Exports() []string {
	names := make([]string, 0, len(w.Functions))
	for name := range w.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InspectWasm compiles code and reports its exports and imports
func InspectWasm(code []byte) (*WasmInfo, error) {
	ctx := context.Background()
	runtime := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer runtime.Close(ctx)

	compiled, err := runtime.CompileModule(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to compile WebAssembly module: %w", err)
	}
	defer compiled.Close(ctx)

	info := &WasmInfo{
		Functions: make(map[string]string),
	}
	for name, def := range compiled.ExportedFunctions() {
		info.Functions[name] = signature(def)
	}
	for _, def := range compiled.ImportedFunctions() {
		module, name, _ := def.Import()
		info.Imports = append(info.Imports, module+"."+name)
	}
	for name := range compiled.ExportedMemories() {
		info.Memories = append(info.Memories, name)
	}
	sort.Strings(info.Imports)
	sort.Strings(info.Memories)
	return info, nil
}

// ValidateEntryPoints checks that every required export is present
func ValidateEntryPoints(info *WasmInfo) error {
	var missing []string
	for _, name := range RequiredExports {
		if _, ok := info.Functions[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingEntryPoint, strings.Join(missing, ", "))
	}
	return nil
}

func signature(def api.FunctionDefinition) string {
	return "(" + typeList(def.ParamTypes()) + ") -> (" + typeList(def.ResultTypes()) + ")"
}

func typeList(list []api.ValueType) string {
	names := make([]string, len(list))
	for i, t := range list {
		names[i] = api.ValueTypeName(t)
	}
	return strings.Join(names, ", ")
}
