package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/govm-net/counter/vm"
)

type inspectOutput struct {
	*vm.WasmInfo
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.wasm>",
		Short: "List the exports and imports of a wasm artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read wasm file: %w", err)
			}
			info, err := vm.InspectWasm(code)
			if err != nil {
				return err
			}

			out := inspectOutput{WasmInfo: info, Valid: true}
			if err := vm.ValidateEntryPoints(info); err != nil {
				out.Valid = false
				out.Error = err.Error()
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}
