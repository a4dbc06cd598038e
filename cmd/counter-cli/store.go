package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/govm-net/counter/contracts/counter"
)

func newStoreCmd(opts *rootOptions) *cobra.Command {
	var wasmFile string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Store the counter code and print its code id",
		Long: `Store the counter code. An optional wasm artifact is checked for the
instantiate, execute and query exports and archived under the code directory.
Example: counter-cli store --wasm counter.wasm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var code []byte
			if wasmFile != "" {
				var err error
				if code, err = os.ReadFile(wasmFile); err != nil {
					return fmt.Errorf("failed to read wasm file: %w", err)
				}
			}

			engine, done, err := opts.openEngine()
			if err != nil {
				return err
			}
			defer done()

			if err := engine.NextBlock(); err != nil {
				return err
			}
			codeID, err := engine.StoreCode(counter.ContractName, code)
			if err != nil {
				return fmt.Errorf("failed to store code: %w", err)
			}
			info, err := engine.CodeInfo(codeID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
	cmd.Flags().StringVarP(&wasmFile, "wasm", "w", "", "wasm artifact of the contract")
	return cmd
}
