package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/govm-net/counter/repository"
	"github.com/govm-net/counter/vm"
)

type codeOutput struct {
	*vm.CodeInfo
	Artifact *repository.Metadata `json:"artifact,omitempty"`
}

func newCodeCmd(opts *rootOptions) *cobra.Command {
	var (
		codeID  uint64
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "code",
		Short: "Print a stored code record and its archived wasm metadata",
		Long: `Print a stored code record. When the code was stored with a wasm
artifact its archive metadata is printed too, and --out exports the artifact.
Example: counter-cli code --code-id 1 --out counter.wasm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, done, err := opts.openEngine()
			if err != nil {
				return err
			}
			defer done()

			info, err := engine.CodeInfo(codeID)
			if err != nil {
				return err
			}
			out := codeOutput{CodeInfo: info}
			out.Artifact, err = engine.CodeMetadata(codeID)
			if err != nil && !errors.Is(err, vm.ErrNoArtifact) {
				return err
			}

			if outFile != "" {
				code, err := engine.Code(codeID)
				if err != nil {
					return fmt.Errorf("failed to export code %d: %w", codeID, err)
				}
				if err := os.WriteFile(outFile, code, 0644); err != nil {
					return fmt.Errorf("failed to write wasm file: %w", err)
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().Uint64Var(&codeID, "code-id", 1, "code id returned by store")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the archived wasm artifact to this file")
	return cmd
}
