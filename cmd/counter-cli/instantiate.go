package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/govm-net/counter/contracts/counter"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/vm"
)

type instantiateOutput struct {
	Contract core.Address        `json:"contract"`
	Result   *vm.ExecutionResult `json:"result"`
}

func newInstantiateCmd(opts *rootOptions) *cobra.Command {
	var (
		codeID uint64
		count  int32
		sender string
		label  string
	)

	cmd := &cobra.Command{
		Use:   "instantiate",
		Short: "Create a counter instance owned by the sender",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := core.Marshal(counter.InstantiateMsg{Count: count})
			if err != nil {
				return err
			}

			engine, done, err := opts.openEngine()
			if err != nil {
				return err
			}
			defer done()

			if err := engine.NextBlock(); err != nil {
				return err
			}
			addr, result, err := engine.Instantiate(codeID, core.Address(sender), msg, label)
			if err != nil {
				return fmt.Errorf("failed to instantiate: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), instantiateOutput{Contract: addr, Result: result})
		},
	}
	cmd.Flags().Uint64Var(&codeID, "code-id", 1, "code id returned by store")
	cmd.Flags().Int32Var(&count, "count", 0, "initial count")
	cmd.Flags().StringVarP(&sender, "sender", "s", "", "sender, becomes the owner (required)")
	cmd.Flags().StringVar(&label, "label", "", "human readable label")
	cmd.MarkFlagRequired("sender")
	return cmd
}
