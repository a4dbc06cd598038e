package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/govm-net/counter/contracts/counter"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/version"
)

func newQueryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Read-only queries against a counter",
	}

	var contract string
	countCmd := &cobra.Command{
		Use:   "count",
		Short: "Print the current count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := core.Marshal(counter.QueryMsg{GetCount: &counter.GetCount{}})
			if err != nil {
				return err
			}

			engine, done, err := opts.openEngine()
			if err != nil {
				return err
			}
			defer done()

			data, err := engine.Query(core.Address(contract), msg)
			if err != nil {
				return fmt.Errorf("failed to query count: %w", err)
			}
			var resp counter.GetCountResponse
			if err := core.Unmarshal(data, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	countCmd.Flags().StringVar(&contract, "contract", "", "contract address (required)")
	countCmd.MarkFlagRequired("contract")

	cmd.AddCommand(countCmd)
	return cmd
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	var (
		contract string
		expect   string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the name and version recorded by a contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, done, err := opts.openEngine()
			if err != nil {
				return err
			}
			defer done()

			var info *version.ContractVersion
			err = engine.ReadContract(core.Address(contract), func(store core.Storage) error {
				if expect != "" {
					if err := version.Assert(store, counter.ContractName, expect); err != nil {
						return err
					}
				}
				var err error
				info, err = version.Get(store)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to read version of %s: %w", contract, err)
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
	cmd.Flags().StringVar(&contract, "contract", "", "contract address (required)")
	cmd.Flags().StringVar(&expect, "expect", "", "fail unless the contract records this counter version")
	cmd.MarkFlagRequired("contract")
	return cmd
}

func newEventsCmd(opts *rootOptions) *cobra.Command {
	var contract string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the events emitted by a contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, done, err := opts.openEngine()
			if err != nil {
				return err
			}
			defer done()

			events, err := engine.Events(core.Address(contract))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), events)
		},
	}
	cmd.Flags().StringVar(&contract, "contract", "", "contract address (required)")
	cmd.MarkFlagRequired("contract")
	return cmd
}
