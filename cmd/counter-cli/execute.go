package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/govm-net/counter/contracts/counter"
	"github.com/govm-net/counter/core"
)

// executeVariants are the execute messages the CLI can build
var executeVariants = []string{"increment", "reset"}

// buildExecuteMsg encodes the execute message named by variant.
// Variant names are case insensitive.
func buildExecuteMsg(variant string, count int32) ([]byte, error) {
	var msg counter.ExecuteMsg
	switch cases.Lower(language.Und).String(strings.TrimSpace(variant)) {
	case "increment":
		msg.Increment = &counter.Increment{}
	case "reset":
		msg.Reset = &counter.Reset{Count: count}
	default:
		return nil, fmt.Errorf("%w: %q, expected one of %s",
			core.ErrUnknownMessage, variant, strings.Join(executeVariants, ", "))
	}
	return core.Marshal(msg)
}

func newExecuteCmd(opts *rootOptions) *cobra.Command {
	var (
		contract string
		sender   string
		count    int32
	)

	cmd := &cobra.Command{
		Use:       "execute increment|reset",
		Short:     "Send an execute message to a counter",
		Example:   "counter-cli execute reset --contract govm1... --sender alice --count 5",
		Args:      cobra.ExactArgs(1),
		ValidArgs: executeVariants,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := buildExecuteMsg(args[0], count)
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
			result, err := engine.Execute(core.Address(contract), core.Address(sender), msg)
			if err != nil {
				return fmt.Errorf("failed to execute %s: %w", args[0], err)
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&contract, "contract", "", "contract address (required)")
	cmd.Flags().StringVarP(&sender, "sender", "s", "", "sender (required)")
	cmd.Flags().Int32Var(&count, "count", 0, "new count for reset")
	cmd.MarkFlagRequired("contract")
	cmd.MarkFlagRequired("sender")
	return cmd
}
