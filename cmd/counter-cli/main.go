// Command counter-cli stores, instantiates and drives counter contracts
// against a local SQLite state.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/govm-net/counter/context/db"
	"github.com/govm-net/counter/contracts/counter"
	"github.com/govm-net/counter/vm"
)

// rootOptions are the persistent flags shared by every command
type rootOptions struct {
	configFile string
	dbPath     string
	logFile    string
	logLevel   string
	gasLimit   uint64
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "counter-cli",
		Short:         "Counter contract command line tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "yaml config file")
	flags.StringVar(&opts.dbPath, "db", "", "SQLite state file (overrides config)")
	flags.StringVar(&opts.logFile, "log-file", "", "rotated log file (overrides config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	flags.Uint64Var(&opts.gasLimit, "gas-limit", 0, "gas limit of a single call (overrides config)")

	root.AddCommand(
		newStoreCmd(opts),
		newCodeCmd(opts),
		newInstantiateCmd(opts),
		newExecuteCmd(opts),
		newQueryCmd(opts),
		newVersionCmd(opts),
		newEventsCmd(opts),
		newInspectCmd(),
	)
	return root
}

// config loads the config file and applies the flag overrides
func (o *rootOptions) config() (*Config, error) {
	config, err := loadConfig(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		config.DBPath = o.dbPath
	}
	if o.logFile != "" {
		config.Log.File = o.logFile
	}
	if o.logLevel != "" {
		config.Log.Level = o.logLevel
	}
	if o.gasLimit != 0 {
		config.GasLimit = o.gasLimit
	}
	return config, nil
}

// openEngine returns an engine with the counter contract registered.
// The returned function releases the engine and the log file.
func (o *rootOptions) openEngine() (*vm.Engine, func(), error) {
	config, err := o.config()
	if err != nil {
		return nil, nil, err
	}
	logCloser, err := setupLogger(config.Log)
	if err != nil {
		return nil, nil, err
	}
	closeLog := func() {
		if logCloser != nil {
			logCloser.Close()
		}
	}

	engine, err := vm.NewEngine(config.engineConfig())
	if err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("failed to create engine: %w", err)
	}
	if err := engine.RegisterContract(counter.ContractName, counter.New()); err != nil {
		engine.Close()
		closeLog()
		return nil, nil, err
	}

	slog.Debug("engine ready", "db", config.DBPath, "chain_id", config.ChainID, "height", engine.GetContext().BlockHeight())
	return engine, func() {
		if err := engine.Close(); err != nil {
			slog.Error("failed to close engine", "error", err)
		}
		closeLog()
	}, nil
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
