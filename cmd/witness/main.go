package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wasm-witness/codec"
	"github.com/wippyai/wasm-witness/engine"
	"github.com/wippyai/wasm-witness/witness"
)

var (
	wasmFile         string
	fieldName        string
	memoryLimitPages uint32
	verbose          bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&wasmFile, "wasm", "", "Path to the compiled circom witness calculator (.wasm).")
	rootCmd.PersistentFlags().StringVar(&fieldName, "field", "", "Expected scalar field: bn254, bls12-381, bls12-377. Empty accepts the circuit's prime.")
	rootCmd.PersistentFlags().Uint32Var(&memoryLimitPages, "memory-limit-pages", 0, "Maximum guest memory in 64KiB pages. 0 keeps the runtime default.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log codec and runtime activity to stderr.")

	rootCmd.MarkPersistentFlagRequired("wasm")

	rootCmd.AddCommand(infoCmd, calcCmd)
}

var rootCmd = &cobra.Command{
	Use:           "witness",
	Short:         "Compute circom witnesses with a sandboxed wasm calculator",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(verbose)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle(os.Stderr).Render("Error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}

func setupLogging(verbose bool) error {
	var (
		log *zap.Logger
		err error
	)
	if verbose {
		log, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		log, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	engine.SetLogger(log)
	codec.SetLogger(log)
	witness.SetLogger(log)
	return nil
}

// openCalculator builds an engine and a calculator for the --wasm file.
// The returned close function releases both.
func openCalculator(ctx context.Context, cfg *witness.Config) (*witness.Calculator, func(), error) {
	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read wasm: %w", err)
	}

	eng, err := engine.NewWazeroEngineWithConfig(ctx, &engine.Config{
		MemoryLimitPages:   memoryLimitPages,
		CloseOnContextDone: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create engine: %w", err)
	}

	calc, err := witness.New(ctx, eng, data, cfg)
	if err != nil {
		_ = eng.Close(ctx)
		return nil, nil, err
	}

	return calc, func() {
		_ = calc.Close(ctx)
		_ = eng.Close(ctx)
	}, nil
}
