package main

import (
	"bufio"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-witness/witness"
)

var (
	inputFile   string
	signed      bool
	sanityCheck bool
)

func init() {
	calcCmd.Flags().StringVar(&inputFile, "input", "", "Circuit input JSON file. Use - for stdin.")
	calcCmd.Flags().BoolVar(&signed, "signed", false, "Print values in the symmetric range (-P/2, P/2].")
	calcCmd.Flags().BoolVar(&sanityCheck, "sanity-check", false, "Enable the calculator's own runtime checks.")

	calcCmd.MarkFlagRequired("input")
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute a witness and print one value per line",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inputs, err := readInputs(inputFile)
		if err != nil {
			return err
		}

		calc, closeFn, err := openCalculator(ctx, &witness.Config{
			Field:       fieldName,
			SanityCheck: sanityCheck,
		})
		if err != nil {
			return err
		}
		defer closeFn()

		var w []*big.Int
		if signed {
			w, err = calc.CalculateSigned(ctx, inputs)
		} else {
			w, err = calc.Calculate(ctx, inputs)
		}
		if err != nil {
			return err
		}

		out := bufio.NewWriter(cmd.OutOrStdout())
		for _, v := range w {
			fmt.Fprintln(out, v.String())
		}
		return out.Flush()
	},
}

func readInputs(path string) (witness.Inputs, error) {
	if path == "-" {
		return witness.ParseInputs(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return witness.ParseInputs(f)
}
