package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-witness/field"
	"github.com/wippyai/wasm-witness/witness"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the circuit's field, element width and variable count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		calc, closeFn, err := openCalculator(ctx, &witness.Config{Field: fieldName})
		if err != nil {
			return err
		}
		defer closeFn()

		f := calc.Field()
		out := cmd.OutOrStdout()
		st := newStyles(os.Stdout)

		fmt.Fprintln(out, st.title.Render(wasmFile))
		fmt.Fprintf(out, "%s %s\n", st.key.Render("field:   "), st.value.Render(f.Name()))
		fmt.Fprintf(out, "%s %s\n", st.key.Render("prime:   "), st.value.Render(f.Modulus().String()))
		fmt.Fprintf(out, "%s %s\n", st.key.Render("bytes:   "), st.value.Render(fmt.Sprint(field.Bytes)))
		fmt.Fprintf(out, "%s %s\n", st.key.Render("n32:     "), st.value.Render(fmt.Sprint(calc.WordCount())))
		fmt.Fprintf(out, "%s %s\n", st.key.Render("vars:    "), st.value.Render(fmt.Sprint(calc.NVars())))
		return nil
	},
}
