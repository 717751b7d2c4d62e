package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pipit-parser/pipit"
	"github.com/pipit-parser/pipit/grammar"
	"github.com/spf13/cobra"
)

var checkFlags = struct {
	engine *string
	start  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "check <grammar file path>",
		Short:   "Check whether a grammar is valid without parsing anything",
		Example: `  pipit check grammar.pipit --engine lalr`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCheck,
	}
	checkFlags.engine = cmd.Flags().String("engine", "lalr", "parsing engine to check against (lalr or earley)")
	checkFlags.start = cmd.Flags().String("start", "", "start rule (default taken from the grammar)")
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	eng, err := pipit.ParseEngine(*checkFlags.engine)
	if err != nil {
		return err
	}

	opts := []pipit.Option{
		pipit.WithEngine(eng),
	}
	if *checkFlags.start != "" {
		opts = append(opts, pipit.WithStart(*checkFlags.start))
	}

	_, err = loadParser(args[0], opts...)
	if err != nil {
		var cErr *grammar.ConflictError
		if errors.As(err, &cErr) {
			writeConflicts(os.Stderr, cErr)
		}
		return err
	}

	fmt.Fprintln(os.Stdout, "the grammar is valid")

	return nil
}

func writeConflicts(w io.Writer, cErr *grammar.ConflictError) {
	for _, c := range cErr.ShiftReduce {
		fmt.Fprintf(w, "state %v: shift/reduce conflict on %v: shift %v or reduce production %v\n", c.State, c.Symbol, c.NextState, c.Production)
	}
	for _, c := range cErr.ReduceReduce {
		fmt.Fprintf(w, "state %v: reduce/reduce conflict on %v: reduce production %v or production %v\n", c.State, c.Symbol, c.Production1, c.Production2)
	}
}
