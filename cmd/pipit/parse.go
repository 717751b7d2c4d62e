package main

import (
	"os"

	"github.com/pipit-parser/pipit"
	"github.com/pipit-parser/pipit/tree"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source *string
	engine *string
	start  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <grammar file path>",
		Short:   "Parse a text stream",
		Example: `  cat src | pipit parse grammar.pipit`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.engine = cmd.Flags().String("engine", "earley", "parsing engine (lalr or earley)")
	parseFlags.start = cmd.Flags().String("start", "", "start rule (default taken from the grammar)")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	eng, err := pipit.ParseEngine(*parseFlags.engine)
	if err != nil {
		return err
	}

	opts := []pipit.Option{
		pipit.WithEngine(eng),
	}
	if *parseFlags.start != "" {
		opts = append(opts, pipit.WithStart(*parseFlags.start))
	}

	p, err := loadParser(args[0], opts...)
	if err != nil {
		return err
	}

	src, err := readSource(*parseFlags.source)
	if err != nil {
		return err
	}

	root, err := p.ParseTree(src)
	if err != nil {
		return err
	}

	tree.Print(os.Stdout, root)

	return nil
}
