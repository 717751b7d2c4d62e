package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pipit-parser/pipit"
	"github.com/spf13/cobra"
)

var lexFlags = struct {
	source *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "lex <grammar file path>",
		Short:   "Tokenize a text stream",
		Example: `  cat src | pipit lex grammar.pipit`,
		Args:    cobra.ExactArgs(1),
		RunE:    runLex,
	}
	lexFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	rootCmd.AddCommand(cmd)
}

func runLex(cmd *cobra.Command, args []string) error {
	p, err := loadParser(args[0], pipit.OnlyLex())
	if err != nil {
		return err
	}

	src, err := readSource(*lexFlags.source)
	if err != nil {
		return err
	}

	toks, err := p.Lex(src)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, tok := range toks {
		fmt.Fprintf(w, "%v:%v: %v %#v\n", tok.Row+1, tok.Col+1, tok.KindName, tok.Text)
	}

	return nil
}
