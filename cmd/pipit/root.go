package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pipit-parser/pipit"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "pipit",
	Short:         "Parse a text stream with a grammar you defined",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}

	return err
}

func readGrammarFile(path string) (string, error) {
	d, err := ioutil.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("Cannot read the grammar file %s: %w", path, err)
	}
	return string(d), nil
}

func loadParser(grmPath string, opts ...pipit.Option) (*pipit.Parser, error) {
	text, err := readGrammarFile(grmPath)
	if err != nil {
		return nil, err
	}
	p, err := pipit.Load(text, opts...)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", grmPath, err)
	}
	return p, nil
}

// readSource reads a source file, or the stdin when the path is empty.
func readSource(path string) (string, error) {
	if path == "" {
		d, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(d), nil
	}
	d, err := ioutil.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("Cannot read the source file %s: %w", path, err)
	}
	return string(d), nil
}
