package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/pipit-parser/pipit/grammar"
	"github.com/pipit-parser/pipit/langdef"
	"github.com/pipit-parser/pipit/lexer"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show <grammar file path>",
		Short:   "Print a report on a grammar in a readable format",
		Example: `  pipit show grammar.pipit`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

// runShow reports the LALR view of a grammar because only that class
// has an automaton worth inspecting. A grammar that is not LALR(1)
// still gets its report rendered, with the conflicting states marked.
func runShow(cmd *cobra.Command, args []string) error {
	text, err := readGrammarFile(args[0])
	if err != nil {
		return err
	}

	def, err := langdef.Parse(strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("%v: %w", args[0], err)
	}

	spec, err := lexer.CompileSpec(def.TokenDefs)
	if err != nil {
		return fmt.Errorf("%v: %w", args[0], err)
	}

	gram, err := grammar.New(spec, def.Rules, def.Start)
	if err != nil {
		return fmt.Errorf("%v: %w", args[0], err)
	}

	_, report, err := grammar.Compile(gram, grammar.ClassLALR, grammar.EnableReporting())
	if report == nil {
		return err
	}

	err = writeReport(os.Stdout, report)
	if err != nil {
		return err
	}

	return nil
}

const reportTemplate = `# Conflicts

{{ printConflictSummary . }}

# Terminals

{{ range slice .Terminals 1 -}}
{{ printTerminal . }}
{{ end }}
# Productions

{{ range slice .Productions 1 -}}
{{ printProduction . }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}

{{ range .Kernel -}}
{{ printItem . }}
{{ end }}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end }}
{{ range .SRConflict -}}
{{ printSRConflict . }}
{{ end -}}
{{ range .RRConflict -}}
{{ printRRConflict . }}
{{ end -}}
{{ end }}`

func writeReport(w io.Writer, report *grammar.Report) error {
	termName := func(sym int) string {
		return report.Terminals[sym].Name
	}

	nonTermName := func(sym int) string {
		return report.NonTerminals[sym].Name
	}

	printRHS := func(b *strings.Builder, rhs []int) {
		if len(rhs) == 0 {
			fmt.Fprintf(b, " ε")
			return
		}
		for _, e := range rhs {
			if e > 0 {
				fmt.Fprintf(b, " %v", termName(e))
			} else {
				fmt.Fprintf(b, " %v", nonTermName(e*-1))
			}
		}
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *grammar.Report) string {
			var count int
			for _, s := range report.States {
				count += len(s.SRConflict)
				count += len(s.RRConflict)
			}

			switch {
			case count == 1:
				return "1 conflict was found. The grammar is not LALR(1)."
			case count > 1:
				return fmt.Sprintf("%v conflicts were found. The grammar is not LALR(1).", count)
			default:
				return "No conflict was found. The grammar is LALR(1)."
			}
		},
		"printTerminal": func(term *grammar.Terminal) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%4v %v", term.Number, term.Name)
			if term.Pattern != "" {
				fmt.Fprintf(&b, " %#v", term.Pattern)
			}
			if term.Ignored {
				fmt.Fprintf(&b, " (ignored)")
			}
			if term.FilterOut {
				fmt.Fprintf(&b, " (filtered out)")
			}
			return b.String()
		},
		"printProduction": func(prod *grammar.Production) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			printRHS(&b, prod.RHS)
			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printItem": func(item *grammar.Item) string {
			prod := report.Productions[item.Production]

			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			for i, e := range prod.RHS {
				if i == item.Dot {
					fmt.Fprintf(&b, " ・")
				}
				if e > 0 {
					fmt.Fprintf(&b, " %v", termName(e))
				} else {
					fmt.Fprintf(&b, " %v", nonTermName(e*-1))
				}
			}
			if item.Dot >= len(prod.RHS) {
				fmt.Fprintf(&b, " ・")
			}

			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printShift": func(tran *grammar.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, termName(tran.Symbol))
		},
		"printReduce": func(reduce *grammar.Reduce) string {
			var b strings.Builder
			{
				fmt.Fprintf(&b, "%v", termName(reduce.LookAhead[0]))
				for _, a := range reduce.LookAhead[1:] {
					fmt.Fprintf(&b, ", %v", termName(a))
				}
			}
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, b.String())
		},
		"printGoTo": func(tran *grammar.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, nonTermName(tran.Symbol))
		},
		"printSRConflict": func(sr *grammar.SRConflict) string {
			return fmt.Sprintf("shift/reduce conflict on %v: shift %v or reduce production %v", termName(sr.Symbol), sr.State, sr.Production)
		},
		"printRRConflict": func(rr *grammar.RRConflict) string {
			return fmt.Sprintf("reduce/reduce conflict on %v: reduce production %v or production %v", termName(rr.Symbol), rr.Production1, rr.Production2)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	err = tmpl.Execute(w, report)
	if err != nil {
		return err
	}

	return nil
}
