package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	gdef "github.com/motoki317/gdef"
	"github.com/motoki317/gdef/internal/lexdfa"
	"github.com/motoki317/gdef/internal/lr1"
	"github.com/motoki317/gdef/internal/symbol"
)

var showCmd = &cobra.Command{
	Use:     "show <grammar file>",
	Short:   "Print a grammar's productions and its ACTION/GOTO table",
	Example: `  gdef show grammar.gdef`,
	Args:    cobra.ExactArgs(1),
	RunE:    runShow,
}

var showFlags = struct {
	dfa *bool
}{}

func init() {
	showFlags.dfa = showCmd.Flags().Bool("dfa", false, "also dump the tokenizer DFA's states and derivation steps")
}

func runShow(cmd *cobra.Command, args []string) error {
	grammarSrc, err := readSourceFile(args[0])
	if err != nil {
		return err
	}
	c, errs := gdef.Build(grammarSrc)
	if errs.HasErrors() {
		for _, e := range errs {
			pterm.Error.Println(e.Error())
		}
		return errs
	}

	out := cmd.OutOrStdout()
	rd := c.Table.Grammar.SymbolTable().Reader()

	pterm.DefaultSection.Println("Lexemes")
	seen := map[string]bool{}
	for i, name := range c.Lex.AcceptName {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if c.Lex.AcceptSkip[i] {
			if cfg == nil || !cfg.ShowIgnored {
				continue
			}
			fmt.Fprintf(out, "  %s (ignored)\n", name)
			continue
		}
		fmt.Fprintf(out, "  %s\n", name)
	}

	pterm.DefaultSection.Println("Productions")
	for _, p := range c.Table.Grammar.Productions() {
		head, _ := rd.ToText(p.Head)
		fmt.Fprintf(out, "  %3d: %s ->", p.Num().Int(), head)
		if p.IsEpsilon() {
			fmt.Fprint(out, " ε")
		} else {
			for _, e := range p.Body.Elems() {
				name, _ := rd.ToText(e.Sym)
				fmt.Fprintf(out, " %s", name)
			}
		}
		fmt.Fprintln(out)
	}

	if *showFlags.dfa {
		pterm.DefaultSection.Println("Tokenizer DFA")
		for s := 0; s < c.Lex.NumStates; s++ {
			st := lexdfa.State(s)
			fmt.Fprintf(out, "state %d: %s\n", s, c.Lex.StateName(st))
			if name := c.Lex.AcceptName[s]; name != "" {
				fmt.Fprintf(out, "    accepts %s\n", name)
			}
			for _, step := range c.Lex.History[s].Steps {
				fmt.Fprintf(out, "    on %q: %s => %s\n", step.On, step.Before, step.After)
			}
		}
	}

	pterm.DefaultSection.Println("ACTION / GOTO table")
	for state := 0; state < c.Table.NumStates; state++ {
		fmt.Fprintf(out, "state %d:\n", state)
		for _, t := range c.Table.Grammar.Terminals() {
			a, ok := c.Table.Action(state, t)
			if !ok {
				continue
			}
			name, _ := rd.ToText(t)
			fmt.Fprintf(out, "    on %-12s %s\n", name, describeAction(a))
		}
		if a, ok := c.Table.Action(state, symbol.EOI); ok {
			fmt.Fprintf(out, "    on %-12s %s\n", "<eoi>", describeAction(a))
		}
		for _, nt := range c.Table.Grammar.NonTerminals() {
			if g, ok := c.Table.Goto(state, nt); ok {
				name, _ := rd.ToText(nt)
				fmt.Fprintf(out, "    goto %-10s -> state %d\n", name, g)
			}
		}
	}
	return nil
}

func describeAction(a lr1.Action) string {
	switch a.Kind {
	case lr1.ActionShift:
		return fmt.Sprintf("shift -> state %d", a.State)
	case lr1.ActionReduce:
		return fmt.Sprintf("reduce by production %d", a.Prod.Int())
	case lr1.ActionAccept:
		return "accept"
	default:
		return "error"
	}
}
