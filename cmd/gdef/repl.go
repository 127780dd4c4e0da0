package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	gdef "github.com/motoki317/gdef"
)

var replCmd = &cobra.Command{
	Use:     "repl <grammar file>",
	Short:   "Build a grammar once, then tokenize and parse lines entered interactively",
	Example: `  gdef repl grammar.gdef`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
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
	pterm.Success.Println("grammar loaded, enter lines to parse (Ctrl-D to quit)")

	rl, err := readline.NewEx(&readline.Config{Prompt: "gdef> "})
	if err != nil {
		return fmt.Errorf("start readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		root, perr := c.Parse(line)
		if perr != nil {
			pterm.Error.Println(perr.Error())
			continue
		}
		printNode(cmd, root, 0)
	}
}
