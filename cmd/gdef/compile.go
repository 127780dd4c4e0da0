package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	gdef "github.com/motoki317/gdef"
)

var compileCmd = &cobra.Command{
	Use:     "compile <grammar file>",
	Short:   "Build a grammar's tokenizer and LR(1) table, reporting any errors",
	Example: `  gdef compile grammar.gdef`,
	Args:    cobra.ExactArgs(1),
	RunE:    runCompile,
}

func runCompile(cmd *cobra.Command, args []string) error {
	src, err := readSourceFile(args[0])
	if err != nil {
		return err
	}

	_, errs := gdef.Build(src)
	if errs.HasErrors() {
		for _, e := range errs {
			pterm.Error.Println(e.Error())
		}
		return errs
	}

	pterm.Success.Println("grammar compiled with no conflicts")
	return nil
}
