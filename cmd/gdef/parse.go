package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	gdef "github.com/motoki317/gdef"
	"github.com/motoki317/gdef/driver/parser"
)

var parseCmd = &cobra.Command{
	Use:     "parse <grammar file>",
	Short:   "Build a grammar and parse a source file into a CST",
	Example: `  gdef parse grammar.gdef -s input.txt`,
	Args:    cobra.ExactArgs(1),
	RunE:    runParse,
}

var parseFlags = struct {
	sourcePath *string
}{}

func init() {
	parseFlags.sourcePath = parseCmd.Flags().StringP("source", "s", "", "source file to parse (default stdin)")
}

func runParse(cmd *cobra.Command, args []string) error {
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

	source, err := readSourceFile(*parseFlags.sourcePath)
	if err != nil {
		return err
	}

	root, err := c.Parse(source)
	if err != nil {
		pterm.Error.Println(err.Error())
		return err
	}

	printNode(cmd, root, 0)
	return nil
}

func printNode(cmd *cobra.Command, n *parser.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case parser.KindLeaf:
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s %q [%d:%d]\n", indent, n.Name, n.Lexeme, n.Row, n.Col)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", indent, n.Name)
		for _, c := range n.Children {
			printNode(cmd, c, depth+1)
		}
	}
}
