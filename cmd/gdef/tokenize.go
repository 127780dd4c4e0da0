package main

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	gdef "github.com/motoki317/gdef"
	"github.com/motoki317/gdef/driver/lexer"
)

var tokenizeCmd = &cobra.Command{
	Use:     "tokenize <grammar file>",
	Short:   "Build a grammar and run its tokenizer over a source file",
	Example: `  gdef tokenize grammar.gdef -s input.txt`,
	Args:    cobra.ExactArgs(1),
	RunE:    runTokenize,
}

var tokenizeFlags = struct {
	sourcePath *string
}{}

func init() {
	tokenizeFlags.sourcePath = tokenizeCmd.Flags().StringP("source", "s", "", "source file to tokenize (default stdin)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
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

	source, err := readSourceFile(*tokenizeFlags.sourcePath)
	if err != nil {
		return err
	}

	toks, err := c.Tokenize(source)
	if cfg != nil && cfg.Format == "json" {
		if jerr := writeTokensJSON(cmd, toks); jerr != nil {
			return jerr
		}
	} else {
		table := pterm.TableData{{"#", "name", "lexeme", "row", "col"}}
		for i, t := range toks {
			name := t.Name
			if t.EOF {
				name = "<eof>"
			}
			table = append(table, []string{fmt.Sprint(i), name, t.Lexeme, fmt.Sprint(t.Row), fmt.Sprint(t.Col)})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(table).Render()
	}

	if err != nil {
		pterm.Error.Println(err.Error())
		return err
	}
	return nil
}

// tokenJSON is the token wire layout: start inclusive, end exclusive,
// line/column 1-based pointing at the token's first character.
type tokenJSON struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// writeTokensJSON emits one JSON object per line, skipping the
// synthetic EOF token (it is a driver artifact, not part of the wire
// layout).
func writeTokensJSON(cmd *cobra.Command, toks []*lexer.Token) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, t := range toks {
		if t.EOF {
			continue
		}
		if err := enc.Encode(tokenJSON{
			Type:   t.Name,
			Value:  t.Lexeme,
			Start:  t.Start,
			End:    t.End,
			Line:   t.Row,
			Column: t.Col,
		}); err != nil {
			return err
		}
	}
	return nil
}
