// Package gdef is this module's public entry point. Given GDef source
// text, Build runs the full pipeline: bootstrap-parse the source
// against the hardcoded meta-grammar (internal/metagrammar), translate
// the result into a grammar and lexeme set (translate.go), compile the
// lexemes into a tokenizer table (internal/lexdfa), expand any EBNF
// macros (internal/grammar), and build the canonical LR(1) table
// (internal/lr1). It returns a Compiled bundle that can tokenize or
// parse arbitrary source text against the result.
package gdef

import (
	"strings"

	"github.com/motoki317/gdef/driver/lexer"
	"github.com/motoki317/gdef/driver/parser"
	gdeferr "github.com/motoki317/gdef/error"
	"github.com/motoki317/gdef/internal/grammar"
	"github.com/motoki317/gdef/internal/lexdfa"
	"github.com/motoki317/gdef/internal/lr1"
	"github.com/motoki317/gdef/internal/metagrammar"
)

// Compiled is a fully-built grammar: a tokenizer table and an LR(1)
// parse table, ready to drive driver/lexer and driver/parser over
// arbitrary source text written in the language the compiled grammar
// describes.
type Compiled struct {
	Lex   *lexdfa.Table
	Table *lr1.Table
}

// Build compiles a GDef grammar definition into a Compiled bundle.
// It aggregates every error it can find rather than stopping at the
// first.
func Build(source string) (*Compiled, gdeferr.BuildErrors) {
	meta, err := metagrammar.Get()
	if err != nil {
		return nil, gdeferr.BuildErrors{err}
	}

	metaLex, err := lexer.New(meta.Lex, strings.NewReader(source))
	if err != nil {
		return nil, gdeferr.BuildErrors{err}
	}
	root, err := parser.New(meta.Table, metaLex).Parse()
	if err != nil {
		return nil, gdeferr.BuildErrors{err}
	}

	g, lexemes, errs := Translate(root)
	if errs.HasErrors() {
		return nil, errs
	}

	lexTbl, errs := lexdfa.Build(lexemes)
	if errs.HasErrors() {
		return nil, errs
	}

	if g.ContainsMacro() {
		g, errs = grammar.ExpandMacros(g)
		if errs.HasErrors() {
			return nil, errs
		}
	}

	augmented, _, err := g.Augment()
	if err != nil {
		return nil, gdeferr.BuildErrors{err}
	}

	table, errs := lr1.BuildTable(augmented)
	if errs.HasErrors() {
		return nil, errs
	}

	return &Compiled{Lex: lexTbl, Table: table}, nil
}

// Tokenize runs c's compiled tokenizer over source, returning every
// token (including the trailing EOF token) it produces.
func (c *Compiled) Tokenize(source string) ([]*lexer.Token, error) {
	lex, err := lexer.New(c.Lex, strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	var toks []*lexer.Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.EOF {
			return toks, nil
		}
	}
}

// Parse runs c's compiled tokenizer and LR(1) parser over source,
// returning the finished CST on success.
func (c *Compiled) Parse(source string) (*parser.Node, error) {
	lex, err := lexer.New(c.Lex, strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	return parser.New(c.Table, lex).Parse()
}
