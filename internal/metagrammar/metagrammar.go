// Package metagrammar hardcodes the Grammar Definition Format's own
// surface syntax as a pure-BNF grammar plus its lexeme set, built once
// with the very engines (internal/lexdfa, internal/lr1) it will later
// be used to drive over user grammars. The handle is lazily built,
// immutable, and explicitly passed (sync.Once, not a package-level
// parser singleton reached for implicitly).
package metagrammar

import (
	"sync"

	"github.com/motoki317/gdef/internal/grammar"
	"github.com/motoki317/gdef/internal/lexdfa"
	"github.com/motoki317/gdef/internal/lr1"
	"github.com/motoki317/gdef/internal/symbol"
)

// Non-terminal names of the meta-grammar. Exported as constants so
// the translator (the other half of the bootstrap) can recognize them
// by name when walking a parsed CST.
const (
	NTGrammar           = "Grammar"
	NTLexerSettingsOpt  = "LexerSettingsOpt"
	NTLexerSettingList  = "LexerSettingList"
	NTLexerSetting      = "LexerSetting"
	NTLexemeDecl        = "LexemeDecl"
	NTAnnotationsOpt    = "AnnotationsOpt"
	NTAnnotationList    = "AnnotationList"
	NTAnnotation        = "Annotation"
	NTFragmentDecl      = "FragmentDecl"
	NTIgnoredCharsDecl  = "IgnoredCharsDecl"
	NTProductionList    = "ProductionList"
	NTProduction        = "Production"
	NTSemanticActionOpt = "SemanticActionOpt"
	NTSymbolList        = "SymbolList"
	NTSymbol            = "Symbol"
	NTMacro             = "Macro"
)

// Terminal (lexeme) names.
const (
	TLexeme       = "lexeme"
	TFragment     = "fragment"
	TIgnoredChars = "ignored-chars"
	TCharset      = "charset"
	TIgnore       = "ignore"
	TTrue         = "true"
	TFalse        = "false"
	TPlaceholder  = "placeholder"
	TID           = "ID"
	TString       = "STRING"
	TBracketOpen  = "["
	TBracketClose = "]"
	TParenOpen    = "("
	TParenClose   = ")"
	TQuestion     = "?"
	TStar         = "*"
	TPlus         = "+"
	TPipe         = "|"
	TColon        = ":"
	TSemicolon    = ";"
	TEquals       = "="
	TComma        = ","
	TDollar       = "$"
	TArrow        = ">"
	TWhitespace   = "WS"
)

// Meta bundles the compiled tokenizer and LR(1) table for the GDef
// surface syntax. The symbol table used to build them (needed to
// translate a parsed CST back into symbol names) is reachable through
// Table.Grammar.
type Meta struct {
	Lex   *lexdfa.Table
	Table *lr1.Table
}

var (
	once     sync.Once
	handle   *Meta
	buildErr error
)

// Get lazily builds (once per process) and returns the meta-grammar
// handle. Callers receive the handle explicitly rather than reaching
// for a hidden singleton.
func Get() (*Meta, error) {
	once.Do(func() {
		handle, buildErr = build()
	})
	return handle, buildErr
}

func build() (*Meta, error) {
	lex, errs := lexdfa.Build(lexemes())
	if errs.HasErrors() {
		return nil, errs
	}

	symTab := symbol.NewTable()
	w := symTab.Writer()

	nt := map[string]symbol.Symbol{}
	for _, name := range []string{
		NTGrammar, NTLexerSettingsOpt, NTLexerSettingList, NTLexerSetting,
		NTLexemeDecl, NTAnnotationsOpt, NTAnnotationList, NTAnnotation,
		NTFragmentDecl, NTIgnoredCharsDecl, NTProductionList, NTProduction,
		NTSemanticActionOpt, NTSymbolList, NTSymbol, NTMacro,
	} {
		sym, err := w.RegisterNonTerminal(name)
		if err != nil {
			return nil, err
		}
		nt[name] = sym
	}

	term := map[string]symbol.Symbol{}
	for _, name := range []string{
		TLexeme, TFragment, TIgnoredChars, TCharset, TIgnore, TTrue, TFalse,
		TPlaceholder, TID, TString, TBracketOpen, TBracketClose, TParenOpen,
		TParenClose, TQuestion, TStar, TPlus, TPipe, TColon, TSemicolon,
		TEquals, TComma, TDollar, TArrow,
	} {
		sym, err := w.RegisterTerminal(name)
		if err != nil {
			return nil, err
		}
		term[name] = sym
	}

	b := grammar.NewGrammarBuilder(symTab)
	add := func(head string, body ...string) {
		elems := make([]grammar.Elem, 0, len(body))
		for _, s := range body {
			if s == "" {
				elems = append(elems, grammar.Sym(symbol.Epsilon))
				continue
			}
			if sym, ok := nt[s]; ok {
				elems = append(elems, grammar.Sym(sym))
				continue
			}
			elems = append(elems, grammar.Sym(term[s]))
		}
		b.AddProduction(nt[head], grammar.NewSentence(elems))
	}

	add(NTGrammar, NTLexerSettingsOpt, NTProductionList)

	add(NTLexerSettingsOpt, NTLexerSettingList)
	add(NTLexerSettingsOpt, "")

	add(NTLexerSettingList, NTLexerSetting)
	add(NTLexerSettingList, NTLexerSettingList, NTLexerSetting)

	add(NTLexerSetting, NTLexemeDecl)
	add(NTLexerSetting, NTFragmentDecl)
	add(NTLexerSetting, NTIgnoredCharsDecl)

	add(NTLexemeDecl, NTAnnotationsOpt, TLexeme, TID, TEquals, TString, TSemicolon)

	add(NTAnnotationsOpt, TBracketOpen, NTAnnotationList, TBracketClose)
	add(NTAnnotationsOpt, "")

	add(NTAnnotationList, NTAnnotation)
	add(NTAnnotationList, NTAnnotationList, TComma, NTAnnotation)

	add(NTAnnotation, TCharset, TColon, TString)
	add(NTAnnotation, TIgnore, TColon, TTrue)
	add(NTAnnotation, TIgnore, TColon, TFalse)

	add(NTFragmentDecl, TFragment, TID, TEquals, TString, TSemicolon)
	add(NTIgnoredCharsDecl, TIgnoredChars, TEquals, TString, TSemicolon)

	add(NTProductionList, NTProduction)
	add(NTProductionList, NTProductionList, NTProduction)

	add(NTProduction, TID, TColon, NTSymbolList, NTSemanticActionOpt, TSemicolon)

	add(NTSemanticActionOpt, TEquals, TArrow, TPlaceholder)
	add(NTSemanticActionOpt, "")

	add(NTSymbolList, NTSymbol)
	add(NTSymbolList, NTSymbolList, NTSymbol)

	add(NTSymbol, TString)
	add(NTSymbol, TDollar, TID)
	add(NTSymbol, TID)
	add(NTSymbol, NTMacro)
	add(NTSymbol, TPipe)

	add(NTMacro, TParenOpen, NTSymbolList, TParenClose)
	add(NTMacro, NTSymbol, TQuestion)
	add(NTMacro, NTSymbol, TStar)
	add(NTMacro, NTSymbol, TPlus)

	g, errs := b.Build(nt[NTGrammar])
	if errs.HasErrors() {
		return nil, errs
	}

	augmented, _, err := g.Augment()
	if err != nil {
		return nil, err
	}

	table, tblErrs := lr1.BuildTable(augmented)
	if tblErrs.HasErrors() {
		return nil, tblErrs
	}

	return &Meta{Lex: lex, Table: table}, nil
}

// lexemes returns the meta-grammar's own tokenizer lexemes, in
// declaration order (reserved keywords first so they win equal-length
// ties against the generic ID lexeme).
func lexemes() []lexdfa.Lexeme {
	order := 0
	next := func(name, pattern string, ignored bool) lexdfa.Lexeme {
		lx := lexdfa.Lexeme{Name: name, Pattern: pattern, IsIgnored: ignored, Order: order}
		order++
		return lx
	}
	return []lexdfa.Lexeme{
		next(TWhitespace, "[ \t\n\r]+", true),
		next(TLexeme, "lexeme", false),
		next(TFragment, "fragment", false),
		next(TIgnoredChars, "ignored-chars", false),
		next(TCharset, "charset", false),
		next(TIgnore, "ignore", false),
		next(TTrue, "true", false),
		next(TFalse, "false", false),
		next(TPlaceholder, "placeholder", false),
		next(TID, "[A-Za-z_][A-Za-z0-9_-]*", false),
		next(TString, `"([^"\\]|\\.)*"`, false),
		next(TBracketOpen, "\\[", false),
		next(TBracketClose, "\\]", false),
		next(TParenOpen, "\\(", false),
		next(TParenClose, "\\)", false),
		next(TQuestion, "\\?", false),
		next(TStar, "\\*", false),
		next(TPlus, "\\+", false),
		next(TPipe, "\\|", false),
		next(TColon, ":", false),
		next(TSemicolon, ";", false),
		next(TEquals, "=", false),
		next(TComma, ",", false),
		next(TDollar, "$", false),
		next(TArrow, ">", false),
	}
}
