// Package error defines the error taxonomy every stage of the
// compiler pipeline reports through: build-time errors from the
// regex/grammar/LR(1) stages, and run-time errors from the
// tokenizer/parser drivers.
package error

import (
	"fmt"
	"strings"
)

// RegexBuildError reports a failure while parsing a lexeme's pattern
// string into a regex AST (internal/lexparser).
type RegexBuildError struct {
	Lexeme string
	Cause  error
}

func (e *RegexBuildError) Error() string {
	return fmt.Sprintf("lexeme %q: invalid pattern: %v", e.Lexeme, e.Cause)
}

func (e *RegexBuildError) Unwrap() error {
	return e.Cause
}

// GrammarBuildError reports a failure while building a Grammar from
// its declared productions or lexemes: a non-terminal with no
// productions, malformed productions, macro-expansion failures,
// duplicate or inconsistently spelled lexeme names, unknown charsets,
// and similar structural problems.
type GrammarBuildError struct {
	Symbol string
	Cause  error
}

func (e *GrammarBuildError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("grammar error: %v", e.Cause)
	}
	return fmt.Sprintf("grammar error: %v: %v", e.Symbol, e.Cause)
}

func (e *GrammarBuildError) Unwrap() error {
	return e.Cause
}

// LRConflictError reports a shift/reduce or reduce/reduce conflict
// found while building the canonical LR(1) table (internal/lr1).
type LRConflictError struct {
	State       int
	Symbol      string
	Description string
}

func (e *LRConflictError) Error() string {
	return fmt.Sprintf("conflict in state %v on %v: %v", e.State, e.Symbol, e.Description)
}

// DebugStep is one DFA transition recorded by the tokenizer's debug
// mode: the automaton moved from State to Next by consuming Char at
// character offset Pos.
type DebugStep struct {
	State int
	Char  rune
	Next  int
	Pos   int
}

// UnexpectedCharacterError is a run-time tokenizer error: no lexeme's
// DFA accepted, or had a live transition for, the character Char.
// Row/Col locate the start of the token being scanned when Char was
// read. History holds the transitions taken inside the failing token when
// the tokenizer was built in debug mode, and is empty otherwise;
// Session identifies which tokenizing run produced it.
type UnexpectedCharacterError struct {
	Char     rune
	Row, Col int
	History  []DebugStep
	Session  string
}

func (e *UnexpectedCharacterError) Error() string {
	if len(e.History) > 0 {
		return fmt.Sprintf("%v:%v: unexpected character %q (%d transitions into the token, session %s)", e.Row, e.Col, e.Char, len(e.History), e.Session)
	}
	return fmt.Sprintf("%v:%v: unexpected character %q", e.Row, e.Col, e.Char)
}

// UnexpectedEndOfInputError is a run-time tokenizer error: the input
// ended mid-token, with no DFA state currently in an accepting state.
type UnexpectedEndOfInputError struct {
	Row, Col int
}

func (e *UnexpectedEndOfInputError) Error() string {
	return fmt.Sprintf("%v:%v: unexpected end of input", e.Row, e.Col)
}

// SyntaxError is a run-time parser error: the next token has no live
// shift or reduce action in the current LR(1) state.
type SyntaxError struct {
	Row, Col int
	Token    string
	Expected []string
}

func (e *SyntaxError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("%v:%v: unexpected token %v", e.Row, e.Col, e.Token)
	}
	return fmt.Sprintf("%v:%v: unexpected token %v (expected one of: %v)", e.Row, e.Col, e.Token, strings.Join(e.Expected, ", "))
}

// BuildErrors aggregates every error produced while compiling a
// grammar, so the CLI can report all of them instead of stopping at
// the first.
type BuildErrors []error

func (es BuildErrors) Error() string {
	if len(es) == 0 {
		return "no errors"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v", es[0])
	for _, e := range es[1:] {
		fmt.Fprintf(&b, "\n%v", e)
	}
	return b.String()
}

func (es BuildErrors) HasErrors() bool {
	return len(es) > 0
}
