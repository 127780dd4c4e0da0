// Package lexer implements the table-driven longest-match tokenizer
// runtime: it walks internal/lexdfa's compiled Table rune by rune,
// remembering the last accepting state, and reverts to it on a dead
// transition or EOF. The automaton is
// single-mode and rune-oriented; GDef has no lex-mode push/pop
// directive.
package lexer

import (
	"io"

	"github.com/google/uuid"
	"golang.org/x/text/width"

	gdeferr "github.com/motoki317/gdef/error"
	"github.com/motoki317/gdef/internal/lexdfa"
)

// Token is one tokenizer result: either a recognized lexeme or the
// synthetic end-of-input token; tokenizing failures are returned as
// errors, never as tokens. Start/End are 0-based character offsets into the source (End
// exclusive); Row/Col are 1-based.
type Token struct {
	Name       string
	Lexeme     string
	Start, End int
	Row, Col   int
	EOF        bool
}

type lexerState struct {
	pos int // rune index into src
	row int
	col int
}

// Lexer tokenizes src against tbl using longest match, breaking ties
// by declaration order (tbl.AcceptName already reflects that choice,
// baked in at table-build time by regexast.WinningTag).
type Lexer struct {
	tbl   *lexdfa.Table
	src   []rune
	state lexerState

	lastAccepted    lexerState
	lastAcceptState lexdfa.State
	hasAccepted     bool

	// SessionID tags every token this Lexer produces, so a `gdef`
	// debug trace can correlate tokens back to one tokenizing run
	// across the CLI's logs.
	SessionID uuid.UUID

	debug bool
	trace []gdeferr.DebugStep
}

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// DebugMode keeps a per-token transition history that is attached to
// any UnexpectedCharacterError the Lexer raises. The buffer costs one
// append per consumed character, so it is off unless asked for.
func DebugMode() Option {
	return func(l *Lexer) {
		l.debug = true
	}
}

// New reads all of src eagerly (patterns are expected to be source
// files, not streams) and starts tokenizing from the automaton's start
// state.
func New(tbl *lexdfa.Table, src io.Reader, opts ...Option) (*Lexer, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	l := &Lexer{
		tbl:       tbl,
		src:       []rune(string(b)),
		state:     lexerState{row: 1, col: 1},
		SessionID: uuid.New(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Next returns the next token, skipping over lexemes declared
// ignored. Once the input is exhausted, every call returns the
// synthetic EOF token again.
func (l *Lexer) Next() (*Token, error) {
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return tok, nil
		}
		if l.isIgnored(tok.Name) {
			continue
		}
		return tok, nil
	}
}

func (l *Lexer) isIgnored(name string) bool {
	for i, n := range l.tbl.AcceptName {
		if n == name {
			return l.tbl.AcceptSkip[i]
		}
	}
	return false
}

func (l *Lexer) next() (*Token, error) {
	state := lexdfa.State(0)
	start := l.state
	row, col := l.state.row, l.state.col
	l.hasAccepted = false
	if l.debug {
		l.trace = l.trace[:0]
	}

	if name := l.tbl.AcceptName[state]; name != "" {
		l.markAccepted(state)
	}

	for {
		r, eof := l.read()
		if eof {
			if l.hasAccepted {
				return l.acceptedToken(start, row, col), nil
			}
			if l.state.pos > start.pos {
				return nil, &gdeferr.UnexpectedEndOfInputError{Row: row, Col: col}
			}
			return &Token{EOF: true, Start: l.state.pos, End: l.state.pos, Row: row, Col: col}, nil
		}

		next, ok := l.step(state, r)
		if !ok {
			if l.hasAccepted {
				return l.acceptedToken(start, row, col), nil
			}
			return nil, &gdeferr.UnexpectedCharacterError{
				Char:    r,
				Row:     row,
				Col:     col,
				History: l.historyCopy(),
				Session: l.sessionLabel(),
			}
		}
		if l.debug {
			l.trace = append(l.trace, gdeferr.DebugStep{State: int(state), Char: r, Next: int(next), Pos: l.state.pos - 1})
		}
		state = next
		if name := l.tbl.AcceptName[state]; name != "" {
			l.markAccepted(state)
		}
	}
}

func (l *Lexer) historyCopy() []gdeferr.DebugStep {
	if !l.debug || len(l.trace) == 0 {
		return nil
	}
	out := make([]gdeferr.DebugStep, len(l.trace))
	copy(out, l.trace)
	return out
}

func (l *Lexer) sessionLabel() string {
	if !l.debug {
		return ""
	}
	return l.SessionID.String()
}

func (l *Lexer) markAccepted(state lexdfa.State) {
	l.hasAccepted = true
	l.lastAccepted = l.state
	l.lastAcceptState = state
}

func (l *Lexer) acceptedToken(start lexerState, row, col int) *Token {
	lexeme := string(l.src[start.pos:l.lastAccepted.pos])
	name := l.tbl.AcceptName[l.lastAcceptState]
	tok := &Token{
		Name:   name,
		Lexeme: lexeme,
		Start:  start.pos,
		End:    l.lastAccepted.pos,
		Row:    row,
		Col:    col,
	}
	l.revert()
	return tok
}

func (l *Lexer) step(state lexdfa.State, r rune) (lexdfa.State, bool) {
	for _, tr := range l.tbl.Trans[state] {
		if r >= tr.From && r <= tr.To {
			return tr.Target, true
		}
	}
	return 0, false
}

// isNewline reports whether r is one of the line-terminating
// characters the line/column rule recognizes: `\n`, `\r`, U+2028
// (LINE SEPARATOR) and U+2029 (PARAGRAPH SEPARATOR).
func isNewline(r rune) bool {
	switch r {
	case '\n', '\r', '\u2028', '\u2029':
		return true
	default:
		return false
	}
}

func (l *Lexer) read() (rune, bool) {
	if l.state.pos >= len(l.src) {
		return 0, true
	}
	r := l.src[l.state.pos]
	l.state.pos++
	if isNewline(r) {
		l.state.row++
		l.state.col = 1
	} else {
		l.state.col += columnWidth(r)
	}
	return r, false
}

func (l *Lexer) revert() {
	l.state = l.lastAccepted
}

// columnWidth reports how many terminal columns r occupies, so the
// column numbers a SyntaxError reports line up visually for East Asian
// wide characters, not just code points.
func columnWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
