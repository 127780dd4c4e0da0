package parser

import (
	"fmt"

	"github.com/motoki317/gdef/driver/lexer"
	gdeferr "github.com/motoki317/gdef/error"
	"github.com/motoki317/gdef/internal/lr1"
	"github.com/motoki317/gdef/internal/symbol"
)

// stackSlot pairs a produced CST node with the symbol it is currently
// standing in for on the symbol stack. Stacks and accumulators are
// created fresh per parse invocation; the table itself is shared and
// read-only.
type stackSlot struct {
	sym  symbol.Symbol
	node *Node
}

// Parser is the dual-stack shift-reduce driver. A state
// stack of ints and a symbol stack of stackSlots are kept in lockstep;
// the symbol stack doubles as the CST builder's accumulator, since
// every produced Node already carries its own span.
type Parser struct {
	table *lr1.Table
	lex   *lexer.Lexer
	rd    *symbol.Reader

	stateStack []int
	symStack   []stackSlot
	lastEnd    int
}

// New builds a Parser over table, consuming tokens from lex.
func New(table *lr1.Table, lex *lexer.Lexer) *Parser {
	return &Parser{
		table: table,
		lex:   lex,
		rd:    table.Grammar.SymbolTable().Reader(),
	}
}

// Parse drives lex to completion, returning the finished CST's Root
// node on success, or a *gdeferr.SyntaxError when the current
// lookahead has no live action. A run-time tokenizer error raised by
// the lexer is returned unchanged.
func (p *Parser) Parse() (*Node, error) {
	p.stateStack = []int{p.table.InitialState}

	tok, err := p.lex.Next()
	if err != nil {
		return nil, err
	}

	for {
		lookahead, isEOI := p.terminalOf(tok)
		state := p.top()
		action, ok := p.table.Action(state, lookahead)
		if !ok {
			return nil, p.syntaxError(state, tok, isEOI)
		}

		switch action.Kind {
		case lr1.ActionShift:
			var leaf *Node
			if isEOI {
				leaf = newLeaf("<eoi>", "", tok.Start, tok.End, tok.Row, tok.Col)
			} else {
				leaf = newLeaf(tok.Name, tok.Lexeme, tok.Start, tok.End, tok.Row, tok.Col)
			}
			p.lastEnd = tok.End
			p.push(action.State, lookahead, leaf)

			tok, err = p.lex.Next()
			if err != nil {
				return nil, err
			}

		case lr1.ActionReduce:
			prod := p.table.ProductionByNum(action.Prod)
			n := 0
			if !prod.IsEpsilon() {
				n = prod.Body.Len()
			}
			handle := p.popSlots(n)

			children := make([]*Node, len(handle))
			for i, s := range handle {
				children[i] = s.node
			}
			name, _ := p.rd.ToText(prod.Head)
			internal := newInternal(name, children, p.lastEnd)

			gotoState, ok := p.table.Goto(p.top(), prod.Head)
			if !ok {
				return nil, fmt.Errorf("internal error: no GOTO for state %d on %v", p.top(), name)
			}
			p.push(gotoState, prod.Head, internal)

		case lr1.ActionAccept:
			top := p.symStack[len(p.symStack)-1]
			root := &Node{
				Kind:     KindRoot,
				Name:     top.node.Name,
				Children: top.node.Children,
				Start:    top.node.Start,
				End:      top.node.End,
			}
			for _, c := range root.Children {
				c.Parent = root
			}
			return root, nil

		default:
			return nil, p.syntaxError(state, tok, isEOI)
		}
	}
}

func (p *Parser) terminalOf(tok *lexer.Token) (symbol.Symbol, bool) {
	if tok.EOF {
		return symbol.EOI, true
	}
	sym, ok := p.rd.ToSymbol(tok.Name)
	if !ok {
		return symbol.Nil, false
	}
	return sym, false
}

func (p *Parser) syntaxError(state int, tok *lexer.Token, isEOI bool) error {
	tokText := "<eoi>"
	row, col := tok.Row, tok.Col
	if !isEOI {
		tokText = fmt.Sprintf("%s %q", tok.Name, tok.Lexeme)
	}
	return &gdeferr.SyntaxError{
		Row:      row,
		Col:      col,
		Token:    tokText,
		Expected: p.expected(state),
	}
}

// expected lists every terminal (plus "<eoi>" when applicable) that has
// a live ACTION in state, sorted by symbol id, for SyntaxError's
// Expected field.
func (p *Parser) expected(state int) []string {
	var out []string
	for _, t := range p.table.Grammar.Terminals() {
		if _, ok := p.table.Action(state, t); ok {
			name, _ := p.rd.ToText(t)
			out = append(out, name)
		}
	}
	if _, ok := p.table.Action(state, symbol.EOI); ok {
		out = append(out, "<eoi>")
	}
	return out
}

func (p *Parser) top() int {
	return p.stateStack[len(p.stateStack)-1]
}

func (p *Parser) push(state int, sym symbol.Symbol, node *Node) {
	p.stateStack = append(p.stateStack, state)
	p.symStack = append(p.symStack, stackSlot{sym: sym, node: node})
}

func (p *Parser) popSlots(n int) []stackSlot {
	if n == 0 {
		return nil
	}
	handle := make([]stackSlot, n)
	copy(handle, p.symStack[len(p.symStack)-n:])
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
	p.symStack = p.symStack[:len(p.symStack)-n]
	return handle
}
