package grammar

import (
	"fmt"

	gdeferr "github.com/motoki317/gdef/error"
	"github.com/motoki317/gdef/internal/symbol"
)

// ExpandMacros rewrites every production whose body mentions a macro
// symbol into one or more pure-BNF productions. It runs to a fixpoint
// and returns a grammar with no Macro-typed symbol anywhere in any
// production body.
func ExpandMacros(g *Grammar) (*Grammar, gdeferr.BuildErrors) {
	b := NewGrammarBuilder(g.symTab)
	x := &macroExpander{symTab: g.symTab, builder: b}

	for _, p := range g.prods {
		if !p.Body.ContainsMacro() {
			b.AddProduction(p.Head, p.Body)
			continue
		}
		occurrence := 0
		elems, err := x.expandElems(p.Num(), &occurrence, p.Body.Elems())
		if err != nil {
			b.errs = append(b.errs, &gdeferr.GrammarBuildError{Cause: err})
			continue
		}
		b.AddProduction(p.Head, NewSentence(elems))
	}
	if b.errs.HasErrors() {
		return nil, b.errs
	}
	return b.Build(g.start)
}

// macroExpander allocates auxiliary non-terminals M_<prodNum>_<occurrence>
// through the same symbol table used for user symbols, so
// macro-introduced non-terminals participate in FIRST/closure
// computation identically to user-written ones.
type macroExpander struct {
	symTab  *symbol.Table
	builder *GrammarBuilder
}

// expandElems rewrites every macro element of elems (innermost-first,
// left-to-right within the body) to fixpoint,
// returning the body with each macro occurrence replaced by its fresh
// auxiliary non-terminal. occurrence is a single counter shared across
// an entire production, threaded through every nesting level, so two
// macros anywhere in the same production never collide on the same
// M_<prodNum>_<occurrence> name.
func (x *macroExpander) expandElems(prodNum Num, occurrence *int, elems []Elem) ([]Elem, error) {
	out := make([]Elem, 0, len(elems))
	for _, e := range elems {
		if !e.IsMacro() {
			out = append(out, e)
			continue
		}
		aux, err := x.expandMacro(prodNum, occurrence, e.Macro)
		if err != nil {
			return nil, err
		}
		out = append(out, Sym(aux))
	}
	return out, nil
}

// expandMacro rewrites one macro occurrence and every macro nested
// inside its operand(s), returning the fresh non-terminal standing in
// for it.
func (x *macroExpander) expandMacro(prodNum Num, occurrence *int, m *Macro) (symbol.Symbol, error) {
	name := fmt.Sprintf("M_%d_%d", prodNum.Int(), *occurrence)
	*occurrence++
	aux, err := x.symTab.Writer().RegisterNonTerminal(name)
	if err != nil {
		return symbol.Nil, err
	}

	switch m.Kind {
	case MacroGrouping:
		// M -> x1 ... xk
		body, err := x.expandElems(prodNum, occurrence, m.Operand)
		if err != nil {
			return symbol.Nil, err
		}
		x.builder.AddProduction(aux, NewSentence(body))

	case MacroNullable:
		// M -> X | ε
		body, err := x.expandElems(prodNum, occurrence, m.Operand)
		if err != nil {
			return symbol.Nil, err
		}
		x.builder.AddProduction(aux, NewSentence(body))
		x.builder.AddProduction(aux, NewSentence([]Elem{Sym(symbol.Epsilon)}))

	case MacroZeroOrMore:
		// M -> X M | ε
		body, err := x.expandElems(prodNum, occurrence, m.Operand)
		if err != nil {
			return symbol.Nil, err
		}
		x.builder.AddProduction(aux, NewSentence(append(append([]Elem{}, body...), Sym(aux))))
		x.builder.AddProduction(aux, NewSentence([]Elem{Sym(symbol.Epsilon)}))

	case MacroOneOrMore:
		// M -> X M | X
		body, err := x.expandElems(prodNum, occurrence, m.Operand)
		if err != nil {
			return symbol.Nil, err
		}
		x.builder.AddProduction(aux, NewSentence(append(append([]Elem{}, body...), Sym(aux))))
		x.builder.AddProduction(aux, NewSentence(body))

	case MacroAlternative:
		// M -> s1 | ... | sk
		for _, alt := range m.Alternatives {
			body, err := x.expandElems(prodNum, occurrence, alt)
			if err != nil {
				return symbol.Nil, err
			}
			x.builder.AddProduction(aux, NewSentence(body))
		}

	default:
		return symbol.Nil, fmt.Errorf("cannot expand macro kind %v", m.Kind)
	}

	return aux, nil
}
