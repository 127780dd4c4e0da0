package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoki317/gdef/internal/symbol"
)

func TestExpandMacros_RemovesEveryMacroSymbol(t *testing.T) {
	tab := symbol.NewTable()
	w := tab.Writer()
	list, _ := w.RegisterNonTerminal("list")
	item, _ := w.RegisterTerminal("item")
	comma, _ := w.RegisterTerminal(",")

	b := NewGrammarBuilder(tab)
	// list -> item (comma item)*
	group := &Macro{Kind: MacroGrouping, Operand: []Elem{Sym(comma), Sym(item)}}
	star := &Macro{Kind: MacroZeroOrMore, Operand: []Elem{{Macro: group}}}
	b.AddProduction(list, NewSentence([]Elem{Sym(item), {Macro: star}}))
	g, errs := b.Build(list)
	require.Empty(t, errs)
	require.True(t, g.ContainsMacro())

	expanded, errs := ExpandMacros(g)
	require.Empty(t, errs)
	assert.False(t, expanded.ContainsMacro())

	// The starred occurrence should have produced a self-recursive
	// auxiliary non-terminal with an epsilon alternative.
	var auxHead symbol.Symbol
	for _, p := range expanded.ProductionsFor(list) {
		for _, e := range p.Body.Elems() {
			if e.Sym.IsNonTerminal() {
				auxHead = e.Sym
			}
		}
	}
	require.False(t, auxHead.IsNil())
	auxProds := expanded.ProductionsFor(auxHead)
	require.Len(t, auxProds, 2)

	hasEpsilon := false
	for _, p := range auxProds {
		if p.IsEpsilon() {
			hasEpsilon = true
		}
	}
	assert.True(t, hasEpsilon)
}

func TestExpandMacros_AlternativeProducesOneRulePerBranch(t *testing.T) {
	tab := symbol.NewTable()
	w := tab.Writer()
	s, _ := w.RegisterNonTerminal("s")
	a, _ := w.RegisterTerminal("a")
	c, _ := w.RegisterTerminal("c")

	b := NewGrammarBuilder(tab)
	alt := &Macro{Kind: MacroAlternative, Alternatives: [][]Elem{{Sym(a)}, {Sym(c)}}}
	b.AddProduction(s, NewSentence([]Elem{{Macro: alt}}))
	g, errs := b.Build(s)
	require.Empty(t, errs)

	expanded, errs := ExpandMacros(g)
	require.Empty(t, errs)

	var auxHead symbol.Symbol
	for _, e := range expanded.ProductionsFor(s)[0].Body.Elems() {
		auxHead = e.Sym
	}
	assert.Len(t, expanded.ProductionsFor(auxHead), 2)
}

func TestExpandMacros_NoMacroIsAPassthrough(t *testing.T) {
	g, _, _, _ := buildExprGrammar(t)
	expanded, errs := ExpandMacros(g)
	require.Empty(t, errs)
	assert.Len(t, expanded.Productions(), len(g.Productions()))
}
