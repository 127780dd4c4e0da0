package lr1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoki317/gdef/internal/grammar"
	"github.com/motoki317/gdef/internal/symbol"
)

// buildSumGrammar builds the classic textbook grammar:
//
//	expr  : expr add term | term ;
//	term  : term mul factor | factor ;
//	factor: "(" expr ")" | id ;
func buildSumGrammar(t *testing.T) (*grammar.Grammar, map[string]symbol.Symbol) {
	t.Helper()
	tab := symbol.NewTable()
	w := tab.Writer()
	syms := map[string]symbol.Symbol{}
	nt := func(name string) symbol.Symbol {
		s, err := w.RegisterNonTerminal(name)
		require.NoError(t, err)
		syms[name] = s
		return s
	}
	term := func(name string) symbol.Symbol {
		s, err := w.RegisterTerminal(name)
		require.NoError(t, err)
		syms[name] = s
		return s
	}

	expr := nt("expr")
	termNT := nt("term")
	factor := nt("factor")
	add := term("add")
	mul := term("mul")
	lparen := term("(")
	rparen := term(")")
	id := term("id")

	b := grammar.NewGrammarBuilder(tab)
	b.AddProduction(expr, grammar.NewSentence([]grammar.Elem{grammar.Sym(expr), grammar.Sym(add), grammar.Sym(termNT)}))
	b.AddProduction(expr, grammar.NewSentence([]grammar.Elem{grammar.Sym(termNT)}))
	b.AddProduction(termNT, grammar.NewSentence([]grammar.Elem{grammar.Sym(termNT), grammar.Sym(mul), grammar.Sym(factor)}))
	b.AddProduction(termNT, grammar.NewSentence([]grammar.Elem{grammar.Sym(factor)}))
	b.AddProduction(factor, grammar.NewSentence([]grammar.Elem{grammar.Sym(lparen), grammar.Sym(expr), grammar.Sym(rparen)}))
	b.AddProduction(factor, grammar.NewSentence([]grammar.Elem{grammar.Sym(id)}))
	g, errs := b.Build(expr)
	require.Empty(t, errs)
	return g, syms
}

func TestComputeFirstSets_NoEpsilon(t *testing.T) {
	g, syms := buildSumGrammar(t)
	fs := ComputeFirstSets(g)

	for _, name := range []string{"expr", "term", "factor"} {
		first, nullable := fs.FirstOfSymbol(syms[name])
		assert.False(t, nullable, name)
		assert.Contains(t, first, syms["("])
		assert.Contains(t, first, syms["id"])
		assert.NotContains(t, first, syms["add"])
	}
}

func TestComputeFirstSets_Nullable(t *testing.T) {
	tab := symbol.NewTable()
	w := tab.Writer()
	s, _ := w.RegisterNonTerminal("s")
	a, _ := w.RegisterTerminal("a")

	b := grammar.NewGrammarBuilder(tab)
	b.AddProduction(s, grammar.NewSentence([]grammar.Elem{grammar.Sym(a)}))
	b.AddProduction(s, grammar.NewSentence([]grammar.Elem{grammar.Sym(symbol.Epsilon)}))
	g, errs := b.Build(s)
	require.Empty(t, errs)

	fs := ComputeFirstSets(g)
	first, nullable := fs.FirstOfSymbol(s)
	assert.True(t, nullable)
	assert.Contains(t, first, a)
}

func TestFirstOfSequence_FallsBackToLookahead(t *testing.T) {
	g, syms := buildSumGrammar(t)
	fs := ComputeFirstSets(g)

	// An empty beta always falls back to the supplied lookahead.
	result := fs.FirstOfSequence(nil, symbol.EOI)
	assert.Equal(t, map[symbol.Symbol]struct{}{symbol.EOI: {}}, result)

	// A non-nullable beta never reaches the fallback.
	result = fs.FirstOfSequence([]symbol.Symbol{syms["term"]}, symbol.EOI)
	assert.Contains(t, result, syms["("])
	assert.Contains(t, result, syms["id"])
	assert.NotContains(t, result, symbol.EOI)
}
