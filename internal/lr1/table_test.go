package lr1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gdeferr "github.com/motoki317/gdef/error"
	"github.com/motoki317/gdef/internal/grammar"
	"github.com/motoki317/gdef/internal/symbol"
)

func TestBuildTable_AcceptsUnambiguousGrammar(t *testing.T) {
	g, _ := buildSumGrammar(t)
	aug, _, err := g.Augment()
	require.NoError(t, err)

	tab, errs := BuildTable(aug)
	require.Empty(t, errs)
	require.NotNil(t, tab)
	assert.Equal(t, 0, tab.InitialState)
}

// TestBuildTable_ShiftReduceConflict uses the classic ambiguous
// expression grammar `s : s plus s | num ;`: GDef has no precedence or
// associativity declarations to break the tie, and no amount of
// lookahead resolves whether to shift another `plus` or reduce, so
// even canonical LR(1) reports a shift/reduce conflict.
func TestBuildTable_ShiftReduceConflict(t *testing.T) {
	tab := symbol.NewTable()
	w := tab.Writer()
	s, _ := w.RegisterNonTerminal("s")
	num, _ := w.RegisterTerminal("num")
	plus, _ := w.RegisterTerminal("plus")

	gb := grammar.NewGrammarBuilder(tab)
	gb.AddProduction(s, grammar.NewSentence([]grammar.Elem{grammar.Sym(s), grammar.Sym(plus), grammar.Sym(s)}))
	gb.AddProduction(s, grammar.NewSentence([]grammar.Elem{grammar.Sym(num)}))
	g, errs := gb.Build(s)
	require.Empty(t, errs)
	aug, _, err := g.Augment()
	require.NoError(t, err)

	_, buildErrs := BuildTable(aug)
	require.NotEmpty(t, buildErrs)

	var conflicts []*gdeferr.LRConflictError
	for _, e := range buildErrs {
		if c, ok := e.(*gdeferr.LRConflictError); ok {
			conflicts = append(conflicts, c)
		}
	}
	require.NotEmpty(t, conflicts)
	assert.Equal(t, "plus", conflicts[0].Symbol)
}

// A grammar with two identical alternatives for the same head must
// raise a Reduce/Reduce LRConflictError at the state containing both
// reductions.
func TestBuildTable_ReduceReduceConflict(t *testing.T) {
	tab := symbol.NewTable()
	w := tab.Writer()
	s, _ := w.RegisterNonTerminal("s")
	x, _ := w.RegisterNonTerminal("x")
	y, _ := w.RegisterNonTerminal("y")
	a, _ := w.RegisterTerminal("a")

	gb := grammar.NewGrammarBuilder(tab)
	gb.AddProduction(s, grammar.NewSentence([]grammar.Elem{grammar.Sym(x)}))
	gb.AddProduction(s, grammar.NewSentence([]grammar.Elem{grammar.Sym(y)}))
	gb.AddProduction(x, grammar.NewSentence([]grammar.Elem{grammar.Sym(a)}))
	gb.AddProduction(y, grammar.NewSentence([]grammar.Elem{grammar.Sym(a)}))
	g, errs := gb.Build(s)
	require.Empty(t, errs)
	aug, _, err := g.Augment()
	require.NoError(t, err)

	_, buildErrs := BuildTable(aug)
	require.NotEmpty(t, buildErrs)
	for _, e := range buildErrs {
		_, ok := e.(*gdeferr.LRConflictError)
		assert.True(t, ok)
	}
}

func TestBuildTable_EmptyGrammarAcceptsEpsilonStart(t *testing.T) {
	tab := symbol.NewTable()
	w := tab.Writer()
	s, _ := w.RegisterNonTerminal("s")

	gb := grammar.NewGrammarBuilder(tab)
	gb.AddProduction(s, grammar.NewSentence([]grammar.Elem{grammar.Sym(symbol.Epsilon)}))
	g, errs := gb.Build(s)
	require.Empty(t, errs)
	aug, _, err := g.Augment()
	require.NoError(t, err)

	tbl, buildErrs := BuildTable(aug)
	require.Empty(t, buildErrs)

	// On empty input the parser first reduces `s -> epsilon`, then
	// GOTOs on `s` into the state that accepts on EOI.
	act, ok := tbl.Action(tbl.InitialState, symbol.EOI)
	require.True(t, ok)
	require.Equal(t, ActionReduce, act.Kind)

	next, ok := tbl.Goto(tbl.InitialState, s)
	require.True(t, ok)
	act, ok = tbl.Action(next, symbol.EOI)
	require.True(t, ok)
	assert.Equal(t, ActionAccept, act.Kind)
}
