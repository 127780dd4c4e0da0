package grammar

import (
	"fmt"
	"sort"

	gdeferr "github.com/motoki317/gdef/error"
	"github.com/motoki317/gdef/internal/symbol"
)

// Grammar is the tuple (N, T, P, S): the set of
// non-terminals and terminals (deduplicated by name), the ordered list
// of production rules (source order preserved, used as the reduce
// tie-break), and the start symbol. Built once by a GrammarBuilder and
// immutable thereafter.
type Grammar struct {
	symTab     *symbol.Table
	nonTerms   []symbol.Symbol
	terms      []symbol.Symbol
	prods      []*ProductionRule
	head2prods map[symbol.Symbol][]*ProductionRule
	start      symbol.Symbol
}

func (g *Grammar) SymbolTable() *symbol.Table {
	return g.symTab
}

func (g *Grammar) Start() symbol.Symbol {
	return g.start
}

func (g *Grammar) NonTerminals() []symbol.Symbol {
	return g.nonTerms
}

func (g *Grammar) Terminals() []symbol.Symbol {
	return g.terms
}

func (g *Grammar) Productions() []*ProductionRule {
	return g.prods
}

func (g *Grammar) ProductionsFor(head symbol.Symbol) []*ProductionRule {
	return g.head2prods[head]
}

// ContainsSymbol reports whether sym is declared in this grammar
// (as either a terminal or a non-terminal).
func (g *Grammar) ContainsSymbol(sym symbol.Symbol) bool {
	if sym.IsTerminal() {
		for _, t := range g.terms {
			if t == sym {
				return true
			}
		}
		return false
	}
	for _, n := range g.nonTerms {
		if n == sym {
			return true
		}
	}
	return false
}

// ContainsMacro reports whether any production body still carries a
// macro-typed element, gating whether this grammar needs to pass
// through ExpandMacros before LR construction.
func (g *Grammar) ContainsMacro() bool {
	for _, p := range g.prods {
		if p.Body.ContainsMacro() {
			return true
		}
	}
	return false
}

// Augment prepends a fresh start rule S' -> S to g and returns the
// augmented grammar. The original start symbol keeps its own rules.
func (g *Grammar) Augment() (*Grammar, symbol.Symbol, error) {
	w := g.symTab.Writer()
	augStart := w.RegisterStart("<start>'")

	b := &GrammarBuilder{symTab: g.symTab, prods: newProductionSet()}
	startRule, err := newProductionRule(augStart, NewSentence([]Elem{Sym(g.start)}))
	if err != nil {
		return nil, symbol.Nil, err
	}
	b.prods.append(startRule)
	for _, p := range g.prods {
		b.prods.append(p)
	}

	augmented, errs := b.buildFrom(g, augStart)
	if errs.HasErrors() {
		return nil, symbol.Nil, errs
	}
	return augmented, augStart, nil
}

// GrammarBuilder aggregates every semantic error found while
// assembling a Grammar (malformed productions, non-terminals that are
// referenced but never defined) into one BuildErrors list instead of
// failing on the first. Lexeme names are not checked here.
type GrammarBuilder struct {
	symTab *symbol.Table
	prods  *productionSet
	errs   gdeferr.BuildErrors
}

func NewGrammarBuilder(symTab *symbol.Table) *GrammarBuilder {
	return &GrammarBuilder{symTab: symTab, prods: newProductionSet()}
}

// AddProduction registers one production rule (head -> body).
func (b *GrammarBuilder) AddProduction(head symbol.Symbol, body *Sentence) {
	p, err := newProductionRule(head, body)
	if err != nil {
		b.errs = append(b.errs, &gdeferr.GrammarBuildError{Cause: err})
		return
	}
	b.prods.append(p)
}

// Build validates and assembles the registered productions into a
// Grammar rooted at start.
func (b *GrammarBuilder) Build(start symbol.Symbol) (*Grammar, gdeferr.BuildErrors) {
	if len(b.prods.ordered) == 0 {
		b.errs = append(b.errs, &gdeferr.GrammarBuildError{Cause: fmt.Errorf("a grammar must declare at least one production")})
		return nil, b.errs
	}

	nonTermSet := map[symbol.Symbol]struct{}{start: {}}
	termSet := map[symbol.Symbol]struct{}{}
	for _, p := range b.prods.ordered {
		nonTermSet[p.Head] = struct{}{}
		for _, e := range p.Body.Elems() {
			if e.IsMacro() {
				collectMacroSymbols(e.Macro, nonTermSet, termSet)
				continue
			}
			classify(e.Sym, nonTermSet, termSet)
		}
	}

	for nt := range nonTermSet {
		if _, ok := b.prods.head2rule[nt]; !ok && !nt.IsStart() {
			name, _ := b.symTab.Reader().ToText(nt)
			b.errs = append(b.errs, &gdeferr.GrammarBuildError{Symbol: name, Cause: fmt.Errorf("non-terminal is never defined")})
		}
	}
	if b.errs.HasErrors() {
		return nil, b.errs
	}

	g := &Grammar{
		symTab:     b.symTab,
		prods:      b.prods.ordered,
		head2prods: b.prods.head2rule,
		start:      start,
	}
	g.nonTerms = sortedSymbols(nonTermSet)
	g.terms = sortedSymbols(termSet)
	return g, nil
}

// buildFrom is used by Augment to reuse b's accumulated productions
// while keeping g's already-validated symbol classification.
func (b *GrammarBuilder) buildFrom(g *Grammar, start symbol.Symbol) (*Grammar, gdeferr.BuildErrors) {
	aug := &Grammar{
		symTab:     g.symTab,
		prods:      b.prods.ordered,
		head2prods: b.prods.head2rule,
		start:      start,
	}
	nonTerms := append([]symbol.Symbol{start}, g.nonTerms...)
	aug.nonTerms = sortedSymbols(toSet(nonTerms))
	aug.terms = g.terms
	return aug, nil
}

func classify(sym symbol.Symbol, nonTermSet, termSet map[symbol.Symbol]struct{}) {
	switch {
	case sym.IsEpsilon(), sym.IsNil():
		return
	case sym.IsTerminal():
		termSet[sym] = struct{}{}
	default:
		nonTermSet[sym] = struct{}{}
	}
}

func collectMacroSymbols(m *Macro, nonTermSet, termSet map[symbol.Symbol]struct{}) {
	collect := func(elems []Elem) {
		for _, e := range elems {
			if e.IsMacro() {
				collectMacroSymbols(e.Macro, nonTermSet, termSet)
				continue
			}
			classify(e.Sym, nonTermSet, termSet)
		}
	}
	collect(m.Operand)
	for _, alt := range m.Alternatives {
		collect(alt)
	}
}

func sortedSymbols(set map[symbol.Symbol]struct{}) []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(set))
	for s := range set {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

func toSet(syms []symbol.Symbol) map[symbol.Symbol]struct{} {
	set := make(map[symbol.Symbol]struct{}, len(syms))
	for _, s := range syms {
		set[s] = struct{}{}
	}
	return set
}
