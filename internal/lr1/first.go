package lr1

import (
	"github.com/motoki317/gdef/internal/grammar"
	"github.com/motoki317/gdef/internal/symbol"
)

// firstEntry is one non-terminal's FIRST set plus whether it is
// nullable.
type firstEntry struct {
	syms     map[symbol.Symbol]struct{}
	nullable bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{syms: map[symbol.Symbol]struct{}{}}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	if _, ok := e.syms[sym]; ok {
		return false
	}
	e.syms[sym] = struct{}{}
	return true
}

func (e *firstEntry) merge(o *firstEntry) bool {
	changed := false
	for sym := range o.syms {
		if e.add(sym) {
			changed = true
		}
	}
	if o.nullable && !e.nullable {
		e.nullable = true
		changed = true
	}
	return changed
}

// FirstSets is the fixpoint FIRST set of every non-terminal in a
// grammar (post macro-expansion, pure BNF).
type FirstSets struct {
	g   *grammar.Grammar
	set map[symbol.Symbol]*firstEntry
}

// ComputeFirstSets runs the standard worklist fixpoint: FIRST of a
// terminal is itself; FIRST of a non-terminal accumulates FIRST of
// the longest nullable prefix of every production's body.
func ComputeFirstSets(g *grammar.Grammar) *FirstSets {
	fs := &FirstSets{g: g, set: map[symbol.Symbol]*firstEntry{}}
	for _, nt := range g.NonTerminals() {
		fs.set[nt] = newFirstEntry()
	}

	for {
		changed := false
		for _, p := range g.Productions() {
			entry := fs.set[p.Head]
			elems := p.Body.Elems()
			if len(elems) == 0 || (len(elems) == 1 && elems[0].Sym.IsEpsilon()) {
				if !entry.nullable {
					entry.nullable = true
					changed = true
				}
				continue
			}

			allNullable := true
			for _, e := range elems {
				sym := e.Sym
				if sym.IsTerminal() {
					if entry.add(sym) {
						changed = true
					}
					allNullable = false
					break
				}
				sub := fs.set[sym]
				if sub == nil {
					// Undefined reference; caught by GrammarBuilder
					// earlier, nothing to contribute here.
					allNullable = false
					break
				}
				if entry.merge(&firstEntry{syms: sub.syms}) {
					changed = true
				}
				if !sub.nullable {
					allNullable = false
					break
				}
			}
			if allNullable && !entry.nullable {
				entry.nullable = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return fs
}

// FirstOfSymbol returns the FIRST set of a single symbol: {sym} for a
// terminal or EOI, {} for ε, or the computed FIRST set for a
// non-terminal.
func (fs *FirstSets) FirstOfSymbol(sym symbol.Symbol) (map[symbol.Symbol]struct{}, bool) {
	if sym.IsTerminal() || sym.IsEOI() {
		return map[symbol.Symbol]struct{}{sym: {}}, false
	}
	if sym.IsEpsilon() {
		return map[symbol.Symbol]struct{}{}, true
	}
	entry := fs.set[sym]
	if entry == nil {
		return map[symbol.Symbol]struct{}{}, true
	}
	return entry.syms, entry.nullable
}

// FirstOfSequence computes FIRST(βa): the FIRST set of the symbol
// sequence beta followed by the single lookahead symbol a, appended as
// a fallback once every symbol of beta is nullable.
func (fs *FirstSets) FirstOfSequence(beta []symbol.Symbol, a symbol.Symbol) map[symbol.Symbol]struct{} {
	result := map[symbol.Symbol]struct{}{}
	for _, sym := range beta {
		first, nullable := fs.FirstOfSymbol(sym)
		for s := range first {
			result[s] = struct{}{}
		}
		if !nullable {
			return result
		}
	}
	result[a] = struct{}{}
	return result
}
