// Package lr1 implements canonical LR(1) item/closure/GOTO/state
// construction and ACTION/GOTO table emission with conflict detection.
// Per-item lookaheads are computed at closure time via FIRST(βa);
// states are identified by kernel and numbered in discovery order.
package lr1

import (
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/motoki317/gdef/internal/grammar"
	"github.com/motoki317/gdef/internal/symbol"
)

// itemKey identifies an item by production and dot position, ignoring
// its lookahead set; lookaheads are merged onto whichever item already
// holds this key.
type itemKey struct {
	prod grammar.Num
	dot  int
}

// item is one LR(1) item: a production, a dot position, and the set
// of terminals that may legally follow a reduction of this item.
type item struct {
	key  itemKey
	prod *grammar.ProductionRule
	dot  int
	la   map[symbol.Symbol]struct{}
}

func newItem(prod *grammar.ProductionRule, dot int, la map[symbol.Symbol]struct{}) *item {
	return &item{key: itemKey{prod: prod.Num(), dot: dot}, prod: prod, dot: dot, la: la}
}

// nextSymbol returns body[dot], or symbol.Nil if the dot is at the
// end of the body. An epsilon production's single item is created
// directly at the end position (see closure), so nextSymbol never
// returns symbol.Epsilon.
func (it *item) nextSymbol() symbol.Symbol {
	elems := it.prod.Body.Elems()
	if it.dot >= len(elems) {
		return symbol.Nil
	}
	return elems[it.dot].Sym
}

// beta returns the symbols after the dotted symbol.
func (it *item) beta() []symbol.Symbol {
	elems := it.prod.Body.Elems()
	if it.dot+1 >= len(elems) {
		return nil
	}
	out := make([]symbol.Symbol, 0, len(elems)-it.dot-1)
	for _, e := range elems[it.dot+1:] {
		out = append(out, e.Sym)
	}
	return out
}

func (it *item) isReducible() bool {
	return it.nextSymbol().IsNil()
}

// symbolComparator orders symbol.Symbol values by their packed id, for
// the treeset-backed sorted symbol sets this package keeps (lookahead
// sets and per-state outgoing symbols).
func symbolComparator(a, b interface{}) int {
	return int(a.(symbol.Symbol)) - int(b.(symbol.Symbol))
}

func sortedLookaheads(la map[symbol.Symbol]struct{}) []symbol.Symbol {
	set := treeset.NewWith(symbolComparator)
	for s := range la {
		set.Add(s)
	}
	out := make([]symbol.Symbol, 0, set.Size())
	for _, v := range set.Values() {
		out = append(out, v.(symbol.Symbol))
	}
	return out
}

func mergeLookaheads(dst map[symbol.Symbol]struct{}, src map[symbol.Symbol]struct{}) bool {
	changed := false
	for s := range src {
		if _, ok := dst[s]; !ok {
			dst[s] = struct{}{}
			changed = true
		}
	}
	return changed
}

func cloneLookaheads(src map[symbol.Symbol]struct{}) map[symbol.Symbol]struct{} {
	dst := make(map[symbol.Symbol]struct{}, len(src))
	for s := range src {
		dst[s] = struct{}{}
	}
	return dst
}
