package lr1

import (
	"sort"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/motoki317/gdef/internal/grammar"
	"github.com/motoki317/gdef/internal/symbol"
)

// closure computes CLOSURE(I) for a kernel item set: for every item
// `A → α·Bβ, {a}` with B a non-terminal,
// for every production `B → γ`, add `B → ·γ, FIRST(βa)`, merging
// lookaheads when an item with the same production+dot already
// exists. Runs to a fixpoint since adding an item can grow another
// item's lookahead set, which in turn must be re-propagated.
//
// An epsilon production's item is added directly at its end position
// (dot=1, the production's only valid "reduced" position) since there
// is no terminal or non-terminal to shift over ε.
func closure(kernel []*item, g *grammar.Grammar, fs *FirstSets) map[itemKey]*item {
	items := map[itemKey]*item{}
	for _, it := range kernel {
		items[it.key] = it
	}

	changed := true
	for changed {
		changed = false
		for _, it := range snapshot(items) {
			b := it.nextSymbol()
			if b.IsNil() || b.IsTerminal() || b.IsEOI() || b.IsEpsilon() {
				continue
			}
			beta := it.beta()
			for _, p := range g.ProductionsFor(b) {
				dot := 0
				if p.IsEpsilon() {
					dot = 1
				}
				newLA := map[symbol.Symbol]struct{}{}
				for a := range it.la {
					for s := range fs.FirstOfSequence(beta, a) {
						newLA[s] = struct{}{}
					}
				}
				k := itemKey{prod: p.Num(), dot: dot}
				if existing, ok := items[k]; ok {
					if mergeLookaheads(existing.la, newLA) {
						changed = true
					}
					continue
				}
				items[k] = newItem(p, dot, newLA)
				changed = true
			}
		}
	}
	return items
}

func snapshot(items map[itemKey]*item) []*item {
	out := make([]*item, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	return out
}

// gotoKernel shifts the dot over x in every item of the closure whose
// dotted symbol is x, returning the (not yet closed) kernel of the
// resulting state.
func gotoKernel(items map[itemKey]*item, x symbol.Symbol) []*item {
	grouped := map[itemKey]*item{}
	order := arraylist.New()
	for _, it := range items {
		if it.nextSymbol() != x {
			continue
		}
		k := itemKey{prod: it.prod.Num(), dot: it.dot + 1}
		if existing, ok := grouped[k]; ok {
			mergeLookaheads(existing.la, it.la)
			continue
		}
		grouped[k] = newItem(it.prod, it.dot+1, cloneLookaheads(it.la))
		order.Add(k)
	}
	out := make([]*item, 0, order.Size())
	order.Each(func(_ int, v interface{}) {
		out = append(out, grouped[v.(itemKey)])
	})
	return out
}

// kernelKey canonicalizes a kernel's identity: the same set of
// (production, dot, lookahead-set) triples yields the same key,
// independent of discovery order.
func kernelKey(kernel []*item) string {
	type triple struct {
		prod grammar.Num
		dot  int
		las  []symbol.Symbol
	}
	triples := make([]triple, 0, len(kernel))
	for _, it := range kernel {
		triples = append(triples, triple{prod: it.prod.Num(), dot: it.dot, las: sortedLookaheads(it.la)})
	}
	sort.Slice(triples, func(i, j int) bool {
		if triples[i].prod != triples[j].prod {
			return triples[i].prod < triples[j].prod
		}
		return triples[i].dot < triples[j].dot
	})

	var b strings.Builder
	for _, t := range triples {
		b.WriteString(strconv.Itoa(t.prod.Int()))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(t.dot))
		b.WriteByte('[')
		for i, a := range t.las {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(int(a)))
		}
		b.WriteString("];")
	}
	return b.String()
}

// State is one canonical LR(1) automaton state: its kernel (identity)
// and full closure, plus the GOTO transitions discovered while
// building it.
type State struct {
	Num     int
	Kernel  []*item
	Closure map[itemKey]*item
	Next    map[symbol.Symbol]int // symbol -> target state num
}

// Automaton is the full canonical LR(1) state set. State 0 is always
// the initial state.
type Automaton struct {
	States       []*State
	InitialState int
}

// Build runs the state-set fixpoint starting from the kernel `{S' →
// ·S, {EOI}}`. g must already be augmented (see
// grammar.Grammar.Augment): its start production must be S' → S.
func Build(g *grammar.Grammar, fs *FirstSets) (*Automaton, error) {
	startProds := g.ProductionsFor(g.Start())
	initialKernel := []*item{newItem(startProds[0], 0, map[symbol.Symbol]struct{}{symbol.EOI: {}})}

	a := &Automaton{}
	known := map[string]int{}
	key := kernelKey(initialKernel)
	known[key] = 0

	states := []*State{buildState(0, initialKernel, g, fs)}
	for i := 0; i < len(states); i++ {
		s := states[i]
		syms := outgoingSymbols(s.Closure)
		s.Next = map[symbol.Symbol]int{}
		for _, x := range syms {
			k := gotoKernel(s.Closure, x)
			if len(k) == 0 {
				continue
			}
			kk := kernelKey(k)
			id, ok := known[kk]
			if !ok {
				id = len(states)
				known[kk] = id
				states = append(states, buildState(id, k, g, fs))
			}
			s.Next[x] = id
		}
	}

	a.States = states
	a.InitialState = 0
	return a, nil
}

func buildState(num int, kernel []*item, g *grammar.Grammar, fs *FirstSets) *State {
	return &State{
		Num:     num,
		Kernel:  kernel,
		Closure: closure(kernel, g, fs),
	}
}

func outgoingSymbols(closure map[itemKey]*item) []symbol.Symbol {
	set := treeset.NewWith(symbolComparator)
	for _, it := range closure {
		x := it.nextSymbol()
		if x.IsNil() {
			continue
		}
		set.Add(x)
	}
	out := make([]symbol.Symbol, 0, set.Size())
	for _, v := range set.Values() {
		out = append(out, v.(symbol.Symbol))
	}
	return out
}
