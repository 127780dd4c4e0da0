package lr1

import (
	"fmt"

	gdeferr "github.com/motoki317/gdef/error"
	"github.com/motoki317/gdef/internal/grammar"
	"github.com/motoki317/gdef/internal/symbol"
)

// ActionKind discriminates the ACTION table's variants.
type ActionKind int

const (
	ActionError ActionKind = iota
	ActionShift
	ActionReduce
	ActionAccept
)

// Action is one ACTION table cell: Shift, Reduce or Accept. Goto
// lives in its own table, see Table.Goto.
type Action struct {
	Kind  ActionKind
	State int         // valid when Kind == ActionShift
	Prod  grammar.Num // valid when Kind == ActionReduce
}

type cellKey struct {
	state int
	sym   symbol.Symbol
}

// Table is the compiled ACTION/GOTO table: a sparse (state-id ×
// symbol) -> Action map plus a separate GOTO map, backed by an indexed
// production map so a reduce operand resolves in O(1).
type Table struct {
	Grammar      *grammar.Grammar
	action       map[cellKey]Action
	goTo         map[cellKey]int
	prodByNum    map[grammar.Num]*grammar.ProductionRule
	InitialState int
	NumStates    int
}

func (t *Table) Action(state int, sym symbol.Symbol) (Action, bool) {
	a, ok := t.action[cellKey{state: state, sym: sym}]
	return a, ok
}

func (t *Table) Goto(state int, sym symbol.Symbol) (int, bool) {
	s, ok := t.goTo[cellKey{state: state, sym: sym}]
	return s, ok
}

// ProductionByNum returns the production with the given index; used by
// the parser driver to look up a reduction's head and body length.
func (t *Table) ProductionByNum(n grammar.Num) *grammar.ProductionRule {
	return t.prodByNum[n]
}

type conflictKind int

const (
	conflictShiftReduce conflictKind = iota
	conflictReduceReduce
)

type tableConflict struct {
	kind  conflictKind
	state int
	sym   symbol.Symbol
	a, b  Action
}

// BuildTable runs the LR(1) item/closure/GOTO engine over g (which
// must already be augmented, see grammar.Grammar.Augment) and emits
// the ACTION/GOTO table. Every state is scanned before the builder
// aborts, so a grammar with several independent conflicts is reported
// with all of them at once.
func BuildTable(g *grammar.Grammar) (*Table, gdeferr.BuildErrors) {
	fs := ComputeFirstSets(g)
	automaton, err := Build(g, fs)
	if err != nil {
		return nil, gdeferr.BuildErrors{&gdeferr.GrammarBuildError{Cause: err}}
	}

	t := &Table{
		Grammar:      g,
		action:       map[cellKey]Action{},
		goTo:         map[cellKey]int{},
		prodByNum:    map[grammar.Num]*grammar.ProductionRule{},
		InitialState: automaton.InitialState,
		NumStates:    len(automaton.States),
	}
	for _, p := range g.Productions() {
		t.prodByNum[p.Num()] = p
	}

	attempts := map[cellKey][]Action{}
	record := func(state int, sym symbol.Symbol, a Action) {
		k := cellKey{state: state, sym: sym}
		attempts[k] = append(attempts[k], a)
	}

	for _, s := range automaton.States {
		for x, next := range s.Next {
			if x.IsNonTerminal() {
				t.goTo[cellKey{state: s.Num, sym: x}] = next
				continue
			}
			record(s.Num, x, Action{Kind: ActionShift, State: next})
		}

		for _, it := range s.Closure {
			if !it.isReducible() {
				continue
			}
			for a := range it.la {
				if it.prod.Head.IsStart() && a.IsEOI() {
					record(s.Num, a, Action{Kind: ActionAccept})
					continue
				}
				record(s.Num, a, Action{Kind: ActionReduce, Prod: it.prod.Num()})
			}
		}
	}

	var conflicts []tableConflict
	var buildErrs gdeferr.BuildErrors
	for k, actions := range attempts {
		if len(actions) == 1 {
			t.action[k] = actions[0]
			continue
		}
		// Stable priority: the production declared first (lowest Num)
		// wins among reduces. Any collision is still reported as a
		// conflict and the build aborts; the winner only shapes the
		// conflict description, never a shipped table.
		winner := actions[0]
		for _, a := range actions[1:] {
			kind := conflictReduceReduce
			if winner.Kind == ActionShift || a.Kind == ActionShift {
				kind = conflictShiftReduce
			}
			conflicts = append(conflicts, tableConflict{kind: kind, state: k.state, sym: k.sym, a: winner, b: a})
			if a.Kind == ActionReduce && winner.Kind == ActionReduce && a.Prod < winner.Prod {
				winner = a
			}
		}
		t.action[k] = winner
	}

	if len(conflicts) > 0 {
		for _, c := range conflicts {
			buildErrs = append(buildErrs, &gdeferr.LRConflictError{
				State:       c.state,
				Symbol:      symbolText(g, c.sym),
				Description: describeConflict(g, c),
			})
		}
		return nil, buildErrs
	}

	return t, nil
}

func describeConflict(g *grammar.Grammar, c tableConflict) string {
	describe := func(a Action) string {
		switch a.Kind {
		case ActionShift:
			return fmt.Sprintf("shift to state %d", a.State)
		case ActionReduce:
			return fmt.Sprintf("reduce by production %d", a.Prod.Int())
		case ActionAccept:
			return "accept"
		default:
			return "error"
		}
	}
	kind := "shift/reduce"
	if c.kind == conflictReduceReduce {
		kind = "reduce/reduce"
	}
	return fmt.Sprintf("%s conflict (%s vs %s)", kind, describe(c.a), describe(c.b))
}

func symbolText(g *grammar.Grammar, sym symbol.Symbol) string {
	if sym.IsEOI() {
		return "<eoi>"
	}
	text, ok := g.SymbolTable().Reader().ToText(sym)
	if !ok {
		return "<unknown>"
	}
	return text
}
