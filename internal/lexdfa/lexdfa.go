// Package lexdfa builds the tokenizer's DFA table from a grammar's
// lexemes: combine every lexeme's pattern via Union, then run the
// Brzozowski-derivative work-list to a fixpoint. Lexeme-list
// validation lists every duplicate occurrence rather than stopping at
// the first.
package lexdfa

import (
	"fmt"
	"sort"
	"strings"

	gdeferr "github.com/motoki317/gdef/error"
	"github.com/motoki317/gdef/internal/charset"
	"github.com/motoki317/gdef/internal/derivative"
	"github.com/motoki317/gdef/internal/lexparser"
	"github.com/motoki317/gdef/internal/regexast"
)

// Lexeme is one lexeme declaration: a name, the regex pattern text
// that defines it, whether matches are discarded by the tokenizer, and
// its declaration order (used to break longest-match ties between
// lexemes).
type Lexeme struct {
	Name      string
	Pattern   string
	IsIgnored bool
	Order     int
}

// State is a DFA state id; State 0 is always the start state.
type State int

// Transition is one outgoing edge: every rune in [From, To] moves the
// DFA from the owning state to Target.
type Transition struct {
	From, To rune
	Target   State
}

// Table is the compiled tokenizer automaton.
type Table struct {
	NumStates  int
	Trans      [][]Transition        // indexed by State
	AcceptName []string              // "" if the state is non-accepting
	AcceptSkip []bool                // valid only where AcceptName[s] != ""
	History    []*derivative.History // per-state derivation trace, for `gdef show`
	stateCanon []string
}

// Build validates lexemes, parses each pattern, and runs the
// derivative fixpoint to produce a Table. It returns every error it
// can find rather than stopping at the first.
func Build(lexemes []Lexeme) (*Table, gdeferr.BuildErrors) {
	var errs gdeferr.BuildErrors
	if len(lexemes) == 0 {
		errs = append(errs, &gdeferr.GrammarBuildError{Cause: fmt.Errorf("a grammar must declare at least one lexeme")})
		return nil, errs
	}
	if dupErrs := validateNames(lexemes); len(dupErrs) > 0 {
		errs = append(errs, dupErrs...)
	}

	var patterns []*regexast.Node
	for _, lx := range lexemes {
		tag := &regexast.Tag{Name: lx.Name, IsIgnored: lx.IsIgnored, Order: lx.Order}
		node, err := lexparser.Parse(lx.Pattern, tag)
		if err != nil {
			errs = append(errs, &gdeferr.RegexBuildError{Lexeme: lx.Name, Cause: err})
			continue
		}
		// A lexeme whose pattern matches the empty string is rejected
		// at build time, rather than silently producing a DFA state
		// that accepts with zero characters consumed (an infinite-loop
		// hazard for the longest-match driver in driver/lexer).
		if node.ContainsEpsilon() {
			errs = append(errs, &gdeferr.RegexBuildError{Lexeme: lx.Name, Cause: fmt.Errorf("pattern %q matches the empty string", lx.Pattern)})
			continue
		}
		patterns = append(patterns, node)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	combined := regexast.UnionAll(patterns)
	alphabet := alphabetPartition(combined)

	t := &Table{}
	canon2id := map[string]State{}
	stateNode := []*regexast.Node{combined}
	canon := regexast.CanonicalString(combined)
	canon2id[canon] = 0
	t.stateCanon = append(t.stateCanon, canon)

	queue := []State{0}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		node := stateNode[id]

		name, skip := "", false
		if tag := regexast.WinningTag(node); tag != nil {
			name, skip = tag.Name, tag.IsIgnored
		}
		t.AcceptName = append(t.AcceptName, name)
		t.AcceptSkip = append(t.AcceptSkip, skip)

		h := derivative.NewHistory()
		var trans []Transition
		for _, part := range alphabet {
			rep := part.From
			d := derivative.Simplify(derivative.Of(node, rep))
			h.Record(rep, node, d)
			if d.Kind == regexast.KindEmptySet {
				continue
			}
			dCanon := regexast.CanonicalString(d)
			target, ok := canon2id[dCanon]
			if !ok {
				target = State(len(stateNode))
				canon2id[dCanon] = target
				stateNode = append(stateNode, d)
				t.stateCanon = append(t.stateCanon, dCanon)
				queue = append(queue, target)
			}
			trans = append(trans, Transition{From: part.From, To: part.To, Target: target})
		}
		t.Trans = append(t.Trans, mergeAdjacent(trans))
		t.History = append(t.History, h)
	}
	t.NumStates = len(stateNode)

	if !hasAnyAccepting(t) {
		errs = append(errs, &gdeferr.GrammarBuildError{Cause: fmt.Errorf("no lexeme can ever match (every pattern derives to the empty language)")})
		return nil, errs
	}

	return t, nil
}

// StateName returns the canonical-regex identity of state s, for
// diagnostic dumps.
func (t *Table) StateName(s State) string {
	return t.stateCanon[s]
}

func hasAnyAccepting(t *Table) bool {
	for _, n := range t.AcceptName {
		if n != "" {
			return true
		}
	}
	return false
}

// mergeAdjacent merges consecutive transitions to the same target
// into a single range, keeping the table compact.
func mergeAdjacent(trans []Transition) []Transition {
	if len(trans) == 0 {
		return nil
	}
	sort.Slice(trans, func(i, j int) bool { return trans[i].From < trans[j].From })
	merged := []Transition{trans[0]}
	for _, t := range trans[1:] {
		last := &merged[len(merged)-1]
		if t.Target == last.Target && t.From == last.To+1 {
			last.To = t.To
			continue
		}
		merged = append(merged, t)
	}
	return merged
}

// alphabetPartition splits the character space spanned by every
// Literal/Anything/Class node in n into the coarsest set of maximal
// ranges such that, for every such atomic node, all runes in a given
// range are uniformly inside or outside it. Taking the derivative at
// one representative rune per range is then equivalent to taking it
// at every rune in the range, which lets the work-list avoid iterating
// potentially large presets (e.g. the 64k-codepoint BMP preset)
// rune-by-rune.
func alphabetPartition(n *regexast.Node) []charset.Range {
	boundary := map[rune]struct{}{}
	var walk func(*regexast.Node)
	walk = func(n *regexast.Node) {
		if n == nil {
			return
		}
		switch n.Kind {
		case regexast.KindLiteral:
			boundary[n.Char] = struct{}{}
			boundary[n.Char+1] = struct{}{}
		case regexast.KindAnything, regexast.KindClass:
			for _, r := range n.Set.Ranges() {
				boundary[r.From] = struct{}{}
				boundary[r.To+1] = struct{}{}
			}
		case regexast.KindUnion, regexast.KindConcat:
			walk(n.Left)
			walk(n.Right)
		case regexast.KindStar:
			walk(n.Child)
		}
	}
	walk(n)
	if len(boundary) == 0 {
		return nil
	}
	points := make([]rune, 0, len(boundary))
	for p := range boundary {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })

	var ranges []charset.Range
	for i := 0; i < len(points)-1; i++ {
		ranges = append(ranges, charset.Range{From: points[i], To: points[i+1] - 1})
	}
	return ranges
}

func validateNames(lexemes []Lexeme) gdeferr.BuildErrors {
	var errs gdeferr.BuildErrors
	seen := map[string]struct{}{}
	var names []string
	for _, lx := range lexemes {
		names = append(names, lx.Name)
		if _, ok := seen[lx.Name]; ok {
			errs = append(errs, &gdeferr.GrammarBuildError{Symbol: lx.Name, Cause: fmt.Errorf("duplicate lexeme name")})
			continue
		}
		seen[lx.Name] = struct{}{}
	}
	for _, dup := range FindSpellingInconsistencies(names) {
		errs = append(errs, &gdeferr.GrammarBuildError{Cause: fmt.Errorf("lexeme names %v are spelled inconsistently; please use one spelling", strings.Join(dup, ", "))})
	}
	return errs
}
