// Package grammar implements the symbol/grammar model (sentences,
// production rules, grammars and their builder) and the EBNF macro
// expansion that lowers Grouping/Nullable/ZeroOrMore/OneOrMore/
// Alternative elements into pure BNF.
package grammar

import "github.com/motoki317/gdef/internal/symbol"

// MacroKind discriminates the macro variants.
type MacroKind int

const (
	MacroGrouping MacroKind = iota
	MacroNullable
	MacroZeroOrMore
	MacroOneOrMore
	MacroPipe
	MacroAlternative
)

func (k MacroKind) String() string {
	switch k {
	case MacroGrouping:
		return "grouping"
	case MacroNullable:
		return "nullable"
	case MacroZeroOrMore:
		return "zero-or-more"
	case MacroOneOrMore:
		return "one-or-more"
	case MacroPipe:
		return "pipe"
	case MacroAlternative:
		return "alternative"
	default:
		return "unknown-macro"
	}
}

// Macro is a macro-typed grammar symbol. Operand holds the
// grouped/quantified sub-sentence for
// Grouping/Nullable/ZeroOrMore/OneOrMore; Alternatives holds the set of
// sub-sentences an Alternative wraps (produced only by Pipe
// flattening, never written directly).
type Macro struct {
	Kind         MacroKind
	Operand      []Elem
	Alternatives [][]Elem
}

// Elem is one element of a sentence body: either a plain grammar
// symbol or a macro node. Exactly one of Sym/Macro is set.
type Elem struct {
	Sym   symbol.Symbol
	Macro *Macro
}

func Sym(s symbol.Symbol) Elem {
	return Elem{Sym: s}
}

func (e Elem) IsMacro() bool {
	return e.Macro != nil
}

// Sentence is an immutable ordered sequence of symbols. Construction
// flattens any embedded Pipe macros into a single
// Alternative macro wrapping the pre- and post-pipe sub-sentences, so
// a constructed Sentence never contains a raw Pipe element.
type Sentence struct {
	elems []Elem
}

// NewSentence builds a Sentence from elems, flattening top-level Pipe
// occurrences into an Alternative. Called both for a production's body
// and for a Grouping macro's operand, since both are `symbol+` lists
// in the surface grammar that may themselves contain `|`.
func NewSentence(elems []Elem) *Sentence {
	return &Sentence{elems: flattenPipes(elems)}
}

func (s *Sentence) Elems() []Elem {
	return s.elems
}

func (s *Sentence) Len() int {
	return len(s.elems)
}

// Equal reports elementwise equality.
func (s *Sentence) Equal(o *Sentence) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i, e := range s.elems {
		if !elemEqual(e, o.elems[i]) {
			return false
		}
	}
	return true
}

// ContainsMacro reports whether any element of s is macro-typed; this
// gates whether a Grammar needs macro expansion.
func (s *Sentence) ContainsMacro() bool {
	for _, e := range s.elems {
		if e.IsMacro() {
			return true
		}
	}
	return false
}

func elemEqual(a, b Elem) bool {
	if a.IsMacro() != b.IsMacro() {
		return false
	}
	if !a.IsMacro() {
		return a.Sym == b.Sym
	}
	return macroEqual(a.Macro, b.Macro)
}

func macroEqual(a, b *Macro) bool {
	if a.Kind != b.Kind {
		return false
	}
	if len(a.Operand) != len(b.Operand) || len(a.Alternatives) != len(b.Alternatives) {
		return false
	}
	for i, e := range a.Operand {
		if !elemEqual(e, b.Operand[i]) {
			return false
		}
	}
	for i, alt := range a.Alternatives {
		if len(alt) != len(b.Alternatives[i]) {
			return false
		}
		for j, e := range alt {
			if !elemEqual(e, b.Alternatives[i][j]) {
				return false
			}
		}
	}
	return true
}

// flattenPipes splits elems on top-level Pipe markers into
// sub-sentences and wraps them as a single Alternative element. A list
// with no Pipe is returned unchanged.
func flattenPipes(elems []Elem) []Elem {
	var groups [][]Elem
	var cur []Elem
	hasPipe := false
	for _, e := range elems {
		if e.IsMacro() && e.Macro.Kind == MacroPipe {
			hasPipe = true
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, e)
	}
	if !hasPipe {
		return elems
	}
	groups = append(groups, cur)
	return []Elem{{Macro: &Macro{Kind: MacroAlternative, Alternatives: groups}}}
}
