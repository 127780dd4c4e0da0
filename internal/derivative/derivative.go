// Package derivative implements the Brzozowski derivative over
// internal/regexast, the fixpoint simplifier that keeps derived nodes
// in normal form, and a per-DFA-state record of the rewrite steps the
// lexdfa work-list took to reach that state (used by the "show" CLI
// command to explain why a state exists).
package derivative

import (
	"github.com/motoki317/gdef/internal/regexast"
)

// Of computes ∂c(n), the derivative of n with respect to c: the regex
// matching whatever n would match after consuming a leading c.
// Tags are threaded through unchanged, per regexast.Node's "tag
// propagated by construction" contract.
func Of(n *regexast.Node, c rune) *regexast.Node {
	if n == nil {
		return regexast.NewEmptySet()
	}
	tag := n.Tag
	switch n.Kind {
	case regexast.KindEmptySet, regexast.KindEpsilon:
		return regexast.NewEmptySet()

	case regexast.KindLiteral:
		if n.Char == c {
			return regexast.NewEpsilon(tag)
		}
		return regexast.NewEmptySet()

	case regexast.KindAnything:
		if n.Set.Contains(c) {
			return regexast.NewEpsilon(tag)
		}
		return regexast.NewEmptySet()

	case regexast.KindClass:
		member := n.Set.Contains(c)
		if member != n.Negated { // XOR
			return regexast.NewEpsilon(tag)
		}
		return regexast.NewEmptySet()

	case regexast.KindUnion:
		return regexast.NewUnion(Of(n.Left, c), Of(n.Right, c), tag)

	case regexast.KindConcat:
		// ∂c(AB) = ∂c(A)B | ν(A)∂c(B), where ν(A) = ε if A is nullable
		// else ∅ (and a ∅-prefixed concat is absorbed by NewUnion/
		// NewConcat's smart constructors, so we only need to add the
		// second branch when A actually is nullable).
		left := regexast.NewConcat(Of(n.Left, c), n.Right, tag)
		if n.Left.ContainsEpsilon() {
			return regexast.NewUnion(left, Of(n.Right, c), tag)
		}
		return left

	case regexast.KindStar:
		// ∂c(A*) = ∂c(A)A*
		return regexast.NewConcat(Of(n.Child, c), n, tag)

	default:
		return regexast.NewEmptySet()
	}
}

// Simplify rewrites n bottom-up through regexast's smart constructors
// until a fixpoint is reached. Of already builds every node through
// those same constructors, so in practice a single pass suffices; this
// exists to normalize trees assembled some other way (e.g. the initial
// Union of every lexeme's pattern, built by regexast.UnionAll before
// any derivative has been taken) to the same canonical form the
// work-list fixpoint in internal/lexdfa compares states by.
func Simplify(n *regexast.Node) *regexast.Node {
	prev := regexast.CanonicalString(n)
	cur := rebuild(n)
	for {
		curStr := regexast.CanonicalString(cur)
		if curStr == prev {
			return cur
		}
		prev = curStr
		cur = rebuild(cur)
	}
}

func rebuild(n *regexast.Node) *regexast.Node {
	if n == nil {
		return n
	}
	switch n.Kind {
	case regexast.KindUnion:
		return regexast.NewUnion(rebuild(n.Left), rebuild(n.Right), n.Tag)
	case regexast.KindConcat:
		return regexast.NewConcat(rebuild(n.Left), rebuild(n.Right), n.Tag)
	case regexast.KindStar:
		return regexast.NewStar(rebuild(n.Child), n.Tag)
	default:
		return n
	}
}

// Step records a single derivative+simplify rewrite taken while
// exploring one DFA state's outgoing transitions.
type Step struct {
	On     rune
	Before string
	After  string
}

// History accumulates the Steps taken while expanding a single DFA
// state. The lexdfa work-list builder starts a fresh History for each
// state it pops, so a state's History never includes another state's
// rewrites.
type History struct {
	Steps []Step
}

func NewHistory() *History {
	return &History{}
}

// Record appends a rewrite step. before is the state's own regex node;
// after is the (already-simplified) derivative with respect to on.
func (h *History) Record(on rune, before, after *regexast.Node) {
	h.Steps = append(h.Steps, Step{
		On:     on,
		Before: regexast.CanonicalString(before),
		After:  regexast.CanonicalString(after),
	})
}
