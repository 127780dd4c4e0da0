// Package regexast implements the regular-expression AST: a tagged
// node variant with cached containsEpsilon and a structural hash, plus
// the lexeme tag that the derivative engine (internal/derivative)
// threads through rewrites.
//
// The owning lexeme is an intrinsic field set by the node factory
// functions and copied forward by construction, rather than mutable
// per-node metadata, so the AST stays immutable after it is built.
package regexast

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/motoki317/gdef/internal/charset"
)

type Kind int

const (
	KindEpsilon Kind = iota
	KindEmptySet
	KindLiteral
	KindUnion
	KindConcat
	KindStar
	KindAnything
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindEpsilon:
		return "epsilon"
	case KindEmptySet:
		return "empty-set"
	case KindLiteral:
		return "literal"
	case KindUnion:
		return "union"
	case KindConcat:
		return "concat"
	case KindStar:
		return "star"
	case KindAnything:
		return "anything"
	case KindClass:
		return "class"
	default:
		return "unknown"
	}
}

// Tag identifies which Lexeme a node's subtree belongs to. A node
// spanning more than one lexeme (the top-level Union the DFA
// constructor combines every pattern into) carries a nil tag.
type Tag struct {
	Name      string
	IsIgnored bool
	// Order is the lexeme's declaration index; lower wins ties.
	Order int
}

// Node is an immutable regex AST node. Parent is a weak (lookup-only)
// back-pointer; it never participates in equality, hashing, or
// ownership.
type Node struct {
	Kind Kind

	// KindLiteral
	Char rune

	// KindUnion, KindConcat
	Left, Right *Node

	// KindStar
	Child *Node

	// KindAnything, KindClass
	Set     *charset.Charset
	Negated bool // KindClass only
	// Children records the bracket-expression sub-parts a Class was
	// built from (individual chars/ranges), for display only; equality
	// and matching are governed entirely by the resolved Set.
	Children []*Node

	containsEpsilon bool
	hash            uint64
	Tag             *Tag

	Parent *Node
}

func (n *Node) ContainsEpsilon() bool {
	if n == nil {
		return false
	}
	return n.containsEpsilon
}

func (n *Node) Hash() uint64 {
	return n.hash
}

func setParent(parent, child *Node) {
	if child == nil {
		return
	}
	child.Parent = parent
}

func hashOf(kind Kind, fields ...any) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%v", kind)
	for _, f := range fields {
		fmt.Fprintf(h, "|%v", f)
	}
	return h.Sum64()
}

// NewEpsilon returns the ε node: matches only the empty string.
func NewEpsilon(tag *Tag) *Node {
	n := &Node{Kind: KindEpsilon, containsEpsilon: true, Tag: tag}
	n.hash = hashOf(KindEpsilon)
	return n
}

// NewEmptySet returns the ∅ node: matches nothing.
func NewEmptySet() *Node {
	n := &Node{Kind: KindEmptySet, containsEpsilon: false}
	n.hash = hashOf(KindEmptySet)
	return n
}

func NewLiteral(c rune, tag *Tag) *Node {
	n := &Node{Kind: KindLiteral, Char: c, containsEpsilon: false, Tag: tag}
	n.hash = hashOf(KindLiteral, c)
	return n
}

// NewUnion builds A|B, simplifying the two universally-absorbing cases
// (∅ is the identity element) inline so callers never need to special-
// case them. Full fixpoint simplification still lives in
// internal/derivative; this is just the smart constructor.
func NewUnion(l, r *Node, tag *Tag) *Node {
	if l.Kind == KindEmptySet {
		return r
	}
	if r.Kind == KindEmptySet {
		return l
	}
	if Equal(l, r) {
		return l
	}
	n := &Node{
		Kind:            KindUnion,
		Left:            l,
		Right:           r,
		containsEpsilon: l.ContainsEpsilon() || r.ContainsEpsilon(),
		Tag:             tag,
	}
	setParent(n, l)
	setParent(n, r)
	n.hash = hashOf(KindUnion, l.Hash(), r.Hash())
	return n
}

// UnionAll folds a list of nodes into a single right-leaning Union.
// An empty list yields ∅.
func UnionAll(nodes []*Node) *Node {
	if len(nodes) == 0 {
		return NewEmptySet()
	}
	acc := nodes[len(nodes)-1]
	for i := len(nodes) - 2; i >= 0; i-- {
		acc = NewUnion(nodes[i], acc, nil)
	}
	return acc
}

func NewConcat(l, r *Node, tag *Tag) *Node {
	if l.Kind == KindEmptySet || r.Kind == KindEmptySet {
		return NewEmptySet()
	}
	if l.Kind == KindEpsilon {
		return r
	}
	if r.Kind == KindEpsilon {
		return l
	}
	n := &Node{
		Kind:            KindConcat,
		Left:            l,
		Right:           r,
		containsEpsilon: l.ContainsEpsilon() && r.ContainsEpsilon(),
		Tag:             tag,
	}
	setParent(n, l)
	setParent(n, r)
	n.hash = hashOf(KindConcat, l.Hash(), r.Hash())
	return n
}

// ConcatAll folds a list of nodes left-to-right into a single Concat.
func ConcatAll(nodes []*Node, tag *Tag) *Node {
	if len(nodes) == 0 {
		return NewEpsilon(tag)
	}
	acc := nodes[0]
	for _, n := range nodes[1:] {
		acc = NewConcat(acc, n, tag)
	}
	return acc
}

func NewStar(child *Node, tag *Tag) *Node {
	if child.Kind == KindEmptySet || child.Kind == KindEpsilon {
		return NewEpsilon(tag)
	}
	if child.Kind == KindStar {
		return child
	}
	n := &Node{Kind: KindStar, Child: child, containsEpsilon: true, Tag: tag}
	setParent(n, child)
	n.hash = hashOf(KindStar, child.Hash())
	return n
}

func NewAnything(set *charset.Charset, tag *Tag) *Node {
	n := &Node{Kind: KindAnything, Set: set, containsEpsilon: false, Tag: tag}
	n.hash = hashOf(KindAnything, rangesKey(set))
	return n
}

func NewClass(set *charset.Charset, negated bool, children []*Node, tag *Tag) *Node {
	n := &Node{
		Kind:            KindClass,
		Set:             set,
		Negated:         negated,
		Children:        children,
		containsEpsilon: false,
		Tag:             tag,
	}
	for _, c := range children {
		setParent(n, c)
	}
	n.hash = hashOf(KindClass, rangesKey(set), negated)
	return n
}

// RangeUnion folds a list of character ranges into a Union of Anything
// nodes, one per range.
func RangeUnion(ranges []charset.Range, tag *Tag) *Node {
	nodes := make([]*Node, 0, len(ranges))
	for _, r := range ranges {
		nodes = append(nodes, NewAnything(charset.New(r), tag))
	}
	return UnionAll(nodes)
}

func rangesKey(set *charset.Charset) string {
	if set == nil {
		return ""
	}
	s := ""
	for _, r := range set.Ranges() {
		s += fmt.Sprintf("%d-%d,", r.From, r.To)
	}
	return s
}

// Retag reconstructs n with every descendant's tag set to tag, used
// when a lexeme's own pattern is registered, before it is combined
// with any other lexeme's pattern into the tokenizer's top-level
// union.
func Retag(n *Node, tag *Tag) *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindEpsilon:
		return NewEpsilon(tag)
	case KindEmptySet:
		return n
	case KindLiteral:
		return NewLiteral(n.Char, tag)
	case KindUnion:
		return NewUnion(Retag(n.Left, tag), Retag(n.Right, tag), tag)
	case KindConcat:
		return NewConcat(Retag(n.Left, tag), Retag(n.Right, tag), tag)
	case KindStar:
		return NewStar(Retag(n.Child, tag), tag)
	case KindAnything:
		return NewAnything(n.Set, tag)
	case KindClass:
		return NewClass(n.Set, n.Negated, n.Children, tag)
	default:
		return n
	}
}

// Alphabet returns the set of characters that can ever be consumed
// reading from n: the union of every Literal, Anything's charset and
// Class's resolved charset appearing in the tree.
func Alphabet(n *Node, extra ...rune) *charset.Charset {
	seen := map[rune]struct{}{}
	var ranges []charset.Range
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		switch n.Kind {
		case KindLiteral:
			if _, ok := seen[n.Char]; !ok {
				seen[n.Char] = struct{}{}
				ranges = append(ranges, charset.Range{From: n.Char, To: n.Char})
			}
		case KindAnything, KindClass:
			ranges = append(ranges, n.Set.Ranges()...)
		case KindUnion, KindConcat:
			walk(n.Left)
			walk(n.Right)
		case KindStar:
			walk(n.Child)
		}
	}
	walk(n)
	for _, r := range extra {
		ranges = append(ranges, charset.Range{From: r, To: r})
	}
	return charset.New(ranges...)
}

// Equal reports structural equality, ignoring Parent and Tag.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindEpsilon, KindEmptySet:
		return true
	case KindLiteral:
		return a.Char == b.Char
	case KindUnion, KindConcat:
		return Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	case KindStar:
		return Equal(a.Child, b.Child)
	case KindAnything:
		return a.Set.Equal(b.Set)
	case KindClass:
		return a.Negated == b.Negated && a.Set.Equal(b.Set)
	default:
		return false
	}
}

// CanonicalString renders n in a form that is stable across runs for
// structurally-equal nodes whose leaves carry the same lexeme tags;
// used as the DFA state-identity key, so two derivatives that differ
// only in which lexeme they belong to stay distinct states.
func CanonicalString(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	tag := ""
	if n.Tag != nil {
		tag = "@" + n.Tag.Name
	}
	switch n.Kind {
	case KindEpsilon:
		return "e" + tag
	case KindEmptySet:
		return "0"
	case KindLiteral:
		return fmt.Sprintf("%q", n.Char) + tag
	case KindUnion:
		return "(" + CanonicalString(n.Left) + "|" + CanonicalString(n.Right) + ")"
	case KindConcat:
		return "(" + CanonicalString(n.Left) + "." + CanonicalString(n.Right) + ")"
	case KindStar:
		return CanonicalString(n.Child) + "*"
	case KindAnything:
		return "any:" + rangesKey(n.Set) + tag
	case KindClass:
		neg := ""
		if n.Negated {
			neg = "^"
		}
		return "class:" + neg + rangesKey(n.Set) + tag
	default:
		return "?"
	}
}

// WinningTag resolves which lexeme a containsEpsilon node accepts as,
// applying the first-declared-wins tie-break when n spans more than
// one lexeme (n.Tag == nil).
func WinningTag(n *Node) *Tag {
	if n == nil || !n.containsEpsilon {
		return nil
	}
	if n.Tag != nil {
		return n.Tag
	}
	if n.Kind == KindUnion {
		var candidates []*Tag
		if n.Left.ContainsEpsilon() {
			if t := WinningTag(n.Left); t != nil {
				candidates = append(candidates, t)
			}
		}
		if n.Right.ContainsEpsilon() {
			if t := WinningTag(n.Right); t != nil {
				candidates = append(candidates, t)
			}
		}
		if len(candidates) == 0 {
			return nil
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].Order < candidates[j].Order })
		return candidates[0]
	}
	return nil
}
