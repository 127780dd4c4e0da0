// Package parser implements the shift-reduce parser runtime and CST
// builder: a dual-stack driver that walks an internal/lr1.Table
// against a driver/lexer.Lexer's token stream and produces a concrete
// syntax tree. A production's `=> placeholder` semantic action is a
// parsed-but-inert stub, so only the CST is built.
package parser

// Kind discriminates the CST node variants.
type Kind int

const (
	KindLeaf Kind = iota
	KindInternal
	KindRoot
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindInternal:
		return "internal"
	case KindRoot:
		return "root"
	default:
		return "unknown"
	}
}

// Node is a CST node: a Leaf wraps one consumed token, an Internal
// wraps the children a reduction produced, and Root wraps the single
// surviving node once the parse Accepts. Parent is a weak (lookup-only)
// back-pointer; it never participates in ownership.
type Node struct {
	Kind     Kind
	Name     string
	Children []*Node
	Parent   *Node

	// Leaf-only.
	Lexeme string
	Row    int
	Col    int

	// Start/End are 0-based character offsets into the source, End
	// exclusive.
	Start, End int
}

func newLeaf(name, lexeme string, start, end, row, col int) *Node {
	return &Node{Kind: KindLeaf, Name: name, Lexeme: lexeme, Start: start, End: end, Row: row, Col: col}
}

// newInternal builds an Internal node from the reduced handle's
// children. An epsilon reduction (len(children) == 0) gets a
// zero-length span anchored at anchorEnd, the end of the preceding
// token on the current path.
func newInternal(name string, children []*Node, anchorEnd int) *Node {
	n := &Node{Kind: KindInternal, Name: name, Children: children}
	if len(children) == 0 {
		n.Start, n.End = anchorEnd, anchorEnd
	} else {
		n.Start = children[0].Start
		n.End = children[len(children)-1].End
	}
	for _, c := range children {
		c.Parent = n
	}
	return n
}

// Prune is an optional post-pass over a finished CST: it returns
// a copy of the tree with every Internal node whose name is not in keep
// replaced by its children, inlined into its parent's child list. Leaf
// and Root nodes are never pruned. Token spans and document order are
// preserved.
func Prune(root *Node, keep map[string]bool) *Node {
	if root == nil {
		return nil
	}
	pruned := &Node{
		Kind:   root.Kind,
		Name:   root.Name,
		Lexeme: root.Lexeme,
		Start:  root.Start,
		End:    root.End,
		Row:    root.Row,
		Col:    root.Col,
	}
	pruned.Children = pruneChildren(root.Children, keep)
	for _, c := range pruned.Children {
		c.Parent = pruned
	}
	return pruned
}

func pruneChildren(children []*Node, keep map[string]bool) []*Node {
	var out []*Node
	for _, c := range children {
		if c.Kind == KindLeaf {
			out = append(out, Prune(c, keep))
			continue
		}
		grandchildren := pruneChildren(c.Children, keep)
		if !keep[c.Name] {
			out = append(out, grandchildren...)
			continue
		}
		n := &Node{Kind: c.Kind, Name: c.Name, Start: c.Start, End: c.End}
		n.Children = grandchildren
		for _, gc := range grandchildren {
			gc.Parent = n
		}
		out = append(out, n)
	}
	return out
}

// Leaves returns the left-to-right sequence of Leaf nodes under root.
// On a successful parse this sequence equals the non-ignored token
// stream.
func Leaves(root *Node) []*Node {
	if root == nil {
		return nil
	}
	if root.Kind == KindLeaf {
		return []*Node{root}
	}
	var out []*Node
	for _, c := range root.Children {
		out = append(out, Leaves(c)...)
	}
	return out
}
