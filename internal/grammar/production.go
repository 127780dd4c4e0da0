package grammar

import (
	"fmt"

	"github.com/motoki317/gdef/internal/symbol"
)

// Num is a production's discovery order; it doubles as the LR table's
// reduce operand and as the tie-break between otherwise-identical
// reductions.
type Num uint16

func (n Num) Int() int {
	return int(n)
}

const (
	NumNil   = Num(0)
	NumStart = Num(1)
	numMin   = Num(2)
)

// ProductionRule is a pair (head, body). Rules compare by structural
// equality of head and body, not by identity.
type ProductionRule struct {
	num  Num
	Head symbol.Symbol
	Body *Sentence
}

func newProductionRule(head symbol.Symbol, body *Sentence) (*ProductionRule, error) {
	if head.IsNil() {
		return nil, fmt.Errorf("a production's head must be a non-nil symbol")
	}
	for _, e := range body.Elems() {
		if !e.IsMacro() && e.Sym.IsNil() {
			return nil, fmt.Errorf("a production body element must be a non-nil symbol; head: %v", head)
		}
	}
	return &ProductionRule{
		Head: head,
		Body: body,
	}, nil
}

// Num is the rule's discovery order (NumNil until it has been appended
// to a ProductionSet).
func (p *ProductionRule) Num() Num {
	return p.num
}

// IsEpsilon reports whether this rule's body is the single-element ε
// production.
func (p *ProductionRule) IsEpsilon() bool {
	elems := p.Body.Elems()
	return len(elems) == 1 && !elems[0].IsMacro() && elems[0].Sym.IsEpsilon()
}

// Equal compares head and body structurally, ignoring id/num.
func (p *ProductionRule) Equal(o *ProductionRule) bool {
	return p.Head == o.Head && p.Body.Equal(o.Body)
}

// productionSet holds a grammar's rules both by discovery order and
// indexed by head.
type productionSet struct {
	ordered   []*ProductionRule
	head2rule map[symbol.Symbol][]*ProductionRule
	num       Num
}

func newProductionSet() *productionSet {
	return &productionSet{
		head2rule: map[symbol.Symbol][]*ProductionRule{},
		num:       numMin,
	}
}

// append registers p, assigning it the next discovery-order Num. Two
// declarations with structurally-identical head+body (e.g. the pipe
// alternatives of `S : a | a ;`) are each given their own Num and
// appear as distinct rules, so each declared alternative reduces by
// its own production and a duplicate declaration surfaces as a
// reduce/reduce conflict instead of being silently merged.
func (ps *productionSet) append(p *ProductionRule) bool {
	if p.Head.IsStart() {
		p.num = NumStart
	} else {
		p.num = ps.num
		ps.num++
	}
	ps.ordered = append(ps.ordered, p)
	ps.head2rule[p.Head] = append(ps.head2rule[p.Head], p)
	return true
}

func (ps *productionSet) byHead(head symbol.Symbol) []*ProductionRule {
	return ps.head2rule[head]
}
