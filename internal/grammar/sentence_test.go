package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/motoki317/gdef/internal/symbol"
)

func pipe() Elem {
	return Elem{Macro: &Macro{Kind: MacroPipe}}
}

func TestNewSentence_NoPipeIsUnchanged(t *testing.T) {
	a, b := symbol.Symbol(0x4002), symbol.Symbol(0x4003)
	s := NewSentence([]Elem{Sym(a), Sym(b)})
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.ContainsMacro())
}

func TestNewSentence_FlattensTopLevelPipeIntoAlternative(t *testing.T) {
	a, b, c := symbol.Symbol(0x4002), symbol.Symbol(0x4003), symbol.Symbol(0x4004)
	s := NewSentence([]Elem{Sym(a), Sym(b), pipe(), Sym(c)})
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.ContainsMacro())

	m := s.Elems()[0].Macro
	assert.Equal(t, MacroAlternative, m.Kind)
	assert.Len(t, m.Alternatives, 2)
	assert.Equal(t, []Elem{Sym(a), Sym(b)}, m.Alternatives[0])
	assert.Equal(t, []Elem{Sym(c)}, m.Alternatives[1])
}

func TestNewSentence_MultiplePipesProduceMultipleAlternatives(t *testing.T) {
	a, b, c := symbol.Symbol(0x4002), symbol.Symbol(0x4003), symbol.Symbol(0x4004)
	s := NewSentence([]Elem{Sym(a), pipe(), Sym(b), pipe(), Sym(c)})
	m := s.Elems()[0].Macro
	assert.Len(t, m.Alternatives, 3)
}

func TestSentence_Equal(t *testing.T) {
	a, b := symbol.Symbol(0x4002), symbol.Symbol(0x4003)
	s1 := NewSentence([]Elem{Sym(a), Sym(b)})
	s2 := NewSentence([]Elem{Sym(a), Sym(b)})
	s3 := NewSentence([]Elem{Sym(b), Sym(a)})
	assert.True(t, s1.Equal(s2))
	assert.False(t, s1.Equal(s3))
}
