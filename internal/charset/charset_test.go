package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_MergesOverlappingAndAdjacentRanges(t *testing.T) {
	cs := New(Range{From: 'a', To: 'c'}, Range{From: 'b', To: 'e'}, Range{From: 'x', To: 'z'}, Range{From: 'f', To: 'f'})
	assert.Equal(t, []Range{{From: 'a', To: 'f'}, {From: 'x', To: 'z'}}, cs.Ranges())
}

func TestCharset_Contains(t *testing.T) {
	cs := New(Range{From: '0', To: '9'}, Range{From: 'a', To: 'f'})
	assert.True(t, cs.Contains('5'))
	assert.True(t, cs.Contains('a'))
	assert.False(t, cs.Contains('g'))
	assert.False(t, cs.Contains('/'))
}

func TestCharset_Equal(t *testing.T) {
	a := New(Range{From: 'a', To: 'z'})
	b := New(Range{From: 'a', To: 'm'}, Range{From: 'n', To: 'z'})
	c := New(Range{From: 'a', To: 'y'})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestUnion(t *testing.T) {
	a := New(Range{From: '0', To: '9'})
	b := New(Range{From: 'a', To: 'f'})
	u := Union(a, b)
	assert.True(t, u.Contains('5'))
	assert.True(t, u.Contains('c'))
	assert.False(t, u.Contains('g'))
}

func TestPreset(t *testing.T) {
	ascii, ok := Preset(PresetASCII)
	assert.True(t, ok)
	assert.True(t, ascii.Contains('A'))
	assert.False(t, ascii.Contains(200))

	ext, ok := Preset(PresetExtendedASCII)
	assert.True(t, ok)
	assert.True(t, ext.Contains(200))
	assert.False(t, ext.Contains(300))

	utf8, ok := Preset(PresetUTF8)
	assert.True(t, ok)
	assert.True(t, utf8.Contains(0x4e2d)) // 中
	assert.False(t, utf8.Contains(0x10000))

	_, ok = Preset("nonsense")
	assert.False(t, ok)
}

func TestCharset_Runes(t *testing.T) {
	cs := New(Range{From: 'a', To: 'c'})
	assert.Equal(t, []rune{'a', 'b', 'c'}, cs.Runes())
}
