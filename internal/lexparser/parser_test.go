package lexparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoki317/gdef/internal/regexast"
)

func TestParse_Literal(t *testing.T) {
	n, err := Parse("a", nil)
	require.NoError(t, err)
	assert.Equal(t, regexast.KindLiteral, n.Kind)
	assert.Equal(t, 'a', n.Char)
}

func TestParse_Concat(t *testing.T) {
	n, err := Parse("ab", nil)
	require.NoError(t, err)
	assert.Equal(t, regexast.KindConcat, n.Kind)
}

func TestParse_Alternation(t *testing.T) {
	n, err := Parse("a|b", nil)
	require.NoError(t, err)
	assert.Equal(t, regexast.KindUnion, n.Kind)
}

func TestParse_Star(t *testing.T) {
	n, err := Parse("a*", nil)
	require.NoError(t, err)
	assert.Equal(t, regexast.KindStar, n.Kind)
	assert.True(t, n.ContainsEpsilon())
}

func TestParse_Plus_DesugarsToConcatOfStar(t *testing.T) {
	n, err := Parse("a+", nil)
	require.NoError(t, err)
	assert.Equal(t, regexast.KindConcat, n.Kind)
	assert.False(t, n.ContainsEpsilon())
	assert.Equal(t, regexast.KindStar, n.Right.Kind)
}

func TestParse_Option_DesugarsToUnionWithEpsilon(t *testing.T) {
	n, err := Parse("a?", nil)
	require.NoError(t, err)
	assert.Equal(t, regexast.KindUnion, n.Kind)
	assert.True(t, n.ContainsEpsilon())
}

func TestParse_Grouping(t *testing.T) {
	n, err := Parse("(ab)+", nil)
	require.NoError(t, err)
	assert.Equal(t, regexast.KindConcat, n.Kind)
}

func TestParse_BracketExpression_Range(t *testing.T) {
	n, err := Parse("[0-9]", nil)
	require.NoError(t, err)
	assert.Equal(t, regexast.KindClass, n.Kind)
	assert.False(t, n.Negated)
	assert.True(t, n.Set.Contains('5'))
	assert.False(t, n.Set.Contains('a'))
}

func TestParse_BracketExpression_Negated(t *testing.T) {
	n, err := Parse("[^0-9]", nil)
	require.NoError(t, err)
	assert.Equal(t, regexast.KindClass, n.Kind)
	assert.True(t, n.Negated)
}

func TestParse_BracketExpression_MixedCharsAndRanges(t *testing.T) {
	n, err := Parse("[a-zA-Z_]", nil)
	require.NoError(t, err)
	assert.True(t, n.Set.Contains('m'))
	assert.True(t, n.Set.Contains('M'))
	assert.True(t, n.Set.Contains('_'))
	assert.False(t, n.Set.Contains('0'))
}

func TestParse_AnyChar(t *testing.T) {
	n, err := Parse(".", nil)
	require.NoError(t, err)
	assert.Equal(t, regexast.KindAnything, n.Kind)
}

func TestParse_CodePointEscape(t *testing.T) {
	n, err := Parse(`\u{3042}`, nil) // あ
	require.NoError(t, err)
	assert.Equal(t, regexast.KindLiteral, n.Kind)
	assert.Equal(t, rune(0x3042), n.Char)
}

func TestParse_EscapedMetacharacter(t *testing.T) {
	n, err := Parse(`\*`, nil)
	require.NoError(t, err)
	assert.Equal(t, regexast.KindLiteral, n.Kind)
	assert.Equal(t, '*', n.Char)
}

func TestParse_TagPropagatesToEveryNode(t *testing.T) {
	tag := &regexast.Tag{Name: "NUM"}
	n, err := Parse("[0-9]+", tag)
	require.NoError(t, err)
	assert.Equal(t, tag, n.Tag)
	assert.Equal(t, tag, n.Left.Tag)
	assert.Equal(t, tag, n.Right.Tag)
}

func TestParse_Errors(t *testing.T) {
	cases := []string{
		"",
		"*",
		"a|",
		"(a",
		")",
		"[",
		"[9-0]",
		`\u{zzzz}`,
		`\u{12}`,
		`\q`,
	}
	for _, c := range cases {
		_, err := Parse(c, nil)
		assert.Errorf(t, err, "pattern %q should have failed to parse", c)
	}
}
