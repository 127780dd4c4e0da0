package gdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnescapeString(t *testing.T) {
	got, err := unescapeString(`"a\nb\"c\\d"`)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\"c\\d", got)
}

func TestUnescapeString_UnknownEscape(t *testing.T) {
	_, err := unescapeString(`"\q"`)
	assert.Error(t, err)
}

func TestSubstituteFragments(t *testing.T) {
	fragments := map[string]string{"digit": "[0-9]"}
	got, err := substituteFragments(`\f{digit}+`, fragments)
	require.NoError(t, err)
	assert.Equal(t, "([0-9])+", got)
}

func TestSubstituteFragments_Undefined(t *testing.T) {
	_, err := substituteFragments(`\f{missing}`, map[string]string{})
	assert.Error(t, err)
}

func TestEscapeLiteral(t *testing.T) {
	assert.Equal(t, `\(\)`, escapeLiteral("()"))
	assert.Equal(t, "comma", escapeLiteral("comma"))
}

func TestRewriteDots_RestrictsToASCII(t *testing.T) {
	rewritten, ok := rewriteDots(`a.b`, "ascii")
	require.True(t, ok)
	assert.Contains(t, rewritten, `\u{0000}-\u{007f}`)
	assert.NotContains(t, rewritten, ".b")
}

func TestRewriteDots_UnknownPreset(t *testing.T) {
	_, ok := rewriteDots(`a.b`, "latin-15")
	assert.False(t, ok)
}

// TestBuild_UnknownCharsetIsReported confirms an unknown charset name
// raises a build error through the full pipeline instead of the
// annotation being silently dropped.
func TestBuild_UnknownCharsetIsReported(t *testing.T) {
	src := `
[charset: "latin-15"] lexeme anychar = ".";

start : $anychar ;
`
	_, errs := Build(src)
	require.NotEmpty(t, errs)
}

// TestBuild_DuplicateLexemeNameIsReported confirms build errors
// aggregate through Translate/lexdfa.Build rather than stopping at the
// first problem.
func TestBuild_DuplicateLexemeNameIsReported(t *testing.T) {
	src := `
lexeme int = "[0-9]+";
lexeme int = "[0-9]+";

start : $int ;
`
	_, errs := Build(src)
	require.NotEmpty(t, errs)
}

// TestBuild_UndefinedNonTerminalIsReported confirms the grammar's
// "non-terminal is never defined" validation (internal/grammar) fires
// through the full bootstrap pipeline.
func TestBuild_UndefinedNonTerminalIsReported(t *testing.T) {
	src := `
lexeme int = "[0-9]+";

start : $int Missing ;
`
	_, errs := Build(src)
	require.NotEmpty(t, errs)
}
