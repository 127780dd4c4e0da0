package gdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoki317/gdef/driver/parser"
	gdeferr "github.com/motoki317/gdef/error"
)

// TestBuild_IntListEndToEnd exercises a minimal list grammar through
// real GDef source text: lexer settings, an ignored-chars declaration,
// `$ID` lexeme references, and a `|`/epsilon macro alternative, all
// parsed via the bootstrap meta-grammar (internal/metagrammar) and
// compiled by Build.
func TestBuild_IntListEndToEnd(t *testing.T) {
	src := `
ignored-chars = " ";
lexeme int = "[0-9]+";
lexeme comma = ",";

start : $int List ;
List : $comma $int List | ;
`
	c, errs := Build(src)
	require.Empty(t, errs)
	require.NotNil(t, c)

	root, err := c.Parse("1, 2, 3")
	require.NoError(t, err)
	assert.Equal(t, parser.KindRoot, root.Kind)
	assert.Equal(t, "start", root.Name)

	var lexemes []string
	for _, l := range parser.Leaves(root) {
		lexemes = append(lexemes, l.Lexeme)
	}
	assert.Equal(t, []string{"1", ",", "2", ",", "3"}, lexemes)
}

// TestBuild_EBNFMacros exercises the `?`/`*`/`+`/grouping macro forms
// end to end: `("," $int)*` should accept zero or more repetitions
// without a hand-written recursive rule.
func TestBuild_EBNFMacros(t *testing.T) {
	src := `
ignored-chars = " ";
lexeme int = "[0-9]+";

start : $int ("," $int)* ;
`
	c, errs := Build(src)
	require.Empty(t, errs)

	root, err := c.Parse("1, 2, 3")
	require.NoError(t, err)

	var lexemes []string
	for _, l := range parser.Leaves(root) {
		lexemes = append(lexemes, l.Lexeme)
	}
	assert.Equal(t, []string{"1", ",", "2", ",", "3"}, lexemes)

	root, err = c.Parse("1")
	require.NoError(t, err)
	lexemes = nil
	for _, l := range parser.Leaves(root) {
		lexemes = append(lexemes, l.Lexeme)
	}
	assert.Equal(t, []string{"1"}, lexemes)
}

// TestBuild_FragmentAndCharsetAnnotations exercises fragment
// substitution and the `charset` lexeme annotation. Neither is
// understood natively by internal/lexparser; both are resolved
// textually by translate.go before a pattern ever reaches
// internal/lexdfa.
func TestBuild_FragmentAndCharsetAnnotations(t *testing.T) {
	src := `
ignored-chars = " ";
fragment digit = "[0-9]";
lexeme num = "\\f{digit}+";
[charset: "ascii"] lexeme anychar = ".";

start : $num $anychar ;
`
	c, errs := Build(src)
	require.Empty(t, errs)

	root, err := c.Parse("42 q")
	require.NoError(t, err)

	var lexemes []string
	for _, l := range parser.Leaves(root) {
		lexemes = append(lexemes, l.Lexeme)
	}
	assert.Equal(t, []string{"42", "q"}, lexemes)
}

// TestBuild_SyntaxErrorReportsExpectedTerminals exercises the
// SyntaxError.Expected set a live parse error reports.
func TestBuild_SyntaxErrorReportsExpectedTerminals(t *testing.T) {
	src := `
ignored-chars = " ";
lexeme int = "[0-9]+";
lexeme comma = ",";

start : $int List ;
List : $comma $int List | ;
`
	c, errs := Build(src)
	require.Empty(t, errs)

	_, err := c.Parse("1,")
	require.Error(t, err)

	// After "1," the parser sits right after the comma, where only
	// another int can follow.
	var se *gdeferr.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"int"}, se.Expected)
}
