// Package scenario holds end-to-end tests against the public
// gdef.Build API, exercising the full pipeline (bootstrap parse ->
// translate -> lexdfa -> macro expansion -> lr1 -> driver/lexer ->
// driver/parser) the way a real caller would, rather than any one
// component in isolation.
package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gdef "github.com/motoki317/gdef"
	"github.com/motoki317/gdef/driver/parser"
	gdeferr "github.com/motoki317/gdef/error"
)

// A minimal comma-separated integer list grammar.
func TestIntListParse(t *testing.T) {
	src := `
ignored-chars = " ";
lexeme int = "[0-9]+";

start : $int ("," $int)* ;
`
	c, errs := gdef.Build(src)
	require.Empty(t, errs)

	root, err := c.Parse("1,2,3")
	require.NoError(t, err)
	assert.Equal(t, "start", root.Name)

	leaves := parser.Leaves(root)
	require.NotEmpty(t, leaves)
	assert.Equal(t, 0, leaves[0].Start)
	assert.Equal(t, 1, leaves[0].End)
	assert.Equal(t, 5, leaves[len(leaves)-1].End)
	assert.Equal(t, 0, root.Start)
	assert.Equal(t, 5, root.End)

	var values []string
	for _, l := range leaves {
		values = append(values, l.Lexeme)
	}
	assert.Equal(t, []string{"1", ",", "2", ",", "3"}, values)
}

// Declaration order (if before id) only breaks a tie between
// equal-length matches; "ifx" is strictly longer as id than as if, so
// longest match must win regardless of which lexeme was declared
// first.
func TestLongestMatchWins(t *testing.T) {
	src := `
lexeme if = "if";
lexeme id = "[a-zA-Z]+";

start : $id ;
`
	c, errs := gdef.Build(src)
	require.Empty(t, errs)

	toks, err := c.Tokenize("ifx")
	require.NoError(t, err)
	require.Len(t, toks, 2) // "ifx" + EOF
	assert.Equal(t, "id", toks[0].Name)
	assert.Equal(t, "ifx", toks[0].Lexeme)
}

// Both lexemes match "if" with equal length, so the first-declared
// lexeme (kw) wins.
func TestFirstDeclaredWinsOnTie(t *testing.T) {
	src := `
lexeme kw = "if";
lexeme id = "if";

start : $kw ;
`
	c, errs := gdef.Build(src)
	require.Empty(t, errs)

	toks, err := c.Tokenize("if")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "kw", toks[0].Name)
}

// Declaring the same alternative twice, `S : a ; S : a ;`, puts two
// reductions on end of input into one table cell in the state reached
// after shifting `a`, so the build must fail with a reduce/reduce
// LRConflictError.
func TestReduceReduceConflictOnBuild(t *testing.T) {
	src := `
lexeme a = "a";

S : $a ;
S : $a ;
`
	_, errs := gdef.Build(src)
	require.NotEmpty(t, errs)

	var found bool
	for _, e := range errs {
		if _, ok := e.(*gdeferr.LRConflictError); ok {
			found = true
		}
	}
	assert.True(t, found, "expected at least one LRConflictError, got: %v", errs)
}

// `S : a ; S : a b ;` is not ambiguous under canonical LR(1): in the
// state after shifting `a`, the shift on `b` and the reduce on end of
// input occupy different table cells. The build must succeed and both
// sentences must parse.
func TestDistinguishableAlternativesBuildCleanly(t *testing.T) {
	src := `
lexeme a = "a";
lexeme b = "b";

S : $a ;
S : $a $b ;
`
	c, errs := gdef.Build(src)
	require.Empty(t, errs)

	_, err := c.Parse("a")
	require.NoError(t, err)
	_, err = c.Parse("ab")
	require.NoError(t, err)
}

// `list : item ("," item)* ;` parses "x,y,z" into a right-recursive
// auxiliary-non-terminal chain terminated by an ε-internal node whose
// span is a zero-length anchor at position 5, the end of the last
// consumed token.
func TestMacroExpansionRoundTrip(t *testing.T) {
	src := `
ignored-chars = " ";
lexeme item = "[a-z]+";

list : $item ("," $item)* ;
`
	c, errs := gdef.Build(src)
	require.Empty(t, errs)

	root, err := c.Parse("x,y,z")
	require.NoError(t, err)
	assert.Equal(t, "list", root.Name)

	leaves := parser.Leaves(root)
	var values []string
	for _, l := range leaves {
		values = append(values, l.Lexeme)
	}
	assert.Equal(t, []string{"x", ",", "y", ",", "z"}, values)

	eps := findEpsilon(root)
	require.NotNil(t, eps, "expected an epsilon-reduction internal node somewhere in the tree")
	assert.Equal(t, 5, eps.Start)
	assert.Equal(t, 5, eps.End)
}

// findEpsilon locates the first Internal node with no children (an
// epsilon reduction).
func findEpsilon(n *parser.Node) *parser.Node {
	if n.Kind == parser.KindInternal && len(n.Children) == 0 {
		return n
	}
	for _, c := range n.Children {
		if found := findEpsilon(c); found != nil {
			return found
		}
	}
	return nil
}

// Source "1,@2" under an int/comma tokenizer fails with
// UnexpectedCharacterError at line 1 column 3 for character '@'.
func TestTokenizerErrorLocation(t *testing.T) {
	src := `
ignored-chars = " ";
lexeme int = "[0-9]+";
lexeme comma = ",";

start : $int List ;
List : $comma $int List | ;
`
	c, errs := gdef.Build(src)
	require.Empty(t, errs)

	_, err := c.Tokenize("1,@2")
	require.Error(t, err)

	uce, ok := err.(*gdeferr.UnexpectedCharacterError)
	require.True(t, ok, "expected *error.UnexpectedCharacterError, got %T: %v", err, err)
	assert.Equal(t, '@', uce.Char)
	assert.Equal(t, 1, uce.Row)
	assert.Equal(t, 3, uce.Col)
}

// Empty input tokenizes to zero (non-EOF) tokens, and the parser
// raises SyntaxError when the grammar does not accept ε at the start.
func TestBoundary_EmptyInputWithNonNullableStart(t *testing.T) {
	src := `
lexeme a = "a";

start : $a ;
`
	c, errs := gdef.Build(src)
	require.Empty(t, errs)

	toks, err := c.Tokenize("")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.True(t, toks[0].EOF)

	_, err = c.Parse("")
	require.Error(t, err)
	_, ok := err.(*gdeferr.SyntaxError)
	assert.True(t, ok, "expected *error.SyntaxError, got %T: %v", err, err)
}

// A lexeme whose pattern matches the empty string is rejected at
// build time.
func TestBoundary_EmptyMatchingLexemeRejectedAtBuildTime(t *testing.T) {
	src := `
lexeme opt = "a*";

start : $opt ;
`
	_, errs := gdef.Build(src)
	require.NotEmpty(t, errs)
}
