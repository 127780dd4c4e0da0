package gdef

// Translator walks a parsed GDef meta-CST (internal/metagrammar's
// bootstrap grammar over driver/parser.Node) into this package's own
// domain objects: a *grammar.Grammar (possibly still carrying macros)
// and the []lexdfa.Lexeme list its lexer settings declared. The
// meta-CST is a generic, untyped tree shape; this file is where it
// becomes a grammar.

import (
	"fmt"
	"strings"

	"github.com/motoki317/gdef/driver/parser"
	gdeferr "github.com/motoki317/gdef/error"
	"github.com/motoki317/gdef/internal/charset"
	"github.com/motoki317/gdef/internal/grammar"
	"github.com/motoki317/gdef/internal/lexdfa"
	"github.com/motoki317/gdef/internal/metagrammar"
	"github.com/motoki317/gdef/internal/symbol"
)

// nameIgnoredChars is the synthetic lexeme name an ignored-chars
// declaration expands to. The angle brackets keep it out of reach of
// any user-declared name (GDef identifiers cannot contain '<' or '>',
// mirroring internal/symbol's own NameEOI/NameEpsilon reservation).
const nameIgnoredChars = "<ignored-chars>"

type translator struct {
	symTab      *symbol.Table
	builder     *grammar.GrammarBuilder
	fragments   map[string]string
	literalSeen map[string]bool
	lexemes     []lexdfa.Lexeme
	order       int
	start       symbol.Symbol
	errs        gdeferr.BuildErrors
}

// Translate turns a parsed "Grammar" meta-CST into a *grammar.Grammar
// (still possibly containing Macro elements; callers should run
// grammar.ExpandMacros before building an LR(1) table) and the lexeme
// list its lexer settings declared.
func Translate(root *parser.Node) (*grammar.Grammar, []lexdfa.Lexeme, gdeferr.BuildErrors) {
	t := &translator{
		symTab:      symbol.NewTable(),
		fragments:   map[string]string{},
		literalSeen: map[string]bool{},
	}
	t.builder = grammar.NewGrammarBuilder(t.symTab)

	if root == nil || root.Name != metagrammar.NTGrammar || len(root.Children) != 2 {
		t.fail(fmt.Errorf("malformed grammar parse tree"))
		return nil, nil, t.errs
	}

	t.translateLexerSettings(root.Children[0])
	t.translateProductions(root.Children[1])
	if t.errs.HasErrors() {
		return nil, nil, t.errs
	}
	if t.start.IsNil() {
		t.fail(fmt.Errorf("a grammar must declare at least one production"))
		return nil, nil, t.errs
	}

	g, errs := t.builder.Build(t.start)
	if errs.HasErrors() {
		return nil, nil, errs
	}
	return g, t.lexemes, nil
}

func (t *translator) fail(err error) {
	t.errs = append(t.errs, &gdeferr.GrammarBuildError{Cause: err})
}

func (t *translator) nextOrder() int {
	o := t.order
	t.order++
	return o
}

// --- lexer settings -------------------------------------------------

func (t *translator) translateLexerSettings(node *parser.Node) {
	if len(node.Children) == 0 {
		return
	}
	for _, setting := range collectList(node.Children[0], metagrammar.NTLexerSettingList) {
		if len(setting.Children) != 1 {
			t.fail(fmt.Errorf("malformed lexer setting"))
			continue
		}
		decl := setting.Children[0]
		switch decl.Name {
		case metagrammar.NTLexemeDecl:
			t.translateLexemeDecl(decl)
		case metagrammar.NTFragmentDecl:
			t.translateFragmentDecl(decl)
		case metagrammar.NTIgnoredCharsDecl:
			t.translateIgnoredCharsDecl(decl)
		default:
			t.fail(fmt.Errorf("unknown lexer setting %q", decl.Name))
		}
	}
}

func (t *translator) translateLexemeDecl(node *parser.Node) {
	if len(node.Children) != 6 {
		t.fail(fmt.Errorf("malformed lexeme declaration"))
		return
	}
	annotationsOpt, id, str := node.Children[0], node.Children[2], node.Children[4]

	name := id.Lexeme
	raw, err := unescapeString(str.Lexeme)
	if err != nil {
		t.fail(fmt.Errorf("lexeme %s: %w", name, err))
		return
	}
	pattern, err := substituteFragments(raw, t.fragments)
	if err != nil {
		t.fail(fmt.Errorf("lexeme %s: %w", name, err))
		return
	}

	ignored := false
	for _, ann := range t.collectAnnotations(annotationsOpt) {
		switch ann.kind {
		case annotationCharset:
			rewritten, ok := rewriteDots(pattern, ann.value)
			if !ok {
				t.fail(fmt.Errorf("lexeme %s: unknown charset %q", name, ann.value))
				continue
			}
			pattern = rewritten
		case annotationIgnore:
			ignored = ann.value == "true"
		}
	}

	if _, err := t.symTab.Writer().RegisterTerminal(name); err != nil {
		t.fail(err)
		return
	}
	t.lexemes = append(t.lexemes, lexdfa.Lexeme{Name: name, Pattern: pattern, IsIgnored: ignored, Order: t.nextOrder()})
}

type annotationKind int

const (
	annotationCharset annotationKind = iota
	annotationIgnore
)

type annotation struct {
	kind  annotationKind
	value string
}

func (t *translator) collectAnnotations(annotationsOpt *parser.Node) []annotation {
	if len(annotationsOpt.Children) == 0 {
		return nil
	}
	var out []annotation
	for _, a := range collectList(annotationsOpt.Children[1], metagrammar.NTAnnotationList) {
		if len(a.Children) != 3 {
			t.fail(fmt.Errorf("malformed annotation"))
			continue
		}
		switch a.Children[0].Name {
		case metagrammar.TCharset:
			value, err := unescapeString(a.Children[2].Lexeme)
			if err != nil {
				t.fail(err)
				continue
			}
			out = append(out, annotation{kind: annotationCharset, value: value})
		case metagrammar.TIgnore:
			out = append(out, annotation{kind: annotationIgnore, value: a.Children[2].Name})
		default:
			t.fail(fmt.Errorf("unknown annotation %q", a.Children[0].Name))
		}
	}
	return out
}

func (t *translator) translateFragmentDecl(node *parser.Node) {
	if len(node.Children) != 5 {
		t.fail(fmt.Errorf("malformed fragment declaration"))
		return
	}
	name := node.Children[1].Lexeme
	raw, err := unescapeString(node.Children[3].Lexeme)
	if err != nil {
		t.fail(fmt.Errorf("fragment %s: %w", name, err))
		return
	}
	resolved, err := substituteFragments(raw, t.fragments)
	if err != nil {
		t.fail(fmt.Errorf("fragment %s: %w", name, err))
		return
	}
	t.fragments[name] = resolved
}

func (t *translator) translateIgnoredCharsDecl(node *parser.Node) {
	if len(node.Children) != 4 {
		t.fail(fmt.Errorf("malformed ignored-chars declaration"))
		return
	}
	raw, err := unescapeString(node.Children[2].Lexeme)
	if err != nil {
		t.fail(fmt.Errorf("ignored-chars: %w", err))
		return
	}
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range raw {
		b.WriteString(escapeForClass(r))
	}
	b.WriteString("]+")
	t.lexemes = append(t.lexemes, lexdfa.Lexeme{Name: nameIgnoredChars, Pattern: b.String(), IsIgnored: true, Order: t.nextOrder()})
}

// --- productions ------------------------------------------------------

func (t *translator) translateProductions(node *parser.Node) {
	for _, prod := range collectList(node, metagrammar.NTProductionList) {
		t.translateProduction(prod)
	}
}

func (t *translator) translateProduction(node *parser.Node) {
	if len(node.Children) != 5 {
		t.fail(fmt.Errorf("malformed production"))
		return
	}
	id, symbolList := node.Children[0], node.Children[2]

	head, err := t.symTab.Writer().RegisterNonTerminal(id.Lexeme)
	if err != nil {
		t.fail(err)
		return
	}
	if t.start.IsNil() {
		t.start = head
	}

	var elems []grammar.Elem
	for _, sym := range collectList(symbolList, metagrammar.NTSymbolList) {
		e, err := t.translateSymbol(sym)
		if err != nil {
			t.fail(err)
			continue
		}
		elems = append(elems, e)
	}
	t.builder.AddProduction(head, grammar.NewSentence(elems))
}

func (t *translator) translateSymbol(node *parser.Node) (grammar.Elem, error) {
	switch len(node.Children) {
	case 1:
		child := node.Children[0]
		switch {
		case child.Kind == parser.KindLeaf && child.Name == metagrammar.TString:
			return t.translateLiteral(child)
		case child.Kind == parser.KindLeaf && child.Name == metagrammar.TID:
			sym, err := t.symTab.Writer().RegisterNonTerminal(child.Lexeme)
			if err != nil {
				return grammar.Elem{}, err
			}
			return grammar.Sym(sym), nil
		case child.Kind == parser.KindLeaf && child.Name == metagrammar.TPipe:
			return grammar.Elem{Macro: &grammar.Macro{Kind: grammar.MacroPipe}}, nil
		case child.Name == metagrammar.NTMacro:
			return t.translateMacro(child)
		}
	case 2:
		// `$ID`: a lexeme reference.
		id := node.Children[1]
		sym, err := t.symTab.Writer().RegisterTerminal(id.Lexeme)
		if err != nil {
			return grammar.Elem{}, err
		}
		return grammar.Sym(sym), nil
	}
	return grammar.Elem{}, fmt.Errorf("malformed symbol")
}

func (t *translator) translateLiteral(strLeaf *parser.Node) (grammar.Elem, error) {
	text, err := unescapeString(strLeaf.Lexeme)
	if err != nil {
		return grammar.Elem{}, err
	}
	sym, err := t.symTab.Writer().RegisterTerminal(text)
	if err != nil {
		return grammar.Elem{}, err
	}
	if !t.literalSeen[text] {
		t.literalSeen[text] = true
		t.lexemes = append(t.lexemes, lexdfa.Lexeme{Name: text, Pattern: escapeLiteral(text), Order: t.nextOrder()})
	}
	return grammar.Sym(sym), nil
}

func (t *translator) translateMacro(node *parser.Node) (grammar.Elem, error) {
	switch len(node.Children) {
	case 3:
		// ( SymbolList ), possibly itself containing a top-level `|`:
		// route it through NewSentence so any such Pipe flattens into a
		// single Alternative element before it becomes this Grouping's
		// operand, matching what ExpandMacros' macroExpander expects to
		// find there (internal/grammar/macro.go only special-cases
		// MacroAlternative, never a raw Pipe element).
		var elems []grammar.Elem
		for _, sym := range collectList(node.Children[1], metagrammar.NTSymbolList) {
			e, err := t.translateSymbol(sym)
			if err != nil {
				return grammar.Elem{}, err
			}
			elems = append(elems, e)
		}
		operand := grammar.NewSentence(elems).Elems()
		return grammar.Elem{Macro: &grammar.Macro{Kind: grammar.MacroGrouping, Operand: operand}}, nil
	case 2:
		operand, err := t.translateSymbol(node.Children[0])
		if err != nil {
			return grammar.Elem{}, err
		}
		var kind grammar.MacroKind
		switch node.Children[1].Name {
		case metagrammar.TQuestion:
			kind = grammar.MacroNullable
		case metagrammar.TStar:
			kind = grammar.MacroZeroOrMore
		case metagrammar.TPlus:
			kind = grammar.MacroOneOrMore
		default:
			return grammar.Elem{}, fmt.Errorf("unknown quantifier %q", node.Children[1].Name)
		}
		return grammar.Elem{Macro: &grammar.Macro{Kind: kind, Operand: []grammar.Elem{operand}}}, nil
	}
	return grammar.Elem{}, fmt.Errorf("malformed macro")
}

// --- CST list flattening ----------------------------------------------

// collectList flattens a left-recursive `List -> Item | List Item`
// chain into the left-to-right sequence of Item nodes.
func collectList(node *parser.Node, listName string) []*parser.Node {
	if node == nil || node.Name != listName {
		return nil
	}
	if len(node.Children) == 1 {
		return []*parser.Node{node.Children[0]}
	}
	if len(node.Children) == 2 {
		return append(collectList(node.Children[0], listName), node.Children[1])
	}
	return nil
}

// --- string/pattern helpers --------------------------------------------

// unescapeString strips the surrounding quotes from a STRING token's
// raw lexeme text and resolves its two escapes, `\n` and `\"` (plus
// `\\`, needed to write a literal backslash before a fragment
// reference).
func unescapeString(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", fmt.Errorf("malformed string literal %q", raw)
	}
	body := raw[1 : len(raw)-1]
	var b strings.Builder
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		i++
		if i >= len(runes) {
			return "", fmt.Errorf("malformed string literal %q: trailing backslash", raw)
		}
		switch runes[i] {
		case 'n':
			b.WriteRune('\n')
		case '"':
			b.WriteRune('"')
		case '\\':
			b.WriteRune('\\')
		default:
			return "", fmt.Errorf("malformed string literal %q: unknown escape \\%c", raw, runes[i])
		}
	}
	return b.String(), nil
}

// substituteFragments replaces every `\f{name}` occurrence in pattern
// with the (already-resolved) pattern text fragments[name] maps to,
// wrapped in a group so it composes safely with surrounding
// concatenation/repetition. internal/lexparser has no native fragment
// syntax, so this runs as a textual pre-pass before a pattern ever
// reaches lexparser.Parse.
func substituteFragments(pattern string, fragments map[string]string) (string, error) {
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' || i+1 >= len(runes) || runes[i+1] != 'f' || i+2 >= len(runes) || runes[i+2] != '{' {
			b.WriteRune(runes[i])
			continue
		}
		end := -1
		for j := i + 3; j < len(runes); j++ {
			if runes[j] == '}' {
				end = j
				break
			}
		}
		if end < 0 {
			return "", fmt.Errorf("unterminated fragment reference in pattern %q", pattern)
		}
		name := string(runes[i+3 : end])
		resolved, ok := fragments[name]
		if !ok {
			return "", fmt.Errorf("undefined fragment %q", name)
		}
		b.WriteString("(")
		b.WriteString(resolved)
		b.WriteString(")")
		i = end
	}
	return b.String(), nil
}

// literalSpecials are the default-mode characters internal/lexparser
// treats as meta-characters; a literal occurrence of any of them must
// be backslash-escaped to appear as itself in a pattern string.
const literalSpecials = `\.*+?|()[]`

func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(literalSpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// bracketSpecials are the characters internal/lexparser treats
// specially inside a `[...]` class.
const bracketSpecials = `\^-]`

func escapeForClass(r rune) string {
	if strings.ContainsRune(bracketSpecials, r) {
		return "\\" + string(r)
	}
	return string(r)
}

// rewriteDots replaces every unescaped, unbracketed `.` in pattern
// with an explicit class spanning the named charset preset, honoring
// GDef's `charset` lexeme annotation without internal/
// lexparser needing to know about named presets at all. The second
// return value is false when presetName names no known preset.
func rewriteDots(pattern, presetName string) (string, bool) {
	class, ok := charsetClass(presetName)
	if !ok {
		return "", false
	}
	var b strings.Builder
	runes := []rune(pattern)
	inBracket := false
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) {
			b.WriteRune(r)
			b.WriteRune(runes[i+1])
			i++
			continue
		}
		switch {
		case r == '[':
			inBracket = true
			b.WriteRune(r)
		case r == ']':
			inBracket = false
			b.WriteRune(r)
		case r == '.' && !inBracket:
			b.WriteString(class)
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), true
}

// charsetClass renders one of GDef's three named charset presets as a
// lexparser bracket-range pattern fragment, reusing internal/charset's
// own preset range data rather than re-deriving the bounds here.
func charsetClass(name string) (string, bool) {
	cs, ok := charset.Preset(name)
	if !ok {
		return "", false
	}
	var b strings.Builder
	b.WriteByte('[')
	for _, rg := range cs.Ranges() {
		b.WriteString(codePointClass(rg.From, rg.To))
	}
	b.WriteByte(']')
	return b.String(), true
}

func codePointClass(from, to rune) string {
	if from == to {
		return fmt.Sprintf(`\u{%s}`, codePointHex(from))
	}
	return fmt.Sprintf(`\u{%s}-\u{%s}`, codePointHex(from), codePointHex(to))
}

// codePointHex renders r the way internal/lexparser's \u{...} escape
// demands: exactly 4 hex digits, or 6 for code points beyond the BMP.
func codePointHex(r rune) string {
	if r > 0xFFFF {
		return fmt.Sprintf("%06x", r)
	}
	return fmt.Sprintf("%04x", r)
}
