package lexparser

import (
	"fmt"

	"github.com/motoki317/gdef/internal/charset"
	"github.com/motoki317/gdef/internal/regexast"
)

// Parse parses pattern (a lexeme's regex annotation, e.g. "[0-9]+")
// into a regexast.Node tagged with tag. Every node in the returned
// tree carries tag, per regexast's tag-propagation-by-construction
// contract.
//
// Every parse function returns its error explicitly; there is no
// panic/recover control flow.
func Parse(pattern string, tag *regexast.Tag) (*regexast.Node, error) {
	p := &parser{lex: newLexer(pattern), tag: tag}
	if err := p.advance(); err != nil {
		return nil, err
	}
	root, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if root == nil {
		if p.tok.kind == tokenGroupClose {
			return nil, p.err(synErrGroupNoInitiator, "")
		}
		return nil, p.err(synErrNullPattern, "")
	}
	if p.tok.kind == tokenGroupClose {
		return nil, p.err(synErrGroupNoInitiator, "")
	}
	if p.tok.kind != tokenEOF {
		return nil, p.err(synErrUnexpectedToken, fmt.Sprintf("expected: eof, actual: %v", p.tok.kind))
	}
	return root, nil
}

type parser struct {
	lex     *lexer
	tok     *token
	lastTok *token
	tag     *regexast.Tag
}

func (p *parser) err(cause error, detail string) error {
	return &Error{Cause: cause, Detail: detail}
}

// advance reads the next token into p.tok, translating the lexer's
// ParseErr sentinel into a proper *Error.
func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		if err == ParseErr {
			detail, cause := p.lex.error()
			return p.err(cause, detail)
		}
		return err
	}
	p.tok = tok
	return nil
}

// consume reports whether the current token has kind, advancing past
// it if so.
func (p *parser) consume(kind tokenKind) (bool, error) {
	if p.tok.kind != kind {
		return false, nil
	}
	last := p.tok
	if err := p.advance(); err != nil {
		return false, err
	}
	p.lastTok = last
	return true, nil
}

// peek reports whether the current lookahead token has kind, without
// consuming it.
func (p *parser) peek(kind tokenKind) bool {
	return p.tok.kind == kind
}

func (p *parser) parseAlt() (*regexast.Node, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	if left == nil {
		if p.peek(tokenAlt) {
			return nil, p.err(synErrAltLackOfOperand, "")
		}
		return nil, nil
	}
	for {
		ok, err := p.consume(tokenAlt)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, p.err(synErrAltLackOfOperand, "")
		}
		left = regexast.NewUnion(left, right, p.tag)
	}
	return left, nil
}

func (p *parser) parseConcat() (*regexast.Node, error) {
	left, err := p.parseRepeat()
	if err != nil || left == nil {
		return left, err
	}
	for {
		right, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		if right == nil {
			break
		}
		left = regexast.NewConcat(left, right, p.tag)
	}
	return left, nil
}

func (p *parser) parseRepeat() (*regexast.Node, error) {
	group, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	if group == nil {
		if p.peek(tokenStar) {
			return nil, p.err(synErrRepNoTarget, "* needs an operand")
		}
		if p.peek(tokenPlus) {
			return nil, p.err(synErrRepNoTarget, "+ needs an operand")
		}
		if p.peek(tokenOption) {
			return nil, p.err(synErrRepNoTarget, "? needs an operand")
		}
		return nil, nil
	}
	if ok, err := p.consume(tokenStar); err != nil {
		return nil, err
	} else if ok {
		return regexast.NewStar(group, p.tag), nil
	}
	if ok, err := p.consume(tokenPlus); err != nil {
		return nil, err
	} else if ok {
		// a+ == a . a*
		return regexast.NewConcat(group, regexast.NewStar(group, p.tag), p.tag), nil
	}
	if ok, err := p.consume(tokenOption); err != nil {
		return nil, err
	} else if ok {
		// a? == a | epsilon
		return regexast.NewUnion(group, regexast.NewEpsilon(p.tag), p.tag), nil
	}
	return group, nil
}

func (p *parser) parseGroup() (*regexast.Node, error) {
	if ok, err := p.consume(tokenGroupOpen); err != nil {
		return nil, err
	} else if ok {
		alt, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if alt == nil {
			if p.peek(tokenEOF) {
				return nil, p.err(synErrGroupUnclosed, "")
			}
			return nil, p.err(synErrGroupNoElem, "")
		}
		if p.peek(tokenEOF) {
			return nil, p.err(synErrGroupUnclosed, "")
		}
		if ok, err := p.consume(tokenGroupClose); err != nil {
			return nil, err
		} else if !ok {
			return nil, p.err(synErrGroupInvalidForm, "")
		}
		return alt, nil
	}
	return p.parseSingleChar()
}

func (p *parser) parseSingleChar() (*regexast.Node, error) {
	if ok, err := p.consume(tokenAnyChar); err != nil {
		return nil, err
	} else if ok {
		return regexast.NewAnything(charset.New(charset.Range{From: 0, To: 0x10FFFF}), p.tag), nil
	}
	if ok, err := p.consume(tokenClassOpen); err != nil {
		return nil, err
	} else if ok {
		return p.parseClass(false)
	}
	if ok, err := p.consume(tokenNegClassOpen); err != nil {
		return nil, err
	} else if ok {
		return p.parseClass(true)
	}
	r, ok, err := p.parseChar()
	if err != nil {
		return nil, err
	}
	if !ok {
		if p.peek(tokenClassClose) {
			return nil, p.err(synErrClassInvalidForm, "")
		}
		return nil, nil
	}
	return regexast.NewLiteral(r, p.tag), nil
}

func (p *parser) parseClass(negated bool) (*regexast.Node, error) {
	var ranges []charset.Range
	var children []*regexast.Node

	first, ok, err := p.parseClassElem()
	if err != nil {
		return nil, err
	}
	if !ok {
		if p.peek(tokenEOF) {
			return nil, p.err(synErrClassUnclosed, "")
		}
		return nil, p.err(synErrClassNoElem, "")
	}
	ranges = append(ranges, charset.Range{From: first.from, To: first.to})
	children = append(children, first.node)

	for {
		elem, ok, err := p.parseClassElem()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		ranges = append(ranges, charset.Range{From: elem.from, To: elem.to})
		children = append(children, elem.node)
	}

	if p.peek(tokenEOF) {
		return nil, p.err(synErrClassUnclosed, "")
	}
	if ok, err := p.consume(tokenClassClose); err != nil {
		return nil, err
	} else if !ok {
		return nil, p.err(synErrUnexpectedToken, fmt.Sprintf("expected: ], actual: %v", p.tok.kind))
	}

	return regexast.NewClass(charset.New(ranges...), negated, children, p.tag), nil
}

type classElem struct {
	from, to rune
	node     *regexast.Node
}

// parseClassElem parses one bracket-expression element: a single atom,
// or an atom-range-atom triple.
func (p *parser) parseClassElem() (*classElem, bool, error) {
	from, ok, err := p.parseChar()
	if err != nil || !ok {
		return nil, false, err
	}
	to := from
	node := regexast.NewLiteral(from, p.tag)

	if ok, err := p.consume(tokenRange); err != nil {
		return nil, false, err
	} else if ok {
		right, ok, err := p.parseChar()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, p.err(synErrRangeInvalidForm, "")
		}
		if from > right {
			return nil, false, p.err(synErrRangeInvalidOrder, fmt.Sprintf("%X..%X", from, right))
		}
		to = right
		node = regexast.NewAnything(charset.New(charset.Range{From: from, To: to}), p.tag)
	}

	return &classElem{from: from, to: to, node: node}, true, nil
}

// parseChar consumes a single concrete character: a literal tokenChar
// or an already-decoded tokenCodePoint.
func (p *parser) parseChar() (rune, bool, error) {
	if ok, err := p.consume(tokenChar); err != nil {
		return 0, false, err
	} else if ok {
		return p.lastTok.char, true, nil
	}
	if ok, err := p.consume(tokenCodePoint); err != nil {
		return 0, false, err
	} else if ok {
		return p.lastTok.char, true, nil
	}
	return 0, false, nil
}
