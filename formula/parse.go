package formula

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrSyntax is wrapped by every *ParseError.
var ErrSyntax = errors.New("formula: syntax error")

// ParseError reports where in the input parsing failed.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("formula: %s at offset %d in %q", e.Msg, e.Pos, e.Input)
}

func (e *ParseError) Unwrap() error { return ErrSyntax }

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokTrue
	tokFalse
	tokNot
	tokAnd
	tokOr
	tokImplies
	tokIff
	tokLParen
	tokRParen
	tokLBrack
	tokRBrack
	tokLAngle
	tokRAngle
	tokLBrace
	tokRBrace
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// symbols maps single-rune operators, ASCII and the notation String prints.
var symbols = map[rune]tokenKind{
	'!': tokNot, '~': tokNot, '¬': tokNot,
	'&': tokAnd, '∧': tokAnd,
	'|': tokOr, '∨': tokOr,
	'→': tokImplies, '↔': tokIff,
	'⊤': tokTrue, '⊥': tokFalse,
	'(': tokLParen, ')': tokRParen,
	'[': tokLBrack, ']': tokRBrack,
	'>': tokRAngle,
	'{': tokLBrace, '}': tokRBrace,
	',': tokComma,
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

func lex(input string) ([]token, error) {
	var toks []token
	runes := []rune(input)
	// offsets are rune offsets, which is what a caret under the input needs
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '<':
			if i+2 < len(runes) && runes[i+1] == '-' && runes[i+2] == '>' {
				toks = append(toks, token{kind: tokIff, text: "<->", pos: i})
				i += 3
			} else {
				toks = append(toks, token{kind: tokLAngle, text: "<", pos: i})
				i++
			}
		case r == '-':
			if i+1 < len(runes) && runes[i+1] == '>' {
				toks = append(toks, token{kind: tokImplies, text: "->", pos: i})
				i += 2
			} else {
				return nil, &ParseError{Input: input, Pos: i, Msg: "expected '>' after '-'"}
			}
		case isIdentStart(r):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			text := string(runes[start:i])
			kind := tokIdent
			switch text {
			case "true":
				kind = tokTrue
			case "false":
				kind = tokFalse
			}
			toks = append(toks, token{kind: kind, text: text, pos: start})
		default:
			kind, ok := symbols[r]
			if !ok {
				return nil, &ParseError{Input: input, Pos: i, Msg: fmt.Sprintf("unexpected character %q", r)}
			}
			toks = append(toks, token{kind: kind, text: string(r), pos: i})
			i++
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(runes)})
	return toks, nil
}

type parser struct {
	input string
	toks  []token
	pos   int
}

// Parse reads a formula written with the following syntax, loosest first:
//
//	a <-> b     a -> b (right associative)     a | b     a & b
//	!a  ~a      [x] a  K_x a    <x> a  M_x a    E{x,y} a    C a  C{x,y} a
//	EX a  AX a  EF a  EG a  AF a  AG a  (each with an optional {x,y} group)
//	true  false  p  (a)
//
// The symbols printed by String (¬ ∧ ∨ → ↔ ⊤ ⊥) are accepted as well.
func Parse(input string) (Formula, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{input: input, toks: toks}
	f, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
	return f, nil
}

// MustParse is Parse that panics on error, for tests and literals.
func MustParse(input string) Formula {
	f, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return f
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &ParseError{Input: p.input, Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		if t.kind == tokEOF {
			return t, p.errorf(t, "expected %s, got end of input", what)
		}
		return t, p.errorf(t, "expected %s, got %q", what, t.text)
	}
	return t, nil
}

func (p *parser) parseIff() (Formula, error) {
	left, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokIff {
		p.next()
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		left = Iff{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseImplies() (Formula, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokImplies {
		return left, nil
	}
	p.next()
	right, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	return Implies{Left: left, Right: right}, nil
}

func (p *parser) parseOr() (Formula, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Formula, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
	return left, nil
}

// startsUnary reports whether t can begin an operand.
func startsUnary(t token) bool {
	switch t.kind {
	case tokIdent, tokTrue, tokFalse, tokNot, tokLParen, tokLBrack, tokLAngle:
		return true
	}
	return false
}

func (p *parser) parseUnary() (Formula, error) {
	t := p.peek()
	switch t.kind {
	case tokNot:
		p.next()
		f, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{F: f}, nil

	case tokLBrack, tokLAngle:
		p.next()
		agent, err := p.expect(tokIdent, "agent name")
		if err != nil {
			return nil, err
		}
		closing, what := tokRBrack, "']'"
		if t.kind == tokLAngle {
			closing, what = tokRAngle, "'>'"
		}
		if _, err := p.expect(closing, what); err != nil {
			return nil, err
		}
		f, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.kind == tokLBrack {
			return Box{Agent: agent.text, F: f}, nil
		}
		return Diamond{Agent: agent.text, F: f}, nil

	case tokIdent:
		if agent, ok := strings.CutPrefix(t.text, "K_"); ok && agent != "" {
			p.next()
			f, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return Box{Agent: agent, F: f}, nil
		}
		if agent, ok := strings.CutPrefix(t.text, "M_"); ok && agent != "" {
			p.next()
			f, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return Diamond{Agent: agent, F: f}, nil
		}
		if groupOperators[t.text] {
			if nxt := p.peekAt(1); nxt.kind == tokLBrace || startsUnary(nxt) {
				return p.parseGroupOperator()
			}
		}
	}
	return p.parsePrimary()
}

func (p *parser) parseGroupOperator() (Formula, error) {
	op := p.next()
	var agents []string
	if p.peek().kind == tokLBrace {
		p.next()
		for {
			a, err := p.expect(tokIdent, "agent name")
			if err != nil {
				return nil, err
			}
			agents = append(agents, a.text)
			if p.peek().kind == tokComma {
				p.next()
				continue
			}
			if _, err := p.expect(tokRBrace, "'}'"); err != nil {
				return nil, err
			}
			break
		}
	}
	f, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	switch op.text {
	case "E":
		return Everybody{Agents: agents, F: f}, nil
	case "C":
		return Common{Agents: agents, F: f}, nil
	case "EX":
		return EX{Agents: agents, F: f}, nil
	case "AX":
		return AX{Agents: agents, F: f}, nil
	case "EF":
		return EF{Agents: agents, F: f}, nil
	case "EG":
		return EG{Agents: agents, F: f}, nil
	case "AF":
		return AF{Agents: agents, F: f}, nil
	default:
		return AG{Agents: agents, F: f}, nil
	}
}

// groupOperators take an optional {agents} group before their operand. An
// identifier spelled like one is still an atom when no operand follows.
var groupOperators = map[string]bool{
	"E": true, "C": true,
	"EX": true, "AX": true, "EF": true, "EG": true, "AF": true, "AG": true,
}

func (p *parser) parsePrimary() (Formula, error) {
	t := p.next()
	switch t.kind {
	case tokTrue:
		return Top{}, nil
	case tokFalse:
		return Bottom{}, nil
	case tokIdent:
		return Atom{Name: t.text}, nil
	case tokLParen:
		f, err := p.parseIff()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return f, nil
	case tokEOF:
		return nil, p.errorf(t, "unexpected end of input")
	default:
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
}
