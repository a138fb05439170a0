package condition

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokenPath tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			i++
		case c == '&':
			if i+1 >= len(input) || input[i+1] != '&' {
				return nil, fmt.Errorf("condition: expected && at offset %d", i)
			}
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
			i += 2
		case c == '|':
			if i+1 >= len(input) || input[i+1] != '|' {
				return nil, fmt.Errorf("condition: expected || at offset %d", i)
			}
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
			i += 2
		case c == '=':
			if i+1 >= len(input) || input[i+1] != '=' {
				return nil, fmt.Errorf("condition: expected == at offset %d", i)
			}
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
			i += 2
		case c == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
				i += 2
				continue
			}
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			i++
		case c == '\'' || c == '"':
			quote := c
			end := i + 1
			for end < len(input) && input[end] != quote {
				end++
			}
			if end >= len(input) {
				return nil, fmt.Errorf("condition: unterminated string at offset %d", i)
			}
			tokens = append(tokens, token{kind: tokenString, raw: input[i+1 : end]})
			i = end + 1
		case c >= '0' && c <= '9' || c == '-':
			end := i + 1
			for end < len(input) && (input[end] >= '0' && input[end] <= '9' || input[end] == '.') {
				end++
			}
			tokens = append(tokens, token{kind: tokenNumber, raw: input[i:end]})
			i = end
		case isPathChar(c):
			end := i
			for end < len(input) && isPathChar(input[end]) {
				end++
			}
			word := input[i:end]
			switch strings.ToLower(word) {
			case "true", "false":
				tokens = append(tokens, token{kind: tokenBool, raw: strings.ToLower(word)})
			case "null":
				tokens = append(tokens, token{kind: tokenNull, raw: "null"})
			default:
				tokens = append(tokens, token{kind: tokenPath, raw: word})
			}
			i = end
		default:
			return nil, fmt.Errorf("condition: unexpected character %q at offset %d", c, i)
		}
	}
	return tokens, nil
}

func isPathChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '.' || c == '_' || c == '-' || c == '[' || c == ']':
		return true
	default:
		return false
	}
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek(tokenOr) {
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek(tokenAnd) {
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.peek(tokenNot) {
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if p.peek(tokenLParen) {
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.peek(tokenRParen) {
			return nil, fmt.Errorf("condition: missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	}

	if !p.peek(tokenPath) {
		return nil, fmt.Errorf("condition: expected an answer path")
	}
	path := p.tokens[p.pos].raw
	p.pos++

	if p.peek(tokenEq) || p.peek(tokenNeq) {
		negate := p.tokens[p.pos].kind == tokenNeq
		p.pos++
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return compareNode{path: path, literal: lit, negate: negate}, nil
	}
	return truthyNode{path: path}, nil
}

func (p *parser) parseLiteral() (literal, error) {
	if p.pos >= len(p.tokens) {
		return literal{}, fmt.Errorf("condition: expected a literal")
	}
	tok := p.tokens[p.pos]
	p.pos++
	switch tok.kind {
	case tokenString, tokenPath:
		// Bare words compare as strings to keep rules forgiving.
		return literal{kind: litString, raw: tok.raw}, nil
	case tokenNumber:
		return literal{kind: litNumber, raw: tok.raw}, nil
	case tokenBool:
		return literal{kind: litBool, raw: tok.raw}, nil
	case tokenNull:
		return literal{kind: litNull, raw: "null"}, nil
	default:
		return literal{}, fmt.Errorf("condition: expected a literal, got %q", tok.raw)
	}
}

func (p *parser) peek(kind tokenKind) bool {
	return p.pos < len(p.tokens) && p.tokens[p.pos].kind == kind
}
