// Copyright (c) 2025 BVK Chaitanya

package lua

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Decode parses a SavedVariables file into its top-level assignments.
func Decode(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read lua input: %w", err)
	}
	p := &parser{input: string(data), line: 1}
	file := NewFile()
	for {
		p.skipSpace()
		if p.eof() {
			return file, nil
		}
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume('=') {
			return nil, p.errorf("expected '=' after global %q", name)
		}
		value, err := p.value()
		if err != nil {
			return nil, err
		}
		file.SetGlobal(name, value)
	}
}

// DecodeString is a convenience wrapper over Decode.
func DecodeString(s string) (*File, error) {
	return Decode(strings.NewReader(s))
}

type parser struct {
	input string
	pos   int
	line  int
}

func (p *parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("lua parse error at line %d: %s", p.line, msg)
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) advance() byte {
	c := p.input[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
	}
	return c
}

func (p *parser) consume(c byte) bool {
	if !p.eof() && p.input[p.pos] == c {
		p.advance()
		return true
	}
	return false
}

// skipSpace skips whitespace and "--" line comments.
func (p *parser) skipSpace() {
	for !p.eof() {
		c := p.peek()
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			p.advance()
			continue
		}
		if c == '-' && p.pos+1 < len(p.input) && p.input[p.pos+1] == '-' {
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}
			continue
		}
		return
	}
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isIdentPart(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func (p *parser) identifier() (string, error) {
	start := p.pos
	c, _ := utf8.DecodeRuneInString(p.input[p.pos:])
	if !isIdentStart(c) {
		return "", p.errorf("expected identifier")
	}
	for !p.eof() {
		c, size := utf8.DecodeRuneInString(p.input[p.pos:])
		if !isIdentPart(c) {
			break
		}
		p.pos += size
	}
	return p.input[start:p.pos], nil
}

func (p *parser) value() (any, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}
	switch c := p.peek(); {
	case c == '{':
		return p.table()
	case c == '"':
		return p.stringLit()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	default:
		word, err := p.identifier()
		if err != nil {
			return nil, p.errorf("unexpected character %q", c)
		}
		switch word {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "nil":
			return nil, nil
		}
		return nil, p.errorf("unexpected token %q", word)
	}
}

func (p *parser) stringLit() (string, error) {
	if !p.consume('"') {
		return "", p.errorf("expected string")
	}
	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated string")
		}
		c := p.advance()
		if c == '"' {
			return sb.String(), nil
		}
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if p.eof() {
			return "", p.errorf("unterminated escape sequence")
		}
		switch e := p.advance(); e {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '"', '\\', '\'':
			sb.WriteByte(e)
		case '|':
			// WoW item links escape their color codes as "\|".
			sb.WriteByte('|')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(e)
		}
	}
}

func (p *parser) number() (any, error) {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' ||
			c == 'e' || c == 'E' || c == 'x' || c == 'X' ||
			(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			p.advance()
			continue
		}
		break
	}
	text := p.input[start:p.pos]
	if n, err := strconv.ParseInt(text, 0, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf("invalid number %q", text)
	}
	return f, nil
}

func (p *parser) table() (*Table, error) {
	if !p.consume('{') {
		return nil, p.errorf("expected '{'")
	}
	t := NewTable()
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unterminated table")
		}
		if p.consume('}') {
			return t, nil
		}
		if p.peek() == '[' {
			key, err := p.bracketKey()
			if err != nil {
				return nil, err
			}
			p.skipSpace()
			if !p.consume('=') {
				return nil, p.errorf("expected '=' after table key")
			}
			value, err := p.value()
			if err != nil {
				return nil, err
			}
			t.SetKey(key, value)
		} else if c, _ := utf8.DecodeRuneInString(p.input[p.pos:]); isIdentStart(c) && p.isBareAssignment() {
			name, err := p.identifier()
			if err != nil {
				return nil, err
			}
			p.skipSpace()
			if !p.consume('=') {
				return nil, p.errorf("expected '=' after table key %q", name)
			}
			value, err := p.value()
			if err != nil {
				return nil, err
			}
			t.Set(name, value)
		} else {
			value, err := p.value()
			if err != nil {
				return nil, err
			}
			t.Append(value)
		}
		p.skipSpace()
		if p.consume(',') || p.consume(';') {
			continue
		}
		p.skipSpace()
		if !p.consume('}') {
			return nil, p.errorf("expected ',' or '}' in table")
		}
		return t, nil
	}
}

// isBareAssignment reports whether the upcoming tokens look like
// `name = ...` rather than a bare positional value such as `true`.
func (p *parser) isBareAssignment() bool {
	i := p.pos
	for i < len(p.input) {
		c, size := utf8.DecodeRuneInString(p.input[i:])
		if !isIdentPart(c) {
			break
		}
		i += size
	}
	for i < len(p.input) {
		c := p.input[i]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			i++
			continue
		}
		return c == '='
	}
	return false
}

func (p *parser) bracketKey() (Key, error) {
	if !p.consume('[') {
		return Key{}, p.errorf("expected '['")
	}
	p.skipSpace()
	var key Key
	if p.peek() == '"' {
		s, err := p.stringLit()
		if err != nil {
			return Key{}, err
		}
		key = StringKey(s)
	} else {
		v, err := p.number()
		if err != nil {
			return Key{}, err
		}
		switch n := v.(type) {
		case int64:
			key = IntKey(n)
		case float64:
			key = IntKey(int64(n))
		}
	}
	p.skipSpace()
	if !p.consume(']') {
		return Key{}, p.errorf("expected ']' after table key")
	}
	return key, nil
}
