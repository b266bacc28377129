// Package jsonpath implements the subset of RFC 9535 JSONPath used by
// redaction plans, evaluated against decoded JSON values (map[string]any,
// []any and scalars).
//
// Supported syntax:
//   - $ (root)
//   - .name, ['name'], ["name"] (member names)
//   - .*, [*] (wildcard)
//   - [0], [-1] (array index)
//   - [start:end:step] (array slice)
//   - [a,b] (selector union)
//   - ..name, ..*, ..[0] (descendant segments)
//   - [?expr] filters: @-relative queries, comparisons (== != < <= > >=)
//     against literals, existence tests, !, && and || with parentheses
//
// Not supported: filter functions (length(), match(), ...) and
// absolute ($) queries inside filters.
//
// Evaluation returns concrete locations, each addressable as an RFC 6901
// JSON Pointer. Object members are visited in sorted key order so results
// are deterministic.
package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Path represents a parsed JSONPath expression.
type Path struct {
	raw      string
	segments []segment
}

// String returns the original JSONPath expression.
func (p *Path) String() string {
	return p.raw
}

// segment is a child ([...]) or descendant (..[...]) segment holding one or
// more selectors.
type segment struct {
	descendant bool
	selectors  []selector
}

type selectorKind int

const (
	selectName selectorKind = iota
	selectWildcard
	selectIndex
	selectSlice
	selectFilter
)

type selector struct {
	kind  selectorKind
	name  string
	index int
	slice sliceSpec
	expr  filterExpr
}

// sliceSpec holds optional slice bounds; nil means omitted.
type sliceSpec struct {
	start, end *int
	step       int
}

// Parse parses a JSONPath expression string into a Path.
//
//	Parse("$[*].id")
//	Parse("$..createdAt")
//	Parse("$.items[?@.kind=='secret'].value")
//	Parse("$.events[0:2]")
func Parse(expr string) (*Path, error) {
	if expr == "" {
		return nil, fmt.Errorf("jsonpath: empty expression")
	}
	p := &parser{input: expr}
	segments, err := p.parse()
	if err != nil {
		return nil, err
	}
	return &Path{raw: expr, segments: segments}, nil
}

// parser is the internal JSONPath parser.
type parser struct {
	input string
	pos   int
}

func (p *parser) parse() ([]segment, error) {
	if !p.consume('$') {
		return nil, fmt.Errorf("jsonpath: expression must start with '$'")
	}
	var segments []segment
	for p.pos < len(p.input) {
		seg, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func (p *parser) parseSegment() (segment, error) {
	switch p.peek() {
	case '.':
		p.advance()
		if p.consume('.') {
			if p.consume('[') {
				sels, err := p.parseBracket()
				return segment{descendant: true, selectors: sels}, err
			}
			sel, err := p.parseDotSelector()
			return segment{descendant: true, selectors: []selector{sel}}, err
		}
		sel, err := p.parseDotSelector()
		return segment{selectors: []selector{sel}}, err
	case '[':
		p.advance()
		sels, err := p.parseBracket()
		return segment{selectors: sels}, err
	}
	return segment{}, fmt.Errorf("jsonpath: unexpected character %q at position %d", p.peek(), p.pos)
}

func (p *parser) parseDotSelector() (selector, error) {
	if p.pos >= len(p.input) {
		return selector{}, fmt.Errorf("jsonpath: unexpected end after '.'")
	}
	if p.consume('*') {
		return selector{kind: selectWildcard}, nil
	}
	name := p.parseIdentifier()
	if name == "" {
		return selector{}, fmt.Errorf("jsonpath: expected identifier after '.' at position %d", p.pos)
	}
	return selector{kind: selectName, name: name}, nil
}

// parseBracket parses a comma-separated selector list; the opening '[' has
// been consumed.
func (p *parser) parseBracket() ([]selector, error) {
	var sels []selector
	for {
		p.skipWhitespace()
		sel, err := p.parseBracketSelector()
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
		p.skipWhitespace()
		if p.consume(']') {
			return sels, nil
		}
		if !p.consume(',') {
			return nil, fmt.Errorf("jsonpath: expected ',' or ']' at position %d", p.pos)
		}
	}
}

func (p *parser) parseBracketSelector() (selector, error) {
	if p.pos >= len(p.input) {
		return selector{}, fmt.Errorf("jsonpath: unexpected end after '['")
	}
	ch := p.peek()
	switch {
	case ch == '?':
		p.advance()
		expr, err := p.parseFilter()
		if err != nil {
			return selector{}, err
		}
		return selector{kind: selectFilter, expr: expr}, nil
	case ch == '*':
		p.advance()
		return selector{kind: selectWildcard}, nil
	case ch == '\'' || ch == '"':
		p.advance()
		name, err := p.parseQuotedString(ch)
		if err != nil {
			return selector{}, err
		}
		return selector{kind: selectName, name: name}, nil
	case ch == ':' || ch == '-' || isDigit(ch):
		return p.parseIndexOrSlice()
	}
	return selector{}, fmt.Errorf("jsonpath: unexpected character %q in bracket at position %d", ch, p.pos)
}

func (p *parser) parseIndexOrSlice() (selector, error) {
	var parts [3]*int
	n := 0
	for {
		p.skipWhitespace()
		if p.peek() == '-' || isDigit(p.peek()) {
			numStr := p.parseInteger()
			v, err := strconv.Atoi(numStr)
			if err != nil {
				return selector{}, fmt.Errorf("jsonpath: invalid index %q: %w", numStr, err)
			}
			parts[n] = &v
		}
		p.skipWhitespace()
		if p.peek() != ':' || n == 2 {
			break
		}
		p.advance()
		n++
	}
	if n == 0 {
		if parts[0] == nil {
			return selector{}, fmt.Errorf("jsonpath: expected index at position %d", p.pos)
		}
		return selector{kind: selectIndex, index: *parts[0]}, nil
	}
	spec := sliceSpec{start: parts[0], end: parts[1], step: 1}
	if parts[2] != nil {
		spec.step = *parts[2]
	}
	return selector{kind: selectSlice, slice: spec}, nil
}

func (p *parser) parseIdentifier() string {
	start := p.pos
	for p.pos < len(p.input) && isIdentChar(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) parseQuotedString(quote byte) (string, error) {
	var result strings.Builder
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == quote {
			p.pos++
			return result.String(), nil
		}
		if ch == '\\' && p.pos+1 < len(p.input) {
			p.pos++
			switch escaped := p.input[p.pos]; escaped {
			case 'n':
				result.WriteByte('\n')
			case 't':
				result.WriteByte('\t')
			default:
				result.WriteByte(escaped)
			}
			p.pos++
			continue
		}
		result.WriteByte(ch)
		p.pos++
	}
	return "", fmt.Errorf("jsonpath: unterminated string at position %d", p.pos)
}

func (p *parser) parseInteger() string {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) parseNumber() string {
	start := p.pos
	p.parseInteger()
	if p.peek() == '.' {
		p.pos++
		for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
			p.pos++
		}
	}
	return p.input[start:p.pos]
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) advance() {
	if p.pos < len(p.input) {
		p.pos++
	}
}

func (p *parser) consume(ch byte) bool {
	if p.peek() == ch {
		p.advance()
		return true
	}
	return false
}

func (p *parser) consumeString(s string) bool {
	if strings.HasPrefix(p.input[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_' || ch == '-' || ch >= 0x80
}
