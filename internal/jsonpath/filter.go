package jsonpath

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// filterExpr is a node of a parsed filter expression.
type filterExpr interface {
	eval(node any) bool
}

type orExpr struct{ left, right filterExpr }

func (e orExpr) eval(node any) bool { return e.left.eval(node) || e.right.eval(node) }

type andExpr struct{ left, right filterExpr }

func (e andExpr) eval(node any) bool { return e.left.eval(node) && e.right.eval(node) }

type notExpr struct{ inner filterExpr }

func (e notExpr) eval(node any) bool { return !e.inner.eval(node) }

// existsExpr tests that a relative query selects a value.
type existsExpr struct{ query relQuery }

func (e existsExpr) eval(node any) bool {
	_, ok := e.query.resolve(node)
	return ok
}

// comparisonExpr compares two operands, each a relative query or a literal.
type comparisonExpr struct {
	left, right operand
	op          string
}

func (e comparisonExpr) eval(node any) bool {
	l, lok := e.left.value(node)
	r, rok := e.right.value(node)
	if !lok || !rok {
		// An absent value only equals another absent value.
		switch e.op {
		case "==", "<=", ">=":
			return !lok && !rok
		case "!=":
			return lok != rok
		}
		return false
	}
	return compare(l, e.op, r)
}

type operand struct {
	query   *relQuery
	literal any
}

func (o operand) value(node any) (any, bool) {
	if o.query != nil {
		return o.query.resolve(node)
	}
	return o.literal, true
}

// relQuery is a singular @-relative query: a chain of names and indices.
type relQuery struct {
	steps []any // string or int
}

func (q relQuery) resolve(node any) (any, bool) {
	cur := node
	for _, step := range q.steps {
		switch s := step.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			if cur, ok = m[s]; !ok {
				return nil, false
			}
		case int:
			arr, ok := cur.([]any)
			if !ok {
				return nil, false
			}
			idx := s
			if idx < 0 {
				idx += len(arr)
			}
			if idx < 0 || idx >= len(arr) {
				return nil, false
			}
			cur = arr[idx]
		}
	}
	return cur, true
}

// parseFilter parses the expression after '?'. It stops before the closing
// ']' or ',' of the enclosing selector list.
func (p *parser) parseFilter() (filterExpr, error) {
	p.skipWhitespace()
	return p.parseOr()
}

func (p *parser) parseOr() (filterExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		if !p.consumeString("||") {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orExpr{left: left, right: right}
	}
}

func (p *parser) parseAnd() (filterExpr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		if !p.consumeString("&&") {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andExpr{left: left, right: right}
	}
}

func (p *parser) parseUnary() (filterExpr, error) {
	p.skipWhitespace()
	if p.consume('!') {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notExpr{inner: inner}, nil
	}
	if p.consume('(') {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if !p.consume(')') {
			return nil, fmt.Errorf("jsonpath: expected ')' at position %d", p.pos)
		}
		return inner, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	op := p.parseOperator()
	if op == "" {
		if left.query == nil {
			return nil, fmt.Errorf("jsonpath: expected comparison operator at position %d", p.pos)
		}
		return existsExpr{query: *left.query}, nil
	}
	p.skipWhitespace()
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return comparisonExpr{left: left, op: op, right: right}, nil
}

func (p *parser) parseOperand() (operand, error) {
	if p.consume('@') {
		q, err := p.parseRelQuery()
		if err != nil {
			return operand{}, err
		}
		return operand{query: &q}, nil
	}
	v, err := p.parseLiteral()
	if err != nil {
		return operand{}, err
	}
	return operand{literal: v}, nil
}

func (p *parser) parseRelQuery() (relQuery, error) {
	var q relQuery
	for {
		switch p.peek() {
		case '.':
			p.advance()
			name := p.parseIdentifier()
			if name == "" {
				return q, fmt.Errorf("jsonpath: expected field name in filter at position %d", p.pos)
			}
			q.steps = append(q.steps, name)
		case '[':
			p.advance()
			p.skipWhitespace()
			if ch := p.peek(); ch == '\'' || ch == '"' {
				p.advance()
				name, err := p.parseQuotedString(ch)
				if err != nil {
					return q, err
				}
				q.steps = append(q.steps, name)
			} else {
				numStr := p.parseInteger()
				idx, err := strconv.Atoi(numStr)
				if err != nil {
					return q, fmt.Errorf("jsonpath: invalid index %q in filter", numStr)
				}
				q.steps = append(q.steps, idx)
			}
			p.skipWhitespace()
			if !p.consume(']') {
				return q, fmt.Errorf("jsonpath: expected ']' in filter at position %d", p.pos)
			}
		default:
			return q, nil
		}
	}
}

func (p *parser) parseOperator() string {
	for _, op := range []string{"==", "!=", "<=", ">=", "<", ">"} {
		if p.consumeString(op) {
			return op
		}
	}
	return ""
}

func (p *parser) parseLiteral() (any, error) {
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("jsonpath: expected value at position %d", p.pos)
	}
	ch := p.peek()
	switch {
	case ch == '\'' || ch == '"':
		p.advance()
		return p.parseQuotedString(ch)
	case p.consumeString("true"):
		return true, nil
	case p.consumeString("false"):
		return false, nil
	case p.consumeString("null"):
		return nil, nil
	case ch == '-' || isDigit(ch):
		numStr := p.parseNumber()
		f, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return nil, fmt.Errorf("jsonpath: invalid number %q: %w", numStr, err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("jsonpath: unexpected character %q when parsing value at position %d", ch, p.pos)
}

// compare performs a comparison between two present values.
func compare(left any, op string, right any) bool {
	left, right = normalizeValue(left), normalizeValue(right)
	switch op {
	case "==":
		return valuesEqual(left, right)
	case "!=":
		return !valuesEqual(left, right)
	case "<":
		return compareLess(left, right)
	case "<=":
		return compareLess(left, right) || valuesEqual(left, right)
	case ">":
		return compareLess(right, left)
	case ">=":
		return compareLess(right, left) || valuesEqual(left, right)
	}
	return false
}

// normalizeValue widens numbers to float64 so that values decoded from
// JSON (float64) and YAML (int) compare equal.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	}
	return v
}

func valuesEqual(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	return reflect.DeepEqual(left, right)
}

// compareLess checks left < right for numbers and strings.
func compareLess(left, right any) bool {
	switch l := left.(type) {
	case float64:
		r, ok := right.(float64)
		return ok && l < r
	case string:
		r, ok := right.(string)
		return ok && strings.Compare(l, r) < 0
	}
	return false
}
