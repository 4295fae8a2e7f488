// Package formula evaluates the operator-editable arithmetic expression of a
// pricing formula. The grammar is restricted to numeric literals, named
// variables, + - * /, unary minus and parentheses. Formulas are parsed by a
// hand-written recursive descent parser and never handed to any generic
// code-execution facility, so there is nothing to inject into.
package formula

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Evaluation failure kinds. All are deterministic for a given expression and
// binding set.
var (
	ErrFormulaSyntax     = errors.New("formula syntax error")
	ErrUnboundVariable   = errors.New("formula references unbound variable")
	ErrFormulaEvaluation = errors.New("formula evaluation error")
)

// Evaluate parses expression and computes its value against bindings.
// It fails if the expression is malformed, references a name absent from
// bindings, or produces a non-finite result.
func Evaluate(expression string, bindings map[string]float64) (float64, error) {
	root, err := parse(expression)
	if err != nil {
		return 0, err
	}

	result, err := root.eval(bindings)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: result is not finite", ErrFormulaEvaluation)
	}

	return result, nil
}

// Validate checks that expression parses under the restricted grammar
// without evaluating it. Meant for formula-save time so malformed formulas
// never reach the calculation path.
func Validate(expression string) error {
	_, err := parse(expression)
	return err
}

// Variables returns the sorted set of variable names expression references.
func Variables(expression string) ([]string, error) {
	root, err := parse(expression)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	root.collectVars(seen)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind  tokenKind
	text  string
	value float64
	pos   int
}

func tokenize(expression string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(expression) {
		c := expression[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+':
			tokens = append(tokens, token{kind: tokPlus, text: "+", pos: i})
			i++
		case c == '-':
			tokens = append(tokens, token{kind: tokMinus, text: "-", pos: i})
			i++
		case c == '*':
			tokens = append(tokens, token{kind: tokStar, text: "*", pos: i})
			i++
		case c == '/':
			tokens = append(tokens, token{kind: tokSlash, text: "/", pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			for i < len(expression) && (expression[i] >= '0' && expression[i] <= '9' || expression[i] == '.') {
				i++
			}
			text := expression[start:i]
			value, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid number %q at position %d", ErrFormulaSyntax, text, start)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, value: value, pos: start})
		case isIdentStart(c):
			start := i
			for i < len(expression) && isIdentPart(expression[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: expression[start:i], pos: start})
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at position %d", ErrFormulaSyntax, string(c), i)
		}
	}
	tokens = append(tokens, token{kind: tokEOF, text: "", pos: len(expression)})
	return tokens, nil
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

type node interface {
	eval(bindings map[string]float64) (float64, error)
	collectVars(seen map[string]bool)
}

type numberNode struct {
	value float64
}

func (n numberNode) eval(map[string]float64) (float64, error) { return n.value, nil }
func (n numberNode) collectVars(map[string]bool)              {}

type variableNode struct {
	name string
}

func (n variableNode) eval(bindings map[string]float64) (float64, error) {
	value, ok := bindings[n.name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnboundVariable, n.name)
	}
	return value, nil
}

func (n variableNode) collectVars(seen map[string]bool) { seen[n.name] = true }

type unaryNode struct {
	operand node
}

func (n unaryNode) eval(bindings map[string]float64) (float64, error) {
	value, err := n.operand.eval(bindings)
	if err != nil {
		return 0, err
	}
	return -value, nil
}

func (n unaryNode) collectVars(seen map[string]bool) { n.operand.collectVars(seen) }

type binaryNode struct {
	op          byte
	left, right node
}

func (n binaryNode) eval(bindings map[string]float64) (float64, error) {
	left, err := n.left.eval(bindings)
	if err != nil {
		return 0, err
	}
	right, err := n.right.eval(bindings)
	if err != nil {
		return 0, err
	}

	switch n.op {
	case '+':
		return left + right, nil
	case '-':
		return left - right, nil
	case '*':
		return left * right, nil
	default:
		if right == 0 {
			return 0, fmt.Errorf("%w: division by zero", ErrFormulaEvaluation)
		}
		return left / right, nil
	}
}

func (n binaryNode) collectVars(seen map[string]bool) {
	n.left.collectVars(seen)
	n.right.collectVars(seen)
}

type parser struct {
	tokens []token
	pos    int
}

func parse(expression string) (node, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrFormulaSyntax)
	}

	tokens, err := tokenize(expression)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected token %q at position %d", ErrFormulaSyntax, p.peek().text, p.peek().pos)
	}
	return root, nil
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// expr = term (("+" | "-") term)*
func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: '+', left: left, right: right}
		case tokMinus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: '-', left: left, right: right}
		default:
			return left, nil
		}
	}
}

// term = unary (("*" | "/") unary)*
func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: '*', left: left, right: right}
		case tokSlash:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: '/', left: left, right: right}
		default:
			return left, nil
		}
	}
}

// unary = "-" unary | primary
func (p *parser) parseUnary() (node, error) {
	if p.peek().kind == tokMinus {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{operand: operand}, nil
	}
	return p.parsePrimary()
}

// primary = number | ident | "(" expr ")"
func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return numberNode{value: t.value}, nil
	case tokIdent:
		return variableNode{name: t.text}, nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closing := p.next()
		if closing.kind != tokRParen {
			return nil, fmt.Errorf("%w: missing closing parenthesis at position %d", ErrFormulaSyntax, closing.pos)
		}
		return inner, nil
	case tokEOF:
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrFormulaSyntax)
	default:
		return nil, fmt.Errorf("%w: unexpected token %q at position %d", ErrFormulaSyntax, t.text, t.pos)
	}
}
