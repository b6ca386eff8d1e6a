/*
Copyright © the msx authors.
This file is part of msx.

msx is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

msx is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with msx.  If not, see <http://www.gnu.org/licenses/>.
*/

package msx

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// The fallback engine is a self-contained recursive-descent evaluator for
// the MSX expression grammar: + - * / ^, unary sign, parentheses, numeric
// literals, bare symbols, and the built-in functions in their three case
// forms. It exists so that numeric evaluation keeps working when the
// expression library must be left out; it does no symbolic manipulation.

var fallbackOnce sync.Once

// FallbackEngine returns the numeric fallback expression engine. The first
// call logs a capability notice: models compiled with this engine can be
// evaluated but their expressions cannot be symbolically manipulated.
func FallbackEngine() Engine {
	fallbackOnce.Do(func() {
		logrus.Warning("msx: using the numeric fallback expression engine; symbolic manipulation is disabled")
	})
	return fallbackEngine{}
}

type fallbackEngine struct{}

// EngineName implements Engine.
func (fallbackEngine) EngineName() string { return "fallback" }

// Compile implements Engine.
func (fallbackEngine) Compile(expression string, symbols map[string]bool) (Compiled, error) {
	tokens, err := lexExpression(expression)
	if err != nil {
		return nil, CompileError{Expression: expression, Err: err}
	}
	p := &exprParser{source: expression, tokens: tokens}
	root, err := p.parseExpr()
	if err != nil {
		return nil, CompileError{Expression: expression, Err: err}
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, compileErrorf(expression, "unexpected %q", tok.text)
	}
	for _, v := range p.vars {
		if !symbols[v] {
			return nil, compileErrorf(expression, "unresolvable symbol %q", v)
		}
	}
	return &fallbackCompiled{source: expression, root: root, vars: p.vars}, nil
}

type fallbackCompiled struct {
	source string
	root   exprNode
	vars   []string
}

// Eval implements Compiled.
func (c *fallbackCompiled) Eval(bindings map[string]float64) (float64, error) {
	for _, v := range c.vars {
		if _, ok := bindings[v]; !ok {
			return 0, compileErrorf(c.source, "no value bound for symbol %q", v)
		}
	}
	return c.root.eval(bindings), nil
}

// Vars implements Compiled.
func (c *fallbackCompiled) Vars() []string {
	vars := make([]string, len(c.vars))
	copy(vars, c.vars)
	return vars
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp     // + - * / ^
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

func lexExpression(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		ch := src[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch >= '0' && ch <= '9' || ch == '.':
			j := i
			for j < len(src) && (src[j] >= '0' && src[j] <= '9' || src[j] == '.') {
				j++
			}
			// scientific notation
			if j < len(src) && (src[j] == 'e' || src[j] == 'E') {
				k := j + 1
				if k < len(src) && (src[k] == '+' || src[k] == '-') {
					k++
				}
				if k < len(src) && src[k] >= '0' && src[k] <= '9' {
					for k < len(src) && src[k] >= '0' && src[k] <= '9' {
						k++
					}
					j = k
				}
			}
			text := src[i:j]
			num, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("bad numeric literal %q", text)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, num: num})
			i = j
		case isIdentStart(ch):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			tokens = append(tokens, token{kind: tokIdent, text: src[i:j]})
			i = j
		case ch == '*':
			// ** is accepted as a synonym for ^.
			if i+1 < len(src) && src[i+1] == '*' {
				tokens = append(tokens, token{kind: tokOp, text: "^"})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokOp, text: "*"})
				i++
			}
		case ch == '+' || ch == '-' || ch == '/' || ch == '^':
			tokens = append(tokens, token{kind: tokOp, text: string(ch)})
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "("})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")"})
			i++
		case ch == ',':
			tokens = append(tokens, token{kind: tokComma, text: ","})
			i++
		default:
			return nil, fmt.Errorf("unknown operator %q", string(ch))
		}
	}
	tokens = append(tokens, token{kind: tokEOF})
	return tokens, nil
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || ch >= '0' && ch <= '9'
}

type exprParser struct {
	source string
	tokens []token
	pos    int
	vars   []string
	seen   map[string]bool
}

func (p *exprParser) peek() token { return p.tokens[p.pos] }

func (p *exprParser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *exprParser) recordVar(name string) {
	if p.seen == nil {
		p.seen = make(map[string]bool)
	}
	if !p.seen[name] {
		p.seen[name] = true
		p.vars = append(p.vars, name)
	}
}

// parseExpr := parseTerm (('+'|'-') parseTerm)*
func (p *exprParser) parseExpr() (exprNode, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || tok.text != "+" && tok.text != "-" {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binNode{op: tok.text[0], x: left, y: right}
	}
}

// parseTerm := parseUnary (('*'|'/') parseUnary)*
func (p *exprParser) parseTerm() (exprNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || tok.text != "*" && tok.text != "/" {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binNode{op: tok.text[0], x: left, y: right}
	}
}

// parseUnary := ('+'|'-') parseUnary | parsePower
func (p *exprParser) parseUnary() (exprNode, error) {
	tok := p.peek()
	if tok.kind == tokOp && (tok.text == "+" || tok.text == "-") {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if tok.text == "-" {
			return &negNode{x: x}, nil
		}
		return x, nil
	}
	return p.parsePower()
}

// parsePower := parsePrimary ('^' parseUnary)?   (right associative)
func (p *exprParser) parsePower() (exprNode, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.kind == tokOp && tok.text == "^" {
		p.next()
		exponent, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &binNode{op: '^', x: base, y: exponent}, nil
	}
	return base, nil
}

func (p *exprParser) parsePrimary() (exprNode, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return numNode(tok.num), nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			fn, ok := functionByForm[tok.text]
			if !ok {
				return nil, fmt.Errorf("unknown function %q", tok.text)
			}
			p.next() // consume (
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if closing := p.next(); closing.kind != tokRParen {
				return nil, fmt.Errorf("function %q: expected ')', got %q", tok.text, closing.text)
			}
			return &callNode{name: tok.text, fn: fn, arg: arg}, nil
		}
		p.recordVar(tok.text)
		return varNode(tok.text), nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("unbalanced parentheses")
		}
		return inner, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected %q", tok.text)
}

type exprNode interface {
	eval(bindings map[string]float64) float64
}

type numNode float64

func (n numNode) eval(map[string]float64) float64 { return float64(n) }

type varNode string

func (n varNode) eval(bindings map[string]float64) float64 { return bindings[string(n)] }

type negNode struct{ x exprNode }

func (n *negNode) eval(bindings map[string]float64) float64 { return -n.x.eval(bindings) }

type binNode struct {
	op   byte
	x, y exprNode
}

func (n *binNode) eval(bindings map[string]float64) float64 {
	x := n.x.eval(bindings)
	y := n.y.eval(bindings)
	switch n.op {
	case '+':
		return x + y
	case '-':
		return x - y
	case '*':
		return x * y
	case '/':
		return x / y
	case '^':
		return math.Pow(x, y)
	}
	return math.NaN()
}

type callNode struct {
	name string
	fn   func(float64) float64
	arg  exprNode
}

func (n *callNode) eval(bindings map[string]float64) float64 {
	return n.fn(n.arg.eval(bindings))
}

// functionByForm maps every accepted spelling (lower, UPPER, Capitalized)
// of every built-in function to its implementation.
var functionByForm = make(map[string]func(float64) float64)

func init() {
	for name, fn := range exprFunctions {
		for _, form := range caseForms(strings.ToLower(name)) {
			functionByForm[form] = fn
		}
	}
}
