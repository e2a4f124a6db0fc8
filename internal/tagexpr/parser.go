// Package tagexpr parses and evaluates boolean tag filters such as
// "(@smoke or @fast) and not @wip".
package tagexpr

import (
	"strings"
)

// Expression is a compiled tag filter. It is immutable and safe to reuse
// across goroutines.
type Expression struct {
	source string
	root   Node // nil for a blank filter
}

// Parse compiles expr. A blank expression matches every tag set.
func Parse(expr string) (*Expression, error) {
	if strings.TrimSpace(expr) == "" {
		return &Expression{source: expr}, nil
	}

	tokens, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	postfix, err := toPostfix(expr, tokens)
	if err != nil {
		return nil, err
	}
	root, err := buildTree(expr, postfix)
	if err != nil {
		return nil, err
	}
	return &Expression{source: expr, root: root}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) *Expression {
	e, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return e
}

// Root returns the AST, or nil for a blank expression.
func (e *Expression) Root() Node { return e.root }

// Source returns the text the expression was parsed from.
func (e *Expression) Source() string { return e.source }

// String returns the canonical form, "" for a blank expression.
func (e *Expression) String() string {
	if e.root == nil {
		return ""
	}
	return e.root.String()
}

// toPostfix reorders infix tokens with the shunting-yard algorithm. Binary
// operators pop every stacked operator of greater or equal precedence; "not"
// is a prefix operator and never pops. Tokens must alternate between operand
// and operator position, so postfix or misplaced operators are rejected here.
func toPostfix(expr string, tokens []token) ([]token, error) {
	var (
		output []token
		ops    []token
		prev   *token
	)
	expectOperand := true

	for i := range tokens {
		tok := tokens[i]
		switch tok.typ {
		case TAG, NOT, LPAREN:
			if !expectOperand {
				return nil, newError(expr, tok.position, "missing operator before '%s'", tok.literal)
			}
		case AND, OR, RPAREN:
			if expectOperand {
				return nil, missingOperand(expr, prev, &tok)
			}
		}

		switch tok.typ {
		case TAG:
			output = append(output, tok)
			expectOperand = false
		case NOT, LPAREN:
			ops = append(ops, tok)
		case AND, OR:
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.typ == LPAREN || precedences[top.typ] < precedences[tok.typ] {
					break
				}
				output = append(output, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, tok)
			expectOperand = true
		case RPAREN:
			matched := false
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.typ == LPAREN {
					matched = true
					break
				}
				output = append(output, top)
			}
			if !matched {
				return nil, newError(expr, tok.position, "unmatched ')'")
			}
		}
		prev = &tokens[i]
	}
	if expectOperand {
		return nil, missingOperand(expr, prev, nil)
	}

	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.typ == LPAREN {
			return nil, newError(expr, top.position, "unmatched '(', missing ')'")
		}
		output = append(output, top)
	}
	return output, nil
}

// missingOperand blames the operator left waiting for an operand: prev when
// it is one, otherwise tok. tok is nil at the end of the expression.
func missingOperand(expr string, prev, tok *token) error {
	switch {
	case prev != nil && prev.typ == LPAREN && tok != nil && tok.typ == RPAREN:
		return newError(expr, prev.position, "empty parentheses")
	case prev != nil && prev.typ != LPAREN:
		return newError(expr, prev.position, "missing operand for '%s'", prev.literal)
	case tok != nil:
		return newError(expr, tok.position, "missing operand for '%s'", tok.literal)
	case prev != nil:
		return newError(expr, prev.position, "unmatched '(', missing ')'")
	}
	return newError(expr, -1, "expression has no tags")
}

// buildTree folds postfix tokens into an AST, checking operator arity.
func buildTree(expr string, postfix []token) (Node, error) {
	var stack []Node
	pop := func() Node {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return n
	}

	for _, tok := range postfix {
		switch tok.typ {
		case TAG:
			stack = append(stack, &TagExpression{Name: tok.literal})
		case NOT:
			if len(stack) < 1 {
				return nil, newError(expr, tok.position, "missing operand for 'not'")
			}
			stack = append(stack, &NotExpression{Operand: pop()})
		case AND, OR:
			if len(stack) < 2 {
				return nil, newError(expr, tok.position, "missing operand for '%s'", tok.literal)
			}
			right := pop()
			left := pop()
			stack = append(stack, &BinaryExpression{Left: left, Right: right, Operator: tok.literal})
		}
	}

	switch len(stack) {
	case 0:
		return nil, newError(expr, -1, "expression has no tags")
	case 1:
		return stack[0], nil
	default:
		return nil, newError(expr, -1, "missing operator between %s and %s", stack[len(stack)-2], stack[len(stack)-1])
	}
}
