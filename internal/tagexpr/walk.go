package tagexpr

// Negate returns the complement of n with De Morgan's laws pushed down to the
// tags, removing double negations on the way.
func Negate(n Node) Node {
	switch n := n.(type) {
	case *TagExpression:
		return &NotExpression{Operand: n}
	case *NotExpression:
		return n.Operand
	case *BinaryExpression:
		op := "or"
		if n.Operator == "or" {
			op = "and"
		}
		return &BinaryExpression{Left: Negate(n.Left), Right: Negate(n.Right), Operator: op}
	default:
		return n
	}
}

// NegateExpression returns the canonical text of the negation of expr.
func NegateExpression(expr string) (string, error) {
	e, err := Parse(expr)
	if err != nil {
		return "", err
	}
	if e.root == nil {
		return "", newError(expr, -1, "cannot negate an empty expression")
	}
	return Negate(e.root).String(), nil
}

// Combine joins the non-blank expressions with "or". The result is "" when
// every input is blank.
func Combine(exprs ...string) (string, error) {
	var root Node
	for _, expr := range exprs {
		e, err := Parse(expr)
		if err != nil {
			return "", err
		}
		if e.root == nil {
			continue
		}
		if root == nil {
			root = e.root
			continue
		}
		root = &BinaryExpression{Left: root, Right: e.root, Operator: "or"}
	}
	if root == nil {
		return "", nil
	}
	return root.String(), nil
}

// Simplify returns the canonical form of expr: minimal parentheses,
// lower-case operators and no double negation. Simplify is idempotent.
func Simplify(expr string) (string, error) {
	e, err := Parse(expr)
	if err != nil {
		return "", err
	}
	if e.root == nil {
		return "", nil
	}
	return dropDoubleNegation(e.root).String(), nil
}

func dropDoubleNegation(n Node) Node {
	switch n := n.(type) {
	case *NotExpression:
		if inner, ok := n.Operand.(*NotExpression); ok {
			return dropDoubleNegation(inner.Operand)
		}
		return &NotExpression{Operand: dropDoubleNegation(n.Operand)}
	case *BinaryExpression:
		return &BinaryExpression{Left: dropDoubleNegation(n.Left), Right: dropDoubleNegation(n.Right), Operator: n.Operator}
	default:
		return n
	}
}

// Tags returns every tag named in n, in first-occurrence order.
func Tags(n Node) []string {
	var tags []string
	seen := map[string]bool{}
	Walk(n, func(node Node) {
		if t, ok := node.(*TagExpression); ok && !seen[t.Name] {
			seen[t.Name] = true
			tags = append(tags, t.Name)
		}
	})
	return tags
}

// TagsOf parses expr and returns its tags.
func TagsOf(expr string) ([]string, error) {
	e, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	if e.root == nil {
		return nil, nil
	}
	return Tags(e.root), nil
}

// Walk visits n and its descendants depth first, left to right.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	switch n := n.(type) {
	case *NotExpression:
		Walk(n.Operand, fn)
	case *BinaryExpression:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	}
}
