package tagexpr

// Evaluate reports whether tags satisfy the expression.
func (e *Expression) Evaluate(tags []string) bool {
	if e.root == nil {
		return true
	}
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return evaluate(e.root, set)
}

// Evaluate parses expr and evaluates it against tags.
func Evaluate(expr string, tags []string) (bool, error) {
	e, err := Parse(expr)
	if err != nil {
		return false, err
	}
	return e.Evaluate(tags), nil
}

func evaluate(n Node, tags map[string]struct{}) bool {
	switch n := n.(type) {
	case *TagExpression:
		_, ok := tags[n.Name]
		return ok
	case *NotExpression:
		return !evaluate(n.Operand, tags)
	case *BinaryExpression:
		if n.Operator == "and" {
			return evaluate(n.Left, tags) && evaluate(n.Right, tags)
		}
		return evaluate(n.Left, tags) || evaluate(n.Right, tags)
	default:
		return false
	}
}
