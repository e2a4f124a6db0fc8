package tagexpr

// Node is implemented by every tag expression AST node.
type Node interface {
	// expressionNode is a marker method to distinguish expression nodes.
	expressionNode()
	// String returns the canonical form of the node.
	String() string
}

// TagExpression matches scenarios carrying Name.
type TagExpression struct {
	Name string
}

// NotExpression negates Operand.
type NotExpression struct {
	Operand Node
}

// BinaryExpression joins Left and Right with "and" or "or".
type BinaryExpression struct {
	Left     Node
	Right    Node
	Operator string
}

// Operator precedence levels
const (
	_ int = iota
	DISJUNCTION // or
	CONJUNCTION // and
	PREFIX      // not
	ATOM
)

var precedences = map[tokenType]int{
	OR:  DISJUNCTION,
	AND: CONJUNCTION,
	NOT: PREFIX,
}

func precedenceOf(n Node) int {
	switch n := n.(type) {
	case *NotExpression:
		return PREFIX
	case *BinaryExpression:
		if n.Operator == "and" {
			return CONJUNCTION
		}
		return DISJUNCTION
	default:
		return ATOM
	}
}

func (t *TagExpression) expressionNode() {}
func (t *TagExpression) String() string  { return t.Name }

func (n *NotExpression) expressionNode() {}
func (n *NotExpression) String() string {
	return "not " + wrap(n.Operand, precedenceOf(n.Operand) < PREFIX)
}

func (b *BinaryExpression) expressionNode() {}

// String parenthesizes only where needed. Operators are left-associative, so
// a right operand of equal precedence keeps its parentheses.
func (b *BinaryExpression) String() string {
	p := precedenceOf(b)
	return wrap(b.Left, precedenceOf(b.Left) < p) + " " + b.Operator + " " + wrap(b.Right, precedenceOf(b.Right) <= p)
}

func wrap(n Node, paren bool) string {
	if paren {
		return "(" + n.String() + ")"
	}
	return n.String()
}
