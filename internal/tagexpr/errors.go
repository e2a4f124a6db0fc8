package tagexpr

import "fmt"

// Error reports an invalid tag expression. Position is the byte offset of the
// offending token, or -1 when the problem is not tied to one token.
type Error struct {
	Message    string
	Position   int
	Expression string
}

func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("invalid tag expression %q: %s at position %d", e.Expression, e.Message, e.Position)
	}
	return fmt.Sprintf("invalid tag expression %q: %s", e.Expression, e.Message)
}

func newError(expr string, pos int, format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...), Position: pos, Expression: expr}
}
