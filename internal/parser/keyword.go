package parser

import (
	"strings"

	"github.com/chriserin/ftc/internal/lexer"
)

// resolveKeyword prefers the keyword recorded by the lexer. Tokens built
// without one fall back to a case-insensitive prefix match on the text and
// finally to Given, unless StrictKeywords is set.
func (s *state) resolveKeyword(tok *lexer.Token) (string, string, error) {
	for _, kw := range lexer.StepKeywords {
		if strings.EqualFold(tok.Keyword, kw) {
			return kw, tok.Value, nil
		}
	}

	lower := strings.ToLower(tok.Value)
	for _, kw := range lexer.StepKeywords {
		if strings.HasPrefix(lower, strings.ToLower(kw)) {
			return kw, strings.TrimSpace(tok.Value[len(kw):]), nil
		}
	}

	if s.opts.StrictKeywords {
		return "", "", s.errorAt(tok, "cannot resolve step keyword for %q", tok.Value)
	}
	return "Given", tok.Value, nil
}
