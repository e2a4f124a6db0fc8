package tagexpr

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var tagPattern = regexp.MustCompile(`^@[A-Za-z0-9_-]+$`)

type tokenType int

const (
	TAG tokenType = iota
	AND
	OR
	NOT
	LPAREN
	RPAREN
)

type token struct {
	typ      tokenType
	literal  string
	position int
}

// tokenize splits expr into tokens. Parentheses are always separate tokens
// and must balance. Bare words are read as tags, so "smoke" means "@smoke".
func tokenize(expr string) ([]token, error) {
	var (
		tokens []token
		opens  []int // positions of unmatched '('
	)

	i := 0
	for i < len(expr) {
		ch, size := utf8.DecodeRuneInString(expr[i:])
		switch {
		case unicode.IsSpace(ch):
			i += size
		case ch == '(':
			tokens = append(tokens, token{typ: LPAREN, literal: "(", position: i})
			opens = append(opens, i)
			i++
		case ch == ')':
			if len(opens) == 0 {
				return nil, newError(expr, i, "unmatched ')'")
			}
			opens = opens[:len(opens)-1]
			tokens = append(tokens, token{typ: RPAREN, literal: ")", position: i})
			i++
		default:
			start := i
			for i < len(expr) {
				r, n := utf8.DecodeRuneInString(expr[i:])
				if isSeparator(r) {
					break
				}
				i += n
			}
			tok, err := readWord(expr, expr[start:i], start)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
	}

	if len(opens) > 0 {
		return nil, newError(expr, opens[len(opens)-1], "unmatched '(', missing ')'")
	}
	return tokens, nil
}

func readWord(expr, word string, pos int) (token, error) {
	switch strings.ToLower(word) {
	case "and":
		return token{typ: AND, literal: "and", position: pos}, nil
	case "or":
		return token{typ: OR, literal: "or", position: pos}, nil
	case "not":
		return token{typ: NOT, literal: "not", position: pos}, nil
	}

	if !strings.HasPrefix(word, "@") {
		word = "@" + word
	}
	if !tagPattern.MatchString(word) {
		return token{}, newError(expr, pos, "invalid tag %q, tags match @[A-Za-z0-9_-]+", word)
	}
	return token{typ: TAG, literal: word, position: pos}, nil
}

func isSeparator(ch rune) bool {
	return ch == '(' || ch == ')' || unicode.IsSpace(ch)
}
