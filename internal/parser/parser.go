package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/chriserin/ftc/internal/docstring"
	"github.com/chriserin/ftc/internal/lexer"
	"github.com/chriserin/ftc/internal/table"
)

var tagPattern = regexp.MustCompile(`@[^@\s]+`)

// Options controls parsing of step arguments and keyword resolution.
type Options struct {
	// StrictKeywords rejects steps whose keyword cannot be resolved instead
	// of defaulting to Given.
	StrictKeywords bool
	Table          table.Options
	DocString      docstring.Options
}

func DefaultOptions() Options {
	return Options{Table: table.DefaultOptions(), DocString: docstring.DefaultOptions()}
}

// Parser turns a token stream into a Feature. It holds no per-parse state and
// may be shared.
type Parser struct {
	opts Options
}

func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse parses tokens with the default options.
func Parse(tokens []lexer.Token, sourcePath string) (*Feature, error) {
	return New(DefaultOptions()).Parse(tokens, sourcePath)
}

// ParseSource tokenizes and parses text with the default options.
func ParseSource(text, sourcePath string) (*Feature, error) {
	return New(DefaultOptions()).ParseSource(text, sourcePath)
}

func (p *Parser) ParseSource(text, sourcePath string) (*Feature, error) {
	tokens, err := lexer.Tokenize(text, sourcePath)
	if err != nil {
		return nil, err
	}
	return p.Parse(tokens, sourcePath)
}

func (p *Parser) Parse(tokens []lexer.Token, sourcePath string) (*Feature, error) {
	s := &state{tokens: tokens, path: sourcePath, opts: p.opts}
	return s.parseFeature()
}

type state struct {
	tokens []lexer.Token
	pos    int
	path   string
	opts   Options
}

func (s *state) peek() *lexer.Token {
	if s.pos >= len(s.tokens) {
		return nil
	}
	return &s.tokens[s.pos]
}

func (s *state) errorAt(tok *lexer.Token, format string, args ...any) *ParseError {
	e := &ParseError{Message: fmt.Sprintf(format, args...), SourcePath: s.path, Line: 1, Column: 1}
	switch {
	case tok != nil:
		e.Line, e.Column = tok.Line, tok.Column
	case len(s.tokens) > 0:
		last := s.tokens[len(s.tokens)-1]
		e.Line, e.Column = last.Line, last.Column
	}
	return e
}

// skipBlank advances past empty lines and comments.
func (s *state) skipBlank() {
	for tok := s.peek(); tok != nil && (tok.Kind == lexer.Empty || tok.Kind == lexer.Comment); tok = s.peek() {
		s.pos++
	}
}

func (s *state) parseFeature() (*Feature, error) {
	f := &Feature{URI: s.path, Language: "en"}

	// Leading blanks and comments, one of which may declare the language.
	for tok := s.peek(); tok != nil && (tok.Kind == lexer.Empty || tok.Kind == lexer.Comment); tok = s.peek() {
		if tok.Keyword == "language" {
			f.Language = tok.Value
		}
		s.pos++
	}

	leadingTags := s.collectTags()

	if tok := s.peek(); tok != nil && tok.Kind == lexer.FeatureLine {
		f.Name = tok.Value
		f.Line = tok.Line
		f.Tags = leadingTags
		leadingTags = nil
		s.pos++
		f.Description = s.description()
	} else {
		// No Feature: line, use filename without extension
		f.Name = nameFromPath(s.path)
	}

	pending := leadingTags
	var pendingTok *lexer.Token
	for {
		s.skipBlank()
		tok := s.peek()
		if tok == nil {
			break
		}

		switch tok.Kind {
		case lexer.TagLine:
			if pendingTok == nil {
				pendingTok = tok
			}
			pending = append(pending, parseTags(tok.Value)...)
			s.pos++

		case lexer.BackgroundLine:
			if f.Background != nil {
				return nil, s.errorAt(tok, "multiple Background sections, only one is allowed")
			}
			if len(f.Scenarios) > 0 {
				return nil, s.errorAt(tok, "Background must come before the first Scenario")
			}
			// Background doesn't get tags
			pending, pendingTok = nil, nil
			bg, err := s.parseScenario(tok, nil)
			if err != nil {
				return nil, err
			}
			f.Background = bg

		case lexer.ScenarioLine, lexer.ScenarioOutlineLine:
			sc, err := s.parseScenario(tok, pending)
			if err != nil {
				return nil, err
			}
			pending, pendingTok = nil, nil
			f.Scenarios = append(f.Scenarios, sc)

		case lexer.RuleLine:
			return nil, s.errorAt(tok, "Rule is not supported")
		case lexer.FeatureLine:
			return nil, s.errorAt(tok, "multiple Feature sections, only one is allowed")
		case lexer.ExamplesLine:
			return nil, s.errorAt(tok, "Examples must follow a Scenario Outline")
		case lexer.StepLine:
			return nil, s.errorAt(tok, "step %q is outside of a Scenario or Background", tok.Value)
		case lexer.TableRow:
			return nil, s.errorAt(tok, "table row is not attached to a step")
		case lexer.DocString:
			return nil, s.errorAt(tok, "doc string is not attached to a step")
		default:
			return nil, s.errorAt(tok, "unexpected text %q", tok.Value)
		}
	}

	if pendingTok != nil {
		return nil, s.errorAt(pendingTok, "tags are not followed by a Scenario or Scenario Outline")
	}
	if len(f.Scenarios) == 0 {
		return nil, &ParseError{Message: "feature has no scenarios", SourcePath: s.path, Line: max(f.Line, 1), Column: 1}
	}
	return f, nil
}

// collectTags consumes tag lines and the blanks between them.
func (s *state) collectTags() []string {
	var tags []string
	for {
		s.skipBlank()
		tok := s.peek()
		if tok == nil || tok.Kind != lexer.TagLine {
			return tags
		}
		tags = append(tags, parseTags(tok.Value)...)
		s.pos++
	}
}

// description consumes free text following a keyword line.
func (s *state) description() string {
	var lines []string
	for tok := s.peek(); tok != nil; tok = s.peek() {
		switch tok.Kind {
		case lexer.Description:
			lines = append(lines, tok.Value)
		case lexer.Empty:
			if len(lines) > 0 {
				lines = append(lines, "")
			}
		case lexer.Comment:
		default:
			return joinDescription(lines)
		}
		s.pos++
	}
	return joinDescription(lines)
}

func joinDescription(lines []string) string {
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func (s *state) parseScenario(head *lexer.Token, tags []string) (*Scenario, error) {
	sc := &Scenario{
		Keyword: head.Keyword,
		Name:    head.Value,
		Tags:    tags,
		Line:    head.Line,
	}
	switch head.Kind {
	case lexer.BackgroundLine:
		sc.Type = TypeBackground
	case lexer.ScenarioOutlineLine:
		sc.Type = TypeOutline
	default:
		sc.Type = TypeScenario
	}
	headTok := *head
	s.pos++
	sc.Description = s.description()

	steps, err := s.parseSteps()
	if err != nil {
		return nil, err
	}
	if err := s.rejectRule(); err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, s.errorAt(&headTok, "%s %q has no steps", sc.Keyword, sc.Name)
	}
	sc.Steps = steps

	if sc.Type != TypeOutline {
		return sc, nil
	}

	for {
		s.skipBlank()
		tok := s.peek()
		if tok == nil {
			break
		}
		var exTags []string
		if tok.Kind == lexer.TagLine {
			if s.kindAfterTags() != lexer.ExamplesLine {
				break
			}
			exTags = s.collectTags()
			tok = s.peek()
		}
		if tok.Kind != lexer.ExamplesLine {
			break
		}
		ex, err := s.parseExamples(tok, exTags)
		if err != nil {
			return nil, err
		}
		sc.Examples = append(sc.Examples, ex)
	}
	if len(sc.Examples) == 0 {
		return nil, s.errorAt(&headTok, "Scenario Outline %q has no Examples", sc.Name)
	}
	return sc, nil
}

// rejectRule fails when the next significant line is a Rule.
func (s *state) rejectRule() error {
	for i := s.pos; i < len(s.tokens); i++ {
		switch s.tokens[i].Kind {
		case lexer.Empty, lexer.Comment:
			continue
		case lexer.RuleLine:
			return s.errorAt(&s.tokens[i], "Rule is not supported")
		}
		return nil
	}
	return nil
}

// kindAfterTags looks past the tag lines at the cursor to the kind of the
// line they annotate.
func (s *state) kindAfterTags() lexer.Kind {
	for i := s.pos; i < len(s.tokens); i++ {
		switch s.tokens[i].Kind {
		case lexer.TagLine, lexer.Empty, lexer.Comment:
			continue
		default:
			return s.tokens[i].Kind
		}
	}
	return lexer.Empty
}

func (s *state) parseSteps() ([]*Step, error) {
	var steps []*Step
	for {
		s.skipBlank()
		tok := s.peek()
		if tok == nil || tok.Kind != lexer.StepLine {
			return steps, nil
		}
		keyword, text, err := s.resolveKeyword(tok)
		if err != nil {
			return nil, err
		}
		step := &Step{Keyword: keyword, Text: text, Line: tok.Line}
		s.pos++

		if err := s.parseArgument(step); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
}

func (s *state) parseArgument(step *Step) error {
	tok := s.peek()
	if tok == nil {
		return nil
	}

	switch tok.Kind {
	case lexer.TableRow:
		rows, first := s.tableRows()
		dt, err := table.ParseTable(rows, first.Line, s.opts.Table)
		if err != nil {
			return s.argumentError(&first, err)
		}
		step.DataTable = dt
	case lexer.DocString:
		ds, err := docstring.Parse(tok.Lines, tok.Line, s.opts.DocString)
		if err != nil {
			return s.argumentError(tok, err)
		}
		step.DocString = ds
		s.pos++
	default:
		return nil
	}

	if next := s.peek(); next != nil && (next.Kind == lexer.TableRow || next.Kind == lexer.DocString) {
		return s.errorAt(next, "step %q already has an argument, a step takes one data table or one doc string", step.Text)
	}
	return nil
}

// tableRows consumes a contiguous run of table rows, allowing comments
// between them.
func (s *state) tableRows() ([]string, lexer.Token) {
	first := *s.peek()
	var rows []string
	for tok := s.peek(); tok != nil && (tok.Kind == lexer.TableRow || tok.Kind == lexer.Comment); tok = s.peek() {
		if tok.Kind == lexer.TableRow {
			rows = append(rows, tok.Value)
		}
		s.pos++
	}
	return rows, first
}

func (s *state) argumentError(at *lexer.Token, err error) *ParseError {
	pe := s.errorAt(at, "%s", err.Error())

	var tErr *table.Error
	var dErr *docstring.Error
	switch {
	case errors.As(err, &tErr):
		pe.Message = tErr.Message
		if tErr.Line > 0 {
			pe.Line = tErr.Line
		}
	case errors.As(err, &dErr):
		pe.Message = dErr.Message
		pe.Line = dErr.Line
	}
	return pe
}

func (s *state) parseExamples(head *lexer.Token, tags []string) (*Examples, error) {
	ex := &Examples{Name: head.Value, Tags: tags, Line: head.Line}
	s.pos++
	ex.Description = s.description()

	s.skipBlank()
	for tok := s.peek(); tok != nil && (tok.Kind == lexer.TableRow || tok.Kind == lexer.Comment); tok = s.peek() {
		if tok.Kind == lexer.Comment {
			s.pos++
			continue
		}
		cells, err := table.SplitRow(tok.Value, s.opts.Table)
		if err != nil {
			return nil, s.errorAt(tok, "%s", err.Error())
		}
		if ex.Header == nil {
			ex.Header = cells
			ex.HeaderLine = tok.Line
		} else {
			ex.Rows = append(ex.Rows, cells)
			ex.RowLines = append(ex.RowLines, tok.Line)
		}
		s.pos++
	}
	return ex, nil
}

func parseTags(line string) []string {
	var tags []string
	for _, field := range strings.Fields(line) {
		if strings.HasPrefix(field, "#") {
			break
		}
		tags = append(tags, tagPattern.FindAllString(field, -1)...)
	}
	return tags
}

func nameFromPath(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
