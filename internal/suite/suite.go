// Package suite drives the full pipeline: text is lexed, parsed, validated,
// expanded and filtered into the ordered list of scenarios to execute.
package suite

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/chriserin/ftc/internal/outline"
	"github.com/chriserin/ftc/internal/parser"
	"github.com/chriserin/ftc/internal/source"
	"github.com/chriserin/ftc/internal/tagexpr"
	"github.com/chriserin/ftc/internal/validate"
)

// Scenario is one executable scenario. Steps start with the Background steps
// of its Feature.
type Scenario struct {
	URI         string
	Feature     string
	Name        string
	Tags        []string
	Steps       []*parser.Step
	Line        int
	OutlineLine int // 0 unless expanded from an outline
	Parameters  map[string]string
}

type Options struct {
	Parser       parser.Options
	MaxScenarios int
	// Filter is a tag expression; blank selects every scenario.
	Filter string
}

func DefaultOptions() Options {
	return Options{Parser: parser.DefaultOptions(), MaxScenarios: outline.DefaultMaxScenarios}
}

// Result is the outcome of compiling one file.
type Result struct {
	Feature   *parser.Feature
	Issues    []validate.Issue
	Warnings  []outline.Warning
	Scenarios []Scenario
}

// Compiler runs the pipeline. It is safe to reuse across files.
type Compiler struct {
	parser   *parser.Parser
	expander *outline.Expander
	filter   *tagexpr.Expression
	log      logrus.FieldLogger
}

// NewCompiler compiles the tag filter up front so a bad filter fails before
// any file is read.
func NewCompiler(opts Options, logger logrus.FieldLogger) (*Compiler, error) {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	filter, err := tagexpr.Parse(opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("invalid tag filter: %w", err)
	}
	return &Compiler{
		parser:   parser.New(opts.Parser),
		expander: outline.NewExpander(logger, opts.MaxScenarios),
		filter:   filter,
		log:      logger,
	}, nil
}

// Filter returns the compiled tag filter.
func (c *Compiler) Filter() *tagexpr.Expression { return c.filter }

// Compile runs the pipeline over one file's text. A feature with
// error-severity issues is rejected; the Result still carries the issues.
func (c *Compiler) Compile(text, uri string) (*Result, error) {
	log := c.log.WithField("file", uri)

	f, err := c.parser.ParseSource(text, uri)
	if err != nil {
		return nil, err
	}
	res := &Result{Feature: f, Issues: validate.Feature(f)}
	for _, is := range res.Issues {
		if is.Severity == validate.SeverityWarning {
			log.WithField("line", is.Line).Warn(is.Message)
		}
	}
	if err := validate.Err(res.Issues); err != nil {
		return res, fmt.Errorf("%s: invalid feature: %w", uri, err)
	}

	for _, sc := range f.Scenarios {
		concrete := []*parser.Scenario{sc}
		if sc.Type == parser.TypeOutline {
			expanded, warnings, err := c.expander.Expand(sc)
			if err != nil {
				return res, fmt.Errorf("%s: %w", uri, err)
			}
			concrete = expanded
			res.Warnings = append(res.Warnings, warnings...)
		}
		for _, cs := range concrete {
			s := flatten(f, cs)
			if c.filter.Evaluate(s.Tags) {
				res.Scenarios = append(res.Scenarios, s)
			}
		}
	}

	log.WithField("scenarios", len(res.Scenarios)).Debug("compiled")
	return res, nil
}

// CompileAll compiles files in order. A file that fails is logged, skipped
// and reported in the returned error; the other files still contribute.
func (c *Compiler) CompileAll(files []source.File) ([]Scenario, error) {
	var (
		out    []Scenario
		result *multierror.Error
	)
	for _, file := range files {
		res, err := c.Compile(file.Text, file.Path)
		if err != nil {
			c.log.WithField("file", file.Path).Error(err)
			result = multierror.Append(result, err)
			continue
		}
		out = append(out, res.Scenarios...)
	}
	return out, result.ErrorOrNil()
}

func flatten(f *parser.Feature, sc *parser.Scenario) Scenario {
	var steps []*parser.Step
	if f.Background != nil {
		steps = append(steps, parser.CloneSteps(f.Background.Steps)...)
	}
	steps = append(steps, sc.Steps...)

	return Scenario{
		URI:         f.URI,
		Feature:     f.Name,
		Name:        sc.Name,
		Tags:        mergeTags(f.Tags, sc.Tags),
		Steps:       steps,
		Line:        sc.Line,
		OutlineLine: sc.OutlineLine,
		Parameters:  sc.Parameters,
	}
}

func mergeTags(lists ...[]string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, list := range lists {
		for _, tag := range list {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out
}
