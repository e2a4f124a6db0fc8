package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftc/internal/suite"
	"github.com/chriserin/ftc/internal/table"
	"github.com/chriserin/ftc/internal/ui"
)

var (
	compileTagsFlag  string
	compileJSONFlag  bool
	compileTableFlag string
)

var compileCmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Print the scenarios selected by the tag filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunCompile(cmd.OutOrStdout(), args, compileTagsFlag, compileJSONFlag, compileTableFlag)
	},
}

func init() {
	compileCmd.Flags().StringVar(&compileTagsFlag, "tags", "", "Tag expression, e.g. \"@smoke and not @wip\"")
	compileCmd.Flags().BoolVar(&compileJSONFlag, "json", false, "Print scenarios as JSON")
	compileCmd.Flags().StringVar(&compileTableFlag, "table", "arrays", "Data table shape in JSON output: "+strings.Join(table.NewRegistry().Names(), ", "))
	rootCmd.AddCommand(compileCmd)
}

type scenarioJSON struct {
	URI         string            `json:"uri"`
	Feature     string            `json:"feature"`
	Name        string            `json:"name"`
	Line        int               `json:"line"`
	OutlineLine int               `json:"outline_line,omitempty"`
	Tags        []string          `json:"tags"`
	Steps       []stepJSON        `json:"steps"`
	Parameters  map[string]string `json:"parameters,omitempty"`
}

type stepJSON struct {
	Keyword     string `json:"keyword"`
	Text        string `json:"text"`
	Line        int    `json:"line"`
	DataTable   any    `json:"data_table,omitempty"`
	DocString   string `json:"doc_string,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// RunCompile compiles files, or every discovered file when none are named.
// Files that fail are reported and skipped; the error lists them.
func RunCompile(w io.Writer, files []string, tags string, asJSON bool, tableShape string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	compiler, err := newCompiler(cfg, filterFor(cfg, tags))
	if err != nil {
		return err
	}
	sources, err := discover(cfg, files...)
	if err != nil {
		return err
	}

	scenarios, compileErr := compiler.CompileAll(sources)

	if asJSON {
		out, err := toJSON(scenarios, table.NewRegistry(), tableShape)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding scenarios: %w", err)
		}
		return compileErr
	}

	for i, sc := range scenarios {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# %s:%d\n", sc.URI, sc.Line)
		ui.ShowGherkin(w, suite.Render(sc))
	}
	return compileErr
}

func toJSON(scenarios []suite.Scenario, registry *table.Registry, shape string) ([]scenarioJSON, error) {
	out := make([]scenarioJSON, 0, len(scenarios))
	for _, sc := range scenarios {
		steps := make([]stepJSON, 0, len(sc.Steps))
		for _, st := range sc.Steps {
			sj := stepJSON{Keyword: st.Keyword, Text: st.Text, Line: st.Line}
			if st.DataTable != nil {
				v, err := registry.Transform(shape, st.DataTable)
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", sc.URI, st.Line, err)
				}
				sj.DataTable = v
			}
			if st.DocString != nil {
				sj.DocString = st.DocString.Content
				sj.ContentType = st.DocString.ContentType
			}
			steps = append(steps, sj)
		}
		out = append(out, scenarioJSON{
			URI:         sc.URI,
			Feature:     sc.Feature,
			Name:        sc.Name,
			Line:        sc.Line,
			OutlineLine: sc.OutlineLine,
			Tags:        sc.Tags,
			Steps:       steps,
			Parameters:  sc.Parameters,
		})
	}
	return out, nil
}
