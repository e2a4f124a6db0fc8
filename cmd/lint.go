package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftc/internal/lexer"
	"github.com/chriserin/ftc/internal/parser"
	"github.com/chriserin/ftc/internal/ui"
	"github.com/chriserin/ftc/internal/validate"
)

var lintCmd = &cobra.Command{
	Use:   "lint [files...]",
	Short: "Report structural problems in feature files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunLint(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

// RunLint prints parse errors and validator issues for each file. It fails
// when any file has an error-severity problem.
func RunLint(w io.Writer, files []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sources, err := discover(cfg, files...)
	if err != nil {
		return err
	}

	opts := parser.DefaultOptions()
	opts.StrictKeywords = cfg.StrictKeywords
	opts.DocString.Format = false
	p := parser.New(opts)

	var errCount, warnCount int
	for _, file := range sources {
		f, err := p.ParseSource(file.Text, file.Path)
		if err != nil {
			line := 0
			var (
				perr *parser.ParseError
				lerr *lexer.LexError
			)
			switch {
			case errors.As(err, &perr):
				line, err = perr.Line, errors.New(perr.Message)
			case errors.As(err, &lerr):
				line, err = lerr.Line, errors.New(lerr.Message)
			}
			ui.IssueLine(w, file.Path, line, string(validate.SeverityError), err.Error())
			errCount++
			continue
		}
		for _, is := range validate.Feature(f) {
			ui.IssueLine(w, file.Path, is.Line, string(is.Severity), is.Message)
			if is.Severity == validate.SeverityError {
				errCount++
			} else {
				warnCount++
			}
		}
	}

	fmt.Fprintf(w, "%d files, %d errors, %d warnings\n", len(sources), errCount, warnCount)
	if errCount > 0 {
		return fmt.Errorf("lint found %d errors", errCount)
	}
	return nil
}
