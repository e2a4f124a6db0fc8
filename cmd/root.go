package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chriserin/ftc/internal/config"
	"github.com/chriserin/ftc/internal/parser"
	"github.com/chriserin/ftc/internal/suite"
)

var (
	configPath  string
	verboseFlag bool

	logger = newLogger()
)

var rootCmd = &cobra.Command{
	Use:           "ftc",
	Short:         "ftc compiles Gherkin features into executable scenarios",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetOutput(cmd.ErrOrStderr())
		if verboseFlag {
			logger.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.FileName, "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log debug output")
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// newCompiler builds the pipeline from cfg with filter as the tag filter.
func newCompiler(cfg *config.Config, filter string) (*suite.Compiler, error) {
	opts := suite.DefaultOptions()
	opts.Parser = parser.DefaultOptions()
	opts.Parser.StrictKeywords = cfg.StrictKeywords
	opts.Parser.DocString.Format = cfg.FormatsDocStrings()
	opts.MaxScenarios = cfg.MaxExamples
	opts.Filter = filter
	return suite.NewCompiler(opts, logger)
}

// filterFor returns the --tags value, or the configured filter when the
// flag is blank.
func filterFor(cfg *config.Config, flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Tags
}
