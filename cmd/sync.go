package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/chriserin/ftc/internal/config"
	"github.com/chriserin/ftc/internal/db"
	"github.com/chriserin/ftc/internal/source"
	"github.com/chriserin/ftc/internal/suite"
	"github.com/chriserin/ftc/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Compile every feature file and refresh the scenario catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func RunSync(w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sqlDB, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	files, err := discover(cfg)
	if err != nil {
		return err
	}
	// The catalog holds every scenario; filters apply at list time.
	compiler, err := newCompiler(cfg, "")
	if err != nil {
		return err
	}

	tx, err := sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("beginning sync: %w", err)
	}
	defer tx.Rollback()

	var (
		failures  *multierror.Error
		present   = map[string]bool{}
		fileCount int
		scCount   int
	)
	for _, file := range files {
		present[file.Path] = true
		res, err := compiler.Compile(file.Text, file.Path)
		if err != nil {
			// Keep the previous catalog rows for a file that no longer compiles.
			ui.ErrLine(w, file.Path, err)
			failures = multierror.Append(failures, err)
			continue
		}
		created, err := syncFile(tx, file.Path, res)
		if err != nil {
			return err
		}
		if created {
			ui.NewLine(w, file.Path, len(res.Scenarios))
		} else {
			ui.TrkLine(w, file.Path, len(res.Scenarios))
		}
		fileCount++
		scCount += len(res.Scenarios)
	}

	removed, err := db.RemoveMissingFiles(tx, present)
	if err != nil {
		return err
	}
	for _, path := range removed {
		ui.DelLine(w, path)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sync: %w", err)
	}
	ui.SummaryLine(w, fileCount, scCount)
	return failures.ErrorOrNil()
}

func syncFile(tx *sql.Tx, path string, res *suite.Result) (bool, error) {
	fileID, created, err := db.FileID(tx, path, res.Feature.Name)
	if err != nil {
		return false, err
	}
	rows := make([]db.Scenario, 0, len(res.Scenarios))
	for _, sc := range res.Scenarios {
		rows = append(rows, db.Scenario{
			Name:        sc.Name,
			Line:        sc.Line,
			OutlineLine: sc.OutlineLine,
			Content:     suite.Render(sc),
			Tags:        sc.Tags,
		})
	}
	if err := db.ReplaceScenarios(tx, fileID, rows); err != nil {
		return false, err
	}
	return created, nil
}

// openCatalog opens the catalog, failing when init has not run.
func openCatalog(cfg *config.Config) (*sql.DB, error) {
	if _, err := os.Stat(cfg.FeaturesDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("run `ftc init` first")
	}
	sqlDB, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return sqlDB, nil
}

// discover loads the feature files selected by cfg, or the named files
// when any are given.
func discover(cfg *config.Config, names ...string) ([]source.File, error) {
	if len(names) > 0 {
		files := make([]source.File, 0, len(names))
		for _, name := range names {
			f, err := source.ReadFile(name)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
		return files, nil
	}

	loader, err := source.NewLoader(cfg.FeaturesDir, cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}
