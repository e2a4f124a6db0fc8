package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftc/internal/db"
	"github.com/chriserin/ftc/internal/tagexpr"
	"github.com/chriserin/ftc/internal/ui"
)

var listTagsFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), listTagsFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&listTagsFlag, "tags", "", "Tag expression, e.g. \"@smoke and not @wip\"")
	rootCmd.AddCommand(listCmd)
}

func RunList(w io.Writer, tags string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	filter, err := tagexpr.Parse(filterFor(cfg, tags))
	if err != nil {
		return fmt.Errorf("invalid tag filter: %w", err)
	}

	sqlDB, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	all, err := db.ListScenarios(sqlDB)
	if err != nil {
		return err
	}

	var results []db.Scenario
	for _, sc := range all {
		if filter.Evaluate(sc.Tags) {
			results = append(results, sc)
		}
	}
	if len(results) == 0 {
		return nil
	}

	// Compute column widths
	idWidth, fileWidth, nameWidth := 0, 0, 0
	for _, r := range results {
		tag := fmt.Sprintf("@ft:%d", r.ID)
		if len(tag) > idWidth {
			idWidth = len(tag)
		}
		if n := len(filepath.Base(r.FilePath)); n > fileWidth {
			fileWidth = n
		}
		if len(r.Name) > nameWidth {
			nameWidth = len(r.Name)
		}
	}

	for _, r := range results {
		ui.ListRow(w, r.ID, filepath.Base(r.FilePath), r.Name, r.Tags, idWidth, fileWidth, nameWidth)
	}

	return nil
}
