package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftc/internal/db"
	"github.com/chriserin/ftc/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a catalogued scenario by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, rawID string) error {
	// Strip @ft: prefix if present
	rawID = strings.TrimPrefix(rawID, "@ft:")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid scenario ID: %s", rawID)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sqlDB, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	sc, err := db.GetScenario(sqlDB, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("scenario %d not found", id)
	}
	if err != nil {
		return err
	}

	ui.ShowHeader(w, sc.ID, filepath.Base(sc.FilePath), sc.Line)
	fmt.Fprintf(w, "Feature: %s\n", sc.Feature)
	if sc.OutlineLine > 0 {
		fmt.Fprintf(w, "Outline: line %d\n", sc.OutlineLine)
	}
	fmt.Fprintln(w)
	ui.ShowGherkin(w, sc.Content)

	return nil
}
