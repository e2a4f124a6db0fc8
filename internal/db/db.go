// Package db holds the scenario catalog: an SQLite file listing the
// scenarios each feature file compiles to.
package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite"
)

// Open opens or creates the catalog at path in WAL mode with foreign keys
// enforced, and brings its schema up to date.
func Open(path string) (*sql.DB, error) {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")

	sqlDB, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

// Scenario is one catalog row.
type Scenario struct {
	ID          int64
	FilePath    string
	Feature     string
	Name        string
	Line        int
	OutlineLine int
	Content     string
	Tags        []string
}

// FileID returns the id of path, inserting the file when it is new.
func FileID(tx *sql.Tx, path, feature string) (id int64, created bool, err error) {
	err = tx.QueryRow(`SELECT id FROM files WHERE file_path = ?`, path).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.Exec(`INSERT INTO files (file_path, feature) VALUES (?, ?)`, path, feature)
		if err != nil {
			return 0, false, fmt.Errorf("inserting %s: %w", path, err)
		}
		id, err = res.LastInsertId()
		return id, true, err
	case err != nil:
		return 0, false, fmt.Errorf("querying %s: %w", path, err)
	}
	if _, err := tx.Exec(`UPDATE files SET feature = ?, updated_at = datetime('now') WHERE id = ?`, feature, id); err != nil {
		return 0, false, fmt.Errorf("updating %s: %w", path, err)
	}
	return id, false, nil
}

// ReplaceScenarios makes the catalog rows of fileID match scenarios. Rows
// are keyed by line, so unchanged scenarios keep their ids.
func ReplaceScenarios(tx *sql.Tx, fileID int64, scenarios []Scenario) error {
	keep := make([]any, 0, len(scenarios)+1)
	keep = append(keep, fileID)
	for _, sc := range scenarios {
		var id int64
		err := tx.QueryRow(`
			INSERT INTO scenarios (file_id, name, line, outline_line, content)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (file_id, line) DO UPDATE SET
				name = excluded.name,
				outline_line = excluded.outline_line,
				content = excluded.content,
				updated_at = datetime('now')
			RETURNING id
		`, fileID, sc.Name, sc.Line, sc.OutlineLine, sc.Content).Scan(&id)
		if err != nil {
			return fmt.Errorf("saving scenario %q: %w", sc.Name, err)
		}
		if _, err := tx.Exec(`DELETE FROM scenario_tags WHERE scenario_id = ?`, id); err != nil {
			return fmt.Errorf("clearing tags of %q: %w", sc.Name, err)
		}
		for i, tag := range sc.Tags {
			if _, err := tx.Exec(`INSERT INTO scenario_tags (scenario_id, tag, position) VALUES (?, ?, ?)`, id, tag, i); err != nil {
				return fmt.Errorf("tagging %q: %w", sc.Name, err)
			}
		}
		keep = append(keep, sc.Line)
	}

	query := `DELETE FROM scenarios WHERE file_id = ?`
	if len(keep) > 1 {
		query += ` AND line NOT IN (?` + strings.Repeat(",?", len(keep)-2) + `)`
	}
	if _, err := tx.Exec(query, keep...); err != nil {
		return fmt.Errorf("removing stale scenarios: %w", err)
	}
	return nil
}

// RemoveMissingFiles deletes files not in present, with their scenarios,
// and returns the removed paths.
func RemoveMissingFiles(tx *sql.Tx, present map[string]bool) ([]string, error) {
	rows, err := tx.Query(`SELECT id, file_path FROM files ORDER BY file_path`)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	var (
		ids     []int64
		removed []string
	)
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if !present[path] {
			ids = append(ids, id)
			removed = append(removed, path)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	for _, id := range ids {
		if _, err := tx.Exec(`DELETE FROM files WHERE id = ?`, id); err != nil {
			return nil, fmt.Errorf("removing file %d: %w", id, err)
		}
	}
	return removed, nil
}

// ListScenarios returns every catalogued scenario ordered by file path,
// then line.
func ListScenarios(sqlDB *sql.DB) ([]Scenario, error) {
	rows, err := sqlDB.Query(`
		SELECT s.id, f.file_path, f.feature, s.name, s.line, s.outline_line, s.content
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		ORDER BY f.file_path, s.line
	`)
	if err != nil {
		return nil, fmt.Errorf("querying scenarios: %w", err)
	}
	defer rows.Close()

	var out []Scenario
	index := map[int64]int{}
	for rows.Next() {
		var sc Scenario
		if err := rows.Scan(&sc.ID, &sc.FilePath, &sc.Feature, &sc.Name, &sc.Line, &sc.OutlineLine, &sc.Content); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		index[sc.ID] = len(out)
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	tagRows, err := sqlDB.Query(`SELECT scenario_id, tag FROM scenario_tags ORDER BY scenario_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var id int64
		var tag string
		if err := tagRows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		if i, ok := index[id]; ok {
			out[i].Tags = append(out[i].Tags, tag)
		}
	}
	return out, tagRows.Err()
}

// GetScenario returns the scenario with id, or sql.ErrNoRows.
func GetScenario(sqlDB *sql.DB, id int64) (*Scenario, error) {
	sc := &Scenario{ID: id}
	err := sqlDB.QueryRow(`
		SELECT f.file_path, f.feature, s.name, s.line, s.outline_line, s.content
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		WHERE s.id = ?
	`, id).Scan(&sc.FilePath, &sc.Feature, &sc.Name, &sc.Line, &sc.OutlineLine, &sc.Content)
	if err != nil {
		return nil, err
	}

	rows, err := sqlDB.Query(`SELECT tag FROM scenario_tags WHERE scenario_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		sc.Tags = append(sc.Tags, tag)
	}
	return sc, rows.Err()
}
