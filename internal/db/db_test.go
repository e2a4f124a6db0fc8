package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openCatalog(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := Open(filepath.Join(t.TempDir(), "ftc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB
}

func inTx(t *testing.T, sqlDB *sql.DB, fn func(tx *sql.Tx)) {
	t.Helper()
	tx, err := sqlDB.Begin()
	require.NoError(t, err)
	fn(tx)
	require.NoError(t, tx.Commit())
}

func TestOpen_WALAndForeignKeys(t *testing.T) {
	sqlDB := openCatalog(t)

	var mode string
	require.NoError(t, sqlDB.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, sqlDB.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ftc.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	var version int
	require.NoError(t, second.QueryRow(`SELECT version FROM schema_version`).Scan(&version))
	assert.Equal(t, len(All), version)
}

func TestFileID_CreatesOnce(t *testing.T) {
	sqlDB := openCatalog(t)

	var firstID, secondID int64
	inTx(t, sqlDB, func(tx *sql.Tx) {
		id, created, err := FileID(tx, "features/login.feature", "Login")
		require.NoError(t, err)
		assert.True(t, created)
		firstID = id
	})
	inTx(t, sqlDB, func(tx *sql.Tx) {
		id, created, err := FileID(tx, "features/login.feature", "Sign in")
		require.NoError(t, err)
		assert.False(t, created)
		secondID = id
	})
	assert.Equal(t, firstID, secondID)

	var feature string
	require.NoError(t, sqlDB.QueryRow(`SELECT feature FROM files WHERE id = ?`, firstID).Scan(&feature))
	assert.Equal(t, "Sign in", feature)
}

func TestReplaceScenarios_KeepsIDsByLine(t *testing.T) {
	sqlDB := openCatalog(t)

	var fileID int64
	inTx(t, sqlDB, func(tx *sql.Tx) {
		var err error
		fileID, _, err = FileID(tx, "a.feature", "A")
		require.NoError(t, err)
		require.NoError(t, ReplaceScenarios(tx, fileID, []Scenario{
			{Name: "one", Line: 2, Content: "Scenario: one", Tags: []string{"@a", "@b"}},
			{Name: "two", Line: 5, Content: "Scenario: two"},
		}))
	})

	before, err := ListScenarios(sqlDB)
	require.NoError(t, err)
	require.Len(t, before, 2)
	assert.Equal(t, []string{"@a", "@b"}, before[0].Tags)
	assert.Equal(t, "A", before[0].Feature)

	inTx(t, sqlDB, func(tx *sql.Tx) {
		require.NoError(t, ReplaceScenarios(tx, fileID, []Scenario{
			{Name: "one renamed", Line: 2, Content: "Scenario: one renamed", Tags: []string{"@c"}},
		}))
	})

	after, err := ListScenarios(sqlDB)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, "one renamed", after[0].Name)
	assert.Equal(t, []string{"@c"}, after[0].Tags)

	inTx(t, sqlDB, func(tx *sql.Tx) {
		require.NoError(t, ReplaceScenarios(tx, fileID, nil))
	})
	empty, err := ListScenarios(sqlDB)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRemoveMissingFiles(t *testing.T) {
	sqlDB := openCatalog(t)
	inTx(t, sqlDB, func(tx *sql.Tx) {
		for _, path := range []string{"a.feature", "b.feature"} {
			id, _, err := FileID(tx, path, path)
			require.NoError(t, err)
			require.NoError(t, ReplaceScenarios(tx, id, []Scenario{{Name: "s", Line: 2, Tags: []string{"@x"}}}))
		}
	})

	inTx(t, sqlDB, func(tx *sql.Tx) {
		removed, err := RemoveMissingFiles(tx, map[string]bool{"a.feature": true})
		require.NoError(t, err)
		assert.Equal(t, []string{"b.feature"}, removed)
	})

	list, err := ListScenarios(sqlDB)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a.feature", list[0].FilePath)

	var tags int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM scenario_tags`).Scan(&tags))
	assert.Equal(t, 1, tags)
}

func TestGetScenario(t *testing.T) {
	sqlDB := openCatalog(t)
	inTx(t, sqlDB, func(tx *sql.Tx) {
		id, _, err := FileID(tx, "a.feature", "A")
		require.NoError(t, err)
		require.NoError(t, ReplaceScenarios(tx, id, []Scenario{
			{Name: "row", Line: 9, OutlineLine: 3, Content: "Scenario: row", Tags: []string{"@z", "@y"}},
		}))
	})

	sc, err := GetScenario(sqlDB, 1)
	require.NoError(t, err)
	assert.Equal(t, "row", sc.Name)
	assert.Equal(t, 9, sc.Line)
	assert.Equal(t, 3, sc.OutlineLine)
	assert.Equal(t, []string{"@z", "@y"}, sc.Tags)
	assert.Equal(t, "a.feature", sc.FilePath)

	_, err = GetScenario(sqlDB, 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
