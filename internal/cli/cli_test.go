package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/linkstash/internal/enricher"
	"github.com/dshills/linkstash/pkg/types"
)

// execute runs the root command with args against a throwaway database
func execute(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LINKSTASH_STORAGE_PATH", dbPath)
	t.Setenv("LINKSTASH_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, ":memory:", "version", "--json")
	require.NoError(t, err)

	var info BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.Driver)
}

func TestNoteLifecycle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "linkstash.db")

	out, err := execute(t, dbPath, "save", "--owner", "7", "--url", "https://react.dev/learn", "react", "reading", "list")
	require.NoError(t, err)

	var note types.Note
	require.NoError(t, json.Unmarshal([]byte(out), &note))
	require.NotEmpty(t, note.ID)
	assert.Equal(t, "react reading list", note.Content)
	require.Len(t, note.Links, 1)

	out, err = execute(t, dbPath, "search", "--owner", "7", "--kind", "notes", "reactt")
	require.NoError(t, err)
	var page types.SearchResultPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Equal(t, 1, page.TotalCount)
	assert.Equal(t, note.ID, page.Items[0].ID)

	// Other owners see nothing
	out, err = execute(t, dbPath, "search", "--owner", "8", "reactt")
	require.NoError(t, err)
	var unified types.UnifiedResultPage
	require.NoError(t, json.Unmarshal([]byte(out), &unified))
	assert.Equal(t, 0, unified.TotalCount)

	// Delete requires archive first
	_, err = execute(t, dbPath, "delete", note.ID)
	assert.ErrorIs(t, err, types.ErrNoteNotArchived)

	_, err = execute(t, dbPath, "archive", note.ID)
	require.NoError(t, err)

	out, err = execute(t, dbPath, "search", "--owner", "7", "--kind", "notes", "reactt")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 0, page.TotalCount)

	_, err = execute(t, dbPath, "delete", note.ID)
	require.NoError(t, err)

	_, err = execute(t, dbPath, "unarchive", note.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSearchCmd_Errors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "linkstash.db")

	_, err := execute(t, dbPath, "search", "--owner", "1", "--kind", "everything", "go")
	assert.Error(t, err)

	_, err = execute(t, dbPath, "search", "--owner", "1", "--page", "0", "go")
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = execute(t, dbPath, "search", "go")
	assert.Error(t, err, "owner flag is required")
}

func TestSaveCmd_InvalidURL(t *testing.T) {
	_, err := execute(t, filepath.Join(t.TempDir(), "linkstash.db"), "save", "--owner", "1", "--url", "ftp://example.com", "files")
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestEnrichAndStatusCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "linkstash.db")

	_, err := execute(t, dbPath, "save", "--owner", "3", "just text")
	require.NoError(t, err)

	out, err := execute(t, dbPath, "enrich")
	require.NoError(t, err)
	var stats enricher.Statistics
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 0, stats.LinksProcessed)

	out, err = execute(t, dbPath, "status", "--owner", "3")
	require.NoError(t, err)
	assert.Contains(t, out, `"ActiveNotes": 1`)
}
