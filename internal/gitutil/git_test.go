package gitutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParsePorcelain tests parsing of XY path status lines
func TestParsePorcelain(t *testing.T) {
	out := " M tags/Line1/config.json\n" +
		"A  queries/downtime.sql\n" +
		"?? scripts/gateway/new_handler.py\n" +
		"\n"

	entries := ParsePorcelain(out)
	require.Len(t, entries, 3)

	assert.Equal(t, StatusEntry{Status: "M", File: "tags/Line1/config.json"}, entries[0])
	assert.Equal(t, StatusEntry{Status: "A", File: "queries/downtime.sql"}, entries[1])
	assert.Equal(t, StatusEntry{Status: "??", File: "scripts/gateway/new_handler.py"}, entries[2])
}

// TestParsePorcelainEmpty tests that a clean tree parses to no entries
func TestParsePorcelainEmpty(t *testing.T) {
	assert.Empty(t, ParsePorcelain(""))
	assert.Empty(t, ParsePorcelain("\n"))
}

// TestIsRepository tests metadata-directory detection
func TestIsRepository(t *testing.T) {
	dir := t.TempDir()
	g := NewCLI()

	assert.False(t, g.IsRepository(dir))

	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	assert.True(t, g.IsRepository(dir))
}

// TestIsRepositoryIgnoresPlainFile tests that a .git file does not count
func TestIsRepositoryIgnoresPlainFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: elsewhere"), 0o644))
	assert.False(t, NewCLI().IsRepository(dir))
}
