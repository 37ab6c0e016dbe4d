package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTestZip builds a small archive with a nested directory layout and
// returns its path.
func writeTestZip(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.zip")

	out, err := os.Create(path)
	require.NoError(t, err)

	writer := zip.NewWriter(out)
	for name, contents := range entries {
		var entry io.Writer

		entry, err = writer.Create(name)
		require.NoError(t, err)

		_, err = entry.Write([]byte(contents))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	require.NoError(t, out.Close())

	return path
}

// TestExtractZip_PreservesStructure verifies nested entries land in matching
// subdirectories under the destination.
func TestExtractZip_PreservesStructure(t *testing.T) {
	t.Parallel()

	src := writeTestZip(t, map[string]string{
		"ringgem-master/Taskfile.yaml":          "version: '3'\n",
		"ringgem-master/scripts/install.sh":     "#!/bin/sh\n",
		"ringgem-master/docs/nested/README.txt": "hello\n",
	})

	dest := t.TempDir()
	require.NoError(t, ExtractZip(src, dest))

	contents, err := os.ReadFile(filepath.Join(dest, "ringgem-master", "Taskfile.yaml"))
	require.NoError(t, err)
	require.Equal(t, "version: '3'\n", string(contents))

	require.FileExists(t, filepath.Join(dest, "ringgem-master", "scripts", "install.sh"))
	require.FileExists(t, filepath.Join(dest, "ringgem-master", "docs", "nested", "README.txt"))
}

// TestExtractZip_CreatesDestination verifies missing destination parents are created.
func TestExtractZip_CreatesDestination(t *testing.T) {
	t.Parallel()

	src := writeTestZip(t, map[string]string{"a.txt": "a"})
	dest := filepath.Join(t.TempDir(), "deep", "nested", "target")

	require.NoError(t, ExtractZip(src, dest))
	require.FileExists(t, filepath.Join(dest, "a.txt"))
}

// TestExtractZip_RejectsEscapingEntries verifies the traversal guard.
func TestExtractZip_RejectsEscapingEntries(t *testing.T) {
	t.Parallel()

	src := writeTestZip(t, map[string]string{"../evil.txt": "nope"})
	dest := t.TempDir()

	err := ExtractZip(src, dest)
	require.ErrorIs(t, err, errUnsafePath)
	require.NoFileExists(t, filepath.Join(filepath.Dir(dest), "evil.txt"))
}

// TestExtractZip_MissingArchive verifies a helpful error for an absent source.
func TestExtractZip_MissingArchive(t *testing.T) {
	t.Parallel()

	err := ExtractZip(filepath.Join(t.TempDir(), "absent.zip"), t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "open archive")
}
