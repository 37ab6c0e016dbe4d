package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDefault verifies the built-in configuration is complete and valid.
func TestDefault(t *testing.T) {
	t.Parallel()

	cfg, err := Default()
	require.NoError(t, err)

	require.NoError(t, Validate(cfg))
	require.Equal(t, os.TempDir(), cfg.WorkDir)
	require.True(t, strings.HasSuffix(cfg.DataDir, filepath.Join(".local", "share", AppName)))

	for _, u := range []string{cfg.URLs.TaskInstaller, cfg.URLs.Archive, cfg.URLs.ZipInstaller, cfg.URLs.Taskfile} {
		require.True(t, strings.HasPrefix(u, "https://"), "asset URL %q must be https", u)
	}
}

// TestValidate_Errors covers missing and malformed asset URLs.
func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	base, err := Default()
	require.NoError(t, err)

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		require.ErrorIs(t, Validate(nil), errConfigIsNotSet)
	})

	t.Run("missing URL", func(t *testing.T) {
		t.Parallel()

		cfg := *base
		cfg.URLs.Archive = ""
		require.ErrorIs(t, Validate(&cfg), errURLRequired)
	})

	t.Run("malformed URL", func(t *testing.T) {
		t.Parallel()

		cfg := *base
		cfg.URLs.Taskfile = "not a url"
		require.Error(t, Validate(&cfg))
	})

	t.Run("wrong scheme", func(t *testing.T) {
		t.Parallel()

		cfg := *base
		cfg.URLs.ZipInstaller = "ftp://example.com/install.sh"
		require.ErrorIs(t, Validate(&cfg), errURLScheme)
	})
}

// TestValidate_FillsDirectoryDefaults ensures empty directories fall back to defaults.
func TestValidate_FillsDirectoryDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Default()
	require.NoError(t, err)

	cfg.WorkDir = ""
	cfg.DataDir = ""

	require.NoError(t, Validate(cfg))
	require.Equal(t, os.TempDir(), cfg.WorkDir)
	require.NotEmpty(t, cfg.DataDir)
}

// TestLoad_EmptyPathUsesDefaults ensures the setup works without a settings file.
func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)

	want, err := Default()
	require.NoError(t, err)
	require.Equal(t, want, cfg)
}

// TestLoad_OverridesMergeWithDefaults verifies a partial settings file keeps
// defaults for fields it does not mention.
func TestLoad_OverridesMergeWithDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFilename)

	contents := "urls:\n" +
		"  task_installer: https://example.com/install-task.sh\n" +
		"  archive: https://example.com/ringgem.zip\n" +
		"  zip_installer: https://example.com/install-zip.sh\n" +
		"  taskfile: https://example.com/Taskfile.yaml\n" +
		"work_dir: " + dir + "\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "https://example.com/ringgem.zip", cfg.URLs.Archive)
	require.Equal(t, dir, cfg.WorkDir)
	// data_dir omitted from the file, so the default survives.
	require.True(t, strings.HasSuffix(cfg.DataDir, AppName))
}

// TestLoad_MissingFile verifies an explicit path must exist.
func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

// TestSaveLoad_RoundTrip verifies a saved configuration loads back unchanged.
func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg, err := Default()
	require.NoError(t, err)

	cfg.URLs.Archive = "https://mirror.example.com/ringgem.zip"

	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

// TestSave_NilConfig verifies nil settings are rejected.
func TestSave_NilConfig(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Save(filepath.Join(t.TempDir(), "x.yaml"), nil), errConfigIsNotSet)
}
