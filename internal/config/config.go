package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// URLTable names the four remote assets the setup consumes.
type URLTable struct {
	// TaskInstaller is the shell script that installs the go-task runner.
	TaskInstaller string `yaml:"task_installer"`
	// Archive is the zip archive of the ringgem repository.
	Archive string `yaml:"archive"`
	// ZipInstaller is the shell script that installs the zip utility.
	ZipInstaller string `yaml:"zip_installer"`
	// Taskfile is the task-runner definition file consumed by `task`.
	Taskfile string `yaml:"taskfile"`
}

// Config holds the remote asset URLs and local directories used by the setup.
type Config struct {
	// URLs is the table of remote assets to fetch.
	URLs URLTable `yaml:"urls"`
	// WorkDir is where downloaded artifacts are staged (defaults to the
	// system temp directory).
	WorkDir string `yaml:"work_dir"`
	// DataDir is where the archive is unpacked (defaults to
	// ~/.local/share/ringgem).
	DataDir string `yaml:"data_dir"`
}

const (
	// AppName is the application directory name under ~/.local/share.
	AppName = "ringgem"

	// DefaultConfigFilename is the default filename for setup settings.
	DefaultConfigFilename = "ringgem-setup.yaml"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// Built-in asset locations, used when no settings file overrides them.
	defaultTaskInstallerURL = "https://raw.githubusercontent.com/taylormonacelli/ringgem/master/install-go-task-on-linux.sh"
	defaultArchiveURL       = "https://github.com/taylormonacelli/ringgem/archive/refs/heads/master.zip"
	defaultZipInstallerURL  = "https://raw.githubusercontent.com/gkwa/ringgem/refs/heads/master/install-zip-on-linux.sh"
	defaultTaskfileURL      = "https://raw.githubusercontent.com/gkwa/ringgem/refs/heads/master/Taskfile.yaml"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errURLRequired is returned when an asset URL is missing.
	errURLRequired = errors.New("asset URL must be provided")
	// errURLScheme is returned when an asset URL is not http or https.
	errURLScheme = errors.New("asset URL must use http or https")
)

// Default returns the built-in configuration: the four upstream asset URLs,
// the system temp directory for staging and ~/.local/share/ringgem as the
// install target.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	return &Config{
		URLs: URLTable{
			TaskInstaller: defaultTaskInstallerURL,
			Archive:       defaultArchiveURL,
			ZipInstaller:  defaultZipInstallerURL,
			Taskfile:      defaultTaskfileURL,
		},
		WorkDir: os.TempDir(),
		DataDir: filepath.Join(home, ".local", "share", AppName),
	}, nil
}

// Load reads configuration from the provided path and validates essential
// fields. An empty path yields the built-in defaults; fields left empty in
// the file fall back to their defaults as well.
func Load(path string) (*Config, error) {
	defaults, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		return defaults, nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := *defaults
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	assets := map[string]string{
		"task_installer": cfg.URLs.TaskInstaller,
		"archive":        cfg.URLs.Archive,
		"zip_installer":  cfg.URLs.ZipInstaller,
		"taskfile":       cfg.URLs.Taskfile,
	}

	for name, raw := range assets {
		if raw == "" {
			return fmt.Errorf("%s: %w", name, errURLRequired)
		}

		parsed, err := url.ParseRequestURI(raw)
		if err != nil {
			return fmt.Errorf("invalid %s URL: %w", name, err)
		}

		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("%s (%s): %w", name, raw, errURLScheme)
		}
	}

	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}

		cfg.DataDir = filepath.Join(home, ".local", "share", AppName)
	}

	return nil
}
