package setup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gkwa/ringgem-setup/internal/archive"
	"github.com/gkwa/ringgem-setup/internal/config"
	"github.com/gkwa/ringgem-setup/internal/logger"
	"github.com/gkwa/ringgem-setup/internal/service/fetch"
	"github.com/gkwa/ringgem-setup/internal/service/shell"
)

const (
	// ArchiveFilename is the staged name of the downloaded ringgem archive.
	ArchiveFilename = "ringgem.zip"

	// ZipInstallerFilename is the staged name of the zip-tool installer script.
	ZipInstallerFilename = "install-zip-on-linux.sh"

	// TaskfileFilename is the staged name of the task-runner definition file.
	TaskfileFilename = "Taskfile.yaml"

	// archiveRootDir is the top-level directory inside the ringgem archive.
	archiveRootDir = "ringgem-master"

	// Named tasks the external runner is asked to execute.
	installZipTask        = "install-zip-on-linux"
	installTestscriptTask = "install-testscript-on-linux"

	// dataDirMode is the permission for the install target directory.
	dataDirMode os.FileMode = 0o755
)

// Options are inputs accepted by the setup entry point.
type Options struct {
	// ConfigPath is the optional path to a settings YAML file.
	ConfigPath string
	// WorkDir overrides the staging directory from the settings.
	WorkDir string
	// DataDir overrides the install target directory from the settings.
	DataDir string
}

// runner holds the resolved settings for a single setup execution.
// It is intentionally unexported; call Run(ctx, Options) from callers.
type runner struct {
	cfg *config.Config
}

// Run executes the setup sequence and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "ringgem-setup")

	logger.Info(ctx, "Starting ringgem setup")

	r, err := newRunner(ctx, opts)
	if err != nil {
		return err
	}

	defer r.cleanup(ctx)

	if err = r.Run(ctx); err != nil {
		logger.ErrorKV(ctx, "Setup failed", "error", err)
		return err
	}

	return nil
}

// newRunner resolves settings, applies overrides and writes the marker that
// refuses concurrent runs.
func newRunner(ctx context.Context, opts *Options) (*runner, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if opts.WorkDir != "" {
		cfg.WorkDir = opts.WorkDir
	}

	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	r := &runner{cfg: cfg}

	if err = r.ensureWorkDir(ctx); err != nil {
		return nil, err
	}

	if IsSetupRunningNow(ctx, cfg.WorkDir) {
		return nil, errSetupAlreadyRunning
	}

	if err = writeMarker(cfg.WorkDir); err != nil {
		return nil, err
	}

	return r, nil
}

// Run walks the fixed sequence. The first failing step aborts the run;
// artifacts produced by earlier steps are left in place.
func (r *runner) Run(ctx context.Context) error {
	logger.Info(ctx, "Installing go-task")

	if err := fetch.RunRemoteScript(ctx, r.cfg.URLs.TaskInstaller); err != nil {
		return fmt.Errorf("install task runner: %w", err)
	}

	if err := r.stageAssets(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "Installing zip")

	if _, err := shell.Run(ctx, taskCommand(installZipTask), shell.WithDir(r.cfg.WorkDir)); err != nil {
		return fmt.Errorf("install zip tool: %w", err)
	}

	if err := r.unpackArchive(ctx); err != nil {
		return err
	}

	masterDir := filepath.Join(r.cfg.DataDir, archiveRootDir)

	logger.Info(ctx, "Listing available tasks")

	if _, err := shell.Run(ctx, taskCommandInDir(masterDir, "--list-all")); err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	logger.Info(ctx, "Installing testscript")

	if _, err := shell.Run(ctx, taskCommandInDir(masterDir, installTestscriptTask)); err != nil {
		return fmt.Errorf("install testscript: %w", err)
	}

	logger.Info(ctx, "Setup complete")
	logger.Infof(ctx, "Ringgem installed in: %s", r.cfg.DataDir)
	logger.Infof(ctx, "To use tasks, run: task --dir=%s <task-name>", masterDir)

	return nil
}

// ensureWorkDir creates the staging directory and records it for all
// following steps. The process working directory is never changed; every
// step receives the staging directory explicitly.
func (r *runner) ensureWorkDir(ctx context.Context) error {
	if err := os.MkdirAll(r.cfg.WorkDir, dataDirMode); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}

	logger.Debugf(ctx, "Working in: %s", r.cfg.WorkDir)

	return nil
}

// stageAssets downloads the archive, the zip installer and the Taskfile into
// the staging directory.
func (r *runner) stageAssets(ctx context.Context) error {
	logger.Info(ctx, "Downloading ringgem.zip")

	if err := fetch.DownloadFile(ctx, r.cfg.URLs.Archive, r.staged(ArchiveFilename)); err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	logger.Info(ctx, "Downloading zip installer")

	if err := fetch.DownloadFile(ctx, r.cfg.URLs.ZipInstaller, r.staged(ZipInstallerFilename)); err != nil {
		return fmt.Errorf("download zip installer: %w", err)
	}

	logger.Info(ctx, "Downloading Taskfile.yaml")

	if err := fetch.DownloadFile(ctx, r.cfg.URLs.Taskfile, r.staged(TaskfileFilename)); err != nil {
		return fmt.Errorf("download taskfile: %w", err)
	}

	r.inspectTaskfile(ctx)

	return nil
}

// unpackArchive creates the install target and extracts the staged archive
// into it, preserving the archive's internal structure.
func (r *runner) unpackArchive(ctx context.Context) error {
	logger.Info(ctx, "Setting up ringgem directory")

	if err := os.MkdirAll(r.cfg.DataDir, dataDirMode); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	logger.Debugf(ctx, "Extracting %s to %s", ArchiveFilename, r.cfg.DataDir)

	if err := archive.ExtractZip(r.staged(ArchiveFilename), r.cfg.DataDir); err != nil {
		return fmt.Errorf("extract archive: %w", err)
	}

	return nil
}

// taskfileSummary is the slice of the Taskfile schema the setup cares about.
type taskfileSummary struct {
	Version string         `yaml:"version"`
	Tasks   map[string]any `yaml:"tasks"`
}

// inspectTaskfile debug-logs the schema version and task names of the staged
// Taskfile. Parsing problems are only warnings; the external runner is the
// authority on the file.
func (r *runner) inspectTaskfile(ctx context.Context) {
	contents, err := os.ReadFile(r.staged(TaskfileFilename))
	if err != nil {
		logger.WarnKV(ctx, "Unable to read staged taskfile", "error", err)
		return
	}

	var summary taskfileSummary
	if err = yaml.Unmarshal(contents, &summary); err != nil {
		logger.WarnKV(ctx, "Unable to parse staged taskfile", "error", err)
		return
	}

	names := make([]string, 0, len(summary.Tasks))
	for name := range summary.Tasks {
		names = append(names, name)
	}

	logger.DebugKV(ctx, "Staged taskfile",
		"version", summary.Version,
		"tasks", strings.Join(names, ", "))
}

// cleanup removes the running marker. Downloaded and extracted artifacts
// stay in place even after a failure.
func (r *runner) cleanup(ctx context.Context) {
	removeMarker(ctx, r.cfg.WorkDir)
	logger.Debug(ctx, "The setup has finished")
}

// staged returns the path of a named artifact inside the staging directory.
func (r *runner) staged(name string) string {
	return filepath.Join(r.cfg.WorkDir, name)
}

// taskCommand builds a `task` invocation run from the current directory.
func taskCommand(args ...string) string {
	return strings.Join(append([]string{"task"}, args...), " ")
}

// taskCommandInDir builds a `task --dir=<dir>` invocation.
func taskCommandInDir(dir string, args ...string) string {
	return taskCommand(append([]string{"--dir=" + dir}, args...)...)
}
