package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gkwa/ringgem-setup/internal/logger"
)

// Result captures the outcome of a single shell invocation.
type Result struct {
	// Command is the shell command line that was executed.
	Command string
	// Dir is the working directory the command ran in ("" means inherited).
	Dir string
	// ExitCode is the command's exit status.
	ExitCode int
	// Stdout is the captured standard output, trimmed of trailing whitespace.
	Stdout string
	// Stderr is the captured standard error, trimmed of trailing whitespace.
	Stderr string
}

// ErrCommandFailed indicates a checked command exited with a non-zero status.
var ErrCommandFailed = errors.New("command failed")

// interpreter is the shell every command line is handed to.
const interpreter = "sh"

// Option adjusts how a single command is run.
type Option func(*runOptions)

type runOptions struct {
	dir     string
	checked bool
}

// WithDir runs the command in the provided working directory.
func WithDir(dir string) Option {
	return func(o *runOptions) {
		o.dir = dir
	}
}

// WithoutCheck returns the Result of a failing command instead of an error.
// Callers inspect Result.ExitCode themselves.
func WithoutCheck() Option {
	return func(o *runOptions) {
		o.checked = false
	}
}

// Run executes a command line synchronously through the system shell,
// capturing stdout and stderr. On success the captured stdout is logged at
// info level. A non-zero exit is logged with the command, exit code and
// stderr; in checked mode (the default) it also yields ErrCommandFailed,
// while WithoutCheck hands the failing Result back to the caller. No
// timeout is enforced beyond context cancellation.
func Run(ctx context.Context, command string, opts ...Option) (*Result, error) {
	options := &runOptions{checked: true}
	for _, opt := range opts {
		opt(options)
	}

	logger.DebugKV(ctx, "Running command", "command", command, "dir", options.dir)

	cmd := exec.CommandContext(ctx, interpreter, "-c", command)
	cmd.Dir = options.dir

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	result := &Result{
		Command: command,
		Dir:     options.dir,
		Stdout:  strings.TrimRight(stdout.String(), "\n"),
		Stderr:  strings.TrimRight(stderr.String(), "\n"),
	}

	if runErr == nil {
		if result.Stdout != "" {
			logger.Info(ctx, result.Stdout)
		}

		return result, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		// The command never ran (interpreter missing, context canceled, ...).
		return result, fmt.Errorf("run %q: %w", command, runErr)
	}

	result.ExitCode = exitErr.ExitCode()

	logger.ErrorKV(ctx, "Command failed",
		"command", command,
		"exit_code", result.ExitCode,
		"stderr", result.Stderr)

	if options.checked {
		return result, fmt.Errorf("%w: %q exited with code %d", ErrCommandFailed, command, result.ExitCode)
	}

	return result, nil
}
