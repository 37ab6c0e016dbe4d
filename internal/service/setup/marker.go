package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/gkwa/ringgem-setup/internal/logger"
)

// MarkerFilename marks that a setup run is in progress to avoid parallel execution.
const MarkerFilename = "ringgem-setup-marker.bin"

// markerLifetime is the period after which a stale marker is ignored.
// A full run downloads several assets and drives two installs, so the
// window is generous.
const markerLifetime = 15 * time.Minute

// setupExecutable is the process name a stale-marker recovery looks for.
const setupExecutable = "ringgem-setup"

// errSetupAlreadyRunning indicates another setup run holds the marker.
var errSetupAlreadyRunning = errors.New("the setup is already running")

// markerPath locates the marker inside the staging directory.
func markerPath(workDir string) string {
	return filepath.Join(workDir, MarkerFilename)
}

// writeMarker claims the staging directory for this run.
func writeMarker(workDir string) error {
	marker, err := os.Create(markerPath(workDir))
	if err != nil {
		return fmt.Errorf("create marker: %w", err)
	}

	if err = marker.Close(); err != nil {
		return fmt.Errorf("close marker: %w", err)
	}

	return nil
}

// removeMarker releases the staging directory.
func removeMarker(ctx context.Context, workDir string) {
	path := markerPath(workDir)
	if _, err := os.Stat(path); err != nil {
		return
	}

	if err := os.Remove(path); err != nil {
		logger.WarnKV(ctx, "Unable to remove setup marker", "error", err)
	}
}

// IsSetupRunningNow checks presence of a marker file and attempts recovery if it looks stale.
func IsSetupRunningNow(ctx context.Context, workDir string) bool {
	logger.Debug(ctx, "Checking for the presence of a setup marker")

	fileInfo, err := os.Stat(markerPath(workDir))
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The setup marker is too old, attempting cleanup")

		if err = terminateProcessByName(setupExecutable); err != nil {
			return true
		}

		if err = os.Remove(markerPath(workDir)); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		logger.Debug(ctx, "Setup marker not found, continuing")
		return false
	}

	logger.Infof(ctx, "Unable to read setup marker: %v", err)

	return false
}

// terminateProcessByName tries to kill processes with the provided executable name.
func terminateProcessByName(processName string) error {
	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != processName {
			continue
		}

		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(process.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}
