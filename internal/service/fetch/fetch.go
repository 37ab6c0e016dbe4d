package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gkwa/ringgem-setup/internal/logger"
	"github.com/gkwa/ringgem-setup/internal/service/shell"
)

// errBadHTTPStatus indicates a response with a status other than 200 OK.
var errBadHTTPStatus = errors.New("unexpected http status")

const (
	// scriptFilePattern names the temporary files remote scripts are staged in.
	scriptFilePattern = "ringgem-setup-*.sh"

	// scriptFileMode marks a staged script executable for the interpreter.
	scriptFileMode os.FileMode = 0o755
)

// get issues a plain GET and fails on any status other than 200 OK.
// The caller owns the response body.
func get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		_ = response.Body.Close()

		return nil, fmt.Errorf("%s, %s: %w", url, response.Status, errBadHTTPStatus)
	}

	return response, nil
}

// DownloadFile streams the URL's bytes to destination. There is no retry
// and no cleanup of a partially written destination on failure.
func DownloadFile(ctx context.Context, url, destination string) error {
	logger.InfoKV(ctx, "Downloading file", "url", url)

	response, err := get(ctx, url)
	if err != nil {
		logger.ErrorKV(ctx, "Download failed", "url", url, "error", err)

		return fmt.Errorf("download %s: %w", url, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	output, err := os.Create(filepath.Clean(destination))
	if err != nil {
		return fmt.Errorf("create %s: %w", destination, err)
	}

	if _, err = io.Copy(output, response.Body); err != nil {
		_ = output.Close()

		return fmt.Errorf("write %s: %w", destination, err)
	}

	if err = output.Close(); err != nil {
		return fmt.Errorf("close %s: %w", destination, err)
	}

	logger.DebugKV(ctx, "Downloaded file", "path", destination)

	return nil
}

// RunRemoteScript fetches the URL's body, stages it in a private executable
// temporary file and runs it through the shell runner. The temporary file is
// removed after the execution attempt, whether or not the script succeeded.
// A fetch failure aborts before any file is created.
func RunRemoteScript(ctx context.Context, url string) error {
	logger.InfoKV(ctx, "Fetching script", "url", url)

	response, err := get(ctx, url)
	if err != nil {
		logger.ErrorKV(ctx, "Script fetch failed", "url", url, "error", err)

		return fmt.Errorf("fetch script %s: %w", url, err)
	}

	contents, err := io.ReadAll(response.Body)

	_ = response.Body.Close()

	if err != nil {
		return fmt.Errorf("read script %s: %w", url, err)
	}

	script, err := os.CreateTemp("", scriptFilePattern)
	if err != nil {
		return fmt.Errorf("create script file: %w", err)
	}

	scriptPath := script.Name()

	defer func() {
		_ = os.Remove(scriptPath)
	}()

	if _, err = script.Write(contents); err != nil {
		_ = script.Close()

		return fmt.Errorf("write script file: %w", err)
	}

	if err = script.Close(); err != nil {
		return fmt.Errorf("close script file: %w", err)
	}

	if err = os.Chmod(scriptPath, scriptFileMode); err != nil {
		return fmt.Errorf("mark script executable: %w", err)
	}

	logger.DebugKV(ctx, "Executing script", "path", scriptPath)

	if _, err = shell.Run(ctx, "bash "+scriptPath); err != nil {
		return fmt.Errorf("execute script from %s: %w", url, err)
	}

	return nil
}
