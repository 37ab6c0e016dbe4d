package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// errUnsafePath is returned for archive entries that would escape the
// destination directory.
var errUnsafePath = errors.New("archive entry escapes destination directory")

// defaultDirMode is applied to directories created for parentless entries.
const defaultDirMode os.FileMode = 0o755

// ExtractZip unpacks the zip archive at src into destDir, preserving the
// archive's internal directory structure and file modes. destDir and any
// missing parents are created as needed.
func ExtractZip(src, destDir string) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	defer func() {
		_ = reader.Close()
	}()

	if err = os.MkdirAll(destDir, defaultDirMode); err != nil {
		return fmt.Errorf("create destination dir: %w", err)
	}

	for _, file := range reader.File {
		if err = extractEntry(file, destDir); err != nil {
			return err
		}
	}

	return nil
}

// extractEntry writes a single archive entry under destDir.
func extractEntry(file *zip.File, destDir string) error {
	target := filepath.Join(destDir, filepath.FromSlash(file.Name))

	// Keep every entry inside destDir.
	if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return fmt.Errorf("%s: %w", file.Name, errUnsafePath)
	}

	if file.FileInfo().IsDir() {
		if err := os.MkdirAll(target, file.Mode()); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}

		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), defaultDirMode); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	return writeEntry(file, target)
}

// writeEntry streams the entry's contents to target with the entry's mode.
func writeEntry(file *zip.File, target string) error {
	source, err := file.Open()
	if err != nil {
		return fmt.Errorf("open file in archive: %w", err)
	}

	defer func() {
		_ = source.Close()
	}()

	output, err := os.OpenFile(filepath.Clean(target), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if _, err = io.Copy(output, source); err != nil { //nolint:gosec // Trusted archive, sequential setup.
		_ = output.Close()

		return fmt.Errorf("write file: %w", err)
	}

	if err = output.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}

	return nil
}
