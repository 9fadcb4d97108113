// pkg/pthfile/pthfile.go

// Package pthfile rewrites the embedded runtime's python*._pth
// search-path manifest. The manifest is processed top to bottom and the
// "import site" directive must stay last so every entry above it is in
// place before site initialization discovers site-packages.
package pthfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrPatchFailed indicates the search-path manifest could not be
// rewritten.
var ErrPatchFailed = errors.New("path config patch failed")

// Find locates the single python*._pth file in runtimeDir. Zero matches
// is an error; multiple matches take the first in sorted order and are
// reported through the logger. A nil logger discards output.
func Find(runtimeDir string, logger *log.Logger) (string, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	matches, err := filepath.Glob(filepath.Join(runtimeDir, "python*._pth"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no python*._pth file found in %s", runtimeDir)
	}
	sort.Strings(matches)
	if len(matches) > 1 {
		logger.Warn("multiple ._pth manifests found, using first", "chosen", filepath.Base(matches[0]), "count", len(matches))
	}
	return matches[0], nil
}

// Patch rewrites the ._pth manifest of runtimeDir to the canonical
// layout: stdlib zip, current directory, Lib, Lib\site-packages, DLLs,
// any extra paths, a blank line, then "import site". The stdlib zip name
// is auto-detected from the directory, falling back to defaultZipName.
// Failures wrap ErrPatchFailed.
func Patch(runtimeDir, defaultZipName string, extraPaths []string, logger *log.Logger) error {
	if err := patch(runtimeDir, defaultZipName, extraPaths, logger); err != nil {
		return fmt.Errorf("%w: %s", ErrPatchFailed, err)
	}
	return nil
}

func patch(runtimeDir, defaultZipName string, extraPaths []string, logger *log.Logger) error {
	pthPath, err := Find(runtimeDir, logger)
	if err != nil {
		return err
	}

	zipName := defaultZipName
	if detected, err := detectStdlibZip(runtimeDir); err == nil {
		zipName = detected
	}

	lines := []string{
		zipName,
		".",
		"Lib",
		`Lib\site-packages`,
		"DLLs",
	}
	lines = append(lines, extraPaths...)
	lines = append(lines, "", "import site")

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(pthPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", pthPath, err)
	}

	return nil
}

// detectStdlibZip finds the embedded stdlib archive (python*.zip) that
// ships inside the runtime directory.
func detectStdlibZip(runtimeDir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(runtimeDir, "python*.zip"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no stdlib zip found in %s", runtimeDir)
	}
	sort.Strings(matches)
	return filepath.Base(matches[0]), nil
}
