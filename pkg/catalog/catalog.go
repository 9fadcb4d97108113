// pkg/catalog/catalog.go

// Package catalog maps Python release lines to exact patch versions and
// the artifact URLs derived from them. The table is compiled in; no
// network discovery happens here.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnsupportedVersion indicates the requested release line has no
// embeddable distribution in the catalog.
var ErrUnsupportedVersion = errors.New("unsupported python version")

// Resolve looks up a release line (e.g. "3.12") and returns its full
// VersionSpec. Pure lookup: the same line always yields the same spec.
func Resolve(line string) (*VersionSpec, error) {
	patch, ok := patchVersions[line]
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedVersion, line, strings.Join(Lines(), ", "))
	}

	return &VersionSpec{
		Line:          line,
		Patch:         patch,
		Label:         versionLabels[line],
		RuntimeURL:    RuntimeURL(patch),
		TclTkURL:      TclTkURL(patch),
		StdlibZipName: StdlibZipName(line),
	}, nil
}

// Lines returns the supported release lines in ascending order.
func Lines() []string {
	lines := make([]string, 0, len(patchVersions))
	for line := range patchVersions {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		return compareLines(lines[i], lines[j]) < 0
	})
	return lines
}

// RuntimeURL returns the download URL for the embeddable zip of an exact
// patch version.
func RuntimeURL(patch string) string {
	return fmt.Sprintf("%s/%s/python-%s-embed-amd64.zip", DownloadBaseURL, patch, patch)
}

// TclTkURL returns the download URL for the tcltk.msi component of an
// exact patch version.
func TclTkURL(patch string) string {
	return fmt.Sprintf("%s/%s/amd64/tcltk.msi", DownloadBaseURL, patch)
}

// StdlibZipName returns the embedded stdlib archive name for a release
// line, e.g. "3.12" -> "python312.zip".
func StdlibZipName(line string) string {
	return "python" + strings.ReplaceAll(line, ".", "") + ".zip"
}

// compareLines orders "3.9" before "3.10" by comparing the numeric minor.
func compareLines(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}
