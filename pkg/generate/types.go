// pkg/generate/types.go
package generate

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ProjectConfig describes one package generation request.
type ProjectConfig struct {
	ProjectName      string   // Non-empty display name
	PythonVersion    string   // Release line, e.g. "3.12"
	OutputDir        string   // Parent directory for the package tree
	EntryPoint       string   // Python entry-point filename
	LauncherName     string   // Launcher batch file name
	Requirements     []string // Inline requirement specifiers
	RequirementsFile string   // Optional requirements file to merge in
	IncludeGit       bool
	IncludeFFmpeg    bool
	IncludeTkinter   bool
	ExtraPthPaths    []string // Additional ._pth entries for the installed runtime
	ExtraPipArgs     []string // Extra pip install arguments
}

// DefaultProjectConfig returns a config matching the interactive
// defaults.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		ProjectName:    "MyProject",
		PythonVersion:  "3.12",
		OutputDir:      ".",
		EntryPoint:     "app.py",
		LauncherName:   "launcher.bat",
		IncludeTkinter: true,
	}
}

// Validate checks the fields that do not need the catalog.
func (c *ProjectConfig) Validate() error {
	if strings.TrimSpace(c.ProjectName) == "" {
		return fmt.Errorf("project name is required")
	}
	if c.EntryPoint == "" {
		return fmt.Errorf("entry point filename is required")
	}
	if c.LauncherName == "" {
		return fmt.Errorf("launcher filename is required")
	}
	// The render map is keyed by output filename, so a launcher named
	// after another generated file would silently drop one of them.
	for _, reserved := range []string{InstallerName, RuntimeConfig, RequirementsName} {
		if c.LauncherName == reserved {
			return fmt.Errorf("launcher name %q collides with a generated file", reserved)
		}
	}
	return nil
}

// PackageDir returns the output directory for this config: the project
// name with spaces replaced, under OutputDir.
func (c *ProjectConfig) PackageDir() string {
	return filepath.Join(c.OutputDir, strings.ReplaceAll(c.ProjectName, " ", "_"))
}

// Package is the result of a generation run.
type Package struct {
	Dir   string   // Root of the generated tree
	Files []string // Files written, relative to Dir
}
