// pkg/generate/generator.go

// Package generate emits a parameterized deployment package: installer
// and launcher scripts, a runtime-config module, a requirements manifest
// and an entry-point stub. Generation performs no network access; every
// URL is embedded as literal text for the end user's machine to fetch
// later.
package generate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/portable-py/pydeploy/pkg/catalog"
	"github.com/portable-py/pydeploy/pkg/template"
)

// ErrGenerationFailed indicates the package could not be written.
var ErrGenerationFailed = errors.New("package generation failed")

// Generator renders deployment packages.
type Generator struct {
	logger *log.Logger
}

// NewGenerator creates a Generator. A nil logger discards output.
func NewGenerator(logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Generator{logger: logger}
}

// Generate writes the full package tree for cfg. The version resolves
// against the catalog before anything is written, so an unsupported
// version produces no partial output. Existing files of the same names
// are overwritten; the entry-point stub alone is preserved when present.
// Template and I/O failures wrap ErrGenerationFailed.
func (g *Generator) Generate(cfg *ProjectConfig) (*Package, error) {
	pkg, err := g.generate(cfg)
	if err != nil {
		if errors.Is(err, catalog.ErrUnsupportedVersion) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, err)
	}
	return pkg, nil
}

func (g *Generator) generate(cfg *ProjectConfig) (*Package, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Fail fast: nothing on disk until the version resolves.
	spec, err := catalog.Resolve(cfg.PythonVersion)
	if err != nil {
		return nil, err
	}

	vars := g.substitutions(cfg, spec)

	// Strict rendering: the engine leaves unknown tokens verbatim, so
	// missing mappings are caught here before any file is written.
	for name, tmpl := range map[string]string{
		InstallerName:    installTemplate,
		cfg.LauncherName: launcherTemplate,
		RuntimeConfig:    configTemplate,
	} {
		if missing := template.Missing(tmpl, vars); len(missing) > 0 {
			return nil, fmt.Errorf("template %s references unmapped placeholders: %s", name, strings.Join(missing, ", "))
		}
	}

	requirements, err := g.mergeRequirements(cfg)
	if err != nil {
		return nil, err
	}

	pkgDir := cfg.PackageDir()
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		return nil, fmt.Errorf("creating package directory: %w", err)
	}

	g.logger.Info("generating package", "project", cfg.ProjectName, "dir", pkgDir)

	pkg := &Package{Dir: pkgDir}
	files := []struct {
		name    string
		content string
	}{
		{InstallerName, template.Render(installTemplate, vars)},
		{cfg.LauncherName, template.Render(launcherTemplate, vars)},
		{RuntimeConfig, template.Render(configTemplate, vars)},
		{RequirementsName, requirements},
	}

	for _, f := range files {
		if err := os.WriteFile(filepath.Join(pkgDir, f.name), []byte(f.content), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", f.name, err)
		}
		pkg.Files = append(pkg.Files, f.name)
		g.logger.Debug("wrote file", "file", f.name)
	}

	wrote, err := g.writeEntryStub(cfg, pkgDir)
	if err != nil {
		return nil, err
	}
	if wrote {
		pkg.Files = append(pkg.Files, cfg.EntryPoint)
	}

	return pkg, nil
}

// substitutions builds the full substitution map for one generation run.
// Disabled features map to empty fragments, so the corresponding URLs
// never reach the rendered output.
func (g *Generator) substitutions(cfg *ProjectConfig, spec *catalog.VersionSpec) map[string]string {
	vars := map[string]string{
		"PROJECT_NAME":   cfg.ProjectName,
		"PYTHON_VERSION": spec.Patch,
		"PYTHON_URL":     spec.RuntimeURL,
		"ENTRY_POINT":    cfg.EntryPoint,
		"LAUNCHER_NAME":  cfg.LauncherName,
		"PTH_ZIP_NAME":   spec.StdlibZipName,
		"PTH_EXTRA":      pthExtra(cfg.ExtraPthPaths),
		"PIP_EXTRA_ARGS": strings.Join(cfg.ExtraPipArgs, " "),

		"TKINTER_ECHO": featureEcho(cfg.IncludeTkinter, "Tkinter GUI framework"),
		"GIT_ECHO":     featureEcho(cfg.IncludeGit, "Portable Git"),
		"FFMPEG_ECHO":  featureEcho(cfg.IncludeFFmpeg, "Portable FFmpeg"),

		"GIT_VARS":            "",
		"FFMPEG_VARS":         "",
		"TKINTER_SECTION":     "",
		"GIT_SECTION":         "",
		"FFMPEG_SECTION":      "",
		"PATH_SETUP":          installerPathSetup(cfg),
		"LAUNCHER_PATH_SETUP": launcherPathSetup(cfg),

		"EXTRA_PATH_VARS":     configPathVars(cfg),
		"EXTRA_RESOLVE_FUNCS": configResolveFuncs(cfg),
		"EXTRA_RESOLVED_VARS": configResolvedVars(cfg),
	}

	if cfg.IncludeTkinter {
		vars["TKINTER_SECTION"] = tkinterSection(spec.TclTkURL)
	}
	if cfg.IncludeGit {
		vars["GIT_VARS"] = gitVars()
		vars["GIT_SECTION"] = gitSection()
	}
	if cfg.IncludeFFmpeg {
		vars["FFMPEG_VARS"] = ffmpegVars()
		vars["FFMPEG_SECTION"] = ffmpegSection()
	}

	return vars
}

// mergeRequirements combines inline specifiers with the contents of an
// optional requirements file: inline first, then file, duplicates
// dropped, order otherwise preserved.
func (g *Generator) mergeRequirements(cfg *ProjectConfig) (string, error) {
	seen := make(map[string]bool)
	var merged []string

	add := func(line string) {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			return
		}
		seen[line] = true
		merged = append(merged, line)
	}

	for _, req := range cfg.Requirements {
		add(req)
	}

	if cfg.RequirementsFile != "" {
		data, err := os.ReadFile(cfg.RequirementsFile)
		if err != nil {
			return "", fmt.Errorf("reading requirements file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			add(line)
		}
	}

	if len(merged) == 0 {
		return "# Add your dependencies here\n# example: requests>=2.31.0\n", nil
	}
	return strings.Join(merged, "\n") + "\n", nil
}

// writeEntryStub writes a starter entry point whose shape depends on the
// tkinter flag. An existing entry point is never overwritten.
func (g *Generator) writeEntryStub(cfg *ProjectConfig, pkgDir string) (bool, error) {
	entryPath := filepath.Join(pkgDir, cfg.EntryPoint)
	if _, err := os.Stat(entryPath); err == nil {
		g.logger.Debug("entry point already exists, keeping it", "file", cfg.EntryPoint)
		return false, nil
	}

	var content string
	if cfg.IncludeTkinter {
		content = fmt.Sprintf(`"""
%[1]s - Main Application
Generated by pydeploy
"""

import tkinter as tk
from tkinter import ttk


def main():
    root = tk.Tk()
    root.title("%[1]s")
    root.geometry("800x600")

    label = ttk.Label(root, text="Welcome to %[1]s!",
                      font=("Segoe UI", 16))
    label.pack(expand=True)

    root.mainloop()


if __name__ == "__main__":
    main()
`, cfg.ProjectName)
	} else {
		content = fmt.Sprintf(`"""
%[1]s - Main Application
Generated by pydeploy
"""


def main():
    print("Welcome to %[1]s!")


if __name__ == "__main__":
    main()
`, cfg.ProjectName)
	}

	if err := os.WriteFile(entryPath, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("writing entry point stub: %w", err)
	}
	return true, nil
}
