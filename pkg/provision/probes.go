// pkg/provision/probes.go
package provision

import (
	"context"
	"path/filepath"
	"strings"
)

// Pipeline state is never persisted; each stage re-derives readiness
// from the filesystem and the interpreter itself, so a re-run skips
// every stage whose postcondition already holds.

// IsInstalled reports whether the interpreter binary is present.
func (p *Provisioner) IsInstalled() bool {
	return fileExists(p.pythonExe)
}

// HasEntryPoint reports whether the entry point exists under the base
// directory, where Launch resolves it.
func (p *Provisioner) HasEntryPoint(entryPoint string) bool {
	return fileExists(filepath.Join(p.cfg.BaseDir, entryPoint))
}

// HasPip reports whether the interpreter can run its package manager.
func (p *Provisioner) HasPip(ctx context.Context) bool {
	if !p.IsInstalled() {
		return false
	}
	_, err := p.runner.Run(ctx, p.pythonExe, "-m", "pip", "--version")
	return err == nil
}

// HasTkinter reports whether the tcl binding module imports.
func (p *Provisioner) HasTkinter(ctx context.Context) bool {
	if !p.IsInstalled() {
		return false
	}
	_, err := p.runner.Run(ctx, p.pythonExe, "-c", "import _tkinter")
	return err == nil
}

// InterpreterVersion returns the provisioned interpreter's reported
// version string, or "" when it is absent or unrunnable.
func (p *Provisioner) InterpreterVersion(ctx context.Context) string {
	if !p.IsInstalled() {
		return ""
	}
	out, err := p.runner.Run(ctx, p.pythonExe, "--version")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
