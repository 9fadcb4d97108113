// pkg/provision/provisioner.go

// Package provision turns a bare embeddable Python distribution into a
// working pip+tkinter environment through six strictly ordered,
// idempotent stages. State is derived by probing the filesystem, never
// recorded, so a re-run resumes at the first unmet precondition and a
// ready environment is a no-op.
package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/portable-py/pydeploy/pkg/archive"
	"github.com/portable-py/pydeploy/pkg/catalog"
	"github.com/portable-py/pydeploy/pkg/fetch"
	"github.com/portable-py/pydeploy/pkg/pthfile"
)

const runtimeDirName = "python_embedded"

var (
	// ErrBootstrapFailed indicates pip could not be bootstrapped.
	ErrBootstrapFailed = errors.New("pip bootstrap failed")

	// ErrInstallFailed indicates dependency installation failed even
	// after the verbose retry.
	ErrInstallFailed = errors.New("dependency install failed")
)

// Provisioner drives the provisioning pipeline for one target directory.
// Two simultaneous runs against the same directory are unsafe.
type Provisioner struct {
	cfg      *Config
	spec     *catalog.VersionSpec
	logger   *log.Logger
	fetcher  Fetcher
	tcltk    TclTkInstaller
	runner   CommandRunner
	launcher Launcher

	pythonDir string
	pythonExe string
}

// New creates a Provisioner, resolving the configured release line
// against the catalog up front.
func New(cfg *Config) (*Provisioner, error) {
	if cfg == nil || cfg.BaseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}

	spec, err := catalog.Resolve(cfg.PythonVersion)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = fetch.New(cfg.Timeout, logger)
	}

	tcltk := cfg.TclTk
	if tcltk == nil {
		tcltk = archive.NewTclTkInstaller(nil, logger)
	}

	runner := cfg.Runner
	if runner == nil {
		runner = execRunner{}
	}

	launcher := cfg.Launcher
	if launcher == nil {
		launcher = execLauncher{}
	}

	pythonDir := filepath.Join(cfg.BaseDir, runtimeDirName)
	return &Provisioner{
		cfg:       cfg,
		spec:      spec,
		logger:    logger,
		fetcher:   fetcher,
		tcltk:     tcltk,
		runner:    runner,
		launcher:  launcher,
		pythonDir: pythonDir,
		pythonExe: filepath.Join(pythonDir, "python.exe"),
	}, nil
}

// PythonExe returns the path where the provisioned interpreter lives.
func (p *Provisioner) PythonExe() string {
	return p.pythonExe
}

// Provision runs stages 1-5. A fatal stage aborts immediately and later
// stages are never attempted; partial state is left in place so the next
// run can resume. The optional tkinter stage degrades to a warning.
func (p *Provisioner) Provision(ctx context.Context) (*Result, error) {
	res := &Result{PythonExe: p.pythonExe}

	// Stage 1: runtime presence
	fresh, err := p.ensureRuntime(ctx)
	if err != nil {
		return nil, fmt.Errorf("runtime stage: %w", err)
	}
	res.FreshRuntime = fresh

	// Stage 2: path configuration, only after a fresh extraction
	if fresh {
		p.logger.Info("configuring search paths")
		if err := pthfile.Patch(p.pythonDir, p.spec.StdlibZipName, p.cfg.ExtraPthPaths, p.logger); err != nil {
			return nil, fmt.Errorf("path config stage: %w", err)
		}
		if err := os.MkdirAll(filepath.Join(p.pythonDir, "Lib", "site-packages"), 0755); err != nil {
			return nil, fmt.Errorf("path config stage: %w", err)
		}
	}

	// Stage 3: pip bootstrap
	if !p.HasPip(ctx) {
		if err := p.bootstrapPip(ctx); err != nil {
			return nil, fmt.Errorf("pip bootstrap stage: %w", err)
		}
	} else {
		p.logger.Debug("pip already available")
	}

	// Stage 4: tkinter bootstrap, non-fatal
	if p.cfg.Tkinter {
		if p.HasTkinter(ctx) {
			p.logger.Debug("tkinter already available")
			res.TkinterAvailable = true
		} else if err := p.setupTkinter(ctx); err != nil {
			p.logger.Warn("tkinter setup failed, continuing without GUI support", "err", err)
		} else {
			res.TkinterAvailable = p.HasTkinter(ctx)
		}
	}

	// Stage 5: dependency installation
	if p.cfg.RequirementsFile != "" {
		if err := p.installRequirements(ctx); err != nil {
			return nil, fmt.Errorf("dependency install stage: %w", err)
		}
	}

	return res, nil
}

// ensureRuntime fetches and extracts the embeddable distribution when
// the interpreter binary is absent. Returns true when it extracted a
// fresh runtime.
func (p *Provisioner) ensureRuntime(ctx context.Context) (bool, error) {
	if p.IsInstalled() {
		p.logger.Debug("runtime already present", "exe", p.pythonExe)
		return false, nil
	}

	zipPath := filepath.Join(p.cfg.BaseDir, "python_embedded.zip")
	p.logger.Info("downloading python runtime", "version", p.spec.Patch)
	if err := p.fetcher.Fetch(ctx, p.spec.RuntimeURL, zipPath); err != nil {
		return false, err
	}

	p.logger.Info("extracting python runtime", "dir", p.pythonDir)
	if err := archive.Extract(zipPath, p.pythonDir); err != nil {
		return false, err
	}
	os.Remove(zipPath)

	return true, nil
}

// bootstrapPip downloads and runs get-pip.py, then upgrades pip on a
// best-effort basis.
func (p *Provisioner) bootstrapPip(ctx context.Context) error {
	getPipPath := filepath.Join(p.pythonDir, "get-pip.py")

	p.logger.Info("bootstrapping pip")
	if err := p.fetcher.Fetch(ctx, catalog.GetPipURL, getPipPath); err != nil {
		return err
	}
	defer os.Remove(getPipPath)

	if out, err := p.runner.Run(ctx, p.pythonExe, getPipPath); err != nil {
		return fmt.Errorf("%w: running get-pip.py: %s\n%s", ErrBootstrapFailed, err, out)
	}

	// Upgrade is best-effort; a stale pip still works.
	if _, err := p.runner.Run(ctx, p.pythonExe, "-m", "pip", "install", "--upgrade", "pip"); err != nil {
		p.logger.Warn("pip self-upgrade failed", "err", err)
	}

	return nil
}

// setupTkinter fetches the tcltk.msi component and installs it into the
// runtime directory.
func (p *Provisioner) setupTkinter(ctx context.Context) error {
	msiPath := filepath.Join(p.cfg.BaseDir, "_tcltk.msi")

	p.logger.Info("setting up tkinter")
	if err := p.fetcher.Fetch(ctx, p.spec.TclTkURL, msiPath); err != nil {
		return err
	}
	defer os.Remove(msiPath)

	return p.tcltk.Install(ctx, msiPath, p.pythonDir)
}

// installRequirements installs the requirement set, retrying once in
// verbose mode so the failure output is usable for diagnosis.
func (p *Provisioner) installRequirements(ctx context.Context) error {
	args := []string{"-m", "pip", "install", "-q", "-r", p.cfg.RequirementsFile}
	args = append(args, p.cfg.ExtraPipArgs...)

	p.logger.Info("installing requirements", "file", p.cfg.RequirementsFile)
	if _, err := p.runner.Run(ctx, p.pythonExe, args...); err == nil {
		return nil
	}

	p.logger.Warn("pip install failed, retrying verbosely")
	verbose := []string{"-m", "pip", "install", "-r", p.cfg.RequirementsFile}
	verbose = append(verbose, p.cfg.ExtraPipArgs...)
	if out, err := p.runner.Run(ctx, p.pythonExe, verbose...); err != nil {
		return fmt.Errorf("%w: %s\n%s", ErrInstallFailed, err, out)
	}
	return nil
}

// Launch runs the application entry point with pass-through arguments
// (stage 6). The entry point resolves under the base directory. A
// non-zero application exit is returned as the exit code, not as a
// pipeline failure.
func (p *Provisioner) Launch(ctx context.Context, entryPoint string, args []string) (int, error) {
	if !p.IsInstalled() {
		return -1, fmt.Errorf("runtime not provisioned at %s", p.pythonDir)
	}

	cmdArgs := append([]string{filepath.Join(p.cfg.BaseDir, entryPoint)}, args...)
	p.logger.Info("launching application", "entry", entryPoint)

	code, err := p.launcher.Launch(ctx, p.cfg.BaseDir, p.pythonExe, cmdArgs...)
	if err != nil {
		return -1, fmt.Errorf("launching %s: %w", entryPoint, err)
	}
	return code, nil
}

// execRunner runs commands with os/exec and returns combined output.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// execLauncher runs the application with inherited stdio and maps a
// non-zero exit to its code.
type execLauncher struct{}

func (execLauncher) Launch(ctx context.Context, dir, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
