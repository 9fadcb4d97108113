// pkg/archive/tcltk.go
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Files copied from the msi administrative extract into the runtime
// directory, next to the interpreter. zlib1.dll ships only with some
// releases, so its absence is tolerated.
var (
	tclTkMandatoryFiles = []string{"_tkinter.pyd", "tcl86t.dll", "tk86t.dll"}
	tclTkOptionalFiles  = []string{"zlib1.dll"}
)

// Runner executes external commands. The msi extract shells out to
// msiexec, which tests replace with a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

// TclTkInstaller installs the tcl/tk component from a tcltk.msi package
// into an embedded runtime directory.
type TclTkInstaller struct {
	runner Runner
	logger *log.Logger
}

// NewTclTkInstaller creates an installer. A nil runner uses msiexec via
// os/exec; a nil logger discards output.
func NewTclTkInstaller(runner Runner, logger *log.Logger) *TclTkInstaller {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &TclTkInstaller{runner: runner, logger: logger}
}

// Install runs an administrative (extract-only) msi install into a
// scratch directory, copies the tkinter binding, the core dynamic
// libraries, the Lib/tkinter package and the tcl library tree into
// runtimeDir, then discards the scratch directory.
func (t *TclTkInstaller) Install(ctx context.Context, msiPath, runtimeDir string) error {
	scratchDir := filepath.Join(filepath.Dir(msiPath), "_tcltk_"+uuid.NewString()[:8])
	defer os.RemoveAll(scratchDir)

	t.logger.Debug("extracting tcltk.msi", "scratch", scratchDir)
	if err := t.runner.Run(ctx, "msiexec", "/a", msiPath, "/qn", "TARGETDIR="+scratchDir); err != nil {
		return fmt.Errorf("running msiexec: %w", err)
	}

	dllsDir := filepath.Join(scratchDir, "DLLs")
	for _, name := range tclTkMandatoryFiles {
		if err := copyFile(filepath.Join(dllsDir, name), filepath.Join(runtimeDir, name)); err != nil {
			return fmt.Errorf("copying %s: %w", name, err)
		}
	}
	for _, name := range tclTkOptionalFiles {
		if err := copyFile(filepath.Join(dllsDir, name), filepath.Join(runtimeDir, name)); err != nil {
			t.logger.Warn("optional tcl/tk file not copied", "file", name, "err", err)
		}
	}

	if err := replaceTree(filepath.Join(scratchDir, "Lib", "tkinter"), filepath.Join(runtimeDir, "Lib", "tkinter")); err != nil {
		return fmt.Errorf("copying tkinter package: %w", err)
	}
	if err := replaceTree(filepath.Join(scratchDir, "tcl"), filepath.Join(runtimeDir, "tcl")); err != nil {
		return fmt.Errorf("copying tcl library: %w", err)
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

// replaceTree copies src recursively to dst, removing any existing dst
// first so stale files from an earlier install do not linger.
func replaceTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	if err := os.RemoveAll(dst); err != nil {
		return err
	}

	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}
