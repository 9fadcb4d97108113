// pkg/provision/types.go
package provision

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Fetcher retrieves a remote artifact to a local path.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// TclTkInstaller installs the tcl/tk component from a downloaded msi.
type TclTkInstaller interface {
	Install(ctx context.Context, msiPath, runtimeDir string) error
}

// CommandRunner executes the embedded interpreter and returns its
// combined output. Probes and pip invocations go through this so tests
// can substitute a fake interpreter.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Launcher runs the application process with inherited stdio from dir
// and returns its exit code.
type Launcher interface {
	Launch(ctx context.Context, dir, name string, args ...string) (int, error)
}

// Config describes one provisioning run.
type Config struct {
	BaseDir          string        // Directory holding python_embedded/ and downloads
	PythonVersion    string        // Release line, e.g. "3.12"
	Tkinter          bool          // Whether to set up the GUI toolkit
	RequirementsFile string        // Optional requirements.txt to install
	ExtraPthPaths    []string      // Additional ._pth search-path entries
	ExtraPipArgs     []string      // Extra arguments passed to pip install
	Timeout          time.Duration // Per-download timeout, 0 = fetch default

	Logger   *log.Logger    // nil discards output
	Fetcher  Fetcher        // nil uses the HTTP fetcher
	TclTk    TclTkInstaller // nil uses the msiexec installer
	Runner   CommandRunner  // nil uses os/exec
	Launcher Launcher       // nil uses os/exec with inherited stdio
}

// Result reports what a provisioning run ended up with.
type Result struct {
	PythonExe        string // Path to the provisioned interpreter
	FreshRuntime     bool   // True when stage 1 extracted a new runtime
	TkinterAvailable bool   // False when the optional GUI stage failed or was skipped
}
