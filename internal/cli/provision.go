// internal/cli/provision.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	deployer "github.com/portable-py/pydeploy"
	"github.com/portable-py/pydeploy/pkg/provision"
)

var (
	provDir          string
	provPython       string
	provRequirements string
	provNoTkinter    bool
	provExtraPth     string
	provExtraPipArgs string
	provNoLaunch     bool
	provEntryPoint   string
)

var provisionCmd = &cobra.Command{
	Use:   "provision [-- app args...]",
	Short: "Provision an embedded Python environment",
	Long: `Provision a self-contained Python environment in a target directory.

Runs the same pipeline a generated install.bat runs: download and
extract the embeddable distribution, configure search paths, bootstrap
pip, set up tkinter, install requirements, then launch the entry point.
Each stage probes the directory first, so re-running resumes at the
first unmet precondition and a ready environment is a no-op.

Examples:
  pydeploy provision --dir ./myapp --python 3.12
  pydeploy provision --dir ./myapp --requirements requirements.txt --no-launch
  pydeploy provision --dir ./myapp --entry-point main.py -- --port 8080`,
	RunE: runProvision,
}

func init() {
	provisionCmd.Flags().StringVarP(&provDir, "dir", "d", ".", "target directory for the environment")
	provisionCmd.Flags().StringVarP(&provPython, "python", "p", "", "Python release line (default from config)")
	provisionCmd.Flags().StringVarP(&provRequirements, "requirements", "r", "", "requirements.txt to install")
	provisionCmd.Flags().BoolVar(&provNoTkinter, "no-tkinter", false, "skip tkinter setup")
	provisionCmd.Flags().StringVar(&provExtraPth, "extra-pth", "", "extra ._pth paths, comma-separated")
	provisionCmd.Flags().StringVar(&provExtraPipArgs, "extra-pip-args", "", "extra pip install arguments")
	provisionCmd.Flags().BoolVar(&provNoLaunch, "no-launch", false, "provision only, do not launch the entry point")
	provisionCmd.Flags().StringVarP(&provEntryPoint, "entry-point", "e", "app.py", "entry point to launch")
}

func runProvision(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pythonLine := provPython
	if pythonLine == "" {
		pythonLine = config.DefaultPython
	}

	p, err := provision.New(&provision.Config{
		BaseDir:          provDir,
		PythonVersion:    pythonLine,
		Tkinter:          !provNoTkinter,
		RequirementsFile: provRequirements,
		ExtraPthPaths:    splitList(provExtraPth),
		ExtraPipArgs:     splitArgs(provExtraPipArgs),
		Timeout:          config.HTTPTimeout,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	res, err := p.Provision(ctx)
	if err != nil {
		return &deployer.Error{Op: "provision", Artifact: provDir, Err: err}
	}

	fmt.Printf("✓ Environment ready: %s\n", res.PythonExe)
	if v := p.InterpreterVersion(ctx); v != "" {
		fmt.Printf("  Interpreter: %s\n", v)
	}
	if !provNoTkinter && !res.TkinterAvailable {
		fmt.Println("  Note: tkinter is unavailable; GUI applications will not run.")
	}

	if provNoLaunch {
		return nil
	}

	if !p.HasEntryPoint(provEntryPoint) {
		logger.Debug("entry point not found, skipping launch", "entry", provEntryPoint)
		return nil
	}

	exitCode, err := p.Launch(ctx, provEntryPoint, args)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		fmt.Fprintf(os.Stderr, "Application exited with code %d\n", exitCode)
	}
	return nil
}
