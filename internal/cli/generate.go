// internal/cli/generate.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	deployer "github.com/portable-py/pydeploy"
	"github.com/portable-py/pydeploy/pkg/generate"
)

var (
	genName         string
	genPython       string
	genOutput       string
	genEntryPoint   string
	genLauncherName string
	genRequirements string
	genInline       string
	genGit          bool
	genFFmpeg       bool
	genNoTkinter    bool
	genExtraPth     string
	genExtraPipArgs string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a portable deployment package",
	Long: `Generate a self-contained deployment package for a project.

The package contains an installer script, a launcher script, a runtime
config module, a requirements manifest and an entry-point stub. No
network access happens during generation; downloads run on the end
user's machine when install.bat executes.

Examples:
  pydeploy generate --name MyApp --python 3.12
  pydeploy generate --name WebServer --python 3.13 --requirements req.txt --entry-point server.py --git
  pydeploy generate --name MLProject --python 3.10 --no-tkinter --output E:\builds`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genName, "name", "n", "", "project name (required)")
	generateCmd.Flags().StringVarP(&genPython, "python", "p", "", "Python release line (default from config, normally 3.12)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "output directory (default from config)")
	generateCmd.Flags().StringVarP(&genEntryPoint, "entry-point", "e", "app.py", "Python entry point filename")
	generateCmd.Flags().StringVar(&genLauncherName, "launcher-name", "launcher.bat", "launcher batch file name")
	generateCmd.Flags().StringVarP(&genRequirements, "requirements", "r", "", "path to a requirements.txt file")
	generateCmd.Flags().StringVar(&genInline, "requirements-inline", "", "inline requirements, comma-separated (e.g. 'requests,flask')")
	generateCmd.Flags().BoolVar(&genGit, "git", false, "include portable Git")
	generateCmd.Flags().BoolVar(&genFFmpeg, "ffmpeg", false, "include portable FFmpeg")
	generateCmd.Flags().BoolVar(&genNoTkinter, "no-tkinter", false, "exclude tkinter setup")
	generateCmd.Flags().StringVar(&genExtraPth, "extra-pth", "", "extra ._pth paths, comma-separated")
	generateCmd.Flags().StringVar(&genExtraPipArgs, "extra-pip-args", "", "extra pip install arguments")

	generateCmd.MarkFlagRequired("name")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	pythonLine := genPython
	if pythonLine == "" {
		pythonLine = config.DefaultPython
	}
	outputDir := genOutput
	if outputDir == "" {
		outputDir = config.OutputDir
	}

	cfg := &generate.ProjectConfig{
		ProjectName:      genName,
		PythonVersion:    pythonLine,
		OutputDir:        outputDir,
		EntryPoint:       genEntryPoint,
		LauncherName:     genLauncherName,
		Requirements:     splitList(genInline),
		RequirementsFile: genRequirements,
		IncludeGit:       genGit,
		IncludeFFmpeg:    genFFmpeg,
		IncludeTkinter:   !genNoTkinter,
		ExtraPthPaths:    splitList(genExtraPth),
		ExtraPipArgs:     splitArgs(genExtraPipArgs),
	}

	if !quiet {
		printSummary(cfg)
	}

	gen := generate.NewGenerator(logger)
	pkg, err := gen.Generate(cfg)
	if err != nil {
		return &deployer.Error{Op: "generate", Artifact: cfg.ProjectName, Err: err}
	}

	fmt.Printf("✓ Package generated at: %s\n", pkg.Dir)
	for _, f := range pkg.Files {
		fmt.Printf("    %s\n", f)
	}
	fmt.Println("\nCopy the directory to the target machine and run install.bat.")

	return nil
}

func printSummary(cfg *generate.ProjectConfig) {
	fmt.Println(strings.Repeat("=", 55))
	fmt.Println("  Portable Python Deployer")
	fmt.Println(strings.Repeat("=", 55))
	fmt.Printf("  Project:     %s\n", cfg.ProjectName)
	fmt.Printf("  Python:      %s\n", cfg.PythonVersion)
	fmt.Printf("  Entry point: %s\n", cfg.EntryPoint)
	fmt.Printf("  Output:      %s\n", cfg.PackageDir())
	fmt.Printf("  Tkinter:     %s\n", yesNo(cfg.IncludeTkinter))
	fmt.Printf("  Git:         %s\n", yesNo(cfg.IncludeGit))
	fmt.Printf("  FFmpeg:      %s\n", yesNo(cfg.IncludeFFmpeg))
	fmt.Println(strings.Repeat("-", 55))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitArgs(s string) []string {
	return strings.Fields(s)
}
