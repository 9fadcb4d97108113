// internal/cli/root.go
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/portable-py/pydeploy/pkg/core"
)

var (
	cfgFile string
	debug   bool
	quiet   bool
	config  *core.Config
	logger  *log.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pydeploy",
	Short: "Portable Python Deployer",
	Long: `pydeploy - Portable Python Deployer

Provisions self-contained embeddable Python runtimes (pip and tkinter
included) and generates parameterized deployment packages that repeat
the same provisioning recipe for your own projects.`,
	Version: "1.0.0",
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pydeploy/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")

	// Add commands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	if debug {
		config.Debug = true
	}

	logger = newLogger()
}

func newLogger() *log.Logger {
	if quiet {
		return log.New(io.Discard)
	}
	level := log.InfoLevel
	if config.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level: level,
	})
}
