// internal/cli/versions.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portable-py/pydeploy/pkg/catalog"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List available Python versions",
	Long:  `List the Python release lines with an embeddable distribution in the catalog.`,
	RunE:  runVersions,
}

func runVersions(cmd *cobra.Command, args []string) error {
	fmt.Println("\nAvailable Python versions (with embeddable ZIP):")
	fmt.Println()
	fmt.Printf("  %-8s %-12s %s\n", "Minor", "Patch", "Description")
	fmt.Printf("  %-8s %-12s %s\n", "-----", "-----", "-----------")

	for _, line := range catalog.Lines() {
		spec, err := catalog.Resolve(line)
		if err != nil {
			return err
		}
		fmt.Printf("  %-8s %-12s %s\n", spec.Line, spec.Patch, spec.Label)
	}
	fmt.Println()

	return nil
}
