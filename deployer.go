// deployer.go

// Package deployer generates self-contained, no-install Python
// deployment packages and provisions embeddable Python runtimes with
// pip and tkinter.
package deployer

import (
	"github.com/portable-py/pydeploy/pkg/catalog"
	"github.com/portable-py/pydeploy/pkg/core"
	"github.com/portable-py/pydeploy/pkg/generate"
	"github.com/portable-py/pydeploy/pkg/provision"
)

// Re-export the main types for convenience
type (
	Config           = core.Config
	VersionSpec      = catalog.VersionSpec
	ProjectConfig    = generate.ProjectConfig
	GeneratedPackage = generate.Package
	ProvisionConfig  = provision.Config
	ProvisionResult  = provision.Result
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// DefaultProjectConfig returns the default package generation request
func DefaultProjectConfig() *ProjectConfig {
	return generate.DefaultProjectConfig()
}

// SupportedVersions returns the Python release lines in the catalog
func SupportedVersions() []string {
	return catalog.Lines()
}

// ResolveVersion looks up a release line in the version catalog
func ResolveVersion(line string) (*VersionSpec, error) {
	return catalog.Resolve(line)
}
