// pkg/catalog/types.go
package catalog

// VersionSpec describes one supported Python release line and the
// download URLs derived from its exact patch version. Immutable once
// resolved.
type VersionSpec struct {
	Line          string // Requested release line, e.g. "3.12"
	Patch         string // Exact patch version, e.g. "3.12.10"
	Label         string // Human-readable description for listings
	RuntimeURL    string // Embeddable distribution zip
	TclTkURL      string // tcltk.msi installer package
	StdlibZipName string // Embedded stdlib archive name, e.g. "python312.zip"
}
