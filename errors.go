// errors.go
package deployer

import (
	"fmt"

	"github.com/portable-py/pydeploy/pkg/archive"
	"github.com/portable-py/pydeploy/pkg/catalog"
	"github.com/portable-py/pydeploy/pkg/fetch"
	"github.com/portable-py/pydeploy/pkg/generate"
	"github.com/portable-py/pydeploy/pkg/provision"
	"github.com/portable-py/pydeploy/pkg/pthfile"
)

// Re-export the error taxonomy so callers can match failures with
// errors.Is without importing every subpackage.
var (
	// ErrUnsupportedVersion indicates the requested Python release line is not in the catalog
	ErrUnsupportedVersion = catalog.ErrUnsupportedVersion

	// ErrFetchFailed indicates a remote artifact could not be retrieved
	ErrFetchFailed = fetch.ErrFetchFailed

	// ErrExtractFailed indicates an archive could not be extracted
	ErrExtractFailed = archive.ErrExtractFailed

	// ErrPatchFailed indicates the ._pth search-path manifest could not be rewritten
	ErrPatchFailed = pthfile.ErrPatchFailed

	// ErrBootstrapFailed indicates pip could not be bootstrapped
	ErrBootstrapFailed = provision.ErrBootstrapFailed

	// ErrInstallFailed indicates dependency installation failed after retry
	ErrInstallFailed = provision.ErrInstallFailed

	// ErrGenerationFailed indicates package generation failed
	ErrGenerationFailed = generate.ErrGenerationFailed
)

// Error wraps an error with additional context
type Error struct {
	Op       string // Operation that failed
	Artifact string // Artifact, stage or project name if applicable
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Artifact != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Artifact, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
