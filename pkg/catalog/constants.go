// pkg/catalog/constants.go
package catalog

// DownloadBaseURL is the root of the python.org release file tree
const DownloadBaseURL = "https://www.python.org/ftp/python"

// GetPipURL is the pip bootstrap script; it is version-independent
const GetPipURL = "https://bootstrap.pypa.io/get-pip.py"

// Latest known patch versions with an embeddable ZIP published on python.org.
// Security-only releases drop Windows embeddable builds, so this table is
// hand-curated and shipped with the tool.
var patchVersions = map[string]string{
	"3.10": "3.10.11",
	"3.11": "3.11.9",
	"3.12": "3.12.10",
	"3.13": "3.13.12",
	"3.14": "3.14.3",
}

// Display labels for user-facing version listings
var versionLabels = map[string]string{
	"3.10": "Python 3.10 (3.10.11) - Stable, wide compatibility",
	"3.11": "Python 3.11 (3.11.9) - Stable, faster",
	"3.12": "Python 3.12 (3.12.10) - Stable, recommended",
	"3.13": "Python 3.13 (3.13.12) - Stable, latest features",
	"3.14": "Python 3.14 (3.14.3) - Stable, newest",
}
