// pkg/generate/templates.go
package generate

import (
	_ "embed"
)

//go:embed templates/install.bat.template
var installTemplate string

//go:embed templates/launcher.bat.template
var launcherTemplate string

//go:embed templates/config.py.template
var configTemplate string
