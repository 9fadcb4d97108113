// pkg/generate/constants.go
package generate

// GitVersion pins the portable Git release embedded in generated
// installers.
const GitVersion = "2.47.1"

// GitURL is the MinGit download for GitVersion.
const GitURL = "https://github.com/git-for-windows/git/releases/download/v" + GitVersion + ".windows.1/MinGit-" + GitVersion + "-64-bit.zip"

// FFmpegURL is the portable FFmpeg essentials build.
const FFmpegURL = "https://www.gyan.dev/ffmpeg/builds/ffmpeg-release-essentials.zip"

// Names of the fixed files every generated package contains.
const (
	InstallerName    = "install.bat"
	RuntimeConfig    = "config.py"
	RequirementsName = "requirements.txt"
)
