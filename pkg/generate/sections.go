// pkg/generate/sections.go
package generate

import (
	"fmt"
	"strings"
)

// Feature variation is composed here, in code, by choosing which batch
// fragments end up in the substitution map. Templates themselves carry
// no conditionals.

func gitVars() string {
	return `set "GIT_DIR=%SCRIPT_DIR%git_portable"
set "GIT_EXE=%GIT_DIR%\cmd\git.exe"
set "GIT_VERSION=` + GitVersion + `"
set "GIT_URL=` + GitURL + `"
set "GIT_ZIP=%SCRIPT_DIR%git_portable.zip"

`
}

func ffmpegVars() string {
	return `set "FFMPEG_DIR=%SCRIPT_DIR%ffmpeg_portable"
set "FFMPEG_EXE=%FFMPEG_DIR%\bin\ffmpeg.exe"
set "FFMPEG_URL=` + FFmpegURL + `"
set "FFMPEG_ZIP=%SCRIPT_DIR%ffmpeg_portable.zip"

`
}

// tkinterSection mirrors the pipeline's GUI toolkit stage: probe the
// binding, administrative-extract tcltk.msi, copy the fixed manifest,
// clean up, re-verify. Failures degrade to warnings.
func tkinterSection(tclTkURL string) string {
	return `:: ============================================
:: Set up tkinter (needed for GUI)
:: ============================================
"%PYTHON_EXE%" -c "import _tkinter" >nul 2>&1
if %errorlevel% neq 0 (
    echo [STEP] Setting up tkinter for GUI...

    set "TCLTK_MSI_URL=` + tclTkURL + `"
    set "TCLTK_MSI=%SCRIPT_DIR%_tcltk.msi"
    set "TCLTK_DIR=%SCRIPT_DIR%_tcltk_extract"

    echo   Downloading tcltk.msi...
    powershell -NoProfile -ExecutionPolicy Bypass -Command ^
        "[Net.ServicePointManager]::SecurityProtocol = [Net.SecurityProtocolType]::Tls12;" ^
        "$ProgressPreference = 'SilentlyContinue';" ^
        "Invoke-WebRequest -Uri '!TCLTK_MSI_URL!' -OutFile '!TCLTK_MSI!'"

    if not exist "!TCLTK_MSI!" (
        echo WARNING: Failed to download tcltk.msi. GUI may not work.
        goto :tkinter_done
    )

    echo   Extracting tkinter components...
    if exist "!TCLTK_DIR!" rmdir /S /Q "!TCLTK_DIR!" 2>nul
    powershell -NoProfile -Command "Start-Process -FilePath 'msiexec.exe' -ArgumentList '/a','!TCLTK_MSI!','/qn','TARGETDIR=!TCLTK_DIR!' -Wait -NoNewWindow"

    :: Copy DLLs next to python.exe
    if exist "!TCLTK_DIR!\DLLs\_tkinter.pyd" (
        copy /Y "!TCLTK_DIR!\DLLs\_tkinter.pyd" "%PYTHON_DIR%\" >nul 2>&1
        copy /Y "!TCLTK_DIR!\DLLs\tcl86t.dll" "%PYTHON_DIR%\" >nul 2>&1
        copy /Y "!TCLTK_DIR!\DLLs\tk86t.dll" "%PYTHON_DIR%\" >nul 2>&1
        if exist "!TCLTK_DIR!\DLLs\zlib1.dll" (
            copy /Y "!TCLTK_DIR!\DLLs\zlib1.dll" "%PYTHON_DIR%\" >nul 2>&1
        )
    )

    :: Copy Lib/tkinter/ Python package
    if exist "!TCLTK_DIR!\Lib\tkinter" (
        if exist "%PYTHON_DIR%\Lib\tkinter" rmdir /S /Q "%PYTHON_DIR%\Lib\tkinter" 2>nul
        xcopy /E /I /Y "!TCLTK_DIR!\Lib\tkinter" "%PYTHON_DIR%\Lib\tkinter" >nul 2>&1
    )

    :: Copy tcl/ library
    if exist "!TCLTK_DIR!\tcl" (
        if exist "%PYTHON_DIR%\tcl" rmdir /S /Q "%PYTHON_DIR%\tcl" 2>nul
        xcopy /E /I /Y "!TCLTK_DIR!\tcl" "%PYTHON_DIR%\tcl" >nul 2>&1
    )

    :: Cleanup
    rmdir /S /Q "!TCLTK_DIR!" 2>nul
    del "!TCLTK_MSI!" 2>nul

    :: Verify
    "%PYTHON_EXE%" -c "import _tkinter" >nul 2>&1
    if errorlevel 1 (
        echo WARNING: Failed to set up tkinter. GUI may not work.
    ) else (
        echo [OK] tkinter setup complete.
    )
) else (
    echo [OK] tkinter already available.
)
:tkinter_done

`
}

func gitSection() string {
	return `:: ============================================
:: Download Portable Git
:: ============================================
if exist "%GIT_EXE%" (
    echo [OK] Portable Git already installed.
    goto :git_done
)

echo [STEP] Downloading portable Git %GIT_VERSION%...
powershell -NoProfile -ExecutionPolicy Bypass -Command ^
    "[Net.ServicePointManager]::SecurityProtocol = [Net.SecurityProtocolType]::Tls12;" ^
    "$ProgressPreference = 'SilentlyContinue';" ^
    "Invoke-WebRequest -Uri '%GIT_URL%' -OutFile '%GIT_ZIP%'"

if not exist "%GIT_ZIP%" (
    echo WARNING: Failed to download Git. Git features may not work.
    goto :git_done
)

echo [STEP] Extracting portable Git...
powershell -NoProfile -ExecutionPolicy Bypass -Command ^
    "Expand-Archive -Path '%GIT_ZIP%' -DestinationPath '%GIT_DIR%' -Force"

del "%GIT_ZIP%" 2>nul
:git_done

`
}

func ffmpegSection() string {
	return `:: ============================================
:: Download Portable FFmpeg
:: ============================================
if exist "%FFMPEG_EXE%" (
    echo [OK] Portable FFmpeg already installed.
    goto :ffmpeg_done
)

echo [STEP] Downloading portable FFmpeg...
powershell -NoProfile -ExecutionPolicy Bypass -Command ^
    "[Net.ServicePointManager]::SecurityProtocol = [Net.SecurityProtocolType]::Tls12;" ^
    "$ProgressPreference = 'SilentlyContinue';" ^
    "Invoke-WebRequest -Uri '%FFMPEG_URL%' -OutFile '%FFMPEG_ZIP%'"

if not exist "%FFMPEG_ZIP%" (
    echo WARNING: Failed to download FFmpeg.
    goto :ffmpeg_done
)

echo [STEP] Extracting portable FFmpeg...
powershell -NoProfile -ExecutionPolicy Bypass -Command ^
    "$tempDir = '%SCRIPT_DIR%_ffmpeg_temp';" ^
    "Expand-Archive -Path '%FFMPEG_ZIP%' -DestinationPath $tempDir -Force;" ^
    "$inner = Get-ChildItem $tempDir -Directory | Select-Object -First 1;" ^
    "if ($inner -and (Test-Path (Join-Path $inner.FullName 'bin'))) {" ^
    "  New-Item -Path '%FFMPEG_DIR%\bin' -ItemType Directory -Force | Out-Null;" ^
    "  Copy-Item (Join-Path $inner.FullName 'bin\*') '%FFMPEG_DIR%\bin\' -Force;" ^
    "} else {" ^
    "  Write-Host 'WARNING: FFmpeg zip has unexpected structure'" ^
    "};" ^
    "Remove-Item $tempDir -Recurse -Force -ErrorAction SilentlyContinue"

del "%FFMPEG_ZIP%" 2>nul
:ffmpeg_done

`
}

func installerPathSetup(cfg *ProjectConfig) string {
	var b strings.Builder
	if cfg.IncludeGit {
		b.WriteString(`if exist "%GIT_EXE%" (
    set "PATH=%GIT_DIR%\cmd;%PATH%"
    echo [OK] Portable Git added to PATH.
)

`)
	}
	if cfg.IncludeFFmpeg {
		b.WriteString(`if exist "%FFMPEG_EXE%" (
    set "PATH=%FFMPEG_DIR%\bin;%PATH%"
    echo [OK] Portable FFmpeg added to PATH.
)

`)
	}
	return b.String()
}

func launcherPathSetup(cfg *ProjectConfig) string {
	var b strings.Builder
	if cfg.IncludeGit {
		b.WriteString(`if exist "%SCRIPT_DIR%git_portable\cmd\git.exe" (
    set "PATH=%SCRIPT_DIR%git_portable\cmd;%PATH%"
)
`)
	}
	if cfg.IncludeFFmpeg {
		b.WriteString(`if exist "%SCRIPT_DIR%ffmpeg_portable\bin\ffmpeg.exe" (
    set "PATH=%SCRIPT_DIR%ffmpeg_portable\bin;%PATH%"
)
`)
	}
	return b.String()
}

// Runtime-config fragments for config.py.

func configPathVars(cfg *ProjectConfig) string {
	var b strings.Builder
	if cfg.IncludeGit {
		b.WriteString("GIT_PORTABLE_DIR = BASE_DIR / \"git_portable\"\n")
	}
	if cfg.IncludeFFmpeg {
		b.WriteString("FFMPEG_PORTABLE_DIR = BASE_DIR / \"ffmpeg_portable\"\n")
	}
	return b.String()
}

func configResolveFuncs(cfg *ProjectConfig) string {
	var b strings.Builder
	if cfg.IncludeGit {
		b.WriteString(`
def _resolve_git_path() -> str:
    """Find the best available git executable."""
    portable_git = GIT_PORTABLE_DIR / "cmd" / "git.exe"
    if portable_git.exists():
        return str(portable_git)
    return "git"

`)
	}
	if cfg.IncludeFFmpeg {
		b.WriteString(`
def _resolve_ffmpeg_path() -> str:
    """Find the best available ffmpeg executable."""
    portable_ffmpeg = FFMPEG_PORTABLE_DIR / "bin" / "ffmpeg.exe"
    if portable_ffmpeg.exists():
        return str(portable_ffmpeg)
    return "ffmpeg"

`)
	}
	return b.String()
}

func configResolvedVars(cfg *ProjectConfig) string {
	var b strings.Builder
	if cfg.IncludeGit {
		b.WriteString("GIT_PATH = _resolve_git_path()\n")
	}
	if cfg.IncludeFFmpeg {
		b.WriteString("FFMPEG_PATH = _resolve_ffmpeg_path()\n")
	}
	return b.String()
}

// pthExtra renders extra search-path entries as additional PowerShell
// array elements for the installer's ._pth rewrite.
func pthExtra(paths []string) string {
	var b strings.Builder
	for _, p := range paths {
		fmt.Fprintf(&b, ", '%s'", p)
	}
	return b.String()
}

func featureEcho(enabled bool, line string) string {
	if !enabled {
		return ""
	}
	return "echo   - " + line + "\n"
}
