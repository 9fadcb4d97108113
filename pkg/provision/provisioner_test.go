package provision

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/portable-py/pydeploy/pkg/catalog"
)

// fakeFetcher writes canned payloads keyed by URL and counts calls.
type fakeFetcher struct {
	payloads map[string][]byte
	calls    int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url, dest string) error {
	f.calls++
	payload, ok := f.payloads[url]
	if !ok {
		return fmt.Errorf("unexpected fetch of %s", url)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	return os.WriteFile(dest, payload, 0644)
}

// fakeRunner simulates the embedded interpreter. Running get-pip.py
// flips the pip probe, mirroring what the real bootstrap does.
type fakeRunner struct {
	pip             bool
	tkinter         bool
	getPipFails     bool
	installFailures int // quiet/verbose pip install attempts to fail
	calls           [][]string
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	joined := strings.Join(args, " ")

	switch {
	case joined == "-m pip --version":
		if r.pip {
			return []byte("pip 24.0"), nil
		}
		return nil, errors.New("no module named pip")
	case strings.HasSuffix(args[0], "get-pip.py"):
		if r.getPipFails {
			return []byte("boom"), errors.New("exit status 1")
		}
		r.pip = true
		return []byte("Successfully installed pip"), nil
	case joined == "-c import _tkinter":
		if r.tkinter {
			return nil, nil
		}
		return nil, errors.New("no module named _tkinter")
	case strings.Contains(joined, "pip install --upgrade pip"):
		return nil, nil
	case strings.Contains(joined, "pip install"):
		if r.installFailures > 0 {
			r.installFailures--
			return []byte("resolution error"), errors.New("exit status 1")
		}
		return nil, nil
	case joined == "--version":
		return []byte("Python 3.12.10\n"), nil
	}
	return nil, fmt.Errorf("unexpected command: %s %s", name, joined)
}

// fakeTclTk marks tkinter importable on install, like the real msi copy.
type fakeTclTk struct {
	runner *fakeRunner
	fail   bool
	calls  int
}

func (f *fakeTclTk) Install(ctx context.Context, msiPath, runtimeDir string) error {
	f.calls++
	if f.fail {
		return errors.New("msiexec exit status 1603")
	}
	f.runner.tkinter = true
	return nil
}

func runtimeZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"python.exe":     "interpreter",
		"python312._pth": "python312.zip\n# Uncomment to run site.main() automatically\n#import site\n",
		"python312.zip":  "stdlib",
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testEnv(t *testing.T, cfg *Config) (*Provisioner, *fakeFetcher, *fakeRunner) {
	t.Helper()
	spec, err := catalog.Resolve("3.12")
	if err != nil {
		t.Fatal(err)
	}

	fetcher := &fakeFetcher{payloads: map[string][]byte{
		spec.RuntimeURL:   runtimeZip(t),
		catalog.GetPipURL: []byte("# get-pip"),
		spec.TclTkURL:     []byte("msi"),
	}}
	runner := &fakeRunner{}

	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = t.TempDir()
	}
	cfg.PythonVersion = "3.12"
	cfg.Fetcher = fetcher
	cfg.Runner = runner
	if cfg.TclTk == nil {
		cfg.TclTk = &fakeTclTk{runner: runner}
	}

	p, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return p, fetcher, runner
}

func TestProvisionFreshEnvironment(t *testing.T) {
	p, fetcher, _ := testEnv(t, &Config{})
	ctx := context.Background()

	res, err := p.Provision(ctx)
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}

	if !res.FreshRuntime {
		t.Error("expected a fresh runtime extraction")
	}
	if !p.IsInstalled() {
		t.Error("interpreter binary missing after provisioning")
	}
	// runtime zip + get-pip.py; tkinter was off
	if fetcher.calls != 2 {
		t.Errorf("fetch calls = %d, want 2", fetcher.calls)
	}

	baseDir := p.cfg.BaseDir
	if _, err := os.Stat(filepath.Join(baseDir, "python_embedded.zip")); !os.IsNotExist(err) {
		t.Error("runtime archive was not deleted after extraction")
	}
	if _, err := os.Stat(filepath.Join(p.pythonDir, "get-pip.py")); !os.IsNotExist(err) {
		t.Error("get-pip.py was not deleted after bootstrap")
	}

	// Stage 2 rewrote the manifest with site initialization enabled last.
	data, err := os.ReadFile(filepath.Join(p.pythonDir, "python312._pth"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "\nimport site\n") {
		t.Errorf("manifest does not end with import site:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(p.pythonDir, "Lib", "site-packages")); err != nil {
		t.Errorf("site-packages directory missing: %v", err)
	}
}

func TestProvisionIdempotent(t *testing.T) {
	p, fetcher, _ := testEnv(t, &Config{})
	ctx := context.Background()

	if _, err := p.Provision(ctx); err != nil {
		t.Fatalf("first Provision failed: %v", err)
	}
	callsAfterFirst := fetcher.calls

	// A ready environment performs zero fetches and zero extractions.
	res, err := p.Provision(ctx)
	if err != nil {
		t.Fatalf("second Provision failed: %v", err)
	}
	if res.FreshRuntime {
		t.Error("second run reported a fresh extraction")
	}
	if fetcher.calls != callsAfterFirst {
		t.Errorf("second run fetched %d more artifacts", fetcher.calls-callsAfterFirst)
	}
}

func TestProvisionTkinterSuccess(t *testing.T) {
	runnerSeen := &fakeTclTk{}
	cfg := &Config{Tkinter: true, TclTk: runnerSeen}
	p, fetcher, runner := testEnv(t, cfg)
	runnerSeen.runner = runner
	ctx := context.Background()

	res, err := p.Provision(ctx)
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}
	if !res.TkinterAvailable {
		t.Error("tkinter should be available after install")
	}
	if runnerSeen.calls != 1 {
		t.Errorf("tcltk installer called %d times, want 1", runnerSeen.calls)
	}
	// runtime zip + get-pip + tcltk.msi
	if fetcher.calls != 3 {
		t.Errorf("fetch calls = %d, want 3", fetcher.calls)
	}
	if _, err := os.Stat(filepath.Join(p.cfg.BaseDir, "_tcltk.msi")); !os.IsNotExist(err) {
		t.Error("tcltk.msi was not deleted after install")
	}
}

func TestProvisionTkinterFailureIsNonFatal(t *testing.T) {
	tk := &fakeTclTk{fail: true}
	cfg := &Config{Tkinter: true, TclTk: tk}
	p, _, runner := testEnv(t, cfg)
	tk.runner = runner
	ctx := context.Background()

	res, err := p.Provision(ctx)
	if err != nil {
		t.Fatalf("Provision should continue without GUI, got: %v", err)
	}
	if res.TkinterAvailable {
		t.Error("tkinter reported available despite failed install")
	}
}

func TestProvisionInstallRetry(t *testing.T) {
	reqFile := filepath.Join(t.TempDir(), "requirements.txt")
	if err := os.WriteFile(reqFile, []byte("requests\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("retry succeeds", func(t *testing.T) {
		p, _, runner := testEnv(t, &Config{RequirementsFile: reqFile})
		runner.installFailures = 1

		if _, err := p.Provision(context.Background()); err != nil {
			t.Fatalf("Provision failed despite successful retry: %v", err)
		}

		// The retry drops -q so the failure output is usable.
		var installs [][]string
		for _, call := range runner.calls {
			if len(call) > 3 && call[2] == "pip" && call[3] == "install" && !strings.Contains(strings.Join(call, " "), "--upgrade") {
				installs = append(installs, call)
			}
		}
		if len(installs) != 2 {
			t.Fatalf("pip install attempts = %d, want 2", len(installs))
		}
		if !contains(installs[0], "-q") {
			t.Error("first attempt should be quiet")
		}
		if contains(installs[1], "-q") {
			t.Error("retry should be verbose")
		}
	})

	t.Run("second failure is fatal", func(t *testing.T) {
		p, _, runner := testEnv(t, &Config{RequirementsFile: reqFile})
		runner.installFailures = 2

		_, err := p.Provision(context.Background())
		if !errors.Is(err, ErrInstallFailed) {
			t.Fatalf("Provision = %v, want ErrInstallFailed", err)
		}
	})
}

func TestProvisionBootstrapFailureIsFatal(t *testing.T) {
	reqFile := filepath.Join(t.TempDir(), "requirements.txt")
	if err := os.WriteFile(reqFile, []byte("requests\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p, _, runner := testEnv(t, &Config{RequirementsFile: reqFile})
	runner.getPipFails = true

	_, err := p.Provision(context.Background())
	if !errors.Is(err, ErrBootstrapFailed) {
		t.Fatalf("Provision = %v, want ErrBootstrapFailed", err)
	}

	// Later stages were never attempted.
	for _, call := range runner.calls {
		if strings.Contains(strings.Join(call, " "), "-r "+reqFile) {
			t.Error("dependency install ran after fatal bootstrap failure")
		}
	}
}

// fakeLauncher records the launch invocation and returns a fixed code.
type fakeLauncher struct {
	dir  string
	name string
	args []string
	code int
}

func (f *fakeLauncher) Launch(ctx context.Context, dir, name string, args ...string) (int, error) {
	f.dir, f.name, f.args = dir, name, args
	return f.code, nil
}

func TestLaunchResolvesEntryUnderBaseDir(t *testing.T) {
	launcher := &fakeLauncher{code: 7}
	p, _, _ := testEnv(t, &Config{Launcher: launcher})
	ctx := context.Background()

	if _, err := p.Provision(ctx); err != nil {
		t.Fatalf("Provision failed: %v", err)
	}

	// The entry point lives in the base directory, not the process cwd.
	entry := "app.py"
	if err := os.WriteFile(filepath.Join(p.cfg.BaseDir, entry), []byte("print('hi')\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if !p.HasEntryPoint(entry) {
		t.Error("entry point in base dir not detected")
	}
	if p.HasEntryPoint("missing.py") {
		t.Error("absent entry point reported as present")
	}

	code, err := p.Launch(ctx, entry, []string{"--port", "8080"})
	if err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	if code != 7 {
		t.Errorf("exit code = %d, want the application's 7", code)
	}

	if launcher.dir != p.cfg.BaseDir {
		t.Errorf("launch dir = %q, want base dir %q", launcher.dir, p.cfg.BaseDir)
	}
	if launcher.name != p.PythonExe() {
		t.Errorf("launch binary = %q, want %q", launcher.name, p.PythonExe())
	}
	wantScript := filepath.Join(p.cfg.BaseDir, entry)
	if len(launcher.args) == 0 || launcher.args[0] != wantScript {
		t.Errorf("script argument = %v, want first arg %q", launcher.args, wantScript)
	}
	if got := launcher.args[len(launcher.args)-1]; got != "8080" {
		t.Errorf("pass-through args not forwarded, last arg = %q", got)
	}
}

func TestLaunchWithoutRuntime(t *testing.T) {
	launcher := &fakeLauncher{}
	p, err := New(&Config{BaseDir: t.TempDir(), PythonVersion: "3.12", Launcher: launcher})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Launch(context.Background(), "app.py", nil); err == nil {
		t.Error("Launch succeeded without a provisioned runtime")
	}
	if launcher.name != "" {
		t.Error("launcher was invoked despite missing runtime")
	}
}

func TestNewUnsupportedVersion(t *testing.T) {
	_, err := New(&Config{BaseDir: t.TempDir(), PythonVersion: "2.7"})
	if !errors.Is(err, catalog.ErrUnsupportedVersion) {
		t.Errorf("New = %v, want ErrUnsupportedVersion", err)
	}
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
