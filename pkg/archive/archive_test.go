package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
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
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func writeTarXz(t *testing.T, path string, files map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	xzw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	tw := tar.NewWriter(xzw)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := xzw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "runtime.zip")
	writeZip(t, archivePath, map[string]string{
		"python.exe":     "binary",
		"python312._pth": "python312.zip\n",
		"DLLs/_socket.pyd": "dll",
	})

	target := filepath.Join(dir, "out")
	if err := Extract(archivePath, target); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	for _, name := range []string{"python.exe", "python312._pth", filepath.Join("DLLs", "_socket.pyd")} {
		if _, err := os.Stat(filepath.Join(target, name)); err != nil {
			t.Errorf("expected %s after extraction: %v", name, err)
		}
	}
}

func TestExtractTarXz(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "runtime.tar.xz")
	writeTarXz(t, archivePath, map[string]string{
		"bin/python":     "binary",
		"lib/os.py":      "module",
	})

	target := filepath.Join(dir, "out")
	if err := Extract(archivePath, target); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(target, "lib", "os.py"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "module" {
		t.Errorf("extracted content = %q, want %q", data, "module")
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "blob.rar")
	if err := os.WriteFile(archivePath, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := Extract(archivePath, filepath.Join(dir, "out"))
	if !errors.Is(err, ErrExtractFailed) {
		t.Errorf("Extract(.rar) = %v, want ErrExtractFailed", err)
	}
}

func TestExtractRejectsEscapingSymlink(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "outside")
	if err := os.MkdirAll(outside, 0755); err != nil {
		t.Fatal(err)
	}

	// A link to a sibling directory followed by a file written through it.
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{Name: "link", Typeflag: tar.TypeSymlink, Linkname: "../outside", Mode: 0777}); err != nil {
		t.Fatal(err)
	}
	content := "owned"
	if err := tw.WriteHeader(&tar.Header{Name: "link/pwned.txt", Typeflag: tar.TypeReg, Mode: 0644, Size: int64(len(content))}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	archivePath := filepath.Join(dir, "evil.tar")
	if err := os.WriteFile(archivePath, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	err := Extract(archivePath, filepath.Join(dir, "out"))
	if !errors.Is(err, ErrExtractFailed) {
		t.Fatalf("Extract of escaping symlink = %v, want ErrExtractFailed", err)
	}
	if _, statErr := os.Stat(filepath.Join(outside, "pwned.txt")); !os.IsNotExist(statErr) {
		t.Error("file escaped the target directory through a symlink")
	}
}

func TestExtractAllowsInternalSymlink(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	content := "module"
	if err := tw.WriteHeader(&tar.Header{Name: "lib/real.py", Typeflag: tar.TypeReg, Mode: 0644, Size: int64(len(content))}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tw.WriteHeader(&tar.Header{Name: "lib/alias.py", Typeflag: tar.TypeSymlink, Linkname: "real.py", Mode: 0777}); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	archivePath := filepath.Join(dir, "runtime.tar")
	if err := os.WriteFile(archivePath, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(dir, "out")
	if err := Extract(archivePath, target); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(target, "lib", "alias.py"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Errorf("symlink content = %q, want %q", data, content)
	}
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "evil.zip")
	writeZip(t, archivePath, map[string]string{
		"../escape.txt": "payload",
	})

	err := Extract(archivePath, filepath.Join(dir, "out"))
	if !errors.Is(err, ErrExtractFailed) {
		t.Fatalf("Extract of escaping entry = %v, want ErrExtractFailed", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "escape.txt")); !os.IsNotExist(statErr) {
		t.Error("escaping entry was written outside the target directory")
	}
}
