package catalog

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestResolveSupportedLines(t *testing.T) {
	for _, line := range Lines() {
		spec, err := Resolve(line)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", line, err)
		}
		if spec.Line != line {
			t.Errorf("spec.Line = %q, want %q", spec.Line, line)
		}
		if !strings.HasPrefix(spec.Patch, line+".") {
			t.Errorf("patch %q does not extend line %q", spec.Patch, line)
		}
		if !strings.Contains(spec.RuntimeURL, spec.Patch) {
			t.Errorf("runtime URL %q missing patch version", spec.RuntimeURL)
		}
		if !strings.HasSuffix(spec.RuntimeURL, "-embed-amd64.zip") {
			t.Errorf("runtime URL %q is not an embeddable zip", spec.RuntimeURL)
		}
		if !strings.HasSuffix(spec.TclTkURL, "/amd64/tcltk.msi") {
			t.Errorf("tcltk URL %q has wrong shape", spec.TclTkURL)
		}
	}
}

func TestResolveIsReferentiallyStable(t *testing.T) {
	first, err := Resolve("3.12")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Resolve("3.12")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Resolve returned different specs for the same line:\n%+v\n%+v", first, second)
	}
}

func TestResolveUnsupportedVersion(t *testing.T) {
	for _, line := range []string{"2.7", "3.9", "3.99", "", "latest"} {
		_, err := Resolve(line)
		if !errors.Is(err, ErrUnsupportedVersion) {
			t.Errorf("Resolve(%q) = %v, want ErrUnsupportedVersion", line, err)
		}
	}
}

func TestLinesAscending(t *testing.T) {
	want := []string{"3.10", "3.11", "3.12", "3.13", "3.14"}
	if got := Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %v, want %v", got, want)
	}
}

func TestStdlibZipName(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"3.10", "python310.zip"},
		{"3.12", "python312.zip"},
		{"3.14", "python314.zip"},
	}
	for _, tt := range tests {
		if got := StdlibZipName(tt.line); got != tt.want {
			t.Errorf("StdlibZipName(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
