// pkg/archive/archive.go

// Package archive extracts downloaded artifacts into a target directory
// and installs the tcl/tk component from its msi package.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// ErrExtractFailed indicates an archive could not be unpacked.
var ErrExtractFailed = errors.New("extract failed")

// Extract unpacks archivePath into targetDir, dispatching on the archive
// extension. Supported: .zip, .tar, .tar.gz/.tgz, .tar.xz/.txz.
// Failures wrap ErrExtractFailed.
func Extract(archivePath, targetDir string) error {
	name := strings.ToLower(archivePath)

	var err error
	switch {
	case strings.HasSuffix(name, ".zip"):
		err = Unzip(archivePath, targetDir)
	case strings.HasSuffix(name, ".tar"),
		strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"),
		strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		err = Untar(archivePath, targetDir)
	default:
		err = fmt.Errorf("unsupported archive format: %s", filepath.Base(archivePath))
	}

	if err != nil {
		return fmt.Errorf("%w: %s", ErrExtractFailed, err)
	}
	return nil
}

// Unzip extracts a zip archive into targetDir.
func Unzip(archivePath, targetDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer reader.Close()

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("creating target directory: %w", err)
	}

	for _, file := range reader.File {
		destPath, err := safeJoin(targetDir, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return err
		}

		src, err := file.Open()
		if err != nil {
			return fmt.Errorf("opening zip entry %s: %w", file.Name, err)
		}

		dst, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
		if err != nil {
			src.Close()
			return fmt.Errorf("creating %s: %w", destPath, err)
		}

		_, err = io.Copy(dst, src)
		src.Close()
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("extracting %s: %w", file.Name, err)
		}
	}

	return nil
}

// Untar extracts a tar archive into targetDir, decompressing gzip or xz
// streams based on the file name.
func Untar(archivePath, targetDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	name := strings.ToLower(archivePath)

	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		xzReader, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating xz reader: %w", err)
		}
		reader = xzReader
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("creating target directory: %w", err)
	}

	tarReader := tar.NewReader(reader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		cleanPath := strings.TrimPrefix(header.Name, "./")
		if cleanPath == "" {
			continue
		}

		destPath, err := safeJoin(targetDir, cleanPath)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(destPath, os.FileMode(header.Mode)); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
				return err
			}
			dst, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("creating %s: %w", destPath, err)
			}
			_, err = io.Copy(dst, tarReader)
			if cerr := dst.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("extracting %s: %w", header.Name, err)
			}
		case tar.TypeSymlink:
			if err := safeSymlink(targetDir, destPath, header.Linkname); err != nil {
				return err
			}
		}
	}

	return nil
}

// safeSymlink creates a symlink only when its resolved target stays
// inside the extraction root, so later entries written through the link
// cannot land outside it.
func safeSymlink(targetDir, destPath, linkname string) error {
	resolved := linkname
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(destPath), resolved)
	}
	if !strings.HasPrefix(filepath.Clean(resolved), filepath.Clean(targetDir)+string(os.PathSeparator)) {
		return fmt.Errorf("symlink target escapes target directory: %s -> %s", filepath.Base(destPath), linkname)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}
	return os.Symlink(linkname, destPath)
}

// safeJoin joins an archive entry name to the target directory and
// rejects entries that would escape it.
func safeJoin(targetDir, name string) (string, error) {
	destPath := filepath.Join(targetDir, filepath.FromSlash(name))
	if !strings.HasPrefix(destPath, filepath.Clean(targetDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes target directory: %s", name)
	}
	return destPath, nil
}
