// pkg/fetch/fetcher.go

// Package fetch retrieves remote artifacts to local storage. A fetch
// only counts as successful when the destination file exists and is
// non-empty afterwards; the transport's own verdict is not trusted.
// Retry policy is the caller's responsibility.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// ErrFetchFailed indicates a remote artifact could not be retrieved.
var ErrFetchFailed = errors.New("fetch failed")

const userAgent = "pydeploy/1.0"

// DefaultTimeout bounds a single artifact transfer.
const DefaultTimeout = 10 * time.Minute

// Fetcher downloads artifacts over HTTP.
type Fetcher struct {
	client *http.Client
	logger *log.Logger
}

// New creates a Fetcher. A zero timeout falls back to DefaultTimeout and
// a nil logger discards output.
func New(timeout time.Duration, logger *log.Logger) *Fetcher {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch downloads url to dest, creating parent directories as needed.
// One attempt, no retry. Failures wrap ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) error {
	if err := f.fetch(ctx, url, dest); err != nil {
		return fmt.Errorf("%w: %s", ErrFetchFailed, err)
	}
	return nil
}

func (f *Fetcher) fetch(ctx context.Context, url, dest string) error {
	f.logger.Debug("fetching artifact", "url", url, "dest", dest)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: unexpected status %d", url, resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	written, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	// Existence on disk is the source of truth, not the transport result.
	info, err := os.Stat(dest)
	if err != nil || info.Size() == 0 {
		os.Remove(dest)
		return fmt.Errorf("downloaded file %s is missing or empty", dest)
	}

	f.logger.Debug("fetched artifact", "dest", dest, "bytes", written)
	return nil
}
