package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ZebulonRouseFrantzich/nirb/internal/urltemplate"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "nirb/1.0"
	// maxRedirects bounds the redirects followed for one request
	maxRedirects = 10
)

// Fetcher retrieves the bytes a resolved URL points at.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) ([]byte, error)
}

// sharedClient is the process-wide HTTP client, created on first use and
// reused by every Downloader that is not given its own.
var sharedClient = sync.OnceValue(func() *http.Client {
	return newClient(DefaultTimeout)
})

func newClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
}

// Downloader fetches file: URLs from disk and everything else over HTTP.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// DownloaderConfig configures a Downloader. Zero values select defaults.
type DownloaderConfig struct {
	// Client overrides the HTTP client. Timeout is ignored when set.
	Client *http.Client
	// Timeout bounds each HTTP request, including reading the body.
	Timeout time.Duration
	// UserAgent is sent with every request.
	UserAgent string
}

// NewDownloader creates a new downloader
func NewDownloader(cfg DownloaderConfig) *Downloader {
	client := cfg.Client
	switch {
	case client != nil:
	case cfg.Timeout > 0 && cfg.Timeout != DefaultTimeout:
		client = newClient(cfg.Timeout)
	default:
		client = sharedClient()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Downloader{
		client:    client,
		userAgent: userAgent,
	}
}

// Fetch returns the full contents behind u.
func (d *Downloader) Fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	if u.Scheme == urltemplate.FileScheme {
		return readLocal(u)
	}
	return d.get(ctx, u)
}

// readLocal reads the file a file: URL names. The opaque form (file:name)
// is read relative to the process working directory.
func readLocal(u *url.URL) ([]byte, error) {
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	path = filepath.FromSlash(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

// get performs a single GET and buffers the body.
func (d *Downloader) get(ctx context.Context, u *url.URL) ([]byte, error) {
	target := u.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		// *url.Error repeats the method and URL already carried by NetworkError.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, &NetworkError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &NetworkError{URL: target, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: fmt.Errorf("read response body: %w", err)}
	}
	return data, nil
}
