// Package download streams remote pack payloads to local disk with
// progress reporting and cooperative cancellation, then decodes them.
//
// Failure modes are kept distinguishable for the caller: network errors,
// non-2xx HTTP statuses, payload parse errors and user cancellation each
// carry their own error category, since the UI treats them differently
// (a cancellation in particular is not an error from the user's view).
package download

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/tphakala/hotspots-go/internal/conf"
	"github.com/tphakala/hotspots-go/internal/errors"
	"github.com/tphakala/hotspots-go/internal/logging"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "hotspots-go"

	// Progress is capped below 100 until the temp file is fully written,
	// so callers can distinguish "transfer done" from "still decoding".
	progressCap = 99
)

// ProgressFunc receives download progress as a whole percentage, 0-100.
type ProgressFunc func(percent int)

// Client performs HTTP fetches for the pack engine.
type Client struct {
	httpClient *http.Client
	userAgent  string
	tempDir    string
	log        *slog.Logger
}

// NewClient builds a transport client from settings.
func NewClient(settings *conf.Settings) *Client {
	timeout := settings.Download.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := settings.Download.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		tempDir:    settings.Download.TempDir,
		log:        logging.ForService("download"),
	}
}

// HTTPClient exposes the underlying HTTP client so callers can tune the
// transport, and tests can install interceptors.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// FetchJSON performs a plain GET and decodes the response body into out.
// Used for small payloads like the pack index where streaming to disk is
// unnecessary.
func (c *Client) FetchJSON(ctx context.Context, url string, out any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return errors.Newf("decoding response from %s: %w", url, err).
			Component("download").
			Category(errors.CategoryJSONParsing).
			Context("url", url).
			Build()
	}
	return nil
}

// DownloadWithProgress streams the payload at url to a uniquely named
// temporary file, reporting progress along the way, then returns the file
// contents. The temporary file is removed on every exit path. expectedSize
// may be zero, in which case the transport's own Content-Length estimate
// is used for percent computation.
func (c *Client) DownloadWithProgress(ctx context.Context, url string, expectedSize int64, onProgress ProgressFunc) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, abortedError(err, url)
	}

	body, contentLength, err := c.getWithLength(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	total := expectedSize
	if total <= 0 {
		total = contentLength
	}

	tmpFile, err := os.CreateTemp(c.tempDir, "pack-*.json.tmp")
	if err != nil {
		return nil, errors.Newf("creating temporary file: %w", err).
			Component("download").
			Category(errors.CategoryFileIO).
			Build()
	}
	tmpPath := tmpFile.Name()
	// The temp file never outlives this call, success or not.
	defer func() { _ = os.Remove(tmpPath) }()

	writer := &progressWriter{dst: tmpFile, total: total, onProgress: onProgress}
	_, copyErr := io.Copy(writer, body)
	closeErr := tmpFile.Close()

	if copyErr != nil {
		if ctx.Err() != nil {
			c.log.Info("download aborted", "url", url)
			return nil, abortedError(ctx.Err(), url)
		}
		return nil, errors.Newf("transfer from %s failed: %w", url, copyErr).
			Component("download").
			Category(errors.CategoryNetwork).
			Context("url", url).
			Build()
	}
	if closeErr != nil {
		return nil, errors.Newf("finalizing temporary file: %w", closeErr).
			Component("download").
			Category(errors.CategoryFileIO).
			Build()
	}

	// Transfer confirmed complete and fully written.
	if onProgress != nil {
		onProgress(100)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, errors.Newf("reading downloaded payload: %w", err).
			Component("download").
			Category(errors.CategoryFileIO).
			Build()
	}

	c.log.Debug("download complete", "url", url, "bytes", len(data))
	return data, nil
}

// DownloadJSON downloads a payload with progress and decodes it into T.
// Parse failures propagate as errors; the temp file is cleaned up either way.
func DownloadJSON[T any](ctx context.Context, c *Client, url string, expectedSize int64, onProgress ProgressFunc) (*T, error) {
	data, err := c.DownloadWithProgress(ctx, url, expectedSize, onProgress)
	if err != nil {
		return nil, err
	}

	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil, errors.Newf("parsing payload from %s: %w", url, err).
			Component("download").
			Category(errors.CategoryJSONParsing).
			Context("url", url).
			Build()
	}
	return out, nil
}

// get issues a GET and returns the body for a 2xx response.
func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	body, _, err := c.getWithLength(ctx, url)
	return body, err
}

func (c *Client) getWithLength(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, 0, errors.Newf("building request for %s: %w", url, err).
			Component("download").
			Category(errors.CategoryValidation).
			Context("url", url).
			Build()
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, abortedError(ctx.Err(), url)
		}
		return nil, 0, errors.Newf("requesting %s: %w", url, err).
			Component("download").
			Category(errors.CategoryNetwork).
			Context("url", url).
			Build()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, 0, errors.Newf("unexpected status %d from %s", resp.StatusCode, url).
			Component("download").
			Category(errors.CategoryHTTP).
			Context("url", url).
			Context("status_code", resp.StatusCode).
			Build()
	}

	return resp.Body, resp.ContentLength, nil
}

func abortedError(cause error, url string) error {
	return errors.Newf("download aborted: %w", cause).
		Component("download").
		Category(errors.CategoryCancellation).
		Context("url", url).
		Build()
}

// progressWriter reports whole-percent progress while writing, capped at
// progressCap until the caller confirms completion.
type progressWriter struct {
	dst        io.Writer
	total      int64
	written    int64
	lastPct    int
	onProgress ProgressFunc
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.dst.Write(p)
	pw.written += int64(n)

	if pw.onProgress != nil && pw.total > 0 {
		pct := int(pw.written * 100 / pw.total)
		if pct > progressCap {
			pct = progressCap
		}
		if pct != pw.lastPct {
			pw.lastPct = pct
			pw.onProgress(pct)
		}
	}
	return n, err
}
