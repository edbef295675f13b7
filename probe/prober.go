// Package probe resolves an image URI to its pixel dimensions.
//
// A URI is a bare path, a file:// URL, a data: URI or an http(s):// URL. Only
// the image header is decoded.
package probe

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jakecoffman/zoom"
)

const (
	DefaultAttempts = 3
	DefaultDelay    = 500 * time.Millisecond
)

type Prober struct {
	Client   *http.Client
	Attempts int
	Delay    time.Duration
	Logger   *log.Logger
}

// New returns a Prober using http.DefaultClient and the default retry policy.
func New(logger *log.Logger) *Prober {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Prober{
		Client:   http.DefaultClient,
		Attempts: DefaultAttempts,
		Delay:    DefaultDelay,
		Logger:   logger,
	}
}

// Resolve returns the dimensions of the image at uri.
func (p *Prober) Resolve(ctx context.Context, uri string) (zoom.Size, error) {
	rc, err := p.Open(ctx, uri)
	if err != nil {
		return zoom.Size{}, err
	}
	defer rc.Close()

	size, format, err := DecodeFormat(rc)
	if err != nil {
		return zoom.Size{}, err
	}
	p.logger().Debug("probed", "uri", redact(uri), "format", format, "size", size)
	return size, nil
}

// Image decodes the full image at uri.
func (p *Prober) Image(ctx context.Context, uri string) (image.Image, error) {
	rc, err := p.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := DecodeImage(rc)
	return img, err
}

// Open returns the raw bytes behind uri.
func (p *Prober) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if strings.HasPrefix(uri, "data:") {
		b, err := decodeDataURI(uri)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(b)), nil
	}

	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// bare path, including windows drive letters
		return openFile(uri)
	}
	switch u.Scheme {
	case "file":
		return openFile(u.Path)
	case "http", "https":
		return p.fetch(ctx, u.String())
	}
	return nil, fmt.Errorf("%w: scheme %q", ErrUnsupported, u.Scheme)
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("probe: open %s: %w", path, err)
	}
	return f, nil
}

// decodeDataURI handles data:[<mediatype>][;base64],<data>.
func decodeDataURI(uri string) ([]byte, error) {
	meta, data, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URI", ErrUnsupported)
	}
	if strings.HasSuffix(meta, ";base64") {
		b, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("probe: data URI: %w", err)
		}
		return b, nil
	}
	s, err := url.PathUnescape(data)
	if err != nil {
		return nil, fmt.Errorf("probe: data URI: %w", err)
	}
	return []byte(s), nil
}

func (p *Prober) fetch(ctx context.Context, uri string) (io.ReadCloser, error) {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	var body io.ReadCloser
	attempt := 0
	err := Retry(ctx, p.Attempts, p.Delay, func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger().Debug("fetch failed", "uri", uri, "attempt", attempt, "err", err)
			return &RetryableError{Err: err}
		}
		if err := statusError(resp); err != nil {
			resp.Body.Close()
			p.logger().Debug("fetch failed", "uri", uri, "attempt", attempt, "status", resp.StatusCode)
			return err
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("probe: fetch %s: %w", uri, err)
	}
	return body, nil
}

func (p *Prober) logger() *log.Logger {
	if p.Logger == nil {
		p.Logger = log.New(io.Discard)
	}
	return p.Logger
}

// redact shortens data URIs, which can be megabytes long, for logging.
func redact(uri string) string {
	if strings.HasPrefix(uri, "data:") && len(uri) > 32 {
		return uri[:32] + "..."
	}
	return uri
}
