package probe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/jakecoffman/zoom"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 0x80, 0xff})
		}
	}
	return img
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// encodeTGA writes an uncompressed 24-bit truecolor TGA.
func encodeTGA(w, h int) []byte {
	var buf bytes.Buffer
	header := []byte{
		0,    // id length
		0,    // no color map
		2,    // uncompressed truecolor
		0, 0, // color map first entry
		0, 0, // color map length
		0,    // color map entry size
		0, 0, // x origin
		0, 0, // y origin
	}
	buf.Write(header)
	binary.Write(&buf, binary.LittleEndian, uint16(w))
	binary.Write(&buf, binary.LittleEndian, uint16(h))
	buf.WriteByte(24)   // bits per pixel
	buf.WriteByte(0x20) // top-left origin
	for i := 0; i < w*h; i++ {
		buf.Write([]byte{0x10, 0x20, 0x30})
	}
	return buf.Bytes()
}

func TestDecode_Formats(t *testing.T) {
	const w, h = 12, 7
	tests := map[string]func(t *testing.T) []byte{
		"png": func(t *testing.T) []byte { return encodePNG(t, w, h) },
		"bmp": func(t *testing.T) []byte {
			var buf bytes.Buffer
			if err := bmp.Encode(&buf, testImage(w, h)); err != nil {
				t.Fatal(err)
			}
			return buf.Bytes()
		},
		"tiff": func(t *testing.T) []byte {
			var buf bytes.Buffer
			if err := tiff.Encode(&buf, testImage(w, h), nil); err != nil {
				t.Fatal(err)
			}
			return buf.Bytes()
		},
		"webp": func(t *testing.T) []byte {
			var buf bytes.Buffer
			if err := nativewebp.Encode(&buf, testImage(w, h), nil); err != nil {
				t.Fatal(err)
			}
			return buf.Bytes()
		},
		"tga": func(t *testing.T) []byte { return encodeTGA(w, h) },
	}
	for name, encode := range tests {
		t.Run(name, func(t *testing.T) {
			size, format, err := DecodeFormat(bytes.NewReader(encode(t)))
			if err != nil {
				t.Fatal(err)
			}
			if format != name {
				t.Errorf("Expected format %q, got %q", name, format)
			}
			if diff := cmp.Diff(zoom.Size{Width: w, Height: h}, size); diff != "" {
				t.Errorf("size (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_UnknownFormat(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("this is plain text and certainly not an image")))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestDecodeImage(t *testing.T) {
	img, format, err := DecodeImage(bytes.NewReader(encodePNG(t, 5, 3)))
	if err != nil {
		t.Fatal(err)
	}
	if format != "png" || img.Bounds() != image.Rect(0, 0, 5, 3) {
		t.Errorf("Expected 5x3 png, got %v %v", format, img.Bounds())
	}
}

func TestProber_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(path, encodePNG(t, 40, 120), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(nil)
	for _, uri := range []string{path, "file://" + filepath.ToSlash(path)} {
		size, err := p.Resolve(context.Background(), uri)
		if err != nil {
			t.Fatalf("%s: %v", uri, err)
		}
		if diff := cmp.Diff(zoom.Size{Width: 40, Height: 120}, size); diff != "" {
			t.Errorf("%s size (-want +got):\n%s", uri, diff)
		}
	}

	if _, err := p.Resolve(context.Background(), filepath.Join(dir, "missing.png")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestProber_DataURI(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodePNG(t, 3, 9))
	size, err := New(nil).Resolve(context.Background(), uri)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(zoom.Size{Width: 3, Height: 9}, size); diff != "" {
		t.Errorf("size (-want +got):\n%s", diff)
	}

	if _, err := New(nil).Resolve(context.Background(), "data:image/png;base64"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported for a data URI without data, got %v", err)
	}
}

func TestProber_UnsupportedScheme(t *testing.T) {
	_, err := New(nil).Resolve(context.Background(), "ftp://example.com/a.png")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}

func TestProber_HTTPRetries(t *testing.T) {
	body := encodePNG(t, 64, 32)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	p := New(nil)
	p.Delay = time.Millisecond
	size, err := p.Resolve(context.Background(), srv.URL+"/image.png")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(zoom.Size{Width: 64, Height: 32}, size); diff != "" {
		t.Errorf("size (-want +got):\n%s", diff)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("Expected 3 requests, got %d", got)
	}
}

func TestProber_HTTPGivesUp(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := New(nil)
	p.Delay = time.Millisecond
	if _, err := p.Resolve(context.Background(), srv.URL); err == nil {
		t.Fatal("Expected an error after exhausting retries")
	}
	if got := hits.Load(); got != DefaultAttempts {
		t.Errorf("Expected %d requests, got %d", DefaultAttempts, got)
	}
}

func TestProber_HTTPNotFound(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := New(nil)
	p.Delay = time.Millisecond
	if _, err := p.Resolve(context.Background(), srv.URL); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("not found should not be retried, got %d requests", got)
	}
}

func TestRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return &RetryableError{Err: errors.New("transient")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestRetry_ServerWait(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Hour, func() error {
		calls++
		if calls == 1 {
			return &RetryableError{Err: errors.New("throttled"), After: time.Millisecond}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
}

func TestStatusError(t *testing.T) {
	tests := map[string]struct {
		code       int
		retryAfter string
		notFound   bool
		retryable  bool
		after      time.Duration
	}{
		"ok":             {code: http.StatusOK},
		"gone":           {code: http.StatusGone, notFound: true},
		"forbidden":      {code: http.StatusForbidden},
		"throttled":      {code: http.StatusTooManyRequests, retryAfter: "2", retryable: true, after: 2 * time.Second},
		"unavailable":    {code: http.StatusServiceUnavailable, retryable: true},
		"bad retryafter": {code: http.StatusBadGateway, retryAfter: "soon", retryable: true},
		"past date":      {code: http.StatusServiceUnavailable, retryAfter: "Mon, 02 Jan 2006 15:04:05 GMT", retryable: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			resp := &http.Response{
				StatusCode: tt.code,
				Status:     http.StatusText(tt.code),
				Header:     http.Header{},
			}
			if tt.retryAfter != "" {
				resp.Header.Set("Retry-After", tt.retryAfter)
			}
			err := statusError(resp)

			if got := errors.Is(err, ErrNotFound); got != tt.notFound {
				t.Errorf("not found = %v, want %v (%v)", got, tt.notFound, err)
			}
			var retryable *RetryableError
			if got := errors.As(err, &retryable); got != tt.retryable {
				t.Fatalf("retryable = %v, want %v (%v)", got, tt.retryable, err)
			}
			if tt.retryable && retryable.After != tt.after {
				t.Errorf("Expected wait %v, got %v", tt.after, retryable.After)
			}
			if tt.code == http.StatusOK && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}
