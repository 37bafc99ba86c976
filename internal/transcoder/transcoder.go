package transcoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/disintegration/imaging"
	"image"
	"imageResizer/internal/variant"
	"io"
	"log/slog"
	"net/http"
	"time"

	_ "golang.org/x/image/webp"
)

var (
	// ErrFetch means the source could not be retrieved or is not a usable image.
	ErrFetch = errors.New("failed to fetch source image")
	// ErrInvalidSource is reported together with ErrFetch when the payload
	// is too small to be a real photograph.
	ErrInvalidSource = errors.New("source payload is below the minimum size")
	ErrTransform     = errors.New("failed to transform image")
)

type Options struct {
	FetchTimeout   time.Duration
	MinSourceBytes int64
	MaxSourceBytes int64
}

// Source is an image to fetch. Derived sources were produced by this service
// and are not held to the minimum size of an original.
type Source struct {
	URL     string
	Derived bool
}

type Transcoder struct {
	client   *http.Client
	log      *slog.Logger
	minBytes int64
	maxBytes int64
}

func New(log *slog.Logger, opts Options) *Transcoder {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: opts.FetchTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Transcoder{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.FetchTimeout,
		},
		log:      log,
		minBytes: opts.MinSourceBytes,
		maxBytes: opts.MaxSourceBytes,
	}
}

// FetchAndTransform downloads src and re-encodes it as a JPEG bounded by spec.
func (t *Transcoder) FetchAndTransform(ctx context.Context, src Source, spec variant.Spec) ([]byte, error) {
	const op = "transcoder.FetchAndTransform"

	log := t.log.With(
		slog.String("op", op),
		slog.String("source_url", src.URL),
		slog.Bool("derived", src.Derived),
		slog.String("variant", string(spec.Name)),
	)

	minBytes := t.minBytes
	if src.Derived {
		minBytes = 0
	}

	body, err := t.fetch(ctx, src.URL, minBytes)
	if err != nil {
		return nil, err
	}

	log.Debug("source fetched", slog.Int("bytes", len(body)))

	out, err := Transform(body, spec)
	if err != nil {
		return nil, err
	}

	log.Debug("image transcoded", slog.Int("bytes", len(out)))

	return out, nil
}

func (t *Transcoder) fetch(ctx context.Context, sourceURL string, minBytes int64) ([]byte, error) {
	const op = "transcoder.fetch"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrFetch, err)
	}

	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "image-resizer/1.0")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w: unexpected status code %d", op, ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrFetch, err)
	}

	// an oversized source is a capacity problem, not a broken asset
	if int64(len(body)) > t.maxBytes {
		return nil, fmt.Errorf("%s: %w: source exceeds %d bytes", op, ErrTransform, t.maxBytes)
	}

	if int64(len(body)) < minBytes {
		return nil, fmt.Errorf("%s: %w: %w: got %d bytes, want at least %d", op, ErrFetch, ErrInvalidSource, len(body), minBytes)
	}

	return body, nil
}

// Transform decodes src, bounds it to spec without upscaling and encodes a JPEG.
func Transform(src []byte, spec variant.Spec) ([]byte, error) {
	const op = "transcoder.Transform"

	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransform, err)
	}

	img = bound(img, spec)

	quality := spec.Quality
	if quality <= 0 {
		quality = 85
	}

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransform, err)
	}

	return buf.Bytes(), nil
}

func bound(img image.Image, spec variant.Spec) image.Image {
	b := img.Bounds()

	switch {
	case spec.Width > 0 && spec.Height > 0:
		return imaging.Fit(img, spec.Width, spec.Height, imaging.Lanczos)
	case spec.Width > 0 && b.Dx() > spec.Width:
		return imaging.Resize(img, spec.Width, 0, imaging.Lanczos)
	case spec.Height > 0 && b.Dy() > spec.Height:
		return imaging.Resize(img, 0, spec.Height, imaging.Lanczos)
	}

	return img
}
