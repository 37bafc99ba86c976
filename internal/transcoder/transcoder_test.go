package transcoder_test

import (
	"bytes"
	"context"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"image"
	"image/color"
	"imageResizer/internal/lib/logger/handlers/slogdiscard"
	"imageResizer/internal/transcoder"
	"imageResizer/internal/variant"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const minSourceBytes = 2000

func noiseJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	rnd := rand.New(rand.NewSource(1))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(rnd.Intn(256)), G: uint8(rnd.Intn(256)), B: uint8(rnd.Intn(256)), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)))
	require.Greater(t, buf.Len(), minSourceBytes)

	return buf.Bytes()
}

func newTranscoder(maxBytes int64) *transcoder.Transcoder {
	return transcoder.New(slogdiscard.NewDiscardLogger(), transcoder.Options{
		FetchTimeout:   5 * time.Second,
		MinSourceBytes: minSourceBytes,
		MaxSourceBytes: maxBytes,
	})
}

func serve(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestFetchAndTransformBounds(t *testing.T) {
	src := noiseJPEG(t, 400, 300)
	srv := serve(t, http.StatusOK, src)

	tests := []struct {
		name   string
		spec   variant.Spec
		width  int
		height int
	}{
		{
			name:   "Bound Width",
			spec:   variant.Spec{Name: variant.Large, Width: 200, Quality: 80},
			width:  200,
			height: 150,
		},
		{
			name:   "Bound Height",
			spec:   variant.Spec{Name: variant.Thumbnail, Height: 100, Quality: 80},
			width:  133,
			height: 100,
		},
		{
			name:   "No Upscale",
			spec:   variant.Spec{Name: variant.Large, Width: 1800, Quality: 80},
			width:  400,
			height: 300,
		},
	}

	tc := newTranscoder(10 << 20)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tc.FetchAndTransform(context.Background(), transcoder.Source{URL: srv.URL + "/x.jpg"}, tt.spec)
			require.NoError(t, err)

			img, format, err := image.DecodeConfig(bytes.NewReader(out))
			require.NoError(t, err)
			require.Equal(t, "jpeg", format)
			require.Equal(t, tt.width, img.Width)
			require.Equal(t, tt.height, img.Height)
		})
	}
}

func TestFetchAndTransformErrors(t *testing.T) {
	spec := variant.Spec{Name: variant.Large, Width: 200}

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name          string
		url           func(t *testing.T) string
		maxBytes      int64
		wantErr       error
		invalidSource bool
	}{
		{
			name: "Placeholder Body",
			url: func(t *testing.T) string {
				return serve(t, http.StatusOK, make([]byte, minSourceBytes-1)).URL
			},
			maxBytes:      10 << 20,
			wantErr:       transcoder.ErrFetch,
			invalidSource: true,
		},
		{
			name: "Not Found",
			url: func(t *testing.T) string {
				return serve(t, http.StatusNotFound, noiseJPEG(t, 64, 64)).URL
			},
			maxBytes: 10 << 20,
			wantErr:  transcoder.ErrFetch,
		},
		{
			name:     "Unreachable",
			url:      func(t *testing.T) string { return closedURL },
			maxBytes: 10 << 20,
			wantErr:  transcoder.ErrFetch,
		},
		{
			name: "Undecodable Payload",
			url: func(t *testing.T) string {
				return serve(t, http.StatusOK, bytes.Repeat([]byte("not an image "), 500)).URL
			},
			maxBytes: 10 << 20,
			wantErr:  transcoder.ErrTransform,
		},
		{
			name: "Oversized Payload",
			url: func(t *testing.T) string {
				return serve(t, http.StatusOK, noiseJPEG(t, 400, 300)).URL
			},
			maxBytes: minSourceBytes + 1,
			wantErr:  transcoder.ErrTransform,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := newTranscoder(tt.maxBytes).FetchAndTransform(context.Background(), transcoder.Source{URL: tt.url(t)}, spec)
			require.Nil(t, out)
			require.ErrorIs(t, err, tt.wantErr)

			if tt.invalidSource {
				require.ErrorIs(t, err, transcoder.ErrInvalidSource)
			} else {
				require.NotErrorIs(t, err, transcoder.ErrInvalidSource)
			}

			if tt.wantErr == transcoder.ErrTransform {
				require.NotErrorIs(t, err, transcoder.ErrFetch)
			}
		})
	}
}

func TestFetchAndTransformDerivedSkipsMinimumSize(t *testing.T) {
	spec := variant.Spec{Name: variant.Thumbnail, Height: 20}
	small := noiseJPEG(t, 80, 60)

	tc := transcoder.New(slogdiscard.NewDiscardLogger(), transcoder.Options{
		FetchTimeout:   5 * time.Second,
		MinSourceBytes: int64(len(small)) + 1,
		MaxSourceBytes: 10 << 20,
	})
	srv := serve(t, http.StatusOK, small)

	_, err := tc.FetchAndTransform(context.Background(), transcoder.Source{URL: srv.URL}, spec)
	require.ErrorIs(t, err, transcoder.ErrInvalidSource)

	out, err := tc.FetchAndTransform(context.Background(), transcoder.Source{URL: srv.URL, Derived: true}, spec)
	require.NoError(t, err)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 20, cfg.Height)
}

func TestTransformPNG(t *testing.T) {
	img := imaging.New(50, 40, color.NRGBA{R: 10, G: 200, B: 30, A: 255})

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))

	out, err := transcoder.Transform(buf.Bytes(), variant.Spec{Name: variant.Thumbnail, Height: 20})
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
	require.Equal(t, 25, cfg.Width)
	require.Equal(t, 20, cfg.Height)
}
