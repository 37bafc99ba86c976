package processor_test

import (
	"bytes"
	"context"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"image"
	"image/color"
	"imageResizer/internal/blobstore/local"
	"imageResizer/internal/lib/logger/handlers/slogdiscard"
	"imageResizer/internal/models"
	"imageResizer/internal/processor"
	"imageResizer/internal/processor/mocks"
	"imageResizer/internal/transcoder"
	"imageResizer/internal/variant"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestThumbnailFromSmallLargeDerivativeKeepsIndex(t *testing.T) {
	const minSourceBytes = 60000

	rnd := rand.New(rand.NewSource(3))
	photo := image.NewNRGBA(image.Rect(0, 0, 600, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 600; x++ {
			photo.Set(x, y, color.NRGBA{R: uint8(rnd.Intn(256)), G: uint8(rnd.Intn(256)), B: uint8(rnd.Intn(256)), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, photo, imaging.JPEG, imaging.JPEGQuality(95)))
	original := buf.Bytes()
	require.Greater(t, len(original), minSourceBytes)

	dir := t.TempDir()

	var sourceHits atomic.Int32
	var processed http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/x.jpg" {
			sourceHits.Add(1)
			_, _ = w.Write(original)
			return
		}
		http.StripPrefix("/processed", processed).ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	blobs, err := local.New(dir, srv.URL+"/processed")
	require.NoError(t, err)
	processed = blobs.Handler()

	repo := &memoryRepo{images: map[string]models.Image{
		"A1": {ID: "A1", ImageURL: srv.URL + "/x.jpg", IndexedToSearch: true},
	}}

	log := slogdiscard.NewDiscardLogger()
	p := processor.NewImageProcessor(
		log,
		variant.NewPolicy(50, 100, 85),
		repo,
		transcoder.New(log, transcoder.Options{
			FetchTimeout:   5 * time.Second,
			MinSourceBytes: minSourceBytes,
			MaxSourceBytes: 10 << 20,
		}),
		blobs,
		// any removal call fails the test
		mocks.NewSearchIndex(t),
	)

	largeURL, err := p.GetVariantURL(context.Background(), "A1", "large")
	require.NoError(t, err)

	stat, err := os.Stat(filepath.Join(dir, "images", "A1_large.jpg"))
	require.NoError(t, err)
	require.Less(t, stat.Size(), int64(minSourceBytes))

	thumbURL, err := p.GetVariantURL(context.Background(), "A1", "thumbnail")
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/processed/images/A1_thumbnail.jpg", thumbURL)

	// thumbnail was built from the large derivative
	require.Equal(t, int32(1), sourceHits.Load())

	stored := repo.images["A1"]
	require.True(t, stored.IndexedToSearch)
	require.Equal(t, largeURL, stored.LargeURL)
	require.Equal(t, thumbURL, stored.ThumbnailURL)
}
