package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"golang.org/x/sync/singleflight"
	"imageResizer/internal/lib/logger/sl"
	"imageResizer/internal/models"
	"imageResizer/internal/storage"
	"imageResizer/internal/transcoder"
	"imageResizer/internal/variant"
	"log/slog"
)

var (
	ErrInvalidID      = errors.New("invalid image ID")
	ErrInvalidVariant = variant.ErrUnknownVariant
	ErrImageNotFound  = storage.ErrImageNotFound
	ErrFetch          = transcoder.ErrFetch
	ErrTransform      = transcoder.ErrTransform
	ErrStore          = errors.New("failed to store derivative")
	ErrPersist        = errors.New("failed to save image record")
	// ErrRepair is joined to ErrFetch when the record could not be repaired.
	ErrRepair = errors.New("consistency repair failed")
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImageRepository
type ImageRepository interface {
	GetImage(ctx context.Context, id string) (*models.Image, error)
	SaveImage(ctx context.Context, image *models.Image) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Transcoder
type Transcoder interface {
	FetchAndTransform(ctx context.Context, src transcoder.Source, spec variant.Spec) ([]byte, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BlobStore
type BlobStore interface {
	Store(ctx context.Context, data []byte, id string, v variant.Name) (string, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=SearchIndex
type SearchIndex interface {
	DeleteImage(ctx context.Context, id string) error
}

type ImageProcessor struct {
	log        *slog.Logger
	policy     *variant.Policy
	images     ImageRepository
	transcoder Transcoder
	blobs      BlobStore
	search     SearchIndex

	// one miss path per (id, variant) at a time
	inflight singleflight.Group
}

func NewImageProcessor(
	log *slog.Logger,
	policy *variant.Policy,
	images ImageRepository,
	transcoder Transcoder,
	blobs BlobStore,
	search SearchIndex,
) *ImageProcessor {
	return &ImageProcessor{
		log:        log,
		policy:     policy,
		images:     images,
		transcoder: transcoder,
		blobs:      blobs,
		search:     search,
	}
}

// GetVariantURL returns the public URL of the size derivative of image id,
// computing and storing it on first use.
func (p *ImageProcessor) GetVariantURL(ctx context.Context, id string, size string) (string, error) {
	const op = "processor.GetVariantURL"

	spec, err := p.policy.Resolve(size)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if id == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidID)
	}

	log := p.log.With(
		slog.String("op", op),
		slog.String("image_id", id),
		slog.String("variant", size),
	)

	img, err := p.images.GetImage(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if u, ok := img.DerivativeURL(spec.Name); ok {
		log.Debug("derivative cache hit")
		return u, nil
	}

	log.Info("derivative cache miss, generating")

	// The miss path is detached from the caller so a disconnect does not
	// lose a finished upload; a retry will then observe the stored URL.
	res, err, shared := p.inflight.Do(id+"/"+string(spec.Name), func() (interface{}, error) {
		return p.generate(context.WithoutCancel(ctx), img, spec)
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if shared {
		log.Debug("joined in-flight generation")
	}

	return res.(string), nil
}

func (p *ImageProcessor) generate(ctx context.Context, img *models.Image, spec variant.Spec) (string, error) {
	const op = "processor.generate"

	log := p.log.With(
		slog.String("op", op),
		slog.String("image_id", img.ID),
		slog.String("variant", string(spec.Name)),
	)

	sourceURL := ChooseSourceURL(p.policy, img, spec.Name)
	src := transcoder.Source{URL: sourceURL, Derived: sourceURL != img.ImageURL}
	log.Info("processing image", slog.String("source_url", sourceURL))

	data, err := p.transcoder.FetchAndTransform(ctx, src, spec)
	if err != nil && src.Derived && errors.Is(err, ErrFetch) {
		// a missing derivative says nothing about the original
		log.Warn("failed to fetch stored derivative, using original", sl.Err(err))
		data, err = p.transcoder.FetchAndTransform(ctx, transcoder.Source{URL: img.ImageURL}, spec)
	}
	if err != nil {
		if !errors.Is(err, ErrFetch) {
			log.Error("failed to transform image", sl.Err(err))
			return "", fmt.Errorf("%s: %w", op, err)
		}

		log.Warn("source image is invalid, repairing record", sl.Err(err))

		if repairErr := p.Repair(ctx, img); repairErr != nil {
			return "", errors.Join(fmt.Errorf("%s: %w", op, err), repairErr)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	u, err := p.blobs.Store(ctx, data, img.ID, spec.Name)
	if err != nil {
		log.Error("failed to upload derivative", sl.Err(err))
		return "", fmt.Errorf("%s: %w: %w", op, ErrStore, err)
	}

	// Re-read so a derivative stored meanwhile for the other variant is kept.
	record := img
	if latest, err := p.images.GetImage(ctx, img.ID); err == nil {
		record = latest
	} else {
		log.Warn("failed to reload image before save, using loaded copy", sl.Err(err))
	}

	record.SetDerivativeURL(spec.Name, u)

	if err = p.images.SaveImage(ctx, record); err != nil {
		log.Error("failed to save image record", sl.Err(err))
		return "", fmt.Errorf("%s: %w: %w", op, ErrPersist, err)
	}

	log.Info("derivative stored", slog.String("url", u))

	return u, nil
}

// ProcessMessage handles a prewarm request read from Kafka.
func (p *ImageProcessor) ProcessMessage(ctx context.Context, message []byte) error {
	const op = "processor.ProcessMessage"

	var req models.PrewarmRequest

	if err := json.Unmarshal(message, &req); err != nil {
		p.log.Error("failed to unmarshal kafka message", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	u, err := p.GetVariantURL(ctx, req.ImageID, req.Size)
	if err != nil {
		p.log.Error("failed to prewarm derivative",
			slog.String("op", op),
			slog.String("image_id", req.ImageID),
			slog.String("variant", req.Size),
			sl.Err(err),
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	p.log.Info("derivative prewarmed",
		slog.String("op", op),
		slog.String("image_id", req.ImageID),
		slog.String("variant", req.Size),
		slog.String("url", u),
	)

	return nil
}
