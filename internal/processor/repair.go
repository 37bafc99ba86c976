package processor

import (
	"context"
	"errors"
	"fmt"
	"imageResizer/internal/lib/logger/sl"
	"imageResizer/internal/models"
	"log/slog"
)

// Repair marks img as unindexed and asks the search index to drop it. Both
// steps are always attempted. The record is reloaded first so derivative URLs
// stored meanwhile are kept.
func (p *ImageProcessor) Repair(ctx context.Context, img *models.Image) error {
	const op = "processor.Repair"

	log := p.log.With(slog.String("op", op), slog.String("image_id", img.ID))

	var errs []error

	record := img
	if latest, err := p.images.GetImage(ctx, img.ID); err == nil {
		record = latest
	} else {
		log.Warn("failed to reload image before repair, using loaded copy", sl.Err(err))
	}

	record.IndexedToSearch = false

	if err := p.images.SaveImage(ctx, record); err != nil {
		log.Error("failed to mark image as unindexed", sl.Err(err))
		errs = append(errs, err)
	}

	if err := p.search.DeleteImage(ctx, img.ID); err != nil {
		log.Error("failed to remove image from search index", sl.Err(err))
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s: %w: %w", op, ErrRepair, errors.Join(errs...))
	}

	log.Info("image unindexed after invalid source")

	return nil
}
