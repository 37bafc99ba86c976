package getFile

import (
	"context"
	"errors"
	"github.com/go-chi/render"
	"imageResizer/internal/lib/api/request"
	"imageResizer/internal/lib/api/response"
	"imageResizer/internal/lib/logger/sl"
	"imageResizer/internal/processor"
	"log/slog"
	"net/http"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=VariantURLGetter
type VariantURLGetter interface {
	GetVariantURL(ctx context.Context, id string, size string) (string, error)
}

// New redirects to the stored derivative of an image.
// @Summary      Redirects to a resized image
// @Description  Returns a 301 to the public URL of the requested size, generating it on first use
// @Tags         images
// @Produce      json
// @Param        id    path   string  true  "Image ID"
// @Param        size  query  string  true  "Variant"  Enums(thumbnail, large)
// @Success      301
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /images/{id}/file [get]
func New(log *slog.Logger, validator *request.Validator, getter VariantURLGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.image.getFile.New"

		log := log.With(slog.String("op", op))

		req, err := validator.ImageVariant(r)
		if err != nil {
			msg := "invalid image ID"
			if errors.Is(err, request.ErrInvalidSize) {
				msg = validator.InvalidSizeMessage()
			}

			log.Warn("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(msg))
			return
		}

		log = log.With(
			slog.String("image_id", req.ID),
			slog.String("variant", req.Size),
		)

		u, err := getter.GetVariantURL(r.Context(), req.ID, req.Size)
		if err != nil {
			status, msg := classify(err, validator.InvalidSizeMessage())

			if status == http.StatusNotFound {
				log.Warn("image not found")
			} else {
				log.Error("failed to get image variant", sl.Err(err))
			}

			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		log.Info("redirecting to image variant", slog.String("url", u))

		http.Redirect(w, r, u, http.StatusMovedPermanently)
	}
}

func classify(err error, invalidSize string) (int, string) {
	switch {
	case errors.Is(err, processor.ErrImageNotFound):
		return http.StatusNotFound, "image not found"
	case errors.Is(err, processor.ErrInvalidVariant):
		return http.StatusBadRequest, invalidSize
	case errors.Is(err, processor.ErrInvalidID):
		return http.StatusBadRequest, "invalid image ID"
	case errors.Is(err, processor.ErrFetch):
		return http.StatusInternalServerError, "image source is invalid or unreachable"
	case errors.Is(err, processor.ErrTransform):
		return http.StatusInternalServerError, "image resize failed"
	case errors.Is(err, processor.ErrStore):
		return http.StatusInternalServerError, "image upload failed"
	case errors.Is(err, processor.ErrPersist):
		return http.StatusInternalServerError, "image saving failed"
	}

	return http.StatusInternalServerError, "failed to get image"
}
