package getImage

import (
	"context"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"imageResizer/internal/lib/api/response"
	"imageResizer/internal/lib/logger/sl"
	"imageResizer/internal/models"
	"imageResizer/internal/storage"
	"log/slog"
	"net/http"
)

type Response struct {
	response.Response
	Image models.Image `json:"image"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImageGetter
type ImageGetter interface {
	GetImage(ctx context.Context, id string) (*models.Image, error)
}

// New returns the stored record of an image.
// @Summary      Gets an image record
// @Description  Returns the source URL, computed derivative URLs and index state of an image
// @Tags         images
// @Produce      json
// @Param        id   path      string  true  "Image ID"
// @Success      200  {object}  getImage.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /images/{id} [get]
func New(log *slog.Logger, imageGetter ImageGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.image.getImage.New"

		log := log.With(slog.String("op", op))

		imageID := chi.URLParam(r, "id")
		if imageID == "" {
			log.Warn("empty image ID")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid image ID"))
			return
		}

		image, err := imageGetter.GetImage(r.Context(), imageID)
		if err != nil {
			if errors.Is(err, storage.ErrImageNotFound) {
				log.Warn("image not found", slog.String("image_id", imageID))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("image not found"))
				return
			}

			log.Error("failed to get image from storage", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get image"))
			return
		}

		log.Info("image retrieved successfully", slog.String("image_id", imageID))

		render.JSON(w, r, Response{
			Response: response.OK(),
			Image:    *image,
		})
	}
}
