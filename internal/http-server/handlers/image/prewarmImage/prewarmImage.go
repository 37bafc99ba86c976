package prewarmImage

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/render"
	"imageResizer/internal/kafka/producer"
	"imageResizer/internal/lib/api/request"
	"imageResizer/internal/lib/api/response"
	"imageResizer/internal/lib/logger/sl"
	"imageResizer/internal/models"
	"imageResizer/internal/storage"
	"log/slog"
	"net/http"
)

type Response struct {
	response.Response
	ImageID string `json:"image_id"`
	Size    string `json:"size"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImageGetter
type ImageGetter interface {
	GetImage(ctx context.Context, id string) (*models.Image, error)
}

// New queues generation of a derivative so the first real request is a cache hit.
// @Summary      Queues derivative generation
// @Description  Publishes a prewarm request; the worker stores the derivative in the background
// @Tags         images
// @Produce      json
// @Param        id    path   string  true  "Image ID"
// @Param        size  query  string  true  "Variant"  Enums(thumbnail, large)
// @Success      202  {object}  prewarmImage.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /images/{id}/prewarm [post]
func New(log *slog.Logger, validator *request.Validator, imageGetter ImageGetter, kafkaProducer producer.ProducerIface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.image.prewarmImage.New"

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

		image, err := imageGetter.GetImage(r.Context(), req.ID)
		if err != nil {
			if errors.Is(err, storage.ErrImageNotFound) {
				log.Warn("image not found", slog.String("image_id", req.ID))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("image not found"))
				return
			}

			log.Error("failed to get image from storage", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get image"))
			return
		}

		message, err := json.Marshal(models.PrewarmRequest{
			ImageID: image.ID,
			Size:    req.Size,
		})
		if err != nil {
			log.Error("failed to marshal kafka message", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to prepare message"))
			return
		}

		err = kafkaProducer.SendMessage(r.Context(), []byte(image.ID), message)
		if err != nil {
			log.Error("failed to publish message to kafka", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to start image processing"))
			return
		}

		log.Info("prewarm request published", slog.String("image_id", image.ID), slog.String("variant", req.Size))

		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, Response{
			Response: response.OK(),
			ImageID:  image.ID,
			Size:     req.Size,
		})
	}
}
