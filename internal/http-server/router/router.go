package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	httpSwagger "github.com/swaggo/http-swagger"
	"imageResizer/internal/http-server/handlers/image/getFile"
	"imageResizer/internal/http-server/handlers/image/getImage"
	"imageResizer/internal/http-server/handlers/image/prewarmImage"
	"imageResizer/internal/http-server/middleware/mwlogger"
	"imageResizer/internal/kafka/producer"
	"imageResizer/internal/lib/api/request"
	"log/slog"
	"net/http"

	_ "imageResizer/docs"
)

type ImageGetter interface {
	getImage.ImageGetter
	prewarmImage.ImageGetter
}

type Deps struct {
	Validator *request.Validator
	Variants  getFile.VariantURLGetter
	Images    ImageGetter
	Prewarm   producer.ProducerIface
	// Processed serves locally stored derivatives; nil when an object store is used.
	Processed http.Handler
}

func New(log *slog.Logger, d Deps) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "Image resizer API")
	})

	if d.Processed != nil {
		router.Handle("/processed/*", http.StripPrefix("/processed", d.Processed))
	}

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/images/{id}", func(r chi.Router) {
		r.Get("/", getImage.New(log, d.Images))
		r.Get("/file", getFile.New(log, d.Validator, d.Variants))
		r.Post("/prewarm", prewarmImage.New(log, d.Validator, d.Images, d.Prewarm))
	})

	return router
}
