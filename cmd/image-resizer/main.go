package main

import (
	"context"
	"errors"
	"imageResizer/internal/blobstore/azure"
	"imageResizer/internal/blobstore/local"
	"imageResizer/internal/config"
	"imageResizer/internal/http-server/router"
	"imageResizer/internal/kafka/consumer"
	"imageResizer/internal/kafka/producer"
	"imageResizer/internal/lib/api/request"
	"imageResizer/internal/lib/logger/handlers/slogpretty"
	"imageResizer/internal/lib/logger/sl"
	"imageResizer/internal/models"
	"imageResizer/internal/processor"
	"imageResizer/internal/search"
	"imageResizer/internal/storage/mongo"
	"imageResizer/internal/storage/postgres"
	"imageResizer/internal/transcoder"
	"imageResizer/internal/variant"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// imageStore is what the processor and the HTTP handlers need from a record store.
type imageStore interface {
	GetImage(ctx context.Context, id string) (*models.Image, error)
	SaveImage(ctx context.Context, image *models.Image) error
	Close() error
}

// @title           Image Resizer API
// @version         1.0
// @description     Serves resized image variants on demand and caches their location.
// @host            localhost:8082
// @BasePath        /
func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting image resizer", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage, err := setupStorage(ctx, cfg)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	blobs, processed, err := setupBlobStore(ctx, cfg)
	if err != nil {
		log.Error("failed to init blob store", sl.Err(err))
		os.Exit(1)
	}

	searchProducer, err := producer.NewProducer(&cfg.Kafka, cfg.Kafka.SearchTopic, log)
	if err != nil {
		log.Error("failed to create search producer", sl.Err(err))
		os.Exit(1)
	}

	prewarmProducer, err := producer.NewProducer(&cfg.Kafka, cfg.Kafka.PrewarmTopic, log)
	if err != nil {
		log.Error("failed to create prewarm producer", sl.Err(err))
		os.Exit(1)
	}

	prewarmConsumer, err := consumer.NewConsumer(&cfg.Kafka, cfg.Kafka.PrewarmTopic, log)
	if err != nil {
		log.Error("failed to create kafka consumer", sl.Err(err))
		os.Exit(1)
	}

	policy := variant.NewPolicy(cfg.Variants.ThumbnailHeight, cfg.Variants.LargeWidth, cfg.Transcoder.JPEGQuality)

	tc := transcoder.New(log, transcoder.Options{
		FetchTimeout:   cfg.Transcoder.FetchTimeout,
		MinSourceBytes: cfg.Transcoder.MinSourceBytes,
		MaxSourceBytes: cfg.Transcoder.MaxSourceBytes,
	})

	imageProcessor := processor.NewImageProcessor(
		log,
		policy,
		storage,
		tc,
		blobs,
		search.NewIndex(log, searchProducer),
	)

	go prewarmConsumer.ReadMessages(ctx, imageProcessor.ProcessMessage)

	r := router.New(log, router.Deps{
		Validator: request.NewValidator(policy),
		Variants:  imageProcessor,
		Images:    storage,
		Prewarm:   prewarmProducer,
		Processed: processed,
	})

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      r,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			cancel()
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	select {
	case sign := <-stop:
		log.Info("application stopping", slog.String("signal", sign.String()))
	case <-ctx.Done():
		log.Info("application stopping")
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.Timeout)
	defer shutdownCancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", sl.Err(err))
	}

	log.Info("server stopped")

	if err = prewarmConsumer.Close(); err != nil {
		log.Error("failed to close kafka consumer", sl.Err(err))
	}

	if err = prewarmProducer.Close(); err != nil {
		log.Error("failed to close prewarm producer", sl.Err(err))
	}

	if err = searchProducer.Close(); err != nil {
		log.Error("failed to close search producer", sl.Err(err))
	}

	log.Info("kafka connection closed")

	if err = storage.Close(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
	}

	log.Info("application stopped")
}

func setupStorage(ctx context.Context, cfg *config.Config) (imageStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		return mongo.New(connectCtx, &cfg.Mongo)
	default:
		return postgres.InitDB(&cfg.Database)
	}
}

// setupBlobStore returns the derivative store and, for the local driver, the
// handler that serves its files under /processed.
func setupBlobStore(ctx context.Context, cfg *config.Config) (processor.BlobStore, http.Handler, error) {
	switch cfg.Blob.Driver {
	case config.BlobDriverAzure:
		s, err := azure.New(ctx, cfg.Blob.AccountName, cfg.Blob.AccountKey, cfg.Blob.Container, cfg.Blob.PublicBaseURL)
		if err != nil {
			return nil, nil, err
		}

		return s, nil, nil
	default:
		s, err := local.New(cfg.Blob.LocalDir, cfg.Blob.PublicBaseURL)
		if err != nil {
			return nil, nil, err
		}

		return s, s.Handler(), nil
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
