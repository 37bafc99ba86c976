package mongo

import (
	"context"
	"errors"
	"fmt"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"imageResizer/internal/config"
	"imageResizer/internal/models"
	"imageResizer/internal/storage"
	"time"
)

type Storage struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func New(ctx context.Context, cfg *config.Mongo) (*Storage, error) {
	const op = "storage.mongo.New"

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *Storage) GetImage(ctx context.Context, id string) (*models.Image, error) {
	const op = "storage.mongo.GetImage"

	var image models.Image

	err := s.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&image)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: image with ID %s: %w", op, id, storage.ErrImageNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &image, nil
}

// SaveImage replaces the whole document, inserting it when absent.
func (s *Storage) SaveImage(ctx context.Context, image *models.Image) error {
	const op = "storage.mongo.SaveImage"

	now := time.Now().UTC()
	if image.CreatedAt.IsZero() {
		image.CreatedAt = now
	}
	image.UpdatedAt = now

	_, err := s.collection.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: image.ID}},
		image,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.client.Disconnect(ctx)
}
