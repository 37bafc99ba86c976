package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"imageResizer/internal/config"
	"imageResizer/internal/models"
	"imageResizer/internal/storage"

	_ "github.com/lib/pq"
)

type Storage struct {
	DB *sql.DB
}

func InitDB(dbCfg *config.Database) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	s := &Storage{DB: db}

	if err = s.migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// migrate creates the images table. Every statement is idempotent.
func (s *Storage) migrate(ctx context.Context) error {
	const op = "storage.postgres.migrate"

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS images (
			id TEXT PRIMARY KEY,
			image_url TEXT NOT NULL,
			thumbnail_url TEXT,
			large_url TEXT,
			indexed_to_search BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_images_unindexed ON images (id) WHERE NOT indexed_to_search`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func (s *Storage) GetImage(ctx context.Context, id string) (*models.Image, error) {
	const op = "storage.postgres.GetImage"

	query := `
        SELECT id, image_url, thumbnail_url, large_url, indexed_to_search, created_at, updated_at
        FROM images
        WHERE id = $1`

	var (
		image        models.Image
		thumbnailURL sql.NullString
		largeURL     sql.NullString
	)

	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&image.ID,
		&image.ImageURL,
		&thumbnailURL,
		&largeURL,
		&image.IndexedToSearch,
		&image.CreatedAt,
		&image.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: image with ID %s: %w", op, id, storage.ErrImageNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	image.ThumbnailURL = thumbnailURL.String
	image.LargeURL = largeURL.String

	return &image, nil
}

// SaveImage upserts the full record. Last write wins.
func (s *Storage) SaveImage(ctx context.Context, image *models.Image) error {
	const op = "storage.postgres.SaveImage"

	query := `
        INSERT INTO images (id, image_url, thumbnail_url, large_url, indexed_to_search)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE SET
            image_url = excluded.image_url,
            thumbnail_url = excluded.thumbnail_url,
            large_url = excluded.large_url,
            indexed_to_search = excluded.indexed_to_search,
            updated_at = NOW()
        RETURNING created_at, updated_at`

	err := s.DB.QueryRowContext(ctx, query,
		image.ID,
		image.ImageURL,
		sql.NullString{String: image.ThumbnailURL, Valid: image.ThumbnailURL != ""},
		sql.NullString{String: image.LargeURL, Valid: image.LargeURL != ""},
		image.IndexedToSearch,
	).Scan(&image.CreatedAt, &image.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
