// Package search publishes search-index maintenance events. The indexer
// owning the search cluster consumes them from Kafka.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"imageResizer/internal/kafka/producer"
	"log/slog"
	"time"
)

const OpDelete = "delete"

type Event struct {
	EventID    uuid.UUID `json:"event_id"`
	Op         string    `json:"op"`
	ImageID    string    `json:"image_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Index struct {
	producer producer.ProducerIface
	log      *slog.Logger
	now      func() time.Time
}

func NewIndex(log *slog.Logger, p producer.ProducerIface) *Index {
	return &Index{
		producer: p,
		log:      log,
		now:      time.Now,
	}
}

// DeleteImage requests removal of the image from the search index.
func (i *Index) DeleteImage(ctx context.Context, id string) error {
	const op = "search.Index.DeleteImage"

	event := Event{
		EventID:    uuid.New(),
		Op:         OpDelete,
		ImageID:    id,
		OccurredAt: i.now().UTC(),
	}

	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = i.producer.SendMessage(ctx, []byte(id), message); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	i.log.Info("search index removal requested",
		slog.String("op", op),
		slog.String("image_id", id),
		slog.String("event_id", event.EventID.String()),
	)

	return nil
}
