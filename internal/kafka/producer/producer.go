package producer

import (
	"context"
	"github.com/segmentio/kafka-go"
	"imageResizer/internal/config"
	"log/slog"
	"time"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ProducerIface
type ProducerIface interface {
	SendMessage(ctx context.Context, key, message []byte) error
}

type Producer struct {
	writer *kafka.Writer
	log    *slog.Logger
}

func NewProducer(kafkaCfg *config.Kafka, topic string, log *slog.Logger) (*Producer, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(kafkaCfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		log:    log,
	}, nil
}

// SendMessage writes one message. Messages with the same key land on the
// same partition, so events for one image stay ordered.
func (p *Producer) SendMessage(ctx context.Context, key, message []byte) error {
	msg := kafka.Message{
		Key:   key,
		Value: message,
	}

	err := p.writer.WriteMessages(ctx, msg)
	if err != nil {
		p.log.Error("failed to send message to kafka", slog.String("topic", p.writer.Topic), slog.String("error", err.Error()))
		return err
	}

	p.log.Info("message sent to kafka", slog.String("topic", p.writer.Topic), slog.String("key", string(key)))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
