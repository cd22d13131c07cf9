package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"slot-capacity-engine/internal/domain/reservation"
	"slot-capacity-engine/internal/pkg/config"
	"slot-capacity-engine/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

var ErrPublish = errs.New("failed to publish event")

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter hashes on the key so every event of one reservation lands on the same partition.
func NewKafkaWriter(cfg config.KafkaConfig, logger *slog.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  compression(cfg.Compression),
		MaxAttempts:  cfg.MaxAttempts,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Logger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Debug(fmt.Sprintf(msg, args...), "component", "kafka")
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Error(fmt.Sprintf(msg, args...), "component", "kafka")
		}),
	}
}

func compression(name string) compress.Compression {
	switch name {
	case "gzip":
		return compress.Gzip
	case "lz4":
		return compress.Lz4
	case "zstd":
		return compress.Zstd
	case "none":
		return compress.None
	default:
		return compress.Snappy
	}
}

type KafkaPublisher struct {
	writer  MessageWriter
	topic   string
	source  string
	timeout time.Duration
}

func NewKafkaPublisher(writer MessageWriter, cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer:  writer,
		topic:   cfg.Topic,
		source:  DefaultSource,
		timeout: cfg.WriteTimeout,
	}
}

func (p *KafkaPublisher) Emit(ctx context.Context, event reservation.Event) error {
	msg, err := p.message(event)
	if err != nil {
		return errs.Mark(err, ErrPublish)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errs.Mark(errs.Wrapf(err, "write %s to %s", event.Type(), p.topic), ErrPublish)
	}
	return nil
}

func (p *KafkaPublisher) message(event reservation.Event) (kafka.Message, error) {
	env, err := NewEnvelope(event, p.source)
	if err != nil {
		return kafka.Message{}, err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, errs.Wrap(err, "failed to encode envelope")
	}

	return kafka.Message{
		Key:   []byte(env.ReservationID.String()),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(env.Type)},
			{Key: HeaderEventID, Value: []byte(env.ID.String())},
			{Key: HeaderSource, Value: []byte(env.Source)},
		},
	}, nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
