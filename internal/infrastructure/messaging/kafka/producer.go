// Package kafka publishes anomaly events to the message broker.
package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/uwazilabs/haki-analytics/internal/config"
	"github.com/uwazilabs/haki-analytics/internal/infrastructure/monitoring/logging"
	"github.com/uwazilabs/haki-analytics/pkg/errors"
)

var (
	// ErrProducerClosed is returned after Close.
	ErrProducerClosed = errors.New(errors.ErrCodeMessagingError, "producer closed")
)

// Writer abstracts kafka.Writer so tests can capture messages.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes JSON events to a single topic.
type Producer struct {
	writer Writer
	topic  string
	logger logging.Logger
	closed atomic.Bool
}

// NewProducer builds a producer over the configured brokers.  Messages are
// keyed so events for the same report land on the same partition.
func NewProducer(cfg config.KafkaConfig, logger logging.Logger) *Producer {
	if logger == nil {
		logger = logging.Default()
	}

	maxAttempts := cfg.ProducerRetries + 1
	batchSize := cfg.BatchSize
	if batchSize == 0 {
		batchSize = 100
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.AnomalyTopic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  maxAttempts,
		BatchSize:    batchSize,
		BatchTimeout: 100 * time.Millisecond,
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{writer: writer, topic: cfg.AnomalyTopic, logger: logger}
}

// NewProducerWithWriter injects a custom writer; used by tests.
func NewProducerWithWriter(w Writer, topic string, logger logging.Logger) *Producer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Producer{writer: w, topic: topic, logger: logger}
}

// Topic returns the destination topic.
func (p *Producer) Topic() string { return p.topic }

// Publish JSON-encodes the payload and writes it under the given key.
func (p *Producer) Publish(ctx context.Context, key string, payload interface{}) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event")
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to publish event")
	}

	p.logger.Debug("event published",
		logging.String("topic", p.topic),
		logging.String("key", key),
	)
	return nil
}

// Close flushes and closes the writer.  Further publishes fail with
// ErrProducerClosed.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
