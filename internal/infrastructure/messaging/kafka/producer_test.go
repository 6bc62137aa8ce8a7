package kafka

import (
	"context"
	"encoding/json"
	"testing"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uwazilabs/haki-analytics/internal/config"
	"github.com/uwazilabs/haki-analytics/pkg/errors"
)

type capturingWriter struct {
	messages []segkafka.Message
	writeErr error
	closed   bool
}

func (w *capturingWriter) WriteMessages(_ context.Context, msgs ...segkafka.Message) error {
	if w.writeErr != nil {
		return w.writeErr
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *capturingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishWritesKeyedJSON(t *testing.T) {
	w := &capturingWriter{}
	p := NewProducerWithWriter(w, "haki.anomalies", nil)

	payload := map[string]interface{}{"report_id": "r1", "score": 70.0}
	require.NoError(t, p.Publish(context.Background(), "r1", payload))

	require.Len(t, w.messages, 1)
	assert.Equal(t, []byte("r1"), w.messages[0].Key)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &decoded))
	assert.Equal(t, "r1", decoded["report_id"])
	assert.Equal(t, 70.0, decoded["score"])
}

func TestPublishAfterCloseFails(t *testing.T) {
	w := &capturingWriter{}
	p := NewProducerWithWriter(w, "haki.anomalies", nil)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	err := p.Publish(context.Background(), "r1", map[string]string{})
	assert.ErrorIs(t, err, ErrProducerClosed)

	// Close is idempotent.
	assert.NoError(t, p.Close())
}

func TestPublishWrapsWriterError(t *testing.T) {
	w := &capturingWriter{writeErr: context.DeadlineExceeded}
	p := NewProducerWithWriter(w, "haki.anomalies", nil)

	err := p.Publish(context.Background(), "r1", map[string]string{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMessagingError))
}

func TestNewProducerUsesConfiguredTopic(t *testing.T) {
	p := NewProducer(config.KafkaConfig{
		Brokers:      []string{"localhost:9092"},
		AnomalyTopic: "haki.anomalies",
	}, nil)
	defer p.Close()

	assert.Equal(t, "haki.anomalies", p.Topic())
}
