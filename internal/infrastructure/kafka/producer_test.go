package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("cart-default", "Cart", "CartUpdated", map[string]int{"total_quantity": 3})

	require.NoError(t, err)
	_, err = uuid.Parse(event.ID)
	assert.NoError(t, err)
	assert.Equal(t, "cart-default", event.AggregateID)
	assert.Equal(t, "Cart", event.AggregateType)
	assert.Equal(t, "CartUpdated", event.EventType)
	assert.JSONEq(t, `{"total_quantity":3}`, string(event.Data))
	assert.False(t, event.Timestamp.IsZero())
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("id", "Cart", "CartUpdated", make(chan int))
	assert.Error(t, err)
}

func TestProducer_PublishEvent(t *testing.T) {
	writer := &recordingWriter{}
	producer := &Producer{writer: writer}

	err := producer.PublishEvent(context.Background(), "order-1", "Order", "OrderPlaced", map[string]string{"tracking": "T-1"})

	require.NoError(t, err)
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "order-1", string(writer.messages[0].Key))

	var event Event
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &event))
	assert.Equal(t, "OrderPlaced", event.EventType)
	assert.JSONEq(t, `{"tracking":"T-1"}`, string(event.Data))
}

func TestProducer_PublishError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker unavailable")}
	producer := &Producer{writer: writer}

	err := producer.PublishEvent(context.Background(), "cart-1", "Cart", "CartUpdated", nil)

	assert.EqualError(t, err, "broker unavailable")
}

func TestProducer_Close(t *testing.T) {
	writer := &recordingWriter{}
	producer := &Producer{writer: writer}

	require.NoError(t, producer.Close())
	assert.True(t, writer.closed)
}
