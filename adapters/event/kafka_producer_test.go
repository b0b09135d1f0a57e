package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func newTestProducer() (*KafkaProducerClient, *recordingWriter, *recordingWriter) {
	cw, mw := &recordingWriter{}, &recordingWriter{}
	p := newProducer(cw, mw, logger.NewNop())
	p.newID = func() string { return "id-1" }
	p.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return p, cw, mw
}

func TestNewKafkaProducerClient_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaProducerClient(config.Config{}, logger.NewNop())
	assert.Error(t, err)
}

func TestPublishContentEvent(t *testing.T) {
	p, cw, mw := newTestProducer()
	evt := content.Event{Type: content.EventChanged, Source: content.SourceMutation, Operation: "add", Collection: "projects", ItemID: "project_1"}

	require.NoError(t, p.PublishContentEvent(context.Background(), evt))
	require.Len(t, cw.msgs, 1)
	assert.Empty(t, mw.msgs)
	assert.Equal(t, "content.changed", string(cw.msgs[0].Key))

	var got ContentEventPayload
	require.NoError(t, json.Unmarshal(cw.msgs[0].Value, &got))
	assert.Equal(t, "id-1", got.EventID)
	assert.Equal(t, "add", got.Operation)
	assert.Equal(t, "project_1", got.ItemID)
}

func TestSend(t *testing.T) {
	p, cw, mw := newTestProducer()
	msg := service.ContactMessage{Name: "Ann", Email: "ann@example.com", Message: "Hi"}

	require.NoError(t, p.Send(context.Background(), msg))
	assert.Empty(t, cw.msgs)
	require.Len(t, mw.msgs, 1)

	var got ContactMessagePayload
	require.NoError(t, json.Unmarshal(mw.msgs[0].Value, &got))
	assert.Equal(t, "id-1", got.MessageID)
	assert.Equal(t, "ann@example.com", got.Email)
	assert.Equal(t, 2024, got.SubmittedAt.Year())
}

func TestWriteErrorsPropagate(t *testing.T) {
	p, cw, mw := newTestProducer()
	cw.err = errors.New("broker down")
	mw.err = cw.err

	assert.Error(t, p.PublishContentEvent(context.Background(), content.Event{Type: content.EventReady}))
	assert.Error(t, p.Send(context.Background(), service.ContactMessage{}))
}

func TestClose(t *testing.T) {
	p, cw, mw := newTestProducer()
	p.Close()
	assert.True(t, cw.closed)
	assert.True(t, mw.closed)
}
