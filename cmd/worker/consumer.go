package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/adapters/event"
	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// errSkip marks a message that can never be processed. It is committed so it does not block
// the partition.
var errSkip = errors.New("skip message")

const (
	initialRetryDelay = time.Second
	maxRetryDelay     = 30 * time.Second
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
}

type handlerFunc func(ctx context.Context, msg kafka.Message) error

type consumer struct {
	reader     messageReader
	handle     handlerFunc
	retryDelay time.Duration
	logger     logger.Logger
}

func newConsumer(r messageReader, h handlerFunc, log logger.Logger) *consumer {
	return &consumer{
		reader:     r,
		handle:     h,
		retryDelay: initialRetryDelay,
		logger:     log.With(zap.String("topic", r.Config().Topic)),
	}
}

// run processes messages until ctx is done. Committing an offset also commits everything
// before it in the partition, so a failed message is retried in place and nothing after it
// is fetched until it succeeds. If ctx ends first the message stays uncommitted and is
// delivered again on the next start.
func (c *consumer) run(ctx context.Context) {
	c.logger.Info("Worker listening on topic")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		c.logger.Debug("Received message", zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset))

		if !c.process(ctx, msg) {
			return
		}
		c.commitMessage(ctx, msg)
	}
}

// process handles msg, retrying failures with exponential backoff. It reports false when
// ctx ends before the message is handled.
func (c *consumer) process(ctx context.Context, msg kafka.Message) bool {
	delay := c.retryDelay
	for attempt := 1; ; attempt++ {
		err := c.handle(ctx, msg)
		switch {
		case err == nil:
			return true
		case errors.Is(err, errSkip):
			c.logger.Warn("Skipping unprocessable message", zap.Error(err), zap.Int64("offset", msg.Offset))
			return true
		}
		c.logger.Error("Failed to process message", err,
			zap.Int64("offset", msg.Offset), zap.Int("attempt", attempt), zap.Duration("retry_in", delay))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

func (c *consumer) commitMessage(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(context.WithoutCancel(ctx), msg); err != nil {
		c.logger.Error("Failed to commit message", err)
	}
}

func handleContentEvent(log logger.Logger) handlerFunc {
	return func(_ context.Context, msg kafka.Message) error {
		var payload event.ContentEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			return errors.Join(errSkip, err)
		}
		log.Info("Processing content event",
			zap.String("event_id", payload.EventID),
			zap.String("type", string(payload.Type)),
			zap.String("source", string(payload.Source)),
			zap.String("operation", payload.Operation),
			zap.String("collection", payload.Collection),
			zap.String("item_id", payload.ItemID),
			zap.Bool("has_local_changes", payload.HasLocalChanges),
		)
		return nil
	}
}

func handleContactMessage(mailer service.Mailer, log logger.Logger) handlerFunc {
	return func(ctx context.Context, msg kafka.Message) error {
		var payload event.ContactMessagePayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			return errors.Join(errSkip, err)
		}
		log.Info("Delivering contact message", zap.String("message_id", payload.MessageID))
		return mailer.Send(ctx, service.ContactMessage{
			Name:    payload.Name,
			Email:   payload.Email,
			Subject: payload.Subject,
			Message: payload.Message,
		})
	}
}
