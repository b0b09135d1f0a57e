package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const (
	TopicContentEvents   = "content.events"
	TopicContactMessages = "contact.messages"
)

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	ContentEventsWriter   messageWriter
	ContactMessagesWriter messageWriter
	newID                 func() string
	now                   func() time.Time
	logger                logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'content.events'
	contentWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        TopicContentEvents,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}

	// writer 'contact.messages'
	contactWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        TopicContactMessages,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))

	return newProducer(contentWriter, contactWriter, log), nil
}

func newProducer(contentWriter, contactWriter messageWriter, log logger.Logger) *KafkaProducerClient {
	return &KafkaProducerClient{
		ContentEventsWriter:   contentWriter,
		ContactMessagesWriter: contactWriter,
		newID:                 func() string { return uuid.NewString() },
		now:                   time.Now,
		logger:                log,
	}
}

// PublishContentEvent implements service.EventPublisher.
func (c *KafkaProducerClient) PublishContentEvent(ctx context.Context, evt content.Event) error {
	payload := ContentEventPayload{
		EventID: c.newID(),
		Event:   evt,
	}
	if err := c.write(ctx, c.ContentEventsWriter, string(evt.Type), payload); err != nil {
		c.logger.Error("Failed to publish content event", err, zap.String("type", string(evt.Type)))
		return err
	}
	return nil
}

// Send implements service.Mailer by queueing the message for the mail worker.
func (c *KafkaProducerClient) Send(ctx context.Context, msg service.ContactMessage) error {
	payload := ContactMessagePayload{
		MessageID:   c.newID(),
		Name:        msg.Name,
		Email:       msg.Email,
		Subject:     msg.Subject,
		Message:     msg.Message,
		SubmittedAt: c.now().UTC(),
	}
	if err := c.write(ctx, c.ContactMessagesWriter, payload.MessageID, payload); err != nil {
		c.logger.Error("Failed to queue contact message", err, zap.String("message_id", payload.MessageID))
		return err
	}
	c.logger.Info("Contact message queued", zap.String("message_id", payload.MessageID))
	return nil
}

func (c *KafkaProducerClient) write(ctx context.Context, w messageWriter, key string, payload any) error {
	if w == nil {
		return fmt.Errorf("kafka writer is not configured")
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode kafka payload: %w", err)
	}
	return w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value})
}

func (c *KafkaProducerClient) Close() {
	if c.ContentEventsWriter != nil {
		c.ContentEventsWriter.Close()
	}
	if c.ContactMessagesWriter != nil {
		c.ContactMessagesWriter.Close()
	}
	c.logger.Info("Closed Kafka Producers")
}
