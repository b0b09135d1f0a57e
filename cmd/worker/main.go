package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/adapters/event"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting Portfolio CMS Worker...")

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("config Kafka brokers not found", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Kafka Consumers
	contentReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicContentEvents,
		GroupID:  "content-event-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer contentReader.Close()

	contactReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicContactMessages,
		GroupID:  "contact-mailer-group",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer contactReader.Close()

	consumers := []*consumer{
		newConsumer(contentReader, handleContentEvent(appLogger), appLogger),
		newConsumer(contactReader, handleContactMessage(event.NewLogMailer(appLogger), appLogger), appLogger),
	}

	var wg sync.WaitGroup
	for _, c := range consumers {
		wg.Add(1)
		go func(c *consumer) {
			defer wg.Done()
			c.run(ctx)
		}(c)
	}

	<-ctx.Done()
	appLogger.Info("Shutting down worker...")
	wg.Wait()
	appLogger.Info("Worker exited", zap.Int("consumers", len(consumers)))
}
