package worker

import (
	"context"
	"errors"
	"time"

	"adspark/internal/config"
	"adspark/internal/events"
	"adspark/internal/logger"
	"adspark/internal/worker/processors"

	"github.com/cenkalti/backoff/v5"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Worker struct {
	config    *config.Config
	logger    *logger.Logger
	reader    messageReader
	processor *processors.EventProcessor

	// pause between failed reads, reset after a successful one
	readBackoff backoff.BackOff
}

func New(cfg *config.Config, logger *logger.Logger) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers(),
		GroupID:        cfg.KafkaGroupID,
		Topic:          cfg.KafkaTopic,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return newWorker(cfg, logger, reader, processors.NewEventProcessor(logger))
}

func newWorker(cfg *config.Config, logger *logger.Logger, reader messageReader, processor *processors.EventProcessor) *Worker {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = 30 * time.Second

	return &Worker{
		config:      cfg,
		logger:      logger,
		reader:      reader,
		processor:   processor,
		readBackoff: b,
	}
}

// Start consumes deploy events until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Worker started, listening for deploy events...")

	for {
		readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		message, err := w.reader.ReadMessage(readCtx)
		cancel()

		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, context.DeadlineExceeded) {
			continue
		}
		if err != nil {
			pause := w.readBackoff.NextBackOff()
			w.logger.Error("Failed to read message, retrying in %s: %v", pause, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(pause):
			}
			continue
		}
		w.readBackoff.Reset()

		w.logger.Debug("Received message: %s", string(message.Value))

		event, err := events.Decode(message.Value)
		if err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if err := w.processor.Process(ctx, event); err != nil {
			w.logger.Error("Failed to process event: %v", err)
			continue
		}

		w.logger.Debug("Event processed successfully")
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}

// Processed reports how many deploy events were acknowledged.
func (w *Worker) Processed() int64 {
	return w.processor.Processed()
}
