package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/notifier/config"
	"github.com/bookwise/library-service/notifier/internal/handler"
	"github.com/bookwise/library-service/notifier/internal/mailer"
	"github.com/bookwise/library-service/pkg/kafka"
	"github.com/bookwise/library-service/pkg/logger"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "notifier")
	if !cfg.Kafka.Enabled() {
		return errors.New("KAFKA_ADDRS is required")
	}

	var m mailer.Mailer
	if cfg.Mailer.Endpoint != "" {
		m = mailer.NewWebhook(cfg.Mailer.Endpoint, cfg.Mailer.Timeout)
	} else {
		log.Warn("mailer endpoint is not configured, mails are only logged")
		m = mailer.NewLog(log)
	}

	if err := kafka.CreateTopics(cfg.Kafka, kafka.NotificationTopic); err != nil {
		return errors.Wrap(err, "kafka.CreateTopics")
	}
	group, err := kafka.NewConsumer(cfg.Kafka, kafka.NotifierConsumerGroup)
	if err != nil {
		return errors.Wrap(err, "kafka.NewConsumer")
	}
	consumer := handler.NewConsumer(m, cfg.Mailer.Timeout, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := kafka.Consume(ctx, group, consumer, kafka.NotificationTopic); err != nil {
			log.Error("kafka.Consume", zap.Error(err))
		}
	}()
	log.Info("notifier started", zap.Strings("brokers", cfg.Kafka.Addrs))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case termSig := <-sig:
		log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	case <-done:
		log.Warn("consumer loop exited")
	}

	cancel()
	if err = group.Close(); err != nil {
		log.Error("group.Close", zap.Error(err))
	}
	<-done
	consumer.Stop()
	log.Info("Graceful shutdown finished")
	return nil
}
