package notify

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/pkg/kafka"
)

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Notification) error
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string) Publisher {
	return &kafkaPublisher{
		producer: producer,
		topic:    topic,
	}
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func (p *kafkaPublisher) Publish(_ context.Context, n kafka.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(n.Email),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err = p.producer.SendMessage(msg); err != nil {
		return errors.Wrap(err, "SendMessage")
	}
	return nil
}

// NewLogPublisher is used when no broker is configured.
func NewLogPublisher(log *zap.Logger) Publisher {
	return &logPublisher{log: log.Named("mail")}
}

type logPublisher struct {
	log *zap.Logger
}

func (p *logPublisher) Publish(_ context.Context, n kafka.Notification) error {
	p.log.Info("notification",
		zap.String("kind", n.Kind),
		zap.String("email", n.Email),
		zap.String("subject", n.Subject),
		zap.Time("send_at", n.SendAt))
	return nil
}
