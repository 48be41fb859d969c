package handler

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/notifier/internal/mailer"
	"github.com/bookwise/library-service/pkg/kafka"
)

// Consumer delivers notifications from the topic. Messages with a future
// SendAt are held in memory until due; they are lost if the process stops.
type Consumer struct {
	mailer  mailer.Mailer
	log     *zap.Logger
	now     func() time.Time
	timeout time.Duration

	mu      sync.Mutex
	stopped bool
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
}

func NewConsumer(m mailer.Mailer, timeout time.Duration, log *zap.Logger) *Consumer {
	return &Consumer{
		mailer:  m,
		log:     log.Named("consumer"),
		now:     time.Now,
		timeout: timeout,
		timers:  make(map[string]*time.Timer),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			consumer.Handle(message.Value)
			consumer.log.Debug("Message claimed:",
				zap.Time("timestamp", message.Timestamp),
				zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// Handle sends the notification now or schedules it for its SendAt.
func (consumer *Consumer) Handle(value []byte) {
	var n kafka.Notification
	if err := json.Unmarshal(value, &n); err != nil {
		consumer.log.Error("decode notification", zap.Error(err))
		return
	}
	delay := n.SendAt.Sub(consumer.now())
	if n.SendAt.IsZero() || delay <= 0 {
		consumer.send(n)
		return
	}

	consumer.mu.Lock()
	defer consumer.mu.Unlock()
	if consumer.stopped {
		return
	}
	if _, ok := consumer.timers[n.ID]; ok {
		return
	}
	consumer.wg.Add(1)
	consumer.timers[n.ID] = time.AfterFunc(delay, func() {
		defer consumer.wg.Done()
		consumer.mu.Lock()
		delete(consumer.timers, n.ID)
		consumer.mu.Unlock()
		consumer.send(n)
	})
	consumer.log.Info("notification scheduled",
		zap.String("id", n.ID),
		zap.String("kind", n.Kind),
		zap.Time("send_at", n.SendAt))
}

// Pending reports how many delayed notifications are waiting.
func (consumer *Consumer) Pending() int {
	consumer.mu.Lock()
	defer consumer.mu.Unlock()
	return len(consumer.timers)
}

// Stop cancels pending delayed sends and waits for running ones.
func (consumer *Consumer) Stop() {
	consumer.mu.Lock()
	consumer.stopped = true
	for id, t := range consumer.timers {
		if t.Stop() {
			consumer.wg.Done()
			consumer.log.Warn("delayed notification dropped", zap.String("id", id))
		}
		delete(consumer.timers, id)
	}
	consumer.mu.Unlock()
	consumer.wg.Wait()
}

func (consumer *Consumer) send(n kafka.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), consumer.timeout)
	defer cancel()
	if err := consumer.mailer.Send(ctx, n); err != nil {
		consumer.log.Error("send mail",
			zap.String("id", n.ID),
			zap.String("kind", n.Kind),
			zap.String("email", n.Email),
			zap.Error(err))
		return
	}
	consumer.log.Debug("mail sent", zap.String("id", n.ID), zap.String("kind", n.Kind))
}
