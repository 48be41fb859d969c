package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/pkg/circuit_breaker"
	"github.com/bookwise/library-service/pkg/kafka"
)

// Mailer delivers a rendered notification to its recipient.
type Mailer interface {
	Send(ctx context.Context, n kafka.Notification) error
}

type payload struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type webhook struct {
	endpoint string
	client   *http.Client
	cb       circuit_breaker.CircuitBreaker
}

// NewWebhook posts every notification to an email relay endpoint.
func NewWebhook(endpoint string, timeout time.Duration) Mailer {
	return &webhook{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		cb:       circuit_breaker.New(20, 30*time.Second, 0.5, 2),
	}
}

func (w *webhook) Send(ctx context.Context, n kafka.Notification) error {
	body, err := json.Marshal(payload{Email: n.Email, Subject: n.Subject, Message: n.Body})
	if err != nil {
		return err
	}
	return w.cb.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := w.client.Do(req)
		if err != nil {
			return errors.Wrap(err, "mail relay")
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusMultipleChoices {
			return fmt.Errorf("mail relay: unexpected status %d", resp.StatusCode)
		}
		return nil
	})
}

type logMailer struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) Mailer {
	return &logMailer{log: log.Named("mailer")}
}

func (m *logMailer) Send(_ context.Context, n kafka.Notification) error {
	m.log.Info("send mail",
		zap.String("id", n.ID),
		zap.String("kind", n.Kind),
		zap.String("email", n.Email),
		zap.String("subject", n.Subject))
	return nil
}
