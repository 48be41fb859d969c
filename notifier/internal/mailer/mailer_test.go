package mailer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/notifier/internal/mailer"
	"github.com/bookwise/library-service/pkg/circuit_breaker"
	"github.com/bookwise/library-service/pkg/kafka"
)

var note = kafka.Notification{
	ID:      "n1",
	Kind:    "welcome",
	Email:   "ada@uni.edu",
	Subject: "Welcome to BookWise, Your Reading Companion!",
	Body:    "<h1>Welcome</h1>",
}

func TestWebhook_Send(t *testing.T) {
	t.Parallel()
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := mailer.NewWebhook(srv.URL, time.Second)
	require.NoError(t, m.Send(context.Background(), note))
	require.Equal(t, map[string]string{
		"email":   "ada@uni.edu",
		"subject": "Welcome to BookWise, Your Reading Companion!",
		"message": "<h1>Welcome</h1>",
	}, got)
}

func TestWebhook_BreakerOpensOnFailures(t *testing.T) {
	t.Parallel()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	m := mailer.NewWebhook(srv.URL, time.Second)
	for i := 0; i < 10; i++ {
		err := m.Send(context.Background(), note)
		require.Error(t, err)
		require.NotErrorIs(t, err, circuit_breaker.ErrOpenCB)
	}
	err := m.Send(context.Background(), note)
	require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
	require.EqualValues(t, 10, atomic.LoadInt32(&hits))
}

func TestLog_Send(t *testing.T) {
	t.Parallel()
	require.NoError(t, mailer.NewLog(zap.NewExample()).Send(context.Background(), note))
}
