package handler

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/pkg/kafka"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *fakeMailer) Send(_ context.Context, n kafka.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, n.ID)
	return nil
}

func (m *fakeMailer) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestConsumer(m *fakeMailer) *Consumer {
	c := NewConsumer(m, time.Second, zap.NewExample())
	c.now = func() time.Time { return fixedNow }
	return c
}

func encode(t *testing.T, n kafka.Notification) []byte {
	t.Helper()
	b, err := json.Marshal(n)
	require.NoError(t, err)
	return b
}

func TestConsumer_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		sendAt      time.Time
		wantSent    []string
		wantPending int
	}{
		{name: "immediate", wantSent: []string{"n1"}},
		{name: "already due", sendAt: fixedNow.Add(-time.Minute), wantSent: []string{"n1"}},
		{name: "delayed", sendAt: fixedNow.Add(time.Hour), wantPending: 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := &fakeMailer{}
			c := newTestConsumer(m)
			defer c.Stop()

			c.Handle(encode(t, kafka.Notification{ID: "n1", Email: "ada@uni.edu", SendAt: tt.sendAt}))

			require.Equal(t, tt.wantSent, m.ids())
			require.Equal(t, tt.wantPending, c.Pending())
		})
	}
}

func TestConsumer_DelayedIsSentWhenDue(t *testing.T) {
	t.Parallel()
	m := &fakeMailer{}
	c := newTestConsumer(m)
	defer c.Stop()

	c.Handle(encode(t, kafka.Notification{ID: "late-fee", SendAt: fixedNow.Add(20 * time.Millisecond)}))
	c.Handle(encode(t, kafka.Notification{ID: "late-fee", SendAt: fixedNow.Add(20 * time.Millisecond)}))

	require.Eventually(t, func() bool { return len(m.ids()) == 1 }, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, []string{"late-fee"}, m.ids())
	require.Zero(t, c.Pending())
}

func TestConsumer_StopDropsPending(t *testing.T) {
	t.Parallel()
	m := &fakeMailer{}
	c := newTestConsumer(m)

	c.Handle(encode(t, kafka.Notification{ID: "n1", SendAt: fixedNow.Add(time.Hour)}))
	c.Handle(encode(t, kafka.Notification{ID: "n2", SendAt: fixedNow.Add(2 * time.Hour)}))
	require.Equal(t, 2, c.Pending())

	c.Stop()
	require.Zero(t, c.Pending())

	c.Handle(encode(t, kafka.Notification{ID: "n3", SendAt: fixedNow.Add(time.Hour)}))
	require.Zero(t, c.Pending())
	require.Empty(t, m.ids())
}

func TestConsumer_BadMessagesAreSkipped(t *testing.T) {
	t.Parallel()
	m := &fakeMailer{err: errors.New("relay down")}
	c := newTestConsumer(m)
	defer c.Stop()

	require.NotPanics(t, func() {
		c.Handle([]byte("{not json"))
		c.Handle(encode(t, kafka.Notification{ID: "n1"}))
	})
	require.Empty(t, m.ids())
}
