package notify

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/library/internal/errs"
	"github.com/bookwise/library-service/library/internal/model"
	"github.com/bookwise/library-service/pkg/kafka"
)

type fakeDirectory struct {
	users map[string]model.User
	books map[string]model.Book
}

func (f fakeDirectory) GetUser(_ context.Context, id string) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (f fakeDirectory) GetBook(_ context.Context, id string) (model.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	return b, nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []kafka.Notification
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, n kafka.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, n)
	return nil
}

func (p *recordingPublisher) messages() []kafka.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kafka.Notification(nil), p.sent...)
}

var dir = fakeDirectory{
	users: map[string]model.User{"u1": {ID: "u1", FullName: "Ada Lovelace", Email: "ada@uni.edu"}},
	books: map[string]model.Book{"b1": {ID: "b1", Title: "Dune"}},
}

func TestDispatcher_LateReturn(t *testing.T) {
	t.Parallel()
	pub := &recordingPublisher{}
	d := NewDispatcher(dir, pub, Config{LateFeeDelay: time.Hour}, zap.NewExample())

	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ret := due.Add(50 * time.Hour)
	d.BookReturned(model.BorrowRecord{
		ID: "r1", UserID: "u1", BookID: "b1",
		DueDate: due, ReturnDate: &ret, Status: model.StatusReturned,
	})
	d.Close()

	msgs := pub.messages()
	require.Len(t, msgs, 2)

	require.Equal(t, KindReturnConfirmed, msgs[0].Kind)
	require.Equal(t, "ada@uni.edu", msgs[0].Email)
	require.Equal(t, `Book "Dune" returned - Late return notice`, msgs[0].Subject)
	require.True(t, msgs[0].SendAt.IsZero())
	require.Contains(t, msgs[0].Body, "3 day(s) late")

	require.Equal(t, KindLateFeeNotice, msgs[1].Kind)
	require.Equal(t, ret.Add(time.Hour), msgs[1].SendAt)
	require.NotEqual(t, msgs[0].ID, msgs[1].ID)
}

func TestDispatcher_OnTimeReturn(t *testing.T) {
	t.Parallel()
	pub := &recordingPublisher{}
	d := NewDispatcher(dir, pub, Config{LateFeeDelay: time.Hour}, zap.NewExample())

	due := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	ret := due.Add(-time.Hour)
	d.BookReturned(model.BorrowRecord{UserID: "u1", BookID: "b1", DueDate: due, ReturnDate: &ret})
	d.Close()

	msgs := pub.messages()
	require.Len(t, msgs, 1)
	require.Equal(t, `Book "Dune" returned successfully!`, msgs[0].Subject)
	require.Contains(t, msgs[0].Body, "on time")
}

func TestDispatcher_BodiesAreEscaped(t *testing.T) {
	t.Parallel()
	pub := &recordingPublisher{}
	d := NewDispatcher(dir, pub, Config{}, zap.NewExample())

	d.Welcome(model.User{FullName: "<script>x</script>", Email: "x@uni.edu"})
	d.Close()

	msgs := pub.messages()
	require.Len(t, msgs, 1)
	require.Equal(t, KindWelcome, msgs[0].Kind)
	require.False(t, strings.Contains(msgs[0].Body, "<script>"))
}

func TestDispatcher_Reengage(t *testing.T) {
	t.Parallel()
	pub := &recordingPublisher{}
	d := NewDispatcher(dir, pub, Config{}, zap.NewExample())

	d.Reengage(model.User{FullName: "Ada", Email: "ada@uni.edu"}, true)
	d.Reengage(model.User{FullName: "Ada", Email: "ada@uni.edu"}, false)
	d.Close()

	msgs := pub.messages()
	require.Len(t, msgs, 2)
	require.Equal(t, "Hmm, it's been a while", msgs[0].Subject)
	require.Equal(t, "Woah, you're still here!", msgs[1].Subject)
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	t.Parallel()
	pub := &recordingPublisher{err: errors.New("broker down")}
	d := NewDispatcher(dir, pub, Config{}, zap.NewExample())

	require.NotPanics(t, func() {
		d.BorrowConfirmed(model.BorrowRecord{UserID: "u1", BookID: "b1"})
		d.BorrowConfirmed(model.BorrowRecord{UserID: "missing", BookID: "b1"})
		d.Close()
		d.BorrowConfirmed(model.BorrowRecord{UserID: "u1", BookID: "b1"})
		d.Close()
	})
	require.Empty(t, pub.messages())
}

func TestDispatcher_FullQueueDrops(t *testing.T) {
	t.Parallel()
	block := make(chan struct{})
	pub := &blockingPublisher{release: block}
	d := NewDispatcher(dir, pub, Config{QueueSize: 1}, zap.NewExample())

	for i := 0; i < 10; i++ {
		d.Welcome(model.User{FullName: "Ada", Email: "ada@uni.edu"})
	}
	close(block)
	d.Close()
	require.Less(t, pub.count(), 10)
}

type blockingPublisher struct {
	release chan struct{}
	mu      sync.Mutex
	n       int
}

func (p *blockingPublisher) Publish(context.Context, kafka.Notification) error {
	<-p.release
	p.mu.Lock()
	p.n++
	p.mu.Unlock()
	return nil
}

func (p *blockingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}
