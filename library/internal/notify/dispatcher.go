package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/library/internal/model"
	"github.com/bookwise/library-service/library/internal/service"
	"github.com/bookwise/library-service/pkg/kafka"
)

type Config struct {
	LateFeeDelay   time.Duration `envconfig:"LATE_FEE_DELAY" default:"1h"`
	QueueSize      int           `envconfig:"NOTIFY_QUEUE_SIZE" default:"256"`
	PublishTimeout time.Duration `envconfig:"NOTIFY_PUBLISH_TIMEOUT" default:"10s"`
}

// Directory resolves the user and book behind a borrow record.
type Directory interface {
	GetUser(ctx context.Context, userID string) (model.User, error)
	GetBook(ctx context.Context, bookID string) (model.Book, error)
}

type eventKind int

const (
	welcome eventKind = iota + 1
	borrowed
	returned
	reengage
)

type event struct {
	kind     eventKind
	user     model.User
	rec      model.BorrowRecord
	inactive bool
}

// Dispatcher turns committed lifecycle events into notifications. Events are
// queued and handled on a single goroutine; a full queue drops the event.
type Dispatcher struct {
	log *zap.Logger
	dir Directory
	pub Publisher
	cfg Config

	mu     sync.RWMutex
	closed bool
	events chan event
	done   chan struct{}
}

var _ service.Notifier = (*Dispatcher)(nil)

func NewDispatcher(dir Directory, pub Publisher, cfg Config, log *zap.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 10 * time.Second
	}
	d := &Dispatcher{
		log:    log.Named("notify"),
		dir:    dir,
		pub:    pub,
		cfg:    cfg,
		events: make(chan event, cfg.QueueSize),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.events)
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) Welcome(user model.User) {
	d.enqueue(event{kind: welcome, user: user})
}

func (d *Dispatcher) BorrowConfirmed(rec model.BorrowRecord) {
	d.enqueue(event{kind: borrowed, rec: rec})
}

func (d *Dispatcher) BookReturned(rec model.BorrowRecord) {
	d.enqueue(event{kind: returned, rec: rec})
}

func (d *Dispatcher) Reengage(user model.User, inactive bool) {
	d.enqueue(event{kind: reengage, user: user, inactive: inactive})
}

func (d *Dispatcher) enqueue(e event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("dispatcher closed, event dropped", zap.Int("kind", int(e.kind)))
		return
	}
	select {
	case d.events <- e:
	default:
		d.log.Warn("notification queue full, event dropped", zap.Int("kind", int(e.kind)))
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for e := range d.events {
		d.handle(e)
	}
}

func (d *Dispatcher) handle(e event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.PublishTimeout)
	defer cancel()

	msgs, err := d.build(ctx, e)
	if err != nil {
		d.log.Error("build notification", zap.Int("kind", int(e.kind)), zap.Error(err))
		return
	}
	for _, msg := range msgs {
		if err := d.pub.Publish(ctx, msg); err != nil {
			d.log.Error("publish notification",
				zap.String("kind", msg.Kind),
				zap.String("email", msg.Email),
				zap.Error(err))
		}
	}
}

func (d *Dispatcher) build(ctx context.Context, e event) ([]kafka.Notification, error) {
	switch e.kind {
	case welcome:
		return d.one(KindWelcome, e.user.Email,
			"Welcome to BookWise, Your Reading Companion!",
			"welcome", mailData{Name: e.user.FullName}, time.Time{})
	case reengage:
		if e.inactive {
			return d.one(KindReengageInactive, e.user.Email, "Hmm, it's been a while",
				"reengage_inactive", mailData{Name: e.user.FullName}, time.Time{})
		}
		return d.one(KindReengageActive, e.user.Email, "Woah, you're still here!",
			"reengage_active", mailData{Name: e.user.FullName}, time.Time{})
	case borrowed, returned:
		return d.buildLoan(ctx, e)
	default:
		return nil, errors.Errorf("unknown event kind %d", e.kind)
	}
}

func (d *Dispatcher) buildLoan(ctx context.Context, e event) ([]kafka.Notification, error) {
	user, err := d.dir.GetUser(ctx, e.rec.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "get user")
	}
	book, err := d.dir.GetBook(ctx, e.rec.BookID)
	if err != nil {
		return nil, errors.Wrap(err, "get book")
	}
	data := mailData{
		Name:       user.FullName,
		Title:      book.Title,
		BorrowDate: e.rec.BorrowDate,
		DueDate:    e.rec.DueDate,
	}

	if e.kind == borrowed {
		return d.one(KindBorrowConfirmed, user.Email,
			fmt.Sprintf("You borrowed %q", book.Title),
			"borrow_confirmation", data, time.Time{})
	}

	if e.rec.ReturnDate == nil {
		return nil, errors.New("returned record without return date")
	}
	data.ReturnDate = *e.rec.ReturnDate
	if !model.IsLate(data.ReturnDate, data.DueDate) {
		return d.one(KindReturnConfirmed, user.Email,
			fmt.Sprintf("Book %q returned successfully!", book.Title),
			"return_on_time", data, time.Time{})
	}

	data.DaysLate = model.DaysLate(data.ReturnDate, data.DueDate)
	confirm, err := d.one(KindReturnConfirmed, user.Email,
		fmt.Sprintf("Book %q returned - Late return notice", book.Title),
		"return_late", data, time.Time{})
	if err != nil {
		return nil, err
	}
	notice, err := d.one(KindLateFeeNotice, user.Email,
		fmt.Sprintf("Late fee notice for %q", book.Title),
		"late_fee_notice", data, data.ReturnDate.Add(d.cfg.LateFeeDelay))
	if err != nil {
		return nil, err
	}
	return append(confirm, notice...), nil
}

func (d *Dispatcher) one(kind, email, subject, tmpl string, data mailData, sendAt time.Time) ([]kafka.Notification, error) {
	body, err := render(tmpl, data)
	if err != nil {
		return nil, errors.Wrapf(err, "render %s", tmpl)
	}
	return []kafka.Notification{{
		ID:      uuid.NewString(),
		Kind:    kind,
		Email:   email,
		Subject: subject,
		Body:    body,
		SendAt:  sendAt,
	}}, nil
}
