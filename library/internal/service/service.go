package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/bookwise/library-service/library/internal/model"
	libraryRepo "github.com/bookwise/library-service/library/internal/repository"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

// Notifier is called after a state change has been committed. It must not
// block and has no way to report failure back to the caller.
type Notifier interface {
	Welcome(user model.User)
	BorrowConfirmed(rec model.BorrowRecord)
	BookReturned(rec model.BorrowRecord)
	Reengage(user model.User, inactive bool)
}

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type Policy struct {
	LoanPeriod    time.Duration `envconfig:"LOAN_PERIOD" default:"168h"`
	InactiveAfter time.Duration `envconfig:"INACTIVE_AFTER" default:"72h"`
	InactiveUntil time.Duration `envconfig:"INACTIVE_UNTIL" default:"720h"`
	PageSize      int           `envconfig:"PAGE_SIZE" default:"20"`
}

func DefaultPolicy() Policy {
	return Policy{
		LoanPeriod:    7 * 24 * time.Hour,
		InactiveAfter: 3 * 24 * time.Hour,
		InactiveUntil: 30 * 24 * time.Hour,
		PageSize:      20,
	}
}

type Service struct {
	log      *zap.Logger
	repo     libraryRepo.Repository
	notifier Notifier
	clock    Clock
	policy   Policy
}

type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

func WithPolicy(p Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

func NewService(repo libraryRepo.Repository, notifier Notifier, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:      log.Named("service"),
		repo:     repo,
		notifier: notifier,
		clock:    ClockFunc(time.Now),
		policy:   DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.policy.PageSize <= 0 {
		s.policy.PageSize = DefaultPolicy().PageSize
	}
	return s
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

func (s *Service) normalize(q model.ListQuery) model.ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > model.MaxPage {
		q.Page = model.MaxPage
	}
	if q.Limit <= 0 || q.Limit > model.MaxLimit {
		q.Limit = s.policy.PageSize
	}
	return q
}
