package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bookwise/library-service/library/internal/model"
)

func (s *Service) CreateBook(ctx context.Context, params model.BookParams) (model.Book, error) {
	book, err := s.repo.CreateBook(ctx, params)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "create book")
	}
	return book, nil
}

func (s *Service) UpdateBook(ctx context.Context, bookID string, params model.BookParams) (model.Book, error) {
	book, err := s.repo.UpdateBook(ctx, bookID, params)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "update book")
	}
	return book, nil
}

func (s *Service) GetBook(ctx context.Context, bookID string) (model.Book, error) {
	return s.repo.GetBook(ctx, bookID)
}

// DeleteBook refuses while any copy is still lent out.
func (s *Service) DeleteBook(ctx context.Context, bookID string) error {
	if err := s.repo.DeleteBook(ctx, bookID, s.now()); err != nil {
		return errors.Wrap(err, "delete book")
	}
	s.log.Info("book deleted", zap.String("book", bookID))
	return nil
}

func (s *Service) ListBooks(ctx context.Context, q model.ListQuery) (model.ListBooks, error) {
	q = s.normalize(q)
	var (
		items []model.Book
		total int
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.ListBooks(gCtx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountBooks(gCtx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.ListBooks{}, errors.Wrap(err, "list books")
	}
	if items == nil {
		items = []model.Book{}
	}
	return model.ListBooks{
		Paging: model.NewPaging(q.Page, q.Limit, total),
		Items:  items,
	}, nil
}

func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	return s.repo.Stats(ctx, s.now())
}
