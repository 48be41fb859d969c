package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bookwise/library-service/library/internal/errs"
	"github.com/bookwise/library-service/library/internal/model"
)

// Borrow lends one copy of the book to an approved user for the loan period.
func (s *Service) Borrow(ctx context.Context, userID, bookID string) (model.BorrowRecord, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return model.BorrowRecord{}, errors.Wrap(err, "get user")
	}
	if user.Status != model.AccountApproved {
		return model.BorrowRecord{}, errs.ErrNotApproved
	}

	now := s.now()
	rec, err := s.repo.Borrow(ctx, userID, bookID, now, now.Add(s.policy.LoanPeriod))
	if err != nil {
		return model.BorrowRecord{}, errors.Wrap(err, "borrow")
	}
	s.log.Info("book borrowed",
		zap.String("record", rec.ID),
		zap.String("user", userID),
		zap.String("book", bookID))
	s.notifier.BorrowConfirmed(rec)
	return rec, nil
}

// ReturnBook closes a borrow. Only the borrower or an admin may return it.
func (s *Service) ReturnBook(ctx context.Context, actingUserID, recordID string) (model.ReturnResult, error) {
	cur, err := s.repo.GetBorrowRecord(ctx, recordID)
	if err != nil {
		return model.ReturnResult{}, errors.Wrap(err, "get borrow record")
	}
	if cur.UserID != actingUserID {
		if err := s.requireAdmin(ctx, actingUserID); err != nil {
			return model.ReturnResult{}, err
		}
	}

	rec, err := s.repo.ReturnBook(ctx, recordID, s.now())
	if err != nil {
		return model.ReturnResult{}, errors.Wrap(err, "return book")
	}
	res := model.ReturnResult{Record: rec}
	if rec.ReturnDate != nil {
		res.WasLate = model.IsLate(*rec.ReturnDate, rec.DueDate)
		res.DaysLate = model.DaysLate(*rec.ReturnDate, rec.DueDate)
	}
	s.log.Info("book returned",
		zap.String("record", rec.ID),
		zap.Bool("late", res.WasLate))
	s.notifier.BookReturned(rec)
	return res, nil
}

// UpdateStatus is the admin correction path. Unlike ReturnBook it accepts
// any target status and a same-state transition is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, recordID string, status model.BorrowStatus) (model.BorrowView, error) {
	if !status.Valid() {
		return model.BorrowView{}, errors.Errorf("invalid status %q", status)
	}
	rec, err := s.repo.UpdateStatus(ctx, recordID, status, s.now())
	if err != nil {
		return model.BorrowView{}, errors.Wrap(err, "update status")
	}
	view, err := s.repo.GetBorrowView(ctx, rec.ID)
	if err != nil {
		return model.BorrowView{}, errors.Wrap(err, "get borrow view")
	}
	view.DisplayStatus = view.BorrowRecord.DisplayStatus(s.now())
	return view, nil
}

func (s *Service) ListBorrowRecords(ctx context.Context, q model.ListQuery) (model.ListBorrows, error) {
	q = s.normalize(q)
	var (
		items []model.BorrowView
		total int
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.ListBorrowRecords(gCtx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountBorrowRecords(gCtx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.ListBorrows{}, errors.Wrap(err, "list borrow records")
	}
	return model.ListBorrows{
		Paging: model.NewPaging(q.Page, q.Limit, total),
		Items:  s.withDisplayStatus(items),
	}, nil
}

func (s *Service) MyBorrows(ctx context.Context, userID string) ([]model.BorrowView, error) {
	items, err := s.repo.ListUserBorrows(ctx, userID, 0)
	if err != nil {
		return nil, errors.Wrap(err, "list user borrows")
	}
	return s.withDisplayStatus(items), nil
}

func (s *Service) withDisplayStatus(items []model.BorrowView) []model.BorrowView {
	now := s.now()
	for i := range items {
		items[i].DisplayStatus = items[i].BorrowRecord.DisplayStatus(now)
	}
	if items == nil {
		items = []model.BorrowView{}
	}
	return items
}
