package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/library/internal/errs"
	"github.com/bookwise/library-service/library/internal/model"
)

const recordColumns = `id, user_id, book_id, borrow_date, due_date, return_date, status, created_at`

func (r *repository) Borrow(ctx context.Context, userID, bookID string, borrowDate, dueDate time.Time) (model.BorrowRecord, error) {
	var rec model.BorrowRecord
	err := r.runInTx(ctx, func(tx pgx.Tx) error {
		var active bool
		if err := tx.QueryRow(ctx, `
select exists(select 1 from borrow_records where user_id = @user_id and book_id = @book_id and status = 'BORROWED')`,
			pgx.NamedArgs{"user_id": userID, "book_id": bookID}).Scan(&active); err != nil {
			return err
		}
		if active {
			return errs.ErrAlreadyBorrowed
		}

		if err := r.decrementAvailable(ctx, tx, bookID); err != nil {
			return err
		}

		q := `
insert into borrow_records (id, user_id, book_id, borrow_date, due_date, status)
values (@id, @user_id, @book_id, @borrow_date, @due_date, 'BORROWED')
returning ` + recordColumns
		args := pgx.NamedArgs{
			"id":          uuid.NewString(),
			"user_id":     userID,
			"book_id":     bookID,
			"borrow_date": borrowDate,
			"due_date":    dueDate,
		}
		var err error
		rec, err = collectOne[model.BorrowRecord](ctx, tx, q, args)
		return err
	})
	if err != nil {
		return model.BorrowRecord{}, mapErr("borrow", err)
	}
	return rec, nil
}

func (r *repository) ReturnBook(ctx context.Context, recordID string, returnDate time.Time) (model.BorrowRecord, error) {
	var rec model.BorrowRecord
	err := r.runInTx(ctx, func(tx pgx.Tx) error {
		q := `
update borrow_records
	set status = 'RETURNED', return_date = @return_date
where id = @id and status = 'BORROWED'
returning ` + recordColumns
		var err error
		rec, err = collectOne[model.BorrowRecord](ctx, tx, q, pgx.NamedArgs{"id": recordID, "return_date": returnDate})
		if errors.Is(err, pgx.ErrNoRows) {
			if _, err := r.getRecord(ctx, tx, recordID, false); err != nil {
				return err
			}
			return errs.ErrAlreadyReturned
		}
		if err != nil {
			return err
		}
		return r.incrementAvailable(ctx, tx, rec.BookID)
	})
	if err != nil {
		return model.BorrowRecord{}, mapErr("return book", err)
	}
	return rec, nil
}

func (r *repository) UpdateStatus(ctx context.Context, recordID string, status model.BorrowStatus, at time.Time) (model.BorrowRecord, error) {
	var rec model.BorrowRecord
	err := r.runInTx(ctx, func(tx pgx.Tx) error {
		cur, err := r.getRecord(ctx, tx, recordID, true)
		if err != nil {
			return err
		}
		if cur.Status == status {
			rec = cur
			return nil
		}

		var returnDate *time.Time
		switch status {
		case model.StatusReturned:
			returnDate = &at
			err = r.incrementAvailable(ctx, tx, cur.BookID)
		case model.StatusBorrowed:
			err = r.decrementAvailable(ctx, tx, cur.BookID)
		default:
			return fmt.Errorf("unknown status %q", status)
		}
		if err != nil {
			return err
		}

		q := `
update borrow_records
	set status = @status, return_date = @return_date
where id = @id
returning ` + recordColumns
		rec, err = collectOne[model.BorrowRecord](ctx, tx, q, pgx.NamedArgs{
			"id":          recordID,
			"status":      status,
			"return_date": returnDate,
		})
		if err == nil {
			r.log.Debug("status transition",
				zap.String("record", recordID),
				zap.String("from", string(cur.Status)),
				zap.String("to", string(status)))
		}
		return err
	})
	if err != nil {
		return model.BorrowRecord{}, mapErr("update status", err)
	}
	return rec, nil
}

func (r *repository) DeleteBook(ctx context.Context, bookID string, at time.Time) error {
	err := r.runInTx(ctx, func(tx pgx.Tx) error {
		var id string
		if err := tx.QueryRow(ctx,
			`select id from books where id = @id and deleted_at is null for update`,
			pgx.NamedArgs{"id": bookID}).Scan(&id); err != nil {
			return err
		}
		active, err := count(ctx, tx, qb.Select("count(*)").
			From(borrowRecordsTableName).
			Where(sq.Eq{"book_id": bookID, "status": model.StatusBorrowed}))
		if err != nil {
			return err
		}
		if active > 0 {
			return errs.ErrHasActiveBorrows
		}
		_, err = tx.Exec(ctx, `update books set deleted_at = @at where id = @id`,
			pgx.NamedArgs{"id": bookID, "at": at})
		return err
	})
	return mapErr("delete book", err)
}

// decrementAvailable takes one copy off the shelf in a single conditional
// statement. Zero affected rows means the book is missing or exhausted.
func (r *repository) decrementAvailable(ctx context.Context, db querier, bookID string) error {
	tag, err := db.Exec(ctx, `
update books
	set available_copies = available_copies - 1
where id = @id and available_copies > 0 and deleted_at is null`, pgx.NamedArgs{"id": bookID})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := db.QueryRow(ctx,
		`select exists(select 1 from books where id = @id and deleted_at is null)`,
		pgx.NamedArgs{"id": bookID}).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return errs.ErrNotFound
	}
	return errs.ErrUnavailable
}

func (r *repository) incrementAvailable(ctx context.Context, db querier, bookID string) error {
	tag, err := db.Exec(ctx,
		`update books set available_copies = available_copies + 1 where id = @id`,
		pgx.NamedArgs{"id": bookID})
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) getRecord(ctx context.Context, db querier, recordID string, forUpdate bool) (model.BorrowRecord, error) {
	b := qb.Select(recordColumns).
		From(borrowRecordsTableName).
		Where(sq.Eq{"id": recordID})
	if forUpdate {
		b = b.Suffix("for update")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return model.BorrowRecord{}, err
	}
	return collectOne[model.BorrowRecord](ctx, db, query, args...)
}

func (r *repository) GetBorrowRecord(ctx context.Context, recordID string) (model.BorrowRecord, error) {
	rec, err := r.getRecord(ctx, r.db, recordID, false)
	if err != nil {
		return model.BorrowRecord{}, mapErr("get borrow record", err)
	}
	return rec, nil
}

const viewColumns = `br.id, br.user_id, br.book_id, br.borrow_date, br.due_date, br.return_date, br.status, br.created_at,
	b.title as book_title, b.author as book_author, b.cover_url as book_cover_url,
	u.full_name as user_full_name, u.email as user_email`

func borrowViews(columns string) sq.SelectBuilder {
	return qb.Select(columns).
		From(borrowRecordsTableName + " br").
		Join(booksTableName + " b on b.id = br.book_id").
		Join(usersTableName + " u on u.id = br.user_id")
}

// GetBorrowView reads one record joined with its book and borrower.
func (r *repository) GetBorrowView(ctx context.Context, recordID string) (model.BorrowView, error) {
	query, args, err := borrowViews(viewColumns).Where(sq.Eq{"br.id": recordID}).ToSql()
	if err != nil {
		return model.BorrowView{}, err
	}
	view, err := collectOne[model.BorrowView](ctx, r.db, query, args...)
	if err != nil {
		return model.BorrowView{}, mapErr("get borrow view", err)
	}
	return view, nil
}

func filterBorrowViews(b sq.SelectBuilder, q model.ListQuery) sq.SelectBuilder {
	if q.Query != "" {
		like := "%" + q.Query + "%"
		b = b.Where(sq.Or{
			sq.ILike{"b.title": like},
			sq.ILike{"u.full_name": like},
			sq.ILike{"u.email": like},
		})
	}
	return b
}

func (r *repository) ListBorrowRecords(ctx context.Context, q model.ListQuery) ([]model.BorrowView, error) {
	b := filterBorrowViews(borrowViews(viewColumns), q)
	if q.Sort == model.SortOldest {
		b = b.OrderBy("br.borrow_date asc", "br.id")
	} else {
		b = b.OrderBy("br.borrow_date desc", "br.id")
	}
	query, args, err := paginate(b, q).ToSql()
	if err != nil {
		return nil, err
	}
	items, err := collectAll[model.BorrowView](ctx, r.db, query, args...)
	if err != nil {
		return nil, mapErr("list borrow records", err)
	}
	return items, nil
}

func (r *repository) CountBorrowRecords(ctx context.Context, q model.ListQuery) (int, error) {
	n, err := count(ctx, r.db, filterBorrowViews(borrowViews("count(*)"), q))
	if err != nil {
		return 0, mapErr("count borrow records", err)
	}
	return n, nil
}

func (r *repository) ListUserBorrows(ctx context.Context, userID string, limit int) ([]model.BorrowView, error) {
	b := borrowViews(viewColumns).
		Where(sq.Eq{"br.user_id": userID}).
		OrderBy("br.borrow_date desc", "br.id")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	items, err := collectAll[model.BorrowView](ctx, r.db, query, args...)
	if err != nil {
		return nil, mapErr("list user borrows", err)
	}
	return items, nil
}
