package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/library/internal/model"
)

const bookColumns = `id, title, author, genre, rating, cover_url, cover_color, description, summary, video_url,
	total_copies, available_copies, created_at, deleted_at`

func (r *repository) CreateBook(ctx context.Context, p model.BookParams) (model.Book, error) {
	q := `
insert into books (id, title, author, genre, rating, cover_url, cover_color, description, summary, video_url, total_copies, available_copies)
values (@id, @title, @author, @genre, @rating, @cover_url, @cover_color, @description, @summary, @video_url, @total_copies, @total_copies)
returning ` + bookColumns
	args := bookArgs(p)
	args["id"] = uuid.NewString()
	book, err := collectOne[model.Book](ctx, r.db, q, args)
	if err != nil {
		return model.Book{}, mapErr("create book", err)
	}
	return book, nil
}

// UpdateBook shifts available copies by the change in total copies. The
// copies check rejects a total below the number currently lent out.
func (r *repository) UpdateBook(ctx context.Context, bookID string, p model.BookParams) (model.Book, error) {
	q := `
update books set
	title = @title, author = @author, genre = @genre, rating = @rating,
	cover_url = @cover_url, cover_color = @cover_color, description = @description,
	summary = @summary, video_url = @video_url,
	available_copies = available_copies + (@total_copies - total_copies),
	total_copies = @total_copies
where id = @id and deleted_at is null
returning ` + bookColumns
	args := bookArgs(p)
	args["id"] = bookID
	book, err := collectOne[model.Book](ctx, r.db, q, args)
	if err != nil {
		return model.Book{}, mapErr("update book", err)
	}
	return book, nil
}

func bookArgs(p model.BookParams) pgx.NamedArgs {
	return pgx.NamedArgs{
		"title":        p.Title,
		"author":       p.Author,
		"genre":        p.Genre,
		"rating":       p.Rating,
		"cover_url":    p.CoverURL,
		"cover_color":  p.CoverColor,
		"description":  p.Description,
		"summary":      p.Summary,
		"video_url":    p.VideoURL,
		"total_copies": p.TotalCopies,
	}
}

func (r *repository) GetBook(ctx context.Context, bookID string) (model.Book, error) {
	query, args, err := qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"id": bookID, "deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	book, err := collectOne[model.Book](ctx, r.db, query, args...)
	if err != nil {
		return model.Book{}, mapErr("get book", err)
	}
	return book, nil
}

var bookSorts = map[string]string{
	model.SortNewest:       "created_at desc",
	model.SortOldest:       "created_at asc",
	model.SortHighestRated: "rating desc",
	model.SortAvailable:    "available_copies desc",
}

func filterBooks(b sq.SelectBuilder, q model.ListQuery) sq.SelectBuilder {
	b = b.Where(sq.Eq{"deleted_at": nil})
	if q.Query != "" {
		like := "%" + q.Query + "%"
		b = b.Where(sq.Or{
			sq.ILike{"title": like},
			sq.ILike{"genre": like},
			sq.ILike{"author": like},
		})
	}
	return b
}

func (r *repository) ListBooks(ctx context.Context, q model.ListQuery) ([]model.Book, error) {
	order, ok := bookSorts[q.Sort]
	if !ok {
		order = bookSorts[model.SortNewest]
	}
	b := filterBooks(qb.Select(bookColumns).From(booksTableName), q).OrderBy(order, "id")
	query, args, err := paginate(b, q).ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books, err := collectAll[model.Book](ctx, r.db, query, args...)
	if err != nil {
		return nil, mapErr("list books", err)
	}
	return books, nil
}

func (r *repository) CountBooks(ctx context.Context, q model.ListQuery) (int, error) {
	n, err := count(ctx, r.db, filterBooks(qb.Select("count(*)").From(booksTableName), q))
	if err != nil {
		return 0, mapErr("count books", err)
	}
	return n, nil
}

func (r *repository) Stats(ctx context.Context, now time.Time) (model.Stats, error) {
	const q = `
select
	(select count(*) from users) as total_users,
	(select count(*) from users where status = 'PENDING') as pending_accounts,
	(select count(*) from books where deleted_at is null) as total_books,
	(select coalesce(sum(total_copies), 0) from books where deleted_at is null) as total_copies,
	(select count(*) from borrow_records where status = 'BORROWED') as active_borrows,
	(select count(*) from borrow_records where status = 'BORROWED' and due_date < @now) as overdue_borrows`
	stats, err := collectOne[model.Stats](ctx, r.db, q, pgx.NamedArgs{"now": now})
	if err != nil {
		return model.Stats{}, mapErr("stats", err)
	}
	return stats, nil
}
