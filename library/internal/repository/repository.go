package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/library/internal/errs"
	"github.com/bookwise/library-service/library/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	Borrow(ctx context.Context, userID, bookID string, borrowDate, dueDate time.Time) (model.BorrowRecord, error)
	ReturnBook(ctx context.Context, recordID string, returnDate time.Time) (model.BorrowRecord, error)
	UpdateStatus(ctx context.Context, recordID string, status model.BorrowStatus, at time.Time) (model.BorrowRecord, error)
	DeleteBook(ctx context.Context, bookID string, at time.Time) error

	CreateBook(ctx context.Context, params model.BookParams) (model.Book, error)
	UpdateBook(ctx context.Context, bookID string, params model.BookParams) (model.Book, error)
	GetBook(ctx context.Context, bookID string) (model.Book, error)
	ListBooks(ctx context.Context, q model.ListQuery) ([]model.Book, error)
	CountBooks(ctx context.Context, q model.ListQuery) (int, error)

	GetBorrowRecord(ctx context.Context, recordID string) (model.BorrowRecord, error)
	GetBorrowView(ctx context.Context, recordID string) (model.BorrowView, error)
	ListBorrowRecords(ctx context.Context, q model.ListQuery) ([]model.BorrowView, error)
	CountBorrowRecords(ctx context.Context, q model.ListQuery) (int, error)
	ListUserBorrows(ctx context.Context, userID string, limit int) ([]model.BorrowView, error)

	CreateUser(ctx context.Context, req model.UserCreateRequest) (model.User, error)
	GetUser(ctx context.Context, userID string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserSummary(ctx context.Context, userID string) (model.UserSummary, error)
	ListUsers(ctx context.Context, q model.ListQuery) ([]model.UserSummary, error)
	CountUsers(ctx context.Context, q model.ListQuery) (int, error)
	SetAccountStatus(ctx context.Context, userID string, status model.AccountStatus) (model.User, error)
	SetRole(ctx context.Context, userID string, role model.Role) (model.User, error)
	TouchActivity(ctx context.Context, userID string, at time.Time) error
	ListApprovedUsers(ctx context.Context) ([]model.User, error)

	Stats(ctx context.Context, now time.Time) (model.Stats, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName         = `users`
	booksTableName         = `books`
	borrowRecordsTableName = `borrow_records`

	activeBorrowIndex = `borrow_records_active_uidx`
	bookCopiesCheck   = `books_copies_check`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// runInTx commits when fn returns nil and rolls back otherwise.
func (r *repository) runInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.log.Warn("rollback", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit(ctx)
}

var domainErrors = []error{
	errs.ErrNotFound,
	errs.ErrAlreadyBorrowed,
	errs.ErrAlreadyReturned,
	errs.ErrUnavailable,
	errs.ErrHasActiveBorrows,
	errs.ErrInvalidCopies,
	errs.ErrUserExists,
}

// mapErr translates driver errors into the error taxonomy. Anything it
// does not recognise becomes a transient store error.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, de := range domainErrors {
		if errors.Is(err, de) {
			return err
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			if pgErr.ConstraintName == activeBorrowIndex {
				return errs.ErrAlreadyBorrowed
			}
			return errs.ErrUserExists
		case pgerrcode.CheckViolation:
			if pgErr.ConstraintName == bookCopiesCheck {
				return errs.ErrInvalidCopies
			}
		case pgerrcode.ForeignKeyViolation, pgerrcode.InvalidTextRepresentation:
			return errs.ErrNotFound
		}
	}
	return errs.Store(op, err)
}

func collectOne[T any](ctx context.Context, db querier, query string, args ...any) (T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
}

func collectAll[T any](ctx context.Context, db querier, query string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return items, nil
}

func count(ctx context.Context, db querier, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func paginate(b sq.SelectBuilder, q model.ListQuery) sq.SelectBuilder {
	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit)).Offset(uint64(q.Offset()))
	}
	return b
}
