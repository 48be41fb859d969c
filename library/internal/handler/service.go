package handler

import (
	"context"

	"github.com/bookwise/library-service/library/internal/model"
	"github.com/bookwise/library-service/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	Borrow(ctx context.Context, userID, bookID string) (model.BorrowRecord, error)
	ReturnBook(ctx context.Context, actingUserID, recordID string) (model.ReturnResult, error)
	UpdateStatus(ctx context.Context, recordID string, status model.BorrowStatus) (model.BorrowView, error)
	ListBorrowRecords(ctx context.Context, q model.ListQuery) (model.ListBorrows, error)
	MyBorrows(ctx context.Context, userID string) ([]model.BorrowView, error)

	CreateBook(ctx context.Context, params model.BookParams) (model.Book, error)
	UpdateBook(ctx context.Context, bookID string, params model.BookParams) (model.Book, error)
	GetBook(ctx context.Context, bookID string) (model.Book, error)
	DeleteBook(ctx context.Context, bookID string) error
	ListBooks(ctx context.Context, q model.ListQuery) (model.ListBooks, error)
	Stats(ctx context.Context) (model.Stats, error)
}

type UserService interface {
	RegisterUser(ctx context.Context, req model.UserCreateRequest) (model.User, error)
	RequireAdmin(ctx context.Context, userID string) error
	TouchActivity(ctx context.Context, userID string) error
	ListUsers(ctx context.Context, q model.ListQuery) (model.ListUsers, error)
	GetUserDetail(ctx context.Context, userID string) (model.UserDetail, error)
	SetAccountStatus(ctx context.Context, userID string, status model.AccountStatus) (model.User, error)
	ChangeUserRole(ctx context.Context, actingUserID, targetUserID string, role model.Role) (model.User, error)
}

var (
	_ LibraryService = (*service.Service)(nil)
	_ UserService    = (*service.Service)(nil)
)
