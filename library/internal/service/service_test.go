package service_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/library/internal/errs"
	"github.com/bookwise/library-service/library/internal/model"
	repo_mocks "github.com/bookwise/library-service/library/internal/repository/mocks"
	"github.com/bookwise/library-service/library/internal/service"
	service_mocks "github.com/bookwise/library-service/library/internal/service/mocks"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type deps struct {
	repo     *repo_mocks.MockRepository
	notifier *service_mocks.MockNotifier
}

func newService(t *testing.T) (*service.Service, deps) {
	t.Helper()
	c := gomock.NewController(t)
	d := deps{
		repo:     repo_mocks.NewMockRepository(c),
		notifier: service_mocks.NewMockNotifier(c),
	}
	svc := service.NewService(d.repo, d.notifier, zap.NewExample().Named("test"),
		service.WithClock(service.ClockFunc(func() time.Time { return fixedNow })))
	return svc, d
}

func TestService_Borrow(t *testing.T) {
	t.Parallel()
	const (
		userID = "u1"
		bookID = "b1"
	)
	approved := model.User{ID: userID, Status: model.AccountApproved, Role: model.RoleUser}
	rec := model.BorrowRecord{
		ID: "r1", UserID: userID, BookID: bookID,
		BorrowDate: fixedNow, DueDate: fixedNow.Add(7 * 24 * time.Hour), Status: model.StatusBorrowed,
	}

	tests := []struct {
		name     string
		behavior func(d deps)
		want     model.BorrowRecord
		wantErr  error
	}{
		{
			name: "ok",
			behavior: func(d deps) {
				d.repo.EXPECT().GetUser(gomock.Any(), userID).Return(approved, nil)
				d.repo.EXPECT().Borrow(gomock.Any(), userID, bookID, fixedNow, fixedNow.Add(7*24*time.Hour)).Return(rec, nil)
				d.notifier.EXPECT().BorrowConfirmed(rec)
			},
			want: rec,
		},
		{
			name: "pending account",
			behavior: func(d deps) {
				d.repo.EXPECT().GetUser(gomock.Any(), userID).
					Return(model.User{ID: userID, Status: model.AccountPending}, nil)
			},
			wantErr: errs.ErrNotApproved,
		},
		{
			name: "unavailable",
			behavior: func(d deps) {
				d.repo.EXPECT().GetUser(gomock.Any(), userID).Return(approved, nil)
				d.repo.EXPECT().Borrow(gomock.Any(), userID, bookID, gomock.Any(), gomock.Any()).
					Return(model.BorrowRecord{}, errs.ErrUnavailable)
			},
			wantErr: errs.ErrUnavailable,
		},
		{
			name: "already borrowed",
			behavior: func(d deps) {
				d.repo.EXPECT().GetUser(gomock.Any(), userID).Return(approved, nil)
				d.repo.EXPECT().Borrow(gomock.Any(), userID, bookID, gomock.Any(), gomock.Any()).
					Return(model.BorrowRecord{}, errs.ErrAlreadyBorrowed)
			},
			wantErr: errs.ErrAlreadyBorrowed,
		},
		{
			name: "transient store failure",
			behavior: func(d deps) {
				d.repo.EXPECT().GetUser(gomock.Any(), userID).Return(approved, nil)
				d.repo.EXPECT().Borrow(gomock.Any(), userID, bookID, gomock.Any(), gomock.Any()).
					Return(model.BorrowRecord{}, errs.Store("borrow", context.DeadlineExceeded))
			},
			wantErr: errs.ErrTransientStore,
		},
		{
			name: "unknown user",
			behavior: func(d deps) {
				d.repo.EXPECT().GetUser(gomock.Any(), userID).Return(model.User{}, errs.ErrNotFound)
			},
			wantErr: errs.ErrNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, d := newService(t)
			tt.behavior(d)

			got, err := svc.Borrow(context.Background(), userID, bookID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestService_ReturnBook(t *testing.T) {
	t.Parallel()
	due := fixedNow.Add(-49 * time.Hour)
	borrowed := model.BorrowRecord{ID: "r1", UserID: "u1", BookID: "b1", DueDate: due, Status: model.StatusBorrowed}
	returned := borrowed
	returned.Status = model.StatusReturned
	returned.ReturnDate = &fixedNow

	t.Run("late return by owner", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetBorrowRecord(gomock.Any(), "r1").Return(borrowed, nil)
		d.repo.EXPECT().ReturnBook(gomock.Any(), "r1", fixedNow).Return(returned, nil)
		d.notifier.EXPECT().BookReturned(returned)

		res, err := svc.ReturnBook(context.Background(), "u1", "r1")
		require.NoError(t, err)
		require.True(t, res.WasLate)
		require.Equal(t, 3, res.DaysLate)
		require.Equal(t, returned, res.Record)
	})

	t.Run("already returned", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetBorrowRecord(gomock.Any(), "r1").Return(returned, nil)
		d.repo.EXPECT().ReturnBook(gomock.Any(), "r1", fixedNow).Return(model.BorrowRecord{}, errs.ErrAlreadyReturned)

		_, err := svc.ReturnBook(context.Background(), "u1", "r1")
		require.ErrorIs(t, err, errs.ErrAlreadyReturned)
	})

	t.Run("someone else's record", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetBorrowRecord(gomock.Any(), "r1").Return(borrowed, nil)
		d.repo.EXPECT().GetUser(gomock.Any(), "u2").Return(model.User{ID: "u2", Role: model.RoleUser}, nil)

		_, err := svc.ReturnBook(context.Background(), "u2", "r1")
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("admin returns for a user", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetBorrowRecord(gomock.Any(), "r1").Return(borrowed, nil)
		d.repo.EXPECT().GetUser(gomock.Any(), "admin").Return(model.User{ID: "admin", Role: model.RoleAdmin}, nil)
		d.repo.EXPECT().ReturnBook(gomock.Any(), "r1", fixedNow).Return(returned, nil)
		d.notifier.EXPECT().BookReturned(returned)

		_, err := svc.ReturnBook(context.Background(), "admin", "r1")
		require.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().GetBorrowRecord(gomock.Any(), "missing").Return(model.BorrowRecord{}, errs.ErrNotFound)

		_, err := svc.ReturnBook(context.Background(), "u1", "missing")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	rec := model.BorrowRecord{ID: "r1", DueDate: fixedNow.Add(-time.Hour), Status: model.StatusBorrowed}
	gomock.InOrder(
		d.repo.EXPECT().UpdateStatus(gomock.Any(), "r1", model.StatusBorrowed, fixedNow).Return(rec, nil),
		d.repo.EXPECT().GetBorrowView(gomock.Any(), "r1").Return(model.BorrowView{
			BorrowRecord: rec,
			BookTitle:    "Dune",
			UserFullName: "Ada Lovelace",
			UserEmail:    "ada@uni.edu",
		}, nil),
	)

	view, err := svc.UpdateStatus(context.Background(), "r1", model.StatusBorrowed)
	require.NoError(t, err)
	require.Equal(t, model.DisplayOverdue, view.DisplayStatus)
	require.Equal(t, "Dune", view.BookTitle)
	require.Equal(t, "Ada Lovelace", view.UserFullName)

	_, err = svc.UpdateStatus(context.Background(), "r1", model.BorrowStatus("OVERDUE"))
	require.Error(t, err)
}

func TestService_UpdateStatus_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  model.BorrowStatus
		wantErr error
	}{
		{name: "no copy on the shelf", status: model.StatusBorrowed, wantErr: errs.ErrUnavailable},
		{name: "borrower already holds the book", status: model.StatusBorrowed, wantErr: errs.ErrAlreadyBorrowed},
		{name: "unknown record", status: model.StatusReturned, wantErr: errs.ErrNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, d := newService(t)
			d.repo.EXPECT().UpdateStatus(gomock.Any(), "r1", tt.status, fixedNow).Return(model.BorrowRecord{}, tt.wantErr)

			_, err := svc.UpdateStatus(context.Background(), "r1", tt.status)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_DeleteBook(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	gomock.InOrder(
		d.repo.EXPECT().DeleteBook(gomock.Any(), "b1", fixedNow).Return(errs.ErrHasActiveBorrows),
		d.repo.EXPECT().DeleteBook(gomock.Any(), "b1", fixedNow).Return(nil),
	)
	require.ErrorIs(t, svc.DeleteBook(context.Background(), "b1"), errs.ErrHasActiveBorrows)
	require.NoError(t, svc.DeleteBook(context.Background(), "b1"))
}

func TestService_ChangeUserRole(t *testing.T) {
	t.Parallel()
	admin := model.User{ID: "admin", Role: model.RoleAdmin}

	tests := []struct {
		name     string
		acting   string
		target   string
		behavior func(d deps)
		wantErr  error
	}{
		{
			name:   "ok",
			acting: "admin",
			target: "u1",
			behavior: func(d deps) {
				d.repo.EXPECT().GetUser(gomock.Any(), "admin").Return(admin, nil)
				d.repo.EXPECT().SetRole(gomock.Any(), "u1", model.RoleAdmin).
					Return(model.User{ID: "u1", Role: model.RoleAdmin}, nil)
			},
		},
		{
			name:   "acting user is not admin",
			acting: "u2",
			target: "u1",
			behavior: func(d deps) {
				d.repo.EXPECT().GetUser(gomock.Any(), "u2").Return(model.User{ID: "u2", Role: model.RoleUser}, nil)
			},
			wantErr: errs.ErrUnauthorized,
		},
		{
			name:   "acting user unknown",
			acting: "ghost",
			target: "u1",
			behavior: func(d deps) {
				d.repo.EXPECT().GetUser(gomock.Any(), "ghost").Return(model.User{}, errs.ErrNotFound)
			},
			wantErr: errs.ErrUnauthorized,
		},
		{
			name:   "self role change",
			acting: "admin",
			target: "admin",
			behavior: func(d deps) {
				d.repo.EXPECT().GetUser(gomock.Any(), "admin").Return(admin, nil)
			},
			wantErr: errs.ErrSelfRoleChange,
		},
		{
			name:   "target not found",
			acting: "admin",
			target: "missing",
			behavior: func(d deps) {
				d.repo.EXPECT().GetUser(gomock.Any(), "admin").Return(admin, nil)
				d.repo.EXPECT().SetRole(gomock.Any(), "missing", model.RoleAdmin).Return(model.User{}, errs.ErrNotFound)
			},
			wantErr: errs.ErrNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, d := newService(t)
			tt.behavior(d)

			user, err := svc.ChangeUserRole(context.Background(), tt.acting, tt.target, model.RoleAdmin)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, model.RoleAdmin, user.Role)
		})
	}
}

func TestService_RegisterUser(t *testing.T) {
	t.Parallel()
	req := model.UserCreateRequest{FullName: "Ada", Email: "ada@uni.edu", UniversityID: 7, UniversityCard: "c.png"}
	user := model.User{ID: "u1", FullName: "Ada", Email: "ada@uni.edu", Status: model.AccountPending}

	t.Run("welcome after create", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		gomock.InOrder(
			d.repo.EXPECT().CreateUser(gomock.Any(), req).Return(user, nil),
			d.notifier.EXPECT().Welcome(user),
		)
		got, err := svc.RegisterUser(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, user, got)
	})

	t.Run("duplicate sends nothing", func(t *testing.T) {
		t.Parallel()
		svc, d := newService(t)
		d.repo.EXPECT().CreateUser(gomock.Any(), req).Return(model.User{}, errs.ErrUserExists)
		_, err := svc.RegisterUser(context.Background(), req)
		require.ErrorIs(t, err, errs.ErrUserExists)
	})
}

func TestService_ListBooks(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	want := model.ListQuery{Query: "go", Sort: model.SortHighestRated, Page: 2, Limit: 20}
	d.repo.EXPECT().ListBooks(gomock.Any(), want).Return([]model.Book{{ID: "b21"}}, nil)
	d.repo.EXPECT().CountBooks(gomock.Any(), want).Return(41, nil)

	list, err := svc.ListBooks(context.Background(), model.ListQuery{Query: "go", Sort: model.SortHighestRated, Page: 2})
	require.NoError(t, err)
	require.Equal(t, 3, list.TotalPages)
	require.True(t, list.HasNext)
	require.Len(t, list.Items, 1)
}

func TestService_ListBooks_PageIsCapped(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	want := model.ListQuery{Page: model.MaxPage, Limit: 20}
	d.repo.EXPECT().ListBooks(gomock.Any(), want).Return(nil, nil)
	d.repo.EXPECT().CountBooks(gomock.Any(), want).Return(3, nil)

	list, err := svc.ListBooks(context.Background(), model.ListQuery{Page: math.MaxInt, Limit: 500})
	require.NoError(t, err)
	require.Equal(t, model.MaxPage, list.Page)
	require.False(t, list.HasNext)
	require.Empty(t, list.Items)
	require.GreaterOrEqual(t, want.Offset(), 0)
}

func TestService_ListBooks_Error(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	d.repo.EXPECT().ListBooks(gomock.Any(), gomock.Any()).Return(nil, errs.Store("list", errors.New("conn reset"))).AnyTimes()
	d.repo.EXPECT().CountBooks(gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()

	_, err := svc.ListBooks(context.Background(), model.ListQuery{})
	require.ErrorIs(t, err, errs.ErrTransientStore)
}

func TestService_GetUserDetail(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	summary := model.UserSummary{User: model.User{ID: "u1"}, TotalBorrowedBooks: 2}
	history := []model.BorrowView{
		{BorrowRecord: model.BorrowRecord{ID: "r1", Status: model.StatusBorrowed, DueDate: fixedNow.Add(time.Hour)}},
		{BorrowRecord: model.BorrowRecord{ID: "r2", Status: model.StatusReturned, DueDate: fixedNow.Add(-time.Hour), ReturnDate: &fixedNow}},
	}
	d.repo.EXPECT().GetUserSummary(gomock.Any(), "u1").Return(summary, nil)
	d.repo.EXPECT().ListUserBorrows(gomock.Any(), "u1", 10).Return(history, nil)

	detail, err := svc.GetUserDetail(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 2, detail.TotalBorrowedBooks)
	require.Equal(t, model.DisplayBorrowed, detail.BorrowingHistory[0].DisplayStatus)
	require.Equal(t, model.DisplayReturned, detail.BorrowingHistory[1].DisplayStatus)
}

func TestService_ReengageInactive(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	fresh := model.User{ID: "fresh", LastActivityDate: fixedNow.Add(-time.Hour)}
	idle := model.User{ID: "idle", LastActivityDate: fixedNow.Add(-5 * 24 * time.Hour)}
	gone := model.User{ID: "gone", LastActivityDate: fixedNow.Add(-45 * 24 * time.Hour)}

	d.repo.EXPECT().ListApprovedUsers(gomock.Any()).Return([]model.User{fresh, idle, gone}, nil)
	d.notifier.EXPECT().Reengage(fresh, false)
	d.notifier.EXPECT().Reengage(idle, true)
	d.notifier.EXPECT().Reengage(gone, false)

	n, err := svc.ReengageInactive(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)
}
