package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bookwise/library-service/library/internal/errs"
	"github.com/bookwise/library-service/library/internal/model"
)

const historyLimit = 10

func (s *Service) RegisterUser(ctx context.Context, req model.UserCreateRequest) (model.User, error) {
	user, err := s.repo.CreateUser(ctx, req)
	if err != nil {
		return model.User{}, errors.Wrap(err, "create user")
	}
	s.log.Info("user registered", zap.String("user", user.ID))
	s.notifier.Welcome(user)
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (model.User, error) {
	return s.repo.GetUser(ctx, userID)
}

// RequireAdmin re-reads the role from the store. Roles carried by tokens
// or cached in the client are never consulted.
func (s *Service) RequireAdmin(ctx context.Context, userID string) error {
	return s.requireAdmin(ctx, userID)
}

func (s *Service) requireAdmin(ctx context.Context, userID string) error {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.ErrUnauthorized
		}
		return errors.Wrap(err, "get acting user")
	}
	if user.Role != model.RoleAdmin {
		return errs.ErrUnauthorized
	}
	return nil
}

func (s *Service) TouchActivity(ctx context.Context, userID string) error {
	return s.repo.TouchActivity(ctx, userID, s.now())
}

func (s *Service) ListUsers(ctx context.Context, q model.ListQuery) (model.ListUsers, error) {
	q = s.normalize(q)
	var (
		items []model.UserSummary
		total int
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.ListUsers(gCtx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountUsers(gCtx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.ListUsers{}, errors.Wrap(err, "list users")
	}
	if items == nil {
		items = []model.UserSummary{}
	}
	return model.ListUsers{
		Paging: model.NewPaging(q.Page, q.Limit, total),
		Items:  items,
	}, nil
}

// GetUserDetail returns the user with the most recent borrows.
func (s *Service) GetUserDetail(ctx context.Context, userID string) (model.UserDetail, error) {
	var (
		summary model.UserSummary
		history []model.BorrowView
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.repo.GetUserSummary(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.repo.ListUserBorrows(gCtx, userID, historyLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.UserDetail{}, errors.Wrap(err, "get user detail")
	}
	return model.UserDetail{
		UserSummary:      summary,
		BorrowingHistory: s.withDisplayStatus(history),
	}, nil
}

func (s *Service) SetAccountStatus(ctx context.Context, userID string, status model.AccountStatus) (model.User, error) {
	user, err := s.repo.SetAccountStatus(ctx, userID, status)
	if err != nil {
		return model.User{}, errors.Wrap(err, "set account status")
	}
	s.log.Info("account status changed",
		zap.String("user", userID),
		zap.String("status", string(status)))
	return user, nil
}

// ChangeUserRole lets an admin change another user's role. Admins cannot
// change their own role.
func (s *Service) ChangeUserRole(ctx context.Context, actingUserID, targetUserID string, role model.Role) (model.User, error) {
	if err := s.requireAdmin(ctx, actingUserID); err != nil {
		return model.User{}, err
	}
	if actingUserID == targetUserID {
		return model.User{}, errs.ErrSelfRoleChange
	}
	user, err := s.repo.SetRole(ctx, targetUserID, role)
	if err != nil {
		return model.User{}, errors.Wrap(err, "set role")
	}
	s.log.Info("role changed",
		zap.String("by", actingUserID),
		zap.String("user", targetUserID),
		zap.String("role", string(role)))
	return user, nil
}

// ReengageInactive sends every approved user either a "we miss you" or a
// "still here" message depending on how long they have been idle.
func (s *Service) ReengageInactive(ctx context.Context) (int, error) {
	users, err := s.repo.ListApprovedUsers(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list approved users")
	}
	now := s.now()
	for _, u := range users {
		idle := now.Sub(u.LastActivityDate)
		inactive := idle > s.policy.InactiveAfter && idle <= s.policy.InactiveUntil
		s.notifier.Reengage(u, inactive)
	}
	return len(users), nil
}
