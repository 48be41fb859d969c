package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bookwise/library-service/library/internal/model"
)

const userColumns = `id, full_name, email, university_id, university_card, status, role, last_activity_date, created_at`

const userSummaryColumns = `u.id, u.full_name, u.email, u.university_id, u.university_card, u.status, u.role,
	u.last_activity_date, u.created_at,
	(select count(*) from borrow_records br where br.user_id = u.id) as total_borrowed_books`

func (r *repository) CreateUser(ctx context.Context, req model.UserCreateRequest) (model.User, error) {
	q := `
insert into users (id, full_name, email, university_id, university_card, status, role)
values (@id, @full_name, lower(@email), @university_id, @university_card, 'PENDING', 'USER')
returning ` + userColumns
	args := pgx.NamedArgs{
		"id":              uuid.NewString(),
		"full_name":       req.FullName,
		"email":           req.Email,
		"university_id":   req.UniversityID,
		"university_card": req.UniversityCard,
	}
	user, err := collectOne[model.User](ctx, r.db, q, args)
	if err != nil {
		return model.User{}, mapErr("create user", err)
	}
	return user, nil
}

func (r *repository) getUser(ctx context.Context, op string, where sq.Sqlizer) (model.User, error) {
	query, args, err := qb.Select(userColumns).
		From(usersTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	user, err := collectOne[model.User](ctx, r.db, query, args...)
	if err != nil {
		return model.User{}, mapErr(op, err)
	}
	return user, nil
}

func (r *repository) GetUser(ctx context.Context, userID string) (model.User, error) {
	return r.getUser(ctx, "get user", sq.Eq{"id": userID})
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUser(ctx, "get user by email", sq.Expr("email = lower(?)", email))
}

func (r *repository) GetUserSummary(ctx context.Context, userID string) (model.UserSummary, error) {
	query, args, err := qb.Select(userSummaryColumns).
		From(usersTableName + " u").
		Where(sq.Eq{"u.id": userID}).
		ToSql()
	if err != nil {
		return model.UserSummary{}, err
	}
	user, err := collectOne[model.UserSummary](ctx, r.db, query, args...)
	if err != nil {
		return model.UserSummary{}, mapErr("get user summary", err)
	}
	return user, nil
}

var userSorts = map[string]string{
	model.SortNewest: "u.created_at desc",
	model.SortOldest: "u.created_at asc",
}

func filterUsers(b sq.SelectBuilder, q model.ListQuery) sq.SelectBuilder {
	if q.Query != "" {
		like := "%" + q.Query + "%"
		b = b.Where(sq.Or{
			sq.ILike{"u.full_name": like},
			sq.ILike{"u.email": like},
		})
	}
	if q.Status != "" {
		b = b.Where(sq.Eq{"u.status": q.Status})
	}
	return b
}

func (r *repository) ListUsers(ctx context.Context, q model.ListQuery) ([]model.UserSummary, error) {
	order, ok := userSorts[q.Sort]
	if !ok {
		order = userSorts[model.SortNewest]
	}
	b := filterUsers(qb.Select(userSummaryColumns).From(usersTableName+" u"), q).OrderBy(order, "u.id")
	query, args, err := paginate(b, q).ToSql()
	if err != nil {
		return nil, err
	}
	users, err := collectAll[model.UserSummary](ctx, r.db, query, args...)
	if err != nil {
		return nil, mapErr("list users", err)
	}
	return users, nil
}

func (r *repository) CountUsers(ctx context.Context, q model.ListQuery) (int, error) {
	n, err := count(ctx, r.db, filterUsers(qb.Select("count(*)").From(usersTableName+" u"), q))
	if err != nil {
		return 0, mapErr("count users", err)
	}
	return n, nil
}

func (r *repository) updateUser(ctx context.Context, op, userID string, set map[string]any) (model.User, error) {
	query, args, err := qb.Update(usersTableName).
		SetMap(set).
		Where(sq.Eq{"id": userID}).
		Suffix("returning " + userColumns).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	user, err := collectOne[model.User](ctx, r.db, query, args...)
	if err != nil {
		return model.User{}, mapErr(op, err)
	}
	return user, nil
}

func (r *repository) SetAccountStatus(ctx context.Context, userID string, status model.AccountStatus) (model.User, error) {
	return r.updateUser(ctx, "set account status", userID, map[string]any{"status": status})
}

func (r *repository) SetRole(ctx context.Context, userID string, role model.Role) (model.User, error) {
	return r.updateUser(ctx, "set role", userID, map[string]any{"role": role})
}

// TouchActivity records activity at most once per UTC day.
func (r *repository) TouchActivity(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
update users set last_activity_date = @at
where id = @id and last_activity_date < date_trunc('day', @at::timestamptz at time zone 'UTC') at time zone 'UTC'`,
		pgx.NamedArgs{"id": userID, "at": at})
	return mapErr("touch activity", err)
}

func (r *repository) ListApprovedUsers(ctx context.Context) ([]model.User, error) {
	query, args, err := qb.Select(userColumns).
		From(usersTableName).
		Where(sq.Eq{"status": model.AccountApproved}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	users, err := collectAll[model.User](ctx, r.db, query, args...)
	if err != nil {
		return nil, mapErr("list approved users", err)
	}
	return users, nil
}
