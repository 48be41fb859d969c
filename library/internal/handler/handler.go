package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/library/internal/errs"
	"github.com/bookwise/library-service/library/internal/model"
	"github.com/bookwise/library-service/pkg/auth0"
	md "github.com/bookwise/library-service/pkg/middleware"
	"github.com/bookwise/library-service/pkg/validate"
	_ "github.com/bookwise/library-service/swagger"
)

// TokenIssuer mints an access token for a freshly registered user.
type TokenIssuer func(user model.User) (string, error)

type Handler struct {
	librarySvc LibraryService
	userSvc    UserService
	validator  auth0.Validator
	issueToken TokenIssuer
	log        *zap.Logger
}

type Option func(*Handler)

func WithTokenIssuer(issuer TokenIssuer) Option {
	return func(h *Handler) {
		h.issueToken = issuer
	}
}

func New(librarySvc LibraryService, userSvc UserService, validator auth0.Validator, log *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		librarySvc: librarySvc,
		userSvc:    userSvc,
		validator:  validator,
		log:        log.Named("handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	api.POST("/users", h.Register)

	authed := api.Group("", md.Authenticate(h.validator), h.TrackActivity)
	authed.GET("/books", h.ListBooks)
	authed.GET("/books/:id", h.GetBook)
	authed.POST("/books/:id/borrow", h.Borrow)
	authed.GET("/borrows", h.MyBorrows)
	authed.POST("/borrows/:id/return", h.ReturnBook)

	admin := authed.Group("/admin", h.RequireAdmin)
	admin.POST("/books", h.CreateBook)
	admin.PUT("/books/:id", h.UpdateBook)
	admin.DELETE("/books/:id", h.DeleteBook)
	admin.GET("/borrow-records", h.ListBorrowRecords)
	admin.PATCH("/borrow-records/:id/status", h.UpdateBorrowStatus)
	admin.GET("/users", h.ListUsers)
	admin.GET("/users/:id", h.GetUser)
	admin.PATCH("/users/:id/status", h.SetAccountStatus)
	admin.PATCH("/users/:id/role", h.ChangeUserRole)
	admin.GET("/stats", h.Stats)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the error taxonomy onto HTTP statuses.
func (h *Handler) httpError(err error) error {
	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			return echo.NewHTTPError(m.code, m.err.Error())
		}
	}
	if errors.Is(err, errs.ErrTransientStore) {
		h.log.Error("store failure", zap.Error(err))
		return echo.NewHTTPError(http.StatusServiceUnavailable, errs.ErrTransientStore.Error())
	}
	h.log.Error("internal", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

var errorStatuses = []struct {
	err  error
	code int
}{
	{errs.ErrNotFound, http.StatusNotFound},
	{errs.ErrAlreadyBorrowed, http.StatusConflict},
	{errs.ErrAlreadyReturned, http.StatusConflict},
	{errs.ErrUnavailable, http.StatusConflict},
	{errs.ErrHasActiveBorrows, http.StatusConflict},
	{errs.ErrUserExists, http.StatusConflict},
	{errs.ErrUnauthorized, http.StatusForbidden},
	{errs.ErrNotApproved, http.StatusForbidden},
	{errs.ErrSelfRoleChange, http.StatusUnprocessableEntity},
	{errs.ErrInvalidCopies, http.StatusUnprocessableEntity},
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func listQuery(c echo.Context) (model.ListQuery, error) {
	var (
		q      model.ListQuery
		status string
	)
	err := echo.QueryParamsBinder(c).
		String("query", &q.Query).
		String("sort", &q.Sort).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		String("status", &status).
		BindError()
	if err != nil {
		return model.ListQuery{}, echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if q.Page < 0 || q.Page > model.MaxPage || q.Limit < 0 || q.Limit > model.MaxLimit {
		return model.ListQuery{}, echo.NewHTTPError(http.StatusBadRequest, "page or limit out of range")
	}
	switch q.Status = model.AccountStatus(status); q.Status {
	case "", model.AccountPending, model.AccountApproved, model.AccountRejected:
	default:
		return model.ListQuery{}, echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	return q, nil
}
