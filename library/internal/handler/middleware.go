package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/pkg/auth"
)

func currentUser(c echo.Context) (string, error) {
	userID, err := auth.GetUserID(c.Request().Context())
	if err != nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return userID, nil
}

// RequireAdmin checks the caller's role against the store on every request.
func (h *Handler) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := currentUser(c)
		if err != nil {
			return err
		}
		if err := h.userSvc.RequireAdmin(c.Request().Context(), userID); err != nil {
			return h.httpError(err)
		}
		return next(c)
	}
}

// TrackActivity stamps the caller's last activity. Failures are logged only.
func (h *Handler) TrackActivity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if userID, err := auth.GetUserID(c.Request().Context()); err == nil {
			if err := h.userSvc.TouchActivity(c.Request().Context(), userID); err != nil {
				h.log.Warn("touch activity", zap.String("user", userID), zap.Error(err))
			}
		}
		return next(c)
	}
}
