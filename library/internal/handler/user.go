package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bookwise/library-service/library/internal/model"
)

type registerResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"accessToken,omitempty"`
}

// Register godoc
// @Summary Register a library account
// @Tags users
// @Param body body model.UserCreateRequest true "account"
// @Success 201 {object} registerResponse
// @Failure 400,409 {object} echo.HTTPError
// @Router /api/v1/users [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.UserCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userSvc.RegisterUser(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	resp := registerResponse{User: user}
	if h.issueToken != nil {
		if resp.AccessToken, err = h.issueToken(user); err != nil {
			h.log.Error("issue token", zap.String("user", user.ID), zap.Error(err))
		}
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListUsers(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	users, err := h.userSvc.ListUsers(c.Request().Context(), q)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c echo.Context) error {
	detail, err := h.userSvc.GetUserDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) SetAccountStatus(c echo.Context) error {
	var req model.AccountStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userSvc.SetAccountStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangeUserRole godoc
// @Summary Change another user's role
// @Tags admin
// @Security BearerAuth
// @Param id path string true "user id"
// @Param body body model.RoleRequest true "new role"
// @Success 200 {object} model.User
// @Failure 403,404,422 {object} echo.HTTPError
// @Router /api/v1/admin/users/{id}/role [patch]
func (h *Handler) ChangeUserRole(c echo.Context) error {
	actingID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req model.RoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userSvc.ChangeUserRole(c.Request().Context(), actingID, c.Param("id"), req.Role)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}
