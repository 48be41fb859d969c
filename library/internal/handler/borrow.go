package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookwise/library-service/library/internal/model"
)

// Borrow godoc
// @Summary Borrow a book
// @Tags borrows
// @Security BearerAuth
// @Param id path string true "book id"
// @Success 201 {object} model.BorrowRecord
// @Failure 404,409 {object} echo.HTTPError
// @Router /api/v1/books/{id}/borrow [post]
func (h *Handler) Borrow(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	rec, err := h.librarySvc.Borrow(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// ReturnBook godoc
// @Summary Return a borrowed book
// @Tags borrows
// @Security BearerAuth
// @Param id path string true "borrow record id"
// @Success 200 {object} model.ReturnResult
// @Failure 403,404,409 {object} echo.HTTPError
// @Router /api/v1/borrows/{id}/return [post]
func (h *Handler) ReturnBook(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	res, err := h.librarySvc.ReturnBook(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) MyBorrows(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.librarySvc.MyBorrows(c.Request().Context(), userID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListBorrowRecords(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	list, err := h.librarySvc.ListBorrowRecords(c.Request().Context(), q)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// UpdateBorrowStatus godoc
// @Summary Override a borrow record status
// @Tags admin
// @Security BearerAuth
// @Param id path string true "borrow record id"
// @Param body body model.UpdateStatusRequest true "target status"
// @Success 200 {object} model.BorrowView
// @Failure 400,404,409 {object} echo.HTTPError
// @Router /api/v1/admin/borrow-records/{id}/status [patch]
func (h *Handler) UpdateBorrowStatus(c echo.Context) error {
	var req model.UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.librarySvc.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}
