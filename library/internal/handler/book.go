package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookwise/library-service/library/internal/model"
)

// ListBooks godoc
// @Summary List books
// @Tags books
// @Security BearerAuth
// @Param query query string false "text filter on title, author, genre"
// @Param sort query string false "newest, oldest, highestRated, available"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} model.ListBooks
// @Router /api/v1/books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	books, err := h.librarySvc.ListBooks(c.Request().Context(), q)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.librarySvc.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) CreateBook(c echo.Context) error {
	var params model.BookParams
	if err := bindAndValidate(c, &params); err != nil {
		return err
	}
	book, err := h.librarySvc.CreateBook(c.Request().Context(), params)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	var params model.BookParams
	if err := bindAndValidate(c, &params); err != nil {
		return err
	}
	book, err := h.librarySvc.UpdateBook(c.Request().Context(), c.Param("id"), params)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// DeleteBook godoc
// @Summary Delete a book with no copies in circulation
// @Tags admin
// @Security BearerAuth
// @Param id path string true "book id"
// @Success 204
// @Failure 404,409 {object} echo.HTTPError
// @Router /api/v1/admin/books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	if err := h.librarySvc.DeleteBook(c.Request().Context(), c.Param("id")); err != nil {
		return h.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.librarySvc.Stats(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
