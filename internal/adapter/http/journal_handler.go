package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"paychain/internal/domain/journal"
)

type JournalHandler struct{ repo journal.Repository }

func NewJournalHandler(repo journal.Repository) *JournalHandler { return &JournalHandler{repo: repo} }

func (h *JournalHandler) List(c echo.Context) error {
	q, err := bindPaging(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	page, err := h.repo.List(c.Request().Context(), q)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, page)
}
