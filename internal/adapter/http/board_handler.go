package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"paychain/internal/usecase/board"
)

type BoardHandler struct{ uc *board.Usecase }

func NewBoardHandler(uc *board.Usecase) *BoardHandler { return &BoardHandler{uc: uc} }

func (h *BoardHandler) ListReceipts(c echo.Context) error {
	q, err := bindPaging(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	page, err := h.uc.ListReceipts(c.Request().Context(), q)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *BoardHandler) Reconcile(c echo.Context) error {
	txnRef := c.QueryParam("txnRef")
	if txnRef == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "txnRef is required"})
	}
	amount, err := decimal.NewFromString(c.QueryParam("amount"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be a decimal number"})
	}
	res, err := h.uc.Reconcile(c.Request().Context(), txnRef, amount)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ProcessPayment streams the report bytes back; X-Report-Cache says whether
// they came from the idempotent cache or a fresh backend call.
func (h *BoardHandler) ProcessPayment(c echo.Context) error {
	out, err := h.uc.ProcessPayment(c.Request().Context(), c.Param("txn_ref"), c.QueryParam("processedBy"))
	if err != nil {
		return respondErr(c, err)
	}
	cacheState := "miss"
	if out.Cached {
		cacheState = "hit"
	}
	c.Response().Header().Set("X-Report-Cache", cacheState)
	c.Response().Header().Set("Content-Disposition", `attachment; filename="`+out.Report.FileName+`"`)
	return c.Blob(http.StatusOK, out.Report.ContentType, out.Report.Body)
}

func (h *BoardHandler) ListReports(c echo.Context) error {
	keys, err := h.uc.ReportKeys(c.Request().Context())
	if err != nil {
		return respondErr(c, err)
	}
	if keys == nil {
		keys = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"transactionReferences": keys})
}

func (h *BoardHandler) GetReport(c echo.Context) error {
	rep, err := h.uc.Report(c.Request().Context(), c.Param("txn_ref"))
	if err != nil {
		return respondErr(c, err)
	}
	c.Response().Header().Set("X-Report-Cache", "hit")
	c.Response().Header().Set("Content-Disposition", `attachment; filename="`+rep.FileName+`"`)
	return c.Blob(http.StatusOK, rep.ContentType, rep.Body)
}
