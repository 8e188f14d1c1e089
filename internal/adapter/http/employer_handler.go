package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"paychain/internal/domain/status"
	"paychain/internal/usecase/employer"
)

type EmployerHandler struct{ uc *employer.Usecase }

func NewEmployerHandler(uc *employer.Usecase) *EmployerHandler { return &EmployerHandler{uc: uc} }

func (h *EmployerHandler) ListReceipts(c echo.Context) error {
	q, err := bindPaging(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	if empRef := c.QueryParam("empRef"); empRef != "" {
		page, err := h.uc.ReceiptsByEmployer(c.Request().Context(), empRef, q)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(http.StatusOK, page)
	}
	page, err := h.uc.ListReceipts(c.Request().Context(), q)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *EmployerHandler) ReceiptPayments(c echo.Context) error {
	q, err := bindPaging(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	page, err := h.uc.ReceiptPayments(c.Request().Context(), c.Param("receipt_number"), q)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

type validateReceiptReq struct {
	WorkerReceiptNumber  string `json:"workerReceiptNumber" validate:"required"`
	TransactionReference string `json:"transactionReference" validate:"required,txnref"`
	ValidatedBy          string `json:"validatedBy" validate:"required"`
	ReceiptStatus        string `json:"receiptStatus"`
}

func (h *EmployerHandler) ValidateReceipt(c echo.Context) error {
	var req validateReceiptReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "validation failed", Details: ToFieldErrors(err),
		})
	}

	employerReceiptNumber, err := h.uc.ValidateReceipt(c.Request().Context(), employer.ValidateInput{
		WorkerReceiptNumber:  req.WorkerReceiptNumber,
		TransactionReference: req.TransactionReference,
		ValidatedBy:          req.ValidatedBy,
		ReceiptStatus:        status.Canonical(req.ReceiptStatus),
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{
		"employerReceiptNumber": employerReceiptNumber,
		"status":                string(status.Validated),
	})
}
