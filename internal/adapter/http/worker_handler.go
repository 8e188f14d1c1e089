package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"paychain/internal/usecase/worker"
)

type WorkerHandler struct{ uc *worker.Usecase }

func NewWorkerHandler(uc *worker.Usecase) *WorkerHandler { return &WorkerHandler{uc: uc} }

// UploadFile accepts the batch as multipart form data under the "file" key.
func (h *WorkerHandler) UploadFile(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return respondErr(c, err)
	}
	defer src.Close()

	out, err := h.uc.Upload(c.Request().Context(), worker.UploadInput{
		Filename:   fh.Filename,
		Size:       fh.Size,
		Content:    src,
		UploadedBy: c.FormValue("uploadedBy"),
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *WorkerHandler) ListFiles(c echo.Context) error {
	q, err := bindPaging(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	page, err := h.uc.ListFiles(c.Request().Context(), q)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *WorkerHandler) FilesByDate(c echo.Context) error {
	date := c.QueryParam("singleDate")
	if date == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "singleDate is required"})
	}
	files, err := h.uc.FilesByDate(c.Request().Context(), date)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, files)
}

func (h *WorkerHandler) FileRecords(c echo.Context) error {
	q, err := bindPaging(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	out, err := h.uc.FileRecords(c.Request().Context(), c.Param("file_id"), q)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WorkerHandler) StartValidation(c echo.Context) error {
	out, err := h.uc.StartValidation(c.Request().Context(), c.Param("file_id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WorkerHandler) GenerateRequest(c echo.Context) error {
	wr, err := h.uc.GenerateRequest(c.Request().Context(), c.Param("file_id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, wr)
}

func (h *WorkerHandler) SendToEmployer(c echo.Context) error {
	employerReceiptNumber, err := h.uc.SendToEmployer(c.Request().Context(), c.Param("receipt_number"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"receiptNumber":         c.Param("receipt_number"),
		"employerReceiptNumber": employerReceiptNumber,
	})
}

func (h *WorkerHandler) PaymentsByReceipt(c echo.Context) error {
	receiptNumber := c.QueryParam("receiptNumber")
	if receiptNumber == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "receiptNumber is required"})
	}
	q, err := bindPaging(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	page, err := h.uc.PaymentsByReceipt(c.Request().Context(), receiptNumber, q)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, page)
}
