package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Handlers bundles everything the router needs.
type Handlers struct {
	Health   *Handler
	Worker   *WorkerHandler
	Employer *EmployerHandler
	Board    *BoardHandler
	Journal  *JournalHandler
	Session  *SessionHandler
	Pages    *PagesHandler
}

// RegisterRoutes wires the gateway surface onto e.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", h.Health.Health)

	api := e.Group("/api")

	api.POST("/worker-payments/file/upload", h.Worker.UploadFile)
	api.POST("/worker-payments/file/validate/:file_id", h.Worker.StartValidation)
	api.GET("/worker-payments/file/:file_id/records", h.Worker.FileRecords)
	api.POST("/worker-payments/receipts/:receipt_number/send-to-employer", h.Worker.SendToEmployer)
	api.POST("/worker/uploaded-data/file/:file_id/generate-request", h.Worker.GenerateRequest)
	api.GET("/uploaded-files", h.Worker.ListFiles)
	api.GET("/uploaded-files/by-date", h.Worker.FilesByDate)
	api.GET("/v1/worker-payments", h.Worker.PaymentsByReceipt)

	api.GET("/employer/receipts", h.Employer.ListReceipts)
	api.GET("/employer/receipts/:receipt_number/payments", h.Employer.ReceiptPayments)
	api.POST("/employer/receipts/validate", h.Employer.ValidateReceipt)

	api.GET("/v1/board-receipts", h.Board.ListReceipts)
	api.POST("/v1/reconciliations/mt940", h.Board.Reconcile)
	api.POST("/payment-processing/process-and-report/:txn_ref", h.Board.ProcessPayment)
	api.GET("/reports", h.Board.ListReports)
	api.GET("/reports/:txn_ref", h.Board.GetReport)

	api.GET("/journal", h.Journal.List)

	if h.Session != nil {
		api.PUT("/session/token", h.Session.SetToken)
		api.DELETE("/session/:session_id/token", h.Session.ClearToken)
	}
	if h.Pages != nil {
		api.GET("/pages/:page_id/endpoints", h.Pages.Endpoints)
	}
}
