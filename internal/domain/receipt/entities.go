package receipt

import (
	"time"

	"github.com/shopspring/decimal"

	"paychain/internal/domain/status"
)

// WorkerReceipt ("payment request") is created by the generate action for a
// fully validated file. Immutable afterwards except for status.
type WorkerReceipt struct {
	ReceiptNumber string          `json:"receiptNumber"`
	FileID        string          `json:"fileId"`
	TotalRecords  int             `json:"totalRecords"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        status.Status   `json:"status"`
	GeneratedAt   time.Time       `json:"generatedAt"`
}

// EmployerReceipt is created by the employer-validate action. It bridges the
// worker chain to the board chain through its worker receipt number.
type EmployerReceipt struct {
	EmployerReceiptNumber string          `json:"employerReceiptNumber"`
	WorkerReceiptNumber   string          `json:"workerReceiptNumber"`
	TransactionReference  string          `json:"transactionReference"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	Status                status.Status   `json:"status"`
	ValidatedAt           time.Time       `json:"validatedAt,omitempty"`
	ValidatedBy           string          `json:"validatedBy,omitempty"`
}

// BoardReceipt pre-exists server-side; this client only reconciles and
// processes it.
type BoardReceipt struct {
	BoardRef             string          `json:"boardRef"`
	EmployerRef          string          `json:"employerRef"`
	TotalAmount          decimal.Decimal `json:"totalAmount"`
	TransactionReference string          `json:"transactionReference"`
	Status               status.Status   `json:"status"`
	Date                 time.Time       `json:"date"`
}
