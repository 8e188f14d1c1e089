package upload

import (
	"time"

	"github.com/shopspring/decimal"

	"paychain/internal/domain/status"
)

// UploadedFile is the batch owned by the worker role. It is created by the
// upload action and mutated only by validate/generate; the status is always
// the server-reported value.
type UploadedFile struct {
	ID           string        `json:"id"`
	Filename     string        `json:"filename"`
	TotalRecords int           `json:"totalRecords"`
	SuccessCount int           `json:"successCount"`
	FailureCount int           `json:"failureCount"`
	Status       status.Status `json:"status"`
	// NextAction is a server-declared follow-up (e.g. an in-progress
	// validation). When present the start-validation action is hidden.
	NextAction string    `json:"nextAction,omitempty"`
	UploadedBy string    `json:"uploadedBy"`
	UploadDate time.Time `json:"uploadDate"`
}

// PaymentRecord is one row of an uploaded batch.
type PaymentRecord struct {
	RowNumber        int             `json:"rowNumber"`
	FileID           string          `json:"fileId"`
	WorkerRef        string          `json:"workerRef"`
	RegID            string          `json:"regId,omitempty"`
	Name             string          `json:"name,omitempty"`
	BankAccount      string          `json:"bankAccount"`
	PaymentAmount    decimal.Decimal `json:"paymentAmount"`
	Status           status.Status   `json:"status"`
	ValidationStatus string          `json:"validationStatus,omitempty"`
	RejectionReason  string          `json:"rejectionReason,omitempty"`
	ReceiptNumber    string          `json:"receiptNumber,omitempty"`
}
