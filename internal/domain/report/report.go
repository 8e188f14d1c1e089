package report

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Reconciliation status and match flags as the bank-matching service reports
// them.
const (
	StatusReconciled   = "RECONCILED"
	StatusUnreconciled = "UN_RECONCILED"
	StatusFailed       = "FAILED"

	Matched    = "MATCHED"
	NotMatched = "NOT_MATCHED"
)

// ReconciliationResult is the outcome of matching a board receipt's
// transaction reference and amount against the bank statement.
type ReconciliationResult struct {
	Status               string          `json:"status"`
	AmountMatch          string          `json:"amountMatch"`
	ReferenceMatch       string          `json:"referenceMatch"`
	TransactionReference string          `json:"transactionReference"`
	RequestAmount        decimal.Decimal `json:"requestAmount"`

	MT940TransactionReference string          `json:"mt940TransactionReference,omitempty"`
	MT940Amount               decimal.Decimal `json:"mt940Amount,omitempty"`
	MT940ValueDate            string          `json:"mt940ValueDate,omitempty"`

	// Message carries the server-provided text for terminal failures.
	Message string `json:"message,omitempty"`
}

func (r *ReconciliationResult) Reconciled() bool {
	return r != nil && r.Status == StatusReconciled
}

// FailedResult renders a transport error or non-2xx response as a terminal
// reconciliation failure; it is never retried automatically.
func FailedResult(txnRef string, amount decimal.Decimal, msg string) *ReconciliationResult {
	return &ReconciliationResult{
		Status:               StatusFailed,
		AmountMatch:          NotMatched,
		ReferenceMatch:       NotMatched,
		TransactionReference: txnRef,
		RequestAmount:        amount,
		Message:              msg,
	}
}

// Report is the binary payment-processing artifact, held as an in-memory
// handle and persisted keyed by transaction reference.
type Report struct {
	TransactionReference string    `json:"transactionReference"`
	FileName             string    `json:"fileName"`
	ContentType          string    `json:"contentType"`
	Body                 []byte    `json:"body"`
	SHA256               string    `json:"sha256"`
	Size                 int64     `json:"size"`
	ProcessedBy          string    `json:"processedBy"`
	ProcessedAt          time.Time `json:"processedAt"`
}

var ErrNotFound = errors.New("report not found")

// Store persists report handles keyed by transaction reference. Put merges:
// the first write for a reference wins and later writes return the stored
// report with existed=true, so concurrent processors cannot lose updates and
// a reference is never processed twice. Entries are never evicted; expiry of
// report handles is an open design gap.
type Store interface {
	Get(ctx context.Context, txnRef string) (*Report, error)
	Put(ctx context.Context, r *Report) (stored *Report, existed bool, err error)
	Keys(ctx context.Context) ([]string, error)
}
