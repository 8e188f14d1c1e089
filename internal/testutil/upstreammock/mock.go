package upstreammock

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"paychain/internal/adapter/upstream"
	"paychain/internal/domain/paging"
	"paychain/internal/domain/receipt"
	"paychain/internal/domain/report"
	"paychain/internal/domain/upload"
)

// Mock is a function-backed stand-in for the upstream client. Only the
// fields a test assigns are callable; the rest panic, which is what we
// want from an unexpected call.
type Mock struct {
	UploadFileFn            func(ctx context.Context, filename string, content io.Reader) (*upstream.UploadResult, error)
	ValidateFileFn          func(ctx context.Context, fileID string) (*upstream.ValidateResult, error)
	FileSummaryFn           func(ctx context.Context, fileID string) (*upload.UploadedFile, error)
	ListUploadedFilesFn     func(ctx context.Context, q paging.Query) (paging.Page[upload.UploadedFile], error)
	FilesByDateFn           func(ctx context.Context, date string) ([]upload.UploadedFile, error)
	ListFileRecordsFn       func(ctx context.Context, fileID string, q paging.Query) (paging.Page[upload.PaymentRecord], error)
	PaymentsByReceiptFn     func(ctx context.Context, receiptNumber string, q paging.Query) (paging.Page[upload.PaymentRecord], error)
	GenerateRequestFn       func(ctx context.Context, fileID string) (*receipt.WorkerReceipt, error)
	SendReceiptToEmployerFn func(ctx context.Context, receiptNumber string) (string, error)

	ListEmployerReceiptsFn     func(ctx context.Context, q paging.Query) (paging.Page[receipt.EmployerReceipt], error)
	EmployerReceiptsByEmpRefFn func(ctx context.Context, empRef string, q paging.Query) (paging.Page[receipt.EmployerReceipt], error)
	ValidateWorkerReceiptFn    func(ctx context.Context, workerReceiptNumber, transactionReference, validatedBy string) (string, error)

	ListBoardReceiptsFn func(ctx context.Context, q paging.Query) (paging.Page[receipt.BoardReceipt], error)
	ReconcileFn         func(ctx context.Context, txnRef string, amount decimal.Decimal) (*report.ReconciliationResult, error)
	ProcessPaymentFn    func(ctx context.Context, txnRef, processedBy string) (*report.Report, error)
}

func (m *Mock) UploadFile(ctx context.Context, filename string, content io.Reader) (*upstream.UploadResult, error) {
	return m.UploadFileFn(ctx, filename, content)
}

func (m *Mock) ValidateFile(ctx context.Context, fileID string) (*upstream.ValidateResult, error) {
	return m.ValidateFileFn(ctx, fileID)
}

func (m *Mock) FileSummary(ctx context.Context, fileID string) (*upload.UploadedFile, error) {
	return m.FileSummaryFn(ctx, fileID)
}

func (m *Mock) ListUploadedFiles(ctx context.Context, q paging.Query) (paging.Page[upload.UploadedFile], error) {
	return m.ListUploadedFilesFn(ctx, q)
}

func (m *Mock) FilesByDate(ctx context.Context, date string) ([]upload.UploadedFile, error) {
	return m.FilesByDateFn(ctx, date)
}

func (m *Mock) ListFileRecords(ctx context.Context, fileID string, q paging.Query) (paging.Page[upload.PaymentRecord], error) {
	return m.ListFileRecordsFn(ctx, fileID, q)
}

func (m *Mock) PaymentsByReceipt(ctx context.Context, receiptNumber string, q paging.Query) (paging.Page[upload.PaymentRecord], error) {
	return m.PaymentsByReceiptFn(ctx, receiptNumber, q)
}

func (m *Mock) GenerateRequest(ctx context.Context, fileID string) (*receipt.WorkerReceipt, error) {
	return m.GenerateRequestFn(ctx, fileID)
}

func (m *Mock) SendReceiptToEmployer(ctx context.Context, receiptNumber string) (string, error) {
	return m.SendReceiptToEmployerFn(ctx, receiptNumber)
}

func (m *Mock) ListEmployerReceipts(ctx context.Context, q paging.Query) (paging.Page[receipt.EmployerReceipt], error) {
	return m.ListEmployerReceiptsFn(ctx, q)
}

func (m *Mock) EmployerReceiptsByEmpRef(ctx context.Context, empRef string, q paging.Query) (paging.Page[receipt.EmployerReceipt], error) {
	return m.EmployerReceiptsByEmpRefFn(ctx, empRef, q)
}

func (m *Mock) ValidateWorkerReceipt(ctx context.Context, workerReceiptNumber, transactionReference, validatedBy string) (string, error) {
	return m.ValidateWorkerReceiptFn(ctx, workerReceiptNumber, transactionReference, validatedBy)
}

func (m *Mock) ListBoardReceipts(ctx context.Context, q paging.Query) (paging.Page[receipt.BoardReceipt], error) {
	return m.ListBoardReceiptsFn(ctx, q)
}

func (m *Mock) Reconcile(ctx context.Context, txnRef string, amount decimal.Decimal) (*report.ReconciliationResult, error) {
	return m.ReconcileFn(ctx, txnRef, amount)
}

func (m *Mock) ProcessPayment(ctx context.Context, txnRef, processedBy string) (*report.Report, error) {
	return m.ProcessPaymentFn(ctx, txnRef, processedBy)
}
