package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"paychain/internal/domain/paging"
	"paychain/internal/domain/receipt"
	"paychain/internal/domain/status"
	"paychain/internal/domain/upload"
)

// UploadResult is the upload acknowledgement.
type UploadResult struct {
	Message      string `json:"message"`
	FileID       string `json:"fileId"`
	TotalRecords int    `json:"totalRecords"`
}

// ValidateResult is the per-file validation acknowledgement.
type ValidateResult struct {
	Status     status.Status `json:"status"`
	NextAction string        `json:"nextAction,omitempty"`
	Message    string        `json:"message"`
	Passed     int           `json:"passed"`
	Failed     int           `json:"failed"`
}

// UploadFile posts a batch as multipart form data.
func (c *Client) UploadFile(ctx context.Context, filename string, content io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/worker-payments/file/upload", nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, _, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var out UploadResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	// some deployments answer {message, id} instead of fileId
	if out.FileID == "" {
		var alt struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &alt)
		out.FileID = alt.ID
	}
	return &out, nil
}

// ValidateFile starts server-side validation of the uploaded batch.
func (c *Client) ValidateFile(ctx context.Context, fileID string) (*ValidateResult, error) {
	var out ValidateResult
	path := fmt.Sprintf("/api/worker-payments/file/validate/%s", url.PathEscape(fileID))
	if err := c.postJSON(ctx, path, nil, nil, &out); err != nil {
		return nil, err
	}
	out.Status = status.Canonical(string(out.Status))
	return &out, nil
}

// FileSummary fetches one file with its server-reported totals.
func (c *Client) FileSummary(ctx context.Context, fileID string) (*upload.UploadedFile, error) {
	var out upload.UploadedFile
	path := fmt.Sprintf("/api/worker-payments/file/%s/summary", url.PathEscape(fileID))
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	out.Status = status.Canonical(string(out.Status))
	return &out, nil
}

// ListUploadedFiles returns the worker's batches. The endpoint may answer
// with either list shape.
func (c *Client) ListUploadedFiles(ctx context.Context, q paging.Query) (paging.Page[upload.UploadedFile], error) {
	body, err := c.getPage(ctx, "/api/uploaded-files", q.Values())
	if err != nil {
		return paging.Page[upload.UploadedFile]{}, err
	}
	page, err := decodePage[upload.UploadedFile](body)
	if err != nil {
		return page, err
	}
	canonFiles(page.Content)
	return page, nil
}

// FilesByDate lists the batches uploaded on one day.
func (c *Client) FilesByDate(ctx context.Context, date string) ([]upload.UploadedFile, error) {
	v := url.Values{}
	v.Set("singleDate", date)
	var out struct {
		Success bool                  `json:"success"`
		Files   []upload.UploadedFile `json:"files"`
	}
	if err := c.getJSON(ctx, "/api/uploaded-files/by-date", v, &out); err != nil {
		return nil, err
	}
	canonFiles(out.Files)
	return out.Files, nil
}

// ListFileRecords pages through a file's validation results.
func (c *Client) ListFileRecords(ctx context.Context, fileID string, q paging.Query) (paging.Page[upload.PaymentRecord], error) {
	path := fmt.Sprintf("/api/worker-payments/file/validate/%s/details", url.PathEscape(fileID))
	body, err := c.getPage(ctx, path, q.Values())
	if err != nil {
		return paging.Page[upload.PaymentRecord]{}, err
	}
	page, err := decodePage[upload.PaymentRecord](body)
	if err != nil {
		return page, err
	}
	canonRecords(page.Content)
	return page, nil
}

// PaymentsByReceipt lists the payment records attached to a worker receipt.
func (c *Client) PaymentsByReceipt(ctx context.Context, receiptNumber string, q paging.Query) (paging.Page[upload.PaymentRecord], error) {
	v := q.Values()
	v.Set("receiptNumber", receiptNumber)
	body, err := c.getPage(ctx, "/api/v1/worker-payments", v)
	if err != nil {
		return paging.Page[upload.PaymentRecord]{}, err
	}
	page, err := decodePage[upload.PaymentRecord](body)
	if err != nil {
		return page, err
	}
	canonRecords(page.Content)
	return page, nil
}

// generateResponse tolerates both receipt-number spellings.
type generateResponse struct {
	ReceiptNumber         string          `json:"receiptNumber"`
	EmployerReceiptNumber string          `json:"employerReceiptNumber"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	TotalRecords          int             `json:"totalRecords"`
	ValidatedAt           time.Time       `json:"validatedAt"`
}

// GenerateRequest turns a fully validated file into a worker receipt.
func (c *Client) GenerateRequest(ctx context.Context, fileID string) (*receipt.WorkerReceipt, error) {
	var out generateResponse
	path := fmt.Sprintf("/api/worker/uploaded-data/file/%s/generate-request", url.PathEscape(fileID))
	if err := c.postJSON(ctx, path, nil, nil, &out); err != nil {
		return nil, err
	}
	number := out.ReceiptNumber
	if number == "" {
		number = out.EmployerReceiptNumber
	}
	return &receipt.WorkerReceipt{
		ReceiptNumber: number,
		FileID:        fileID,
		TotalRecords:  out.TotalRecords,
		TotalAmount:   out.TotalAmount,
		Status:        status.Generated,
		GeneratedAt:   out.ValidatedAt,
	}, nil
}

// SendReceiptToEmployer posts the worker receipt across the chain and
// returns the employer receipt number that bridges the two.
func (c *Client) SendReceiptToEmployer(ctx context.Context, receiptNumber string) (string, error) {
	var out struct {
		EmployerReceiptNumber string `json:"employerReceiptNumber"`
	}
	path := fmt.Sprintf("/api/worker-payments/receipts/%s/send-to-employer", url.PathEscape(receiptNumber))
	if err := c.postJSON(ctx, path, nil, nil, &out); err != nil {
		return "", err
	}
	return out.EmployerReceiptNumber, nil
}

func canonFiles(files []upload.UploadedFile) {
	for i := range files {
		files[i].Status = status.Canonical(string(files[i].Status))
	}
}

func canonRecords(records []upload.PaymentRecord) {
	for i := range records {
		records[i].Status = status.Canonical(string(records[i].Status))
	}
}
