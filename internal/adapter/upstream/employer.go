package upstream

import (
	"context"
	"net/url"

	"paychain/internal/domain/paging"
	"paychain/internal/domain/receipt"
	"paychain/internal/domain/status"
)

// ListEmployerReceipts pages the worker receipts available to the employer.
func (c *Client) ListEmployerReceipts(ctx context.Context, q paging.Query) (paging.Page[receipt.EmployerReceipt], error) {
	body, err := c.getPage(ctx, "/api/employer/receipts/all", q.Values())
	if err != nil {
		return paging.Page[receipt.EmployerReceipt]{}, err
	}
	page, err := decodePage[receipt.EmployerReceipt](body)
	if err != nil {
		return page, err
	}
	canonEmployerReceipts(page.Content)
	return page, nil
}

// EmployerReceiptsByEmpRef narrows the employer receipt list to one employer
// reference (used by the board drill-down).
func (c *Client) EmployerReceiptsByEmpRef(ctx context.Context, empRef string, q paging.Query) (paging.Page[receipt.EmployerReceipt], error) {
	v := q.Values()
	v.Set("empRef", empRef)
	body, err := c.getPage(ctx, "/api/employer/receipts/all", v)
	if err != nil {
		return paging.Page[receipt.EmployerReceipt]{}, err
	}
	page, err := decodePage[receipt.EmployerReceipt](body)
	if err != nil {
		return page, err
	}
	canonEmployerReceipts(page.Content)
	return page, nil
}

type validateReceiptRequest struct {
	WorkerReceiptNumber  string `json:"workerReceiptNumber"`
	TransactionReference string `json:"transactionReference"`
	ValidatedBy          string `json:"validatedBy"`
}

// ValidateWorkerReceipt performs the employer validation and returns the
// employer receipt number. The number is not retrievable again from the
// triggering screen, so callers must surface it to the user.
func (c *Client) ValidateWorkerReceipt(ctx context.Context, workerReceiptNumber, transactionReference, validatedBy string) (string, error) {
	in := validateReceiptRequest{
		WorkerReceiptNumber:  workerReceiptNumber,
		TransactionReference: transactionReference,
		ValidatedBy:          validatedBy,
	}
	var out struct {
		EmployerReceiptNumber string        `json:"employerReceiptNumber"`
		Status                status.Status `json:"status"`
	}
	if err := c.postJSON(ctx, "/api/employer/receipts/validate", url.Values{}, in, &out); err != nil {
		return "", err
	}
	return out.EmployerReceiptNumber, nil
}

func canonEmployerReceipts(receipts []receipt.EmployerReceipt) {
	for i := range receipts {
		receipts[i].Status = status.Canonical(string(receipts[i].Status))
	}
}
