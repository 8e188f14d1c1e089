package upstream

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"paychain/internal/domain/paging"
	"paychain/internal/domain/receipt"
	"paychain/internal/domain/report"
	"paychain/internal/domain/status"
)

// ListBoardReceipts pages the board receipts.
func (c *Client) ListBoardReceipts(ctx context.Context, q paging.Query) (paging.Page[receipt.BoardReceipt], error) {
	body, err := c.getPage(ctx, "/api/v1/board-receipts/all", q.Values())
	if err != nil {
		return paging.Page[receipt.BoardReceipt]{}, err
	}
	page, err := decodePage[receipt.BoardReceipt](body)
	if err != nil {
		return page, err
	}
	for i := range page.Content {
		page.Content[i].Status = status.Canonical(string(page.Content[i].Status))
	}
	return page, nil
}

// Reconcile matches a transaction reference and amount against the MT940
// bank statement. txnRef and amount travel as query parameters.
func (c *Client) Reconcile(ctx context.Context, txnRef string, amount decimal.Decimal) (*report.ReconciliationResult, error) {
	v := url.Values{}
	v.Set("txnRef", txnRef)
	v.Set("amount", amount.String())

	var out report.ReconciliationResult
	if err := c.postJSON(ctx, "/api/v1/reconciliations/mt940", v, nil, &out); err != nil {
		return nil, err
	}
	if out.TransactionReference == "" {
		out.TransactionReference = txnRef
	}
	out.RequestAmount = amount
	return &out, nil
}

// ProcessPayment triggers payment processing and returns the binary report
// artifact, not JSON.
func (c *Client) ProcessPayment(ctx context.Context, txnRef, processedBy string) (*report.Report, error) {
	v := url.Values{}
	v.Set("processedBy", processedBy)
	path := fmt.Sprintf("/api/payment-processing/process-and-report/%s", url.PathEscape(txnRef))

	req, err := c.newRequest(ctx, http.MethodPost, path, v, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")

	body, res, err := c.do(req)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(body)
	rep := &report.Report{
		TransactionReference: txnRef,
		FileName:             reportFileName(res, txnRef),
		ContentType:          res.Header.Get("Content-Type"),
		Body:                 body,
		SHA256:               hex.EncodeToString(sum[:]),
		Size:                 int64(len(body)),
		ProcessedBy:          processedBy,
		ProcessedAt:          time.Now().UTC(),
	}
	if rep.ContentType == "" {
		rep.ContentType = "application/octet-stream"
	}
	return rep, nil
}

func reportFileName(res *http.Response, txnRef string) string {
	if cd := res.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return fmt.Sprintf("payment-report-%s.pdf", txnRef)
}
