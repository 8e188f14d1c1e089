package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"paychain/internal/domain/paging"
	"paychain/internal/domain/status"
	"paychain/internal/domain/upload"
)

type staticTokens string

func (s staticTokens) Token(context.Context) (string, error) { return string(s), nil }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client(), staticTokens("tok-1")), srv
}

func TestListUploadedFiles_EnvelopeShape(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/uploaded-files" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Fatalf("page param = %s", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("auth header = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"id": "F1", "filename": "a.csv", "status": "uploaded"},
			},
			"totalPages": 4, "totalElements": 70, "number": 1,
			"hasNext": true, "hasPrevious": true,
		})
	})

	page, err := c.ListUploadedFiles(context.Background(), paging.Query{Page: 1, Size: 20})
	if err != nil {
		t.Fatalf("ListUploadedFiles: %v", err)
	}
	if page.TotalElements != 70 || !page.HasNext || !page.HasPrevious {
		t.Fatalf("envelope not normalized: %+v", page)
	}
	if page.Content[0].Status != status.Uploaded {
		t.Fatalf("status not canonicalized: %q", page.Content[0].Status)
	}
}

func TestListUploadedFiles_BareArrayShape(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "F1", "filename": "a.csv", "status": "VALIDATED"},
			{"id": "F2", "filename": "b.csv", "status": "UPLOADED"},
		})
	})

	page, err := c.ListUploadedFiles(context.Background(), paging.Query{})
	if err != nil {
		t.Fatalf("ListUploadedFiles: %v", err)
	}
	if len(page.Content) != 2 || page.TotalPages != 1 || page.TotalElements != 2 {
		t.Fatalf("bare array must become one full page: %+v", page)
	}
}

func TestListFileRecords_RecordsKey(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"records": []map[string]any{
				{"rowNumber": 1, "workerRef": "W1", "status": "validated"},
			},
			"totalElements": 1, "totalPages": 1, "currentPage": 0,
		})
	})

	page, err := c.ListFileRecords(context.Background(), "F1", paging.Query{})
	if err != nil {
		t.Fatalf("ListFileRecords: %v", err)
	}
	if len(page.Content) != 1 || page.Content[0].Status != status.Validated {
		t.Fatalf("records envelope not normalized: %+v", page)
	}
}

func TestDo_SurfacesServerMessageVerbatim(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "receipt already validated"})
	})

	_, err := c.ValidateFile(context.Background(), "F1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Message != "receipt already validated" {
		t.Fatalf("server message not verbatim: %+v", apiErr)
	}
}

func TestDo_GenericMessageWhenBodyOpaque(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>boom</html>"))
	})

	_, err := c.ValidateFile(context.Background(), "F1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if !strings.Contains(apiErr.Message, "operation failed") {
		t.Fatalf("want generic fallback, got %q", apiErr.Message)
	}
}

func TestUploadFile_Multipart(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("multipart: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "batch.csv" {
			t.Fatalf("filename = %s", hdr.Filename)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Fatal("mutating call must carry X-Request-Id")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "File uploaded successfully", "fileId": "F9", "totalRecords": 3})
	})

	res, err := c.UploadFile(context.Background(), "batch.csv", strings.NewReader("r1\nr2\nr3\n"))
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if res.FileID != "F9" || res.TotalRecords != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestReconcile_QueryParams(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("txnRef") != "TXN1" || q.Get("amount") != "1000" {
			t.Fatalf("query = %v", q)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "RECONCILED", "amountMatch": "MATCHED", "referenceMatch": "MATCHED",
			"mt940TransactionReference": "TXN1", "mt940Amount": "1000", "mt940ValueDate": "2026-08-28",
		})
	})

	res, err := c.Reconcile(context.Background(), "TXN1", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !res.Reconciled() || res.AmountMatch != "MATCHED" || res.ReferenceMatch != "MATCHED" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.TransactionReference != "TXN1" {
		t.Fatalf("txnRef = %s", res.TransactionReference)
	}
}

func TestProcessPayment_BinaryBody(t *testing.T) {
	payload := []byte("%PDF-1.7 report bytes")
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("processedBy"); got != "board-op" {
			t.Fatalf("processedBy = %s", got)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="txn1-report.pdf"`)
		_, _ = w.Write(payload)
	})

	rep, err := c.ProcessPayment(context.Background(), "TXN1", "board-op")
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}
	if string(rep.Body) != string(payload) || rep.Size != int64(len(payload)) {
		t.Fatalf("body not captured: %+v", rep)
	}
	if rep.FileName != "txn1-report.pdf" || rep.ContentType != "application/pdf" {
		t.Fatalf("metadata: %+v", rep)
	}
	if rep.SHA256 == "" {
		t.Fatal("digest missing")
	}
}

func TestValidateWorkerReceipt_Body(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["workerReceiptNumber"] != "WR-1" || in["transactionReference"] != "TXN1" || in["validatedBy"] != "emp-7" {
			t.Fatalf("body = %v", in)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"employerReceiptNumber": "ER-55"})
	})

	num, err := c.ValidateWorkerReceipt(context.Background(), "WR-1", "TXN1", "emp-7")
	if err != nil {
		t.Fatalf("ValidateWorkerReceipt: %v", err)
	}
	if num != "ER-55" {
		t.Fatalf("employer receipt number = %s", num)
	}
}

func TestFilesByDate(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("singleDate"); got != "2026-08-28" {
			t.Fatalf("singleDate = %s", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"files":   []upload.UploadedFile{{ID: "F1", Filename: "a.csv", Status: "uploaded"}},
		})
	})

	files, err := c.FilesByDate(context.Background(), "2026-08-28")
	if err != nil {
		t.Fatalf("FilesByDate: %v", err)
	}
	if len(files) != 1 || files[0].Status != status.Uploaded {
		t.Fatalf("files = %+v", files)
	}
}
