package worker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"paychain/internal/adapter/upstream"
	"paychain/internal/domain/journal"
	"paychain/internal/domain/paging"
	"paychain/internal/domain/receipt"
	"paychain/internal/domain/status"
	"paychain/internal/domain/upload"
	"paychain/internal/testutil/journalmock"
	"paychain/internal/testutil/upstreammock"
	"paychain/pkg/flight"
)

func TestUploadRejectsBadExtensionBeforeNetwork(t *testing.T) {
	called := false
	api := &upstreammock.Mock{
		UploadFileFn: func(ctx context.Context, filename string, content io.Reader) (*upstream.UploadResult, error) {
			called = true
			return &upstream.UploadResult{FileID: "F-1"}, nil
		},
	}
	jr := &journalmock.Mock{}
	uc := NewUsecase(api, jr)

	_, err := uc.Upload(context.Background(), UploadInput{
		Filename: "batch.pdf",
		Size:     100,
		Content:  bytes.NewReader([]byte("x")),
	})
	if !errors.Is(err, upload.ErrBadExtension) {
		t.Fatalf("expected ErrBadExtension, got %v", err)
	}
	if called {
		t.Fatal("upstream must not be called for a locally invalid file")
	}
	if last := jr.Last(); last == nil || last.Outcome != journal.OutcomeRejected {
		t.Fatalf("expected a REJECTED journal entry, got %+v", last)
	}
}

func TestUploadRejectsDuplicateContent(t *testing.T) {
	var uploads int
	api := &upstreammock.Mock{
		UploadFileFn: func(ctx context.Context, filename string, content io.Reader) (*upstream.UploadResult, error) {
			uploads++
			return &upstream.UploadResult{FileID: "F-1", TotalRecords: 3, Message: "ok"}, nil
		},
	}
	uc := NewUsecase(api, &journalmock.Mock{})

	body := []byte("worker,amount\nW1,100.00\n")
	out, err := uc.Upload(context.Background(), UploadInput{
		Filename: "june.csv", Size: int64(len(body)), Content: bytes.NewReader(body),
	})
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if out.FileID != "F-1" || out.TotalRecords != 3 {
		t.Fatalf("unexpected output %+v", out)
	}

	// same bytes, different name
	_, err = uc.Upload(context.Background(), UploadInput{
		Filename: "june-copy.csv", Size: int64(len(body)), Content: bytes.NewReader(body),
	})
	if !errors.Is(err, ErrDuplicateUpload) {
		t.Fatalf("expected ErrDuplicateUpload, got %v", err)
	}
	if !strings.Contains(err.Error(), "june.csv") {
		t.Fatalf("error should name the first filename, got %q", err)
	}
	if uploads != 1 {
		t.Fatalf("duplicate must not reach upstream, saw %d uploads", uploads)
	}
}

func TestUploadRetryAfterTransportFailure(t *testing.T) {
	var uploads int
	api := &upstreammock.Mock{
		UploadFileFn: func(ctx context.Context, filename string, content io.Reader) (*upstream.UploadResult, error) {
			uploads++
			if uploads == 1 {
				return nil, errors.New("network down")
			}
			return &upstream.UploadResult{FileID: "F-1", Message: "ok"}, nil
		},
	}
	jr := &journalmock.Mock{}
	uc := NewUsecase(api, jr)

	body := []byte("worker,amount\nW1,100.00\n")
	_, err := uc.Upload(context.Background(), UploadInput{
		Filename: "june.csv", Size: int64(len(body)), Content: bytes.NewReader(body),
	})
	if err == nil || errors.Is(err, ErrDuplicateUpload) {
		t.Fatalf("first attempt should surface the transport error, got %v", err)
	}
	if last := jr.Last(); last == nil || last.Outcome != journal.OutcomeFailed {
		t.Fatalf("expected a FAILED journal entry, got %+v", last)
	}

	// a failed attempt leaves no trace; the same bytes go through on retry
	out, err := uc.Upload(context.Background(), UploadInput{
		Filename: "june.csv", Size: int64(len(body)), Content: bytes.NewReader(body),
	})
	if err != nil {
		t.Fatalf("manual retry after transport failure must succeed, got: %v", err)
	}
	if out.FileID != "F-1" || uploads != 2 {
		t.Fatalf("retry did not reach upstream: %+v after %d uploads", out, uploads)
	}
}

func TestStartValidationRefreshesRecords(t *testing.T) {
	api := &upstreammock.Mock{
		ValidateFileFn: func(ctx context.Context, fileID string) (*upstream.ValidateResult, error) {
			return &upstream.ValidateResult{Status: status.Validated, Passed: 2, Failed: 0, Message: "done"}, nil
		},
		ListFileRecordsFn: func(ctx context.Context, fileID string, q paging.Query) (paging.Page[upload.PaymentRecord], error) {
			if q.Page != 0 {
				t.Fatalf("refresh must fetch page 0, got %d", q.Page)
			}
			return paging.FromSlice([]upload.PaymentRecord{
				{RowNumber: 1, Status: status.Validated},
				{RowNumber: 2, Status: status.Validated},
			}), nil
		},
	}
	jr := &journalmock.Mock{}
	uc := NewUsecase(api, jr)

	out, err := uc.StartValidation(context.Background(), "F-1")
	if err != nil {
		t.Fatalf("StartValidation: %v", err)
	}
	if out.Summary.Passed != 2 || out.Summary.Total != 2 {
		t.Fatalf("unexpected summary %+v", out.Summary)
	}
	last := jr.Last()
	if last == nil || last.ToStatus != string(status.Validated) || last.Outcome != journal.OutcomeSuccess {
		t.Fatalf("unexpected journal entry %+v", last)
	}
	// the prior status was never fetched, so the entry must not invent one
	if last.FromStatus != "" {
		t.Fatalf("FromStatus must stay empty when unobserved, got %q", last.FromStatus)
	}
}

func TestGenerateRequestRequiresFullyValidatedFile(t *testing.T) {
	var generated bool
	api := &upstreammock.Mock{
		FileSummaryFn: func(ctx context.Context, fileID string) (*upload.UploadedFile, error) {
			return &upload.UploadedFile{
				ID: fileID, Status: status.Validated,
				TotalRecords: 3, SuccessCount: 2, FailureCount: 1,
			}, nil
		},
		GenerateRequestFn: func(ctx context.Context, fileID string) (*receipt.WorkerReceipt, error) {
			generated = true
			return &receipt.WorkerReceipt{ReceiptNumber: "WR-1"}, nil
		},
	}
	uc := NewUsecase(api, &journalmock.Mock{})

	_, err := uc.GenerateRequest(context.Background(), "F-1")
	if !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible with a failed row, got %v", err)
	}
	if generated {
		t.Fatal("generate must not reach upstream when a row failed")
	}
}

func TestGenerateRequestHappyPath(t *testing.T) {
	api := &upstreammock.Mock{
		FileSummaryFn: func(ctx context.Context, fileID string) (*upload.UploadedFile, error) {
			return &upload.UploadedFile{
				ID: fileID, Status: status.Validated,
				TotalRecords: 2, SuccessCount: 2, FailureCount: 0,
			}, nil
		},
		GenerateRequestFn: func(ctx context.Context, fileID string) (*receipt.WorkerReceipt, error) {
			return &receipt.WorkerReceipt{ReceiptNumber: "WR-9", FileID: fileID, TotalRecords: 2}, nil
		},
	}
	jr := &journalmock.Mock{}
	uc := NewUsecase(api, jr)

	wr, err := uc.GenerateRequest(context.Background(), "F-9")
	if err != nil {
		t.Fatalf("GenerateRequest: %v", err)
	}
	if wr.ReceiptNumber != "WR-9" {
		t.Fatalf("unexpected receipt %+v", wr)
	}
	last := jr.Last()
	if last == nil || last.ToStatus != string(status.RequestGenerated) {
		t.Fatalf("unexpected journal entry %+v", last)
	}
	if last.FromStatus != string(status.Validated) {
		t.Fatalf("FromStatus must be the fetched file status, got %q", last.FromStatus)
	}
}

func TestGenerateRequestSingleFlightPerFile(t *testing.T) {
	entered := make(chan struct{})
	unblock := make(chan struct{})
	var enteredOnce sync.Once
	api := &upstreammock.Mock{
		FileSummaryFn: func(ctx context.Context, fileID string) (*upload.UploadedFile, error) {
			enteredOnce.Do(func() { close(entered) })
			<-unblock
			return &upload.UploadedFile{
				ID: fileID, Status: status.Validated,
				TotalRecords: 1, SuccessCount: 1,
			}, nil
		},
		GenerateRequestFn: func(ctx context.Context, fileID string) (*receipt.WorkerReceipt, error) {
			return &receipt.WorkerReceipt{ReceiptNumber: "WR-1"}, nil
		},
	}
	uc := NewUsecase(api, &journalmock.Mock{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := uc.GenerateRequest(context.Background(), "F-1"); err != nil {
			t.Errorf("first call: %v", err)
		}
	}()

	<-entered
	if _, err := uc.GenerateRequest(context.Background(), "F-1"); !errors.Is(err, flight.ErrInFlight) {
		t.Fatalf("second concurrent call: expected ErrInFlight, got %v", err)
	}
	close(unblock)
	wg.Wait()

	// released: a fresh call goes through again
	if _, err := uc.GenerateRequest(context.Background(), "F-1"); err != nil {
		t.Fatalf("call after release: %v", err)
	}
}

func TestSendToEmployerSurfacesEmployerReceipt(t *testing.T) {
	api := &upstreammock.Mock{
		SendReceiptToEmployerFn: func(ctx context.Context, receiptNumber string) (string, error) {
			if receiptNumber != "WR-5" {
				t.Fatalf("unexpected receipt %q", receiptNumber)
			}
			return "ER-77", nil
		},
	}
	jr := &journalmock.Mock{}
	uc := NewUsecase(api, jr)

	got, err := uc.SendToEmployer(context.Background(), "WR-5")
	if err != nil {
		t.Fatalf("SendToEmployer: %v", err)
	}
	if got != "ER-77" {
		t.Fatalf("expected ER-77, got %q", got)
	}
	if last := jr.Last(); last == nil || !strings.Contains(last.Message, "ER-77") {
		t.Fatalf("journal should record the employer receipt, got %+v", jr.Last())
	}
}

func TestJournalFailureDoesNotFailOperation(t *testing.T) {
	api := &upstreammock.Mock{
		SendReceiptToEmployerFn: func(ctx context.Context, receiptNumber string) (string, error) {
			return "ER-1", nil
		},
	}
	jr := &journalmock.Mock{AppendErr: errors.New("db down")}
	uc := NewUsecase(api, jr)

	if _, err := uc.SendToEmployer(context.Background(), "WR-1"); err != nil {
		t.Fatalf("journal trouble must not surface: %v", err)
	}
}

func TestListFilesDecoratesActions(t *testing.T) {
	api := &upstreammock.Mock{
		ListUploadedFilesFn: func(ctx context.Context, q paging.Query) (paging.Page[upload.UploadedFile], error) {
			return paging.FromSlice([]upload.UploadedFile{
				{ID: "F-1", Status: status.Uploaded},
				{ID: "F-2", Status: status.Uploaded, NextAction: "VALIDATION_IN_PROGRESS"},
				{ID: "F-3", Status: status.Validated, TotalRecords: 2, SuccessCount: 2},
				{ID: "F-4", Status: status.Validated, TotalRecords: 3, SuccessCount: 2, FailureCount: 1},
			}), nil
		},
	}
	uc := NewUsecase(api, &journalmock.Mock{})

	page, err := uc.ListFiles(context.Background(), paging.Query{})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	byID := map[string]FileView{}
	for _, v := range page.Content {
		byID[v.ID] = v
	}
	if !byID["F-1"].CanStartValidation {
		t.Fatal("freshly uploaded file must offer start-validation")
	}
	if byID["F-2"].CanStartValidation {
		t.Fatal("file with a pending next action must not offer start-validation")
	}
	if !byID["F-3"].CanGenerateRequest {
		t.Fatal("fully validated file must offer generate-request")
	}
	if byID["F-4"].CanGenerateRequest {
		t.Fatal("file with a failed row must not offer generate-request")
	}
	if page.TotalElements != 4 {
		t.Fatalf("page metadata lost: %+v", page)
	}
}
