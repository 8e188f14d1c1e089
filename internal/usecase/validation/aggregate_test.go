package validation

import (
	"testing"

	"paychain/internal/domain/status"
	"paychain/internal/domain/upload"
)

func page(statuses ...status.Status) []upload.PaymentRecord {
	out := make([]upload.PaymentRecord, len(statuses))
	for i, s := range statuses {
		out[i] = upload.PaymentRecord{RowNumber: i + 1, Status: s}
	}
	return out
}

func TestSummarize_Counts(t *testing.T) {
	s := Summarize(page(status.Validated, status.Validated, status.Failed, status.Uploaded))
	want := Summary{Passed: 2, Failed: 1, Uploaded: 1, Total: 4}
	if s != want {
		t.Fatalf("Summarize = %+v, want %+v", s, want)
	}
}

func TestSummarize_UnknownStatusesCountOnlyTowardTotal(t *testing.T) {
	s := Summarize(page(status.Validated, status.Status("PROCESSING")))
	if s.Total != 2 || s.Passed != 1 || s.Failed != 0 || s.Uploaded != 0 {
		t.Fatalf("Summarize = %+v", s)
	}
}

func TestSummarize_EmptyPage(t *testing.T) {
	s := Summarize(nil)
	if s != (Summary{}) {
		t.Fatalf("empty page must be all zeros, got %+v", s)
	}
	if s.FileReady() {
		t.Fatal("empty page is not ready")
	}
}

func TestSummarize_CaseInsensitive(t *testing.T) {
	s := Summarize(page(status.Status("validated"), status.Status("Failed")))
	if s.Passed != 1 || s.Failed != 1 {
		t.Fatalf("Summarize = %+v", s)
	}
}

func TestSummarize_PerPageOnly(t *testing.T) {
	// two pages of the same file aggregate independently; the aggregator
	// never accumulates across invocations
	p1 := Summarize(page(status.Validated, status.Validated))
	p2 := Summarize(page(status.Failed))
	if p1.Total != 2 || p2.Total != 1 || p2.Passed != 0 {
		t.Fatalf("pages leaked into each other: %+v %+v", p1, p2)
	}
}

func TestFileReady(t *testing.T) {
	if !Summarize(page(status.Validated, status.Validated)).FileReady() {
		t.Fatal("all-validated page must be ready")
	}
	if Summarize(page(status.Validated, status.Failed)).FileReady() {
		t.Fatal("failed row must block readiness")
	}
	if Summarize(page(status.Validated, status.Uploaded)).FileReady() {
		t.Fatal("pending row must block readiness")
	}
}
