// Package validation aggregates per-record validation results into the
// pass/fail/pending counts screens display.
package validation

import (
	"paychain/internal/domain/status"
	"paychain/internal/domain/upload"
)

// Summary counts the statuses of one loaded page. It covers the current page
// only, never the full record set: callers re-invoke Summarize on every page
// change and combine with the server-reported file totals when whole-file
// statistics are needed.
type Summary struct {
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Uploaded int `json:"uploaded"`
	Total    int `json:"total"`
}

// Summarize tallies the page.
func Summarize(records []upload.PaymentRecord) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch {
		case r.Status.Is(status.Validated):
			s.Passed++
		case r.Status.Is(status.Failed):
			s.Failed++
		case r.Status.Is(status.Uploaded):
			s.Uploaded++
		}
	}
	return s
}

// FileReady reports whether the page shows no failed or pending rows. It is
// a per-page signal only; generation eligibility uses server totals.
func (s Summary) FileReady() bool {
	return s.Total > 0 && s.Failed == 0 && s.Uploaded == 0 && s.Passed == s.Total
}
