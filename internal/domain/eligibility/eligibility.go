// Package eligibility holds the pure predicates that decide which actions
// are currently legal for an entity given its own status and the statuses of
// its visible children. Predicates have no side effects and must be
// recomputed after every state-affecting network response.
package eligibility

import "paychain/internal/domain/status"

// CanValidateReceipt reports whether a worker receipt may still be validated
// by the employer. The gate is one-way: once the receipt or any visible child
// payment carries a finalized status, validation is permanently disabled.
func CanValidateReceipt(receiptStatus status.Status, childStatuses []status.Status) bool {
	if status.Finalized(receiptStatus) {
		return false
	}
	for _, cs := range childStatuses {
		if status.Finalized(cs) {
			return false
		}
	}
	return true
}

// ShowStartValidation reports whether the start-validation action should be
// offered for an uploaded file. A server-declared next action means a
// validation is already underway.
func ShowStartValidation(fileStatus status.Status, hasNextAction bool) bool {
	return fileStatus.Is(status.Uploaded) && !hasNextAction
}

// PaymentProcessingCompleted reports whether the board chain finished: the
// board receipt was processed and the employer receipt accepted. Screens use
// this to swap the reconcile action for the report link.
func PaymentProcessingCompleted(boardStatus, employerStatus status.Status) bool {
	return boardStatus.Is(status.Processed) && employerStatus.Is(status.Accepted)
}

// FileTotals are the server-reported whole-file validation counts; the
// page-scoped aggregator must not be used here.
type FileTotals struct {
	Total     int
	Validated int
	Failed    int
}

// CanGenerateRequest gates the generate action: every record of the file must
// be VALIDATED, with no FAILED or still-UPLOADED rows remaining.
func CanGenerateRequest(fileStatus status.Status, totals FileTotals) bool {
	if !fileStatus.Is(status.Validated) {
		return false
	}
	if totals.Total == 0 || totals.Failed > 0 {
		return false
	}
	return totals.Validated == totals.Total
}
