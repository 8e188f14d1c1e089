package status

import "strings"

// Status values arrive from the server in mixed case; they are stored
// canonically upper-case and compared case-insensitively at the boundary.
type Status string

const (
	Uploaded         Status = "UPLOADED"
	Validated        Status = "VALIDATED"
	Failed           Status = "FAILED"
	Rejected         Status = "REJECTED"
	RequestGenerated Status = "REQUEST_GENERATED"

	Generated        Status = "GENERATED"
	PaymentRequested Status = "PAYMENT_REQUESTED"
	PaymentInitiated Status = "PAYMENT_INITIATED"
	PaymentProcessed Status = "PAYMENT_PROCESSED"
	Cancelled        Status = "CANCELLED"

	Pending   Status = "PENDING"
	Processed Status = "PROCESSED"
	Accepted  Status = "ACCEPTED"

	Complete  Status = "COMPLETE"
	Completed Status = "COMPLETED"
)

// Canonical normalizes a raw server-reported status.
func Canonical(raw string) Status {
	return Status(strings.ToUpper(strings.TrimSpace(raw)))
}

// Is compares case-insensitively.
func (s Status) Is(other Status) bool {
	return strings.EqualFold(string(s), string(other))
}

func (s Status) String() string { return string(s) }

// finalized is the one shared list of statuses after which no further
// validation action is permitted. Every caller goes through Finalized; the
// list is deliberately not duplicated anywhere else.
var finalized = map[Status]struct{}{
	Validated: {},
	Processed: {},
	Generated: {},
	Complete:  {},
	Completed: {},
}

// Finalized reports whether s is a one-way gate: once an entity reaches a
// finalized status no server response can reopen validation for it.
func Finalized(s Status) bool {
	_, ok := finalized[Canonical(string(s))]
	return ok
}
