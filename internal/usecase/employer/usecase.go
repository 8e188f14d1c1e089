package employer

import (
	"context"
	"errors"
	"log"
	"sync"

	"paychain/internal/domain/eligibility"
	"paychain/internal/domain/journal"
	"paychain/internal/domain/paging"
	"paychain/internal/domain/receipt"
	"paychain/internal/domain/status"
	"paychain/internal/domain/upload"
	"paychain/pkg/flight"
	"paychain/pkg/id"
)

var (
	ErrAlreadyFinalized = errors.New("receipt or one of its payments is already finalized")
	ErrMissingReceiptNo = errors.New("server did not return an employer receipt number")
)

// UpstreamAPI is the slice of the backend the employer flow needs.
type UpstreamAPI interface {
	ListEmployerReceipts(ctx context.Context, q paging.Query) (paging.Page[receipt.EmployerReceipt], error)
	EmployerReceiptsByEmpRef(ctx context.Context, empRef string, q paging.Query) (paging.Page[receipt.EmployerReceipt], error)
	PaymentsByReceipt(ctx context.Context, receiptNumber string, q paging.Query) (paging.Page[upload.PaymentRecord], error)
	ValidateWorkerReceipt(ctx context.Context, workerReceiptNumber, transactionReference, validatedBy string) (string, error)
}

type Usecase struct {
	api     UpstreamAPI
	journal journal.Repository
	flights *flight.Group

	mu       sync.Mutex
	overlays map[string]*status.Overlay // keyed by worker receipt number
}

func NewUsecase(api UpstreamAPI, jr journal.Repository) *Usecase {
	return &Usecase{
		api:      api,
		journal:  jr,
		flights:  flight.NewGroup(),
		overlays: make(map[string]*status.Overlay),
	}
}

func (u *Usecase) record(ctx context.Context, e *journal.Entry) {
	if u.journal == nil {
		return
	}
	e.EntryID = id.NewID32()
	if err := u.journal.Append(ctx, e); err != nil {
		log.Printf("journal append: %v", err)
	}
}

// resolve applies an authoritative status to any overlay held for the
// receipt. The server value wins and the overlay is discarded.
func (u *Usecase) resolve(receiptNumber string, authoritative status.Status) status.Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	o, ok := u.overlays[receiptNumber]
	if !ok {
		return status.Canonical(string(authoritative))
	}
	delete(u.overlays, receiptNumber)
	return o.Resolve(authoritative)
}

func (u *Usecase) mark(receiptNumber string, s status.Status) {
	u.mu.Lock()
	defer u.mu.Unlock()
	o, ok := u.overlays[receiptNumber]
	if !ok {
		o = &status.Overlay{}
		u.overlays[receiptNumber] = o
	}
	o.Mark(s)
}

// DisplayStatus returns the status a screen should show for a worker receipt
// right now: the optimistic value while a validate is in flight with no
// refreshed read yet, the authoritative one otherwise.
func (u *Usecase) DisplayStatus(workerReceiptNumber string, authoritative status.Status) status.Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	if o, ok := u.overlays[workerReceiptNumber]; ok {
		return o.View(authoritative)
	}
	return status.Canonical(string(authoritative))
}

// ListReceipts returns a page of employer receipts. Every row in the page is
// an authoritative read, so matching overlays are resolved and cleared.
func (u *Usecase) ListReceipts(ctx context.Context, q paging.Query) (paging.Page[receipt.EmployerReceipt], error) {
	page, err := u.api.ListEmployerReceipts(ctx, q)
	if err != nil {
		return paging.Page[receipt.EmployerReceipt]{}, err
	}
	for i := range page.Content {
		page.Content[i].Status = u.resolve(page.Content[i].WorkerReceiptNumber, page.Content[i].Status)
	}
	return page, nil
}

// ReceiptsByEmployer filters receipts by employer reference server-side.
func (u *Usecase) ReceiptsByEmployer(ctx context.Context, empRef string, q paging.Query) (paging.Page[receipt.EmployerReceipt], error) {
	page, err := u.api.EmployerReceiptsByEmpRef(ctx, empRef, q)
	if err != nil {
		return paging.Page[receipt.EmployerReceipt]{}, err
	}
	for i := range page.Content {
		page.Content[i].Status = u.resolve(page.Content[i].WorkerReceiptNumber, page.Content[i].Status)
	}
	return page, nil
}

// ReceiptPayments lists the individual payments behind a worker receipt.
func (u *Usecase) ReceiptPayments(ctx context.Context, workerReceiptNumber string, q paging.Query) (paging.Page[upload.PaymentRecord], error) {
	return u.api.PaymentsByReceipt(ctx, workerReceiptNumber, q)
}

type ValidateInput struct {
	WorkerReceiptNumber  string        `json:"workerReceiptNumber" validate:"required"`
	TransactionReference string        `json:"transactionReference" validate:"required"`
	ValidatedBy          string        `json:"validatedBy" validate:"required"`
	ReceiptStatus        status.Status `json:"receiptStatus"`
}

// ValidateReceipt runs the employer validation for a worker receipt. The
// one-way gate is re-checked against fresh child statuses immediately before
// the call: a finalized receipt, or any finalized payment under it, blocks
// validation permanently. Single-flight per worker receipt number.
func (u *Usecase) ValidateReceipt(ctx context.Context, in ValidateInput) (string, error) {
	release, err := u.flights.Begin("validate-receipt:" + in.WorkerReceiptNumber)
	if err != nil {
		return "", err
	}
	defer release()

	payments, err := u.api.PaymentsByReceipt(ctx, in.WorkerReceiptNumber, paging.Query{Size: paging.MaxSize})
	if err != nil {
		return "", err
	}
	children := make([]status.Status, 0, len(payments.Content))
	for _, p := range payments.Content {
		children = append(children, p.Status)
	}
	if !eligibility.CanValidateReceipt(in.ReceiptStatus, children) {
		u.record(ctx, &journal.Entry{
			EntityKind: "worker-receipt", EntityID: in.WorkerReceiptNumber, Action: "employer-validate",
			FromStatus: string(in.ReceiptStatus), Outcome: journal.OutcomeRejected,
			Message: ErrAlreadyFinalized.Error(), Actor: in.ValidatedBy,
		})
		return "", ErrAlreadyFinalized
	}

	employerReceiptNumber, err := u.api.ValidateWorkerReceipt(ctx, in.WorkerReceiptNumber, in.TransactionReference, in.ValidatedBy)
	if err != nil {
		u.record(ctx, &journal.Entry{
			EntityKind: "worker-receipt", EntityID: in.WorkerReceiptNumber, Action: "employer-validate",
			FromStatus: string(in.ReceiptStatus), Outcome: journal.OutcomeFailed,
			Message: err.Error(), Actor: in.ValidatedBy,
		})
		return "", err
	}
	if employerReceiptNumber == "" {
		return "", ErrMissingReceiptNo
	}

	u.mark(in.WorkerReceiptNumber, status.Validated)
	u.record(ctx, &journal.Entry{
		EntityKind: "worker-receipt", EntityID: in.WorkerReceiptNumber, Action: "employer-validate",
		FromStatus: string(in.ReceiptStatus), ToStatus: string(status.Validated),
		Outcome: journal.OutcomeSuccess,
		Message: "employer receipt " + employerReceiptNumber, Actor: in.ValidatedBy,
	})
	return employerReceiptNumber, nil
}
