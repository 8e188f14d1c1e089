package board

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"paychain/internal/domain/eligibility"
	"paychain/internal/domain/journal"
	"paychain/internal/domain/paging"
	"paychain/internal/domain/receipt"
	"paychain/internal/domain/report"
	"paychain/internal/domain/status"
	"paychain/pkg/flight"
	"paychain/pkg/id"
)

var (
	ErrNotReconciled = errors.New("transaction is not reconciled; process the reconciliation first")
	ErrEmptyTxnRef   = errors.New("transaction reference is required")
)

// UpstreamAPI is the slice of the backend the board flow needs.
type UpstreamAPI interface {
	ListBoardReceipts(ctx context.Context, q paging.Query) (paging.Page[receipt.BoardReceipt], error)
	EmployerReceiptsByEmpRef(ctx context.Context, empRef string, q paging.Query) (paging.Page[receipt.EmployerReceipt], error)
	Reconcile(ctx context.Context, txnRef string, amount decimal.Decimal) (*report.ReconciliationResult, error)
	ProcessPayment(ctx context.Context, txnRef, processedBy string) (*report.Report, error)
}

type Usecase struct {
	api     UpstreamAPI
	reports report.Store
	journal journal.Repository
	flights *flight.Group

	mu        sync.Mutex
	lastRecon map[string]*report.ReconciliationResult // keyed by transaction reference
}

func NewUsecase(api UpstreamAPI, reports report.Store, jr journal.Repository) *Usecase {
	return &Usecase{
		api:       api,
		reports:   reports,
		journal:   jr,
		flights:   flight.NewGroup(),
		lastRecon: make(map[string]*report.ReconciliationResult),
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

// ReceiptView decorates a board receipt row with what the screen needs to
// pick its action: the report link when a report exists, the reconcile action
// otherwise, and whether the whole chain has completed.
type ReceiptView struct {
	receipt.BoardReceipt
	ProcessingCompleted bool `json:"processingCompleted"`
	HasReport           bool `json:"hasReport"`
}

// ListReceipts decorates each row. The employer status is fetched once per
// distinct employer reference on the page; a fetch failure leaves the chain
// flag unset rather than failing the list.
func (u *Usecase) ListReceipts(ctx context.Context, q paging.Query) (paging.Page[ReceiptView], error) {
	page, err := u.api.ListBoardReceipts(ctx, q)
	if err != nil {
		return paging.Page[ReceiptView]{}, err
	}

	empStatus := make(map[string]status.Status)
	return paging.Map(page, func(br receipt.BoardReceipt) ReceiptView {
		es, ok := empStatus[br.EmployerRef]
		if !ok {
			if ep, err := u.api.EmployerReceiptsByEmpRef(ctx, br.EmployerRef, paging.Query{Size: 1}); err == nil && len(ep.Content) > 0 {
				es = ep.Content[0].Status
			}
			empStatus[br.EmployerRef] = es
		}
		return ReceiptView{
			BoardReceipt:        br,
			ProcessingCompleted: eligibility.PaymentProcessingCompleted(br.Status, es),
			HasReport:           u.HasReport(ctx, br.TransactionReference),
		}
	}), nil
}

// LastReconciliation returns the most recent reconciliation outcome held for
// a transaction reference, or nil when none ran this session.
func (u *Usecase) LastReconciliation(txnRef string) *report.ReconciliationResult {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastRecon[txnRef]
}

// HasReport reports whether a payment report is already cached for the
// transaction reference; screens swap the reconcile action for the report
// link when it is.
func (u *Usecase) HasReport(ctx context.Context, txnRef string) bool {
	if u.reports == nil {
		return false
	}
	_, err := u.reports.Get(ctx, txnRef)
	return err == nil
}

// Reconcile matches a board receipt against its MT940 bank statement entry.
// A transport or server failure is terminal for this attempt: it is recorded
// as a FAILED outcome, never retried automatically. Single-flight per
// transaction reference.
func (u *Usecase) Reconcile(ctx context.Context, txnRef string, amount decimal.Decimal) (*report.ReconciliationResult, error) {
	if txnRef == "" {
		return nil, ErrEmptyTxnRef
	}
	release, err := u.flights.Begin("reconcile:" + txnRef)
	if err != nil {
		return nil, err
	}
	defer release()

	res, err := u.api.Reconcile(ctx, txnRef, amount)
	if err != nil {
		res = report.FailedResult(txnRef, amount, err.Error())
		u.mu.Lock()
		u.lastRecon[txnRef] = res
		u.mu.Unlock()
		u.record(ctx, &journal.Entry{
			EntityKind: "board-receipt", EntityID: txnRef, Action: "reconcile",
			ToStatus: res.Status, Outcome: journal.OutcomeFailed, Message: err.Error(),
		})
		return res, nil
	}

	u.mu.Lock()
	u.lastRecon[txnRef] = res
	u.mu.Unlock()

	outcome := journal.OutcomeSuccess
	if !res.Reconciled() {
		outcome = journal.OutcomeRejected
	}
	u.record(ctx, &journal.Entry{
		EntityKind: "board-receipt", EntityID: txnRef, Action: "reconcile",
		ToStatus: res.Status, Outcome: outcome, Message: res.Message,
	})
	return res, nil
}

// ProcessOutput is a payment report plus whether it came from the cache.
type ProcessOutput struct {
	Report *report.Report
	Cached bool
}

// ProcessPayment fetches (or re-serves) the payment report for a reconciled
// transaction. The report cache is idempotent per transaction reference:
// once a report is stored, every later call returns the stored bytes and the
// backend is not contacted again. A transaction that has not RECONCILED this
// session and has no cached report cannot be processed.
func (u *Usecase) ProcessPayment(ctx context.Context, txnRef, processedBy string) (*ProcessOutput, error) {
	if txnRef == "" {
		return nil, ErrEmptyTxnRef
	}
	release, err := u.flights.Begin("process:" + txnRef)
	if err != nil {
		return nil, err
	}
	defer release()

	if u.reports != nil {
		if cached, err := u.reports.Get(ctx, txnRef); err == nil {
			return &ProcessOutput{Report: cached, Cached: true}, nil
		} else if !errors.Is(err, report.ErrNotFound) {
			return nil, err
		}
	}

	last := u.LastReconciliation(txnRef)
	if last == nil || !last.Reconciled() {
		u.record(ctx, &journal.Entry{
			EntityKind: "board-receipt", EntityID: txnRef, Action: "process-payment",
			Outcome: journal.OutcomeRejected, Message: ErrNotReconciled.Error(), Actor: processedBy,
		})
		return nil, ErrNotReconciled
	}

	rep, err := u.api.ProcessPayment(ctx, txnRef, processedBy)
	if err != nil {
		u.record(ctx, &journal.Entry{
			EntityKind: "board-receipt", EntityID: txnRef, Action: "process-payment",
			Outcome: journal.OutcomeFailed, Message: err.Error(), Actor: processedBy,
		})
		return nil, err
	}

	out := &ProcessOutput{Report: rep}
	if u.reports != nil {
		stored, existed, err := u.reports.Put(ctx, rep)
		if err != nil {
			// the report is in hand; losing the cache write is not fatal
			log.Printf("report cache put %s: %v", txnRef, err)
		} else {
			// first-write-wins: a concurrent writer's bytes are served instead
			out.Report = stored
			out.Cached = existed
		}
	}

	u.record(ctx, &journal.Entry{
		EntityKind: "board-receipt", EntityID: txnRef, Action: "process-payment",
		Outcome: journal.OutcomeSuccess, Message: rep.FileName, Actor: processedBy,
	})
	return out, nil
}

// ReportKeys lists the transaction references with a cached report.
func (u *Usecase) ReportKeys(ctx context.Context) ([]string, error) {
	if u.reports == nil {
		return nil, nil
	}
	return u.reports.Keys(ctx)
}

// Report returns a cached payment report.
func (u *Usecase) Report(ctx context.Context, txnRef string) (*report.Report, error) {
	if u.reports == nil {
		return nil, report.ErrNotFound
	}
	return u.reports.Get(ctx, txnRef)
}
