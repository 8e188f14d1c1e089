package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"paychain/internal/adapter/upstream"
	"paychain/internal/domain/eligibility"
	"paychain/internal/domain/journal"
	"paychain/internal/domain/paging"
	"paychain/internal/domain/receipt"
	"paychain/internal/domain/status"
	"paychain/internal/domain/upload"
	"paychain/internal/usecase/validation"
	"paychain/pkg/flight"
	"paychain/pkg/id"
)

var (
	ErrDuplicateUpload  = errors.New("this file content was already uploaded in this session")
	ErrNotEligible      = errors.New("file is not fully validated; request cannot be generated")
	ErrMissingReceiptNo = errors.New("server did not return a receipt number")
)

// UpstreamAPI is the slice of the backend the worker flow needs.
type UpstreamAPI interface {
	UploadFile(ctx context.Context, filename string, content io.Reader) (*upstream.UploadResult, error)
	ValidateFile(ctx context.Context, fileID string) (*upstream.ValidateResult, error)
	FileSummary(ctx context.Context, fileID string) (*upload.UploadedFile, error)
	ListUploadedFiles(ctx context.Context, q paging.Query) (paging.Page[upload.UploadedFile], error)
	FilesByDate(ctx context.Context, date string) ([]upload.UploadedFile, error)
	ListFileRecords(ctx context.Context, fileID string, q paging.Query) (paging.Page[upload.PaymentRecord], error)
	PaymentsByReceipt(ctx context.Context, receiptNumber string, q paging.Query) (paging.Page[upload.PaymentRecord], error)
	GenerateRequest(ctx context.Context, fileID string) (*receipt.WorkerReceipt, error)
	SendReceiptToEmployer(ctx context.Context, receiptNumber string) (string, error)
}

type Usecase struct {
	api       UpstreamAPI
	journal   journal.Repository
	flights   *flight.Group
	checksums *upload.ChecksumIndex
}

func NewUsecase(api UpstreamAPI, jr journal.Repository) *Usecase {
	return &Usecase{
		api:       api,
		journal:   jr,
		flights:   flight.NewGroup(),
		checksums: upload.NewChecksumIndex(),
	}
}

// record appends to the transition journal; journal trouble never fails the
// triggering operation.
func (u *Usecase) record(ctx context.Context, e *journal.Entry) {
	if u.journal == nil {
		return
	}
	e.EntryID = id.NewID32()
	if err := u.journal.Append(ctx, e); err != nil {
		log.Printf("journal append: %v", err)
	}
}

type UploadInput struct {
	Filename   string
	Size       int64
	Content    io.ReadSeeker
	UploadedBy string
}

type UploadOutput struct {
	FileID       string `json:"fileId"`
	Filename     string `json:"filename"`
	TotalRecords int    `json:"totalRecords"`
	Message      string `json:"message"`
}

// Upload validates the batch locally (extension, size, duplicate content)
// before any network call, then posts it.
func (u *Usecase) Upload(ctx context.Context, in UploadInput) (*UploadOutput, error) {
	if err := upload.ValidateLocal(in.Filename, in.Size); err != nil {
		u.record(ctx, &journal.Entry{
			EntityKind: "uploaded-file", EntityID: in.Filename, Action: "upload",
			Outcome: journal.OutcomeRejected, Message: err.Error(), Actor: in.UploadedBy,
		})
		return nil, err
	}

	digest, err := upload.Checksum(in.Content)
	if err != nil {
		return nil, err
	}
	if prior, fresh := u.checksums.Remember(digest, in.Filename); !fresh {
		err := fmt.Errorf("%w (first seen as %q)", ErrDuplicateUpload, prior)
		u.record(ctx, &journal.Entry{
			EntityKind: "uploaded-file", EntityID: in.Filename, Action: "upload",
			Outcome: journal.OutcomeRejected, Message: err.Error(), Actor: in.UploadedBy,
		})
		return nil, err
	}
	if _, err := in.Content.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	res, err := u.api.UploadFile(ctx, in.Filename, in.Content)
	if err != nil {
		// the content never made it upstream; a manual retry must not be
		// treated as a duplicate
		u.checksums.Forget(digest)
		u.record(ctx, &journal.Entry{
			EntityKind: "uploaded-file", EntityID: in.Filename, Action: "upload",
			Outcome: journal.OutcomeFailed, Message: err.Error(), Actor: in.UploadedBy,
		})
		return nil, err
	}

	u.record(ctx, &journal.Entry{
		EntityKind: "uploaded-file", EntityID: res.FileID, Action: "upload",
		ToStatus: string(status.Uploaded), Outcome: journal.OutcomeSuccess,
		Message: res.Message, Actor: in.UploadedBy,
	})
	return &UploadOutput{
		FileID:       res.FileID,
		Filename:     in.Filename,
		TotalRecords: res.TotalRecords,
		Message:      res.Message,
	}, nil
}

// FileView decorates a file row with the actions a screen may offer for it.
// Recomputed on every authoritative read.
type FileView struct {
	upload.UploadedFile
	CanStartValidation bool `json:"canStartValidation"`
	CanGenerateRequest bool `json:"canGenerateRequest"`
}

func decorateFile(f upload.UploadedFile) FileView {
	totals := eligibility.FileTotals{
		Total:     f.TotalRecords,
		Validated: f.SuccessCount,
		Failed:    f.FailureCount,
	}
	return FileView{
		UploadedFile:       f,
		CanStartValidation: eligibility.ShowStartValidation(f.Status, f.NextAction != ""),
		CanGenerateRequest: eligibility.CanGenerateRequest(f.Status, totals),
	}
}

func (u *Usecase) ListFiles(ctx context.Context, q paging.Query) (paging.Page[FileView], error) {
	page, err := u.api.ListUploadedFiles(ctx, q)
	if err != nil {
		return paging.Page[FileView]{}, err
	}
	return paging.Map(page, decorateFile), nil
}

func (u *Usecase) FilesByDate(ctx context.Context, date string) ([]FileView, error) {
	files, err := u.api.FilesByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	views := make([]FileView, 0, len(files))
	for _, f := range files {
		views = append(views, decorateFile(f))
	}
	return views, nil
}

// RecordsPage is one page of a file's records plus its page-scoped summary.
type RecordsPage struct {
	Records paging.Page[upload.PaymentRecord] `json:"records"`
	Summary validation.Summary                `json:"summary"`
}

// FileRecords fetches one page of validation results and aggregates it. The
// summary covers this page only.
func (u *Usecase) FileRecords(ctx context.Context, fileID string, q paging.Query) (*RecordsPage, error) {
	page, err := u.api.ListFileRecords(ctx, fileID, q)
	if err != nil {
		return nil, err
	}
	return &RecordsPage{Records: page, Summary: validation.Summarize(page.Content)}, nil
}

func (u *Usecase) PaymentsByReceipt(ctx context.Context, receiptNumber string, q paging.Query) (paging.Page[upload.PaymentRecord], error) {
	return u.api.PaymentsByReceipt(ctx, receiptNumber, q)
}

// ValidateOutput bundles the targeted refresh after a validate call: the
// server acknowledgement plus the file's refreshed first record page.
type ValidateOutput struct {
	Result  *upstream.ValidateResult          `json:"result"`
	Records paging.Page[upload.PaymentRecord] `json:"records"`
	Summary validation.Summary                `json:"summary"`
}

// StartValidation requests server-side validation for a file, then refreshes
// the first page of its records. Single-flight per file id.
func (u *Usecase) StartValidation(ctx context.Context, fileID string) (*ValidateOutput, error) {
	release, err := u.flights.Begin("validate:" + fileID)
	if err != nil {
		return nil, err
	}
	defer release()

	res, err := u.api.ValidateFile(ctx, fileID)
	if err != nil {
		u.record(ctx, &journal.Entry{
			EntityKind: "uploaded-file", EntityID: fileID, Action: "validate",
			Outcome: journal.OutcomeFailed, Message: err.Error(),
		})
		return nil, err
	}

	// FromStatus stays empty: the prior status was never fetched here and
	// the journal only records what was actually observed.
	u.record(ctx, &journal.Entry{
		EntityKind: "uploaded-file", EntityID: fileID, Action: "validate",
		ToStatus: string(res.Status),
		Outcome:  journal.OutcomeSuccess, Message: res.Message,
	})

	out := &ValidateOutput{Result: res}
	page, err := u.api.ListFileRecords(ctx, fileID, paging.Query{Page: 0, Size: paging.DefaultSize})
	if err != nil {
		// the transition itself succeeded; the refresh is best-effort
		log.Printf("refresh records for file %s: %v", fileID, err)
		return out, nil
	}
	out.Records = page
	out.Summary = validation.Summarize(page.Content)
	return out, nil
}

// GenerateRequest promotes a fully validated file into a worker receipt.
// Eligibility is checked against the server-reported totals right before the
// call, and the operation is single-flight per file id.
func (u *Usecase) GenerateRequest(ctx context.Context, fileID string) (*receipt.WorkerReceipt, error) {
	release, err := u.flights.Begin("generate:" + fileID)
	if err != nil {
		return nil, err
	}
	defer release()

	file, err := u.api.FileSummary(ctx, fileID)
	if err != nil {
		return nil, err
	}
	totals := eligibility.FileTotals{
		Total:     file.TotalRecords,
		Validated: file.SuccessCount,
		Failed:    file.FailureCount,
	}
	if !eligibility.CanGenerateRequest(file.Status, totals) {
		u.record(ctx, &journal.Entry{
			EntityKind: "uploaded-file", EntityID: fileID, Action: "generate-request",
			FromStatus: string(file.Status), Outcome: journal.OutcomeRejected,
			Message: ErrNotEligible.Error(),
		})
		return nil, ErrNotEligible
	}

	wr, err := u.api.GenerateRequest(ctx, fileID)
	if err != nil {
		u.record(ctx, &journal.Entry{
			EntityKind: "uploaded-file", EntityID: fileID, Action: "generate-request",
			FromStatus: string(file.Status), Outcome: journal.OutcomeFailed, Message: err.Error(),
		})
		return nil, err
	}
	if wr.ReceiptNumber == "" {
		return nil, ErrMissingReceiptNo
	}

	u.record(ctx, &journal.Entry{
		EntityKind: "uploaded-file", EntityID: fileID, Action: "generate-request",
		FromStatus: string(file.Status), ToStatus: string(status.RequestGenerated),
		Outcome: journal.OutcomeSuccess, Message: "receipt " + wr.ReceiptNumber,
	})
	return wr, nil
}

// SendToEmployer posts a worker receipt across the chain. The returned
// employer receipt number must be surfaced to the user; it is not otherwise
// retrievable from this screen.
func (u *Usecase) SendToEmployer(ctx context.Context, receiptNumber string) (string, error) {
	release, err := u.flights.Begin("send:" + receiptNumber)
	if err != nil {
		return "", err
	}
	defer release()

	employerReceiptNumber, err := u.api.SendReceiptToEmployer(ctx, receiptNumber)
	if err != nil {
		u.record(ctx, &journal.Entry{
			EntityKind: "worker-receipt", EntityID: receiptNumber, Action: "send-to-employer",
			Outcome: journal.OutcomeFailed, Message: err.Error(),
		})
		return "", err
	}

	u.record(ctx, &journal.Entry{
		EntityKind: "worker-receipt", EntityID: receiptNumber, Action: "send-to-employer",
		ToStatus: string(status.PaymentRequested),
		Outcome: journal.OutcomeSuccess, Message: "employer receipt " + employerReceiptNumber,
	})
	return employerReceiptNumber, nil
}
